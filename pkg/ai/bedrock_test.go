package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/bedrockruntime"
	"github.com/aws/aws-sdk-go/service/bedrockruntime/bedrockruntimeiface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/followupsync/pkg/config"
)

type stubRuntime struct {
	bedrockruntimeiface.BedrockRuntimeAPI

	input *bedrockruntime.InvokeModelInput
	reply []byte
	err   error
}

func (s *stubRuntime) InvokeModelWithContext(_ aws.Context, in *bedrockruntime.InvokeModelInput, _ ...request.Option) (*bedrockruntime.InvokeModelOutput, error) {
	s.input = in
	if s.err != nil {
		return nil, s.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: s.reply}, nil
}

func TestFormatForModel(t *testing.T) {
	assert.Equal(t, FormatContentBlocks, FormatForModel("amazon.nova-micro-v1:0"))
	assert.Equal(t, FormatContentBlocks, FormatForModel("us.amazon.Nova-Lite-v1:0"))
	assert.Equal(t, FormatMessages, FormatForModel("anthropic.claude-3-haiku-20240307-v1:0"))
}

func TestBedrockGenerate_Nova(t *testing.T) {
	stub := &stubRuntime{reply: []byte(`{"output":{"message":{"role":"assistant","content":[{"text":"{\"risks\":[]}"}]}}}`)}
	client := NewBedrockClientWithAPI(stub, &config.BedrockConfig{ModelID: "amazon.nova-micro-v1:0", MaxTokens: 4000})

	out, err := client.Generate(context.Background(), Prompt{System: "SYS", Transcript: "notes"})
	require.NoError(t, err)
	assert.Equal(t, `{"risks":[]}`, out)

	require.NotNil(t, stub.input)
	assert.Equal(t, "amazon.nova-micro-v1:0", aws.StringValue(stub.input.ModelId))
	assert.Equal(t, "application/json", aws.StringValue(stub.input.ContentType))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(stub.input.Body, &body))
	assert.JSONEq(t, `{
		"messages": [{"role": "user", "content": [{"text": "SYS\n\nExtract from this transcript:\n\nnotes"}]}],
		"inferenceConfig": {"maxTokens": 4000}
	}`, string(stub.input.Body))
}

func TestBedrockGenerate_Claude(t *testing.T) {
	stub := &stubRuntime{reply: []byte(`{"content":[{"type":"text","text":"ok"}]}`)}
	client := NewBedrockClientWithAPI(stub, &config.BedrockConfig{ModelID: "anthropic.claude-3-haiku-20240307-v1:0"})

	out, err := client.Generate(context.Background(), Prompt{System: "SYS", Transcript: "notes"})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)

	assert.JSONEq(t, `{
		"anthropic_version": "bedrock-2023-05-31",
		"max_tokens": 4000,
		"system": "SYS",
		"messages": [{"role": "user", "content": "Extract from this transcript:\n\nnotes"}]
	}`, string(stub.input.Body))
}

func TestBedrockGenerate_Errors(t *testing.T) {
	cfg := &config.BedrockConfig{ModelID: "amazon.nova-micro-v1:0"}

	throttled := awserr.NewRequestFailure(awserr.New("ThrottlingException", "too many requests", nil), http.StatusTooManyRequests, "req-1")
	_, err := NewBedrockClientWithAPI(&stubRuntime{err: throttled}, cfg).Generate(context.Background(), Prompt{})
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)

	_, err = NewBedrockClientWithAPI(&stubRuntime{reply: []byte(`{"output":{"message":{"content":[]}}}`)}, cfg).Generate(context.Background(), Prompt{})
	assert.Error(t, err)

	_, err = NewBedrockClientWithAPI(&stubRuntime{reply: []byte(`not json`)}, cfg).Generate(context.Background(), Prompt{})
	assert.Error(t, err)
}
