package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/bedrockruntime"
	"github.com/aws/aws-sdk-go/service/bedrockruntime/bedrockruntimeiface"
	"golang.org/x/time/rate"

	"github.com/johnquangdev/followupsync/pkg/config"
)

// AnthropicBedrockVersion is the API version Claude models expect on Bedrock
const AnthropicBedrockVersion = "bedrock-2023-05-31"

// BodyFormat is the request/response schema a Bedrock model speaks
type BodyFormat int

const (
	// FormatMessages is the flat system + messages schema of Anthropic models
	FormatMessages BodyFormat = iota
	// FormatContentBlocks is the content-block schema of Amazon Nova models
	FormatContentBlocks
)

// FormatForModel picks the body schema from a model id
func FormatForModel(modelID string) BodyFormat {
	if strings.Contains(strings.ToLower(modelID), "nova") {
		return FormatContentBlocks
	}
	return FormatMessages
}

// BedrockClient invokes text models on AWS Bedrock runtime
type BedrockClient struct {
	api       bedrockruntimeiface.BedrockRuntimeAPI
	modelID   string
	format    BodyFormat
	maxTokens int
	limiter   *rate.Limiter
}

// NewBedrockClient builds a session from config, falling back to the
// default AWS credential chain when no static keys are given
func NewBedrockClient(cfg *config.BedrockConfig) (*BedrockClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bedrock config is required")
	}

	awsCfg := &aws.Config{Region: aws.String(cfg.Region)}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	return NewBedrockClientWithAPI(bedrockruntime.New(sess), cfg), nil
}

// NewBedrockClientWithAPI wraps an existing runtime client
func NewBedrockClientWithAPI(api bedrockruntimeiface.BedrockRuntimeAPI, cfg *config.BedrockConfig) *BedrockClient {
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &BedrockClient{
		api:       api,
		modelID:   cfg.ModelID,
		format:    FormatForModel(cfg.ModelID),
		maxTokens: maxTokens,
		limiter:   newLimiter(cfg.RateLimit),
	}
}

// Name identifies the provider in logs and metrics
func (b *BedrockClient) Name() string {
	return "bedrock"
}

// ModelID returns the configured model
func (b *BedrockClient) ModelID() string {
	return b.modelID
}

type novaRequest struct {
	Messages        []novaMessage       `json:"messages"`
	InferenceConfig novaInferenceConfig `json:"inferenceConfig"`
}

type novaMessage struct {
	Role    string      `json:"role"`
	Content []novaBlock `json:"content"`
}

type novaBlock struct {
	Text string `json:"text"`
}

type novaInferenceConfig struct {
	MaxTokens int `json:"maxTokens"`
}

type novaResponse struct {
	Output struct {
		Message struct {
			Content []novaBlock `json:"content"`
		} `json:"message"`
	} `json:"output"`
}

type anthropicRequest struct {
	AnthropicVersion string        `json:"anthropic_version"`
	MaxTokens        int           `json:"max_tokens"`
	System           string        `json:"system"`
	Messages         []ChatMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// buildBody encodes the prompt in the model's schema
func (b *BedrockClient) buildBody(p Prompt) ([]byte, error) {
	if b.format == FormatContentBlocks {
		return json.Marshal(novaRequest{
			Messages: []novaMessage{{
				Role:    "user",
				Content: []novaBlock{{Text: p.Combined()}},
			}},
			InferenceConfig: novaInferenceConfig{MaxTokens: b.maxTokens},
		})
	}
	return json.Marshal(anthropicRequest{
		AnthropicVersion: AnthropicBedrockVersion,
		MaxTokens:        b.maxTokens,
		System:           p.System,
		Messages:         []ChatMessage{{Role: "user", Content: p.UserMessage()}},
	})
}

// parseBody pulls the first text block out of a model reply
func (b *BedrockClient) parseBody(body []byte) (string, error) {
	if b.format == FormatContentBlocks {
		var r novaResponse
		if err := json.Unmarshal(body, &r); err != nil {
			return "", fmt.Errorf("failed to decode bedrock response: %w", err)
		}
		if len(r.Output.Message.Content) == 0 {
			return "", fmt.Errorf("empty response from bedrock")
		}
		return r.Output.Message.Content[0].Text, nil
	}

	var r anthropicResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return "", fmt.Errorf("failed to decode bedrock response: %w", err)
	}
	if len(r.Content) == 0 {
		return "", fmt.Errorf("empty response from bedrock")
	}
	return r.Content[0].Text, nil
}

// Generate invokes the model once and returns its text
func (b *BedrockClient) Generate(ctx context.Context, p Prompt) (string, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("bedrock rate limiter: %w", err)
	}

	body, err := b.buildBody(p)
	if err != nil {
		return "", err
	}

	out, err := b.api.InvokeModelWithContext(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(b.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		var reqErr awserr.RequestFailure
		if errors.As(err, &reqErr) {
			return "", &StatusError{Provider: b.Name(), StatusCode: reqErr.StatusCode(), Body: reqErr.Message()}
		}
		return "", fmt.Errorf("bedrock invoke failed: %w", err)
	}

	text, err := b.parseBody(out.Body)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty response from bedrock")
	}
	return text, nil
}
