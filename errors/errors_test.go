package errors

import (
	"encoding/json"
	stdErrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	assert.Equal(t, "[EXTRACTION_EMPTY_TRANSCRIPT] Transcript is empty", ErrEmptyTranscript().Error())

	cause := stdErrors.New("dial tcp: refused")
	err := ErrCacheFailed("get", cause)
	assert.Equal(t, "[INTEGRATION_CACHE_FAILED] Cache operation failed: get: dial tcp: refused", err.Error())
	assert.True(t, stdErrors.Is(err, cause))
}

func TestAppError_Details(t *testing.T) {
	err := ErrRunNotFound("abc").WithDetails(map[string]string{"hint": "expired"})
	assert.Equal(t, http.StatusNotFound, err.HTTPCode)
	assert.Equal(t, map[string]string{"run_id": "abc", "hint": "expired"}, err.Details)
}

func TestErrorCode_JSON(t *testing.T) {
	b, err := json.Marshal(map[string]ErrorCode{"code": ErrorCode_NOT_FOUND})
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":"NOT_FOUND"}`, string(b))
	assert.Equal(t, "UNKNOWN", ErrorCode(42).String())
}
