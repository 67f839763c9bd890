package errors

// ErrorCode identifies an application error class in API responses
type ErrorCode int32

const (
	ErrorCode_HTTP_OK          ErrorCode = 200
	ErrorCode_INTERNAL         ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT ErrorCode = 1001
	ErrorCode_NOT_FOUND        ErrorCode = 1002
	ErrorCode_INVALID_PAYLOAD  ErrorCode = 1003
	ErrorCode_RATE_LIMITED     ErrorCode = 1004

	ErrorCode_EXTRACTION_EMPTY_TRANSCRIPT ErrorCode = 2000
	ErrorCode_EXTRACTION_TOO_LARGE        ErrorCode = 2001
	ErrorCode_EXTRACTION_INVALID_RUN_ID   ErrorCode = 2002
	ErrorCode_EXTRACTION_RUN_NOT_FOUND    ErrorCode = 2003
	ErrorCode_EXTRACTION_FAILED           ErrorCode = 2004

	ErrorCode_INTEGRATION_CACHE_FAILED ErrorCode = 3000
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                     "HTTP_OK",
	ErrorCode_INTERNAL:                    "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:            "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                   "NOT_FOUND",
	ErrorCode_INVALID_PAYLOAD:             "INVALID_PAYLOAD",
	ErrorCode_RATE_LIMITED:                "RATE_LIMITED",
	ErrorCode_EXTRACTION_EMPTY_TRANSCRIPT: "EXTRACTION_EMPTY_TRANSCRIPT",
	ErrorCode_EXTRACTION_TOO_LARGE:        "EXTRACTION_TOO_LARGE",
	ErrorCode_EXTRACTION_INVALID_RUN_ID:   "EXTRACTION_INVALID_RUN_ID",
	ErrorCode_EXTRACTION_RUN_NOT_FOUND:    "EXTRACTION_RUN_NOT_FOUND",
	ErrorCode_EXTRACTION_FAILED:           "EXTRACTION_FAILED",
	ErrorCode_INTEGRATION_CACHE_FAILED:    "INTEGRATION_CACHE_FAILED",
}

func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}

// MarshalText makes codes render by name in JSON bodies and logs
func (c ErrorCode) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
