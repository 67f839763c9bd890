package errors

import "errors"

// Extraction errors
var (
	ErrEmptyTranscript    = errors.New("transcript is empty")
	ErrTranscriptTooLarge = errors.New("transcript exceeds size limit")
	ErrInvalidRunID       = errors.New("invalid run id")
	ErrRunNotFound        = errors.New("run not found")
)

// Integration errors
var (
	ErrEmptyCompletion   = errors.New("empty completion from text generation service")
	ErrPromptUnavailable = errors.New("system prompt unavailable")
	ErrCacheUnavailable  = errors.New("result cache unavailable")
)
