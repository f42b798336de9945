package models

import (
	"errors"
	"fmt"
)

// Error codes used in CLI reporting and internal error handling.
const (
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeHTTPStatus    = "FETCH_HTTP_STATUS"
	ErrCodeNetwork       = "FETCH_NETWORK"
	ErrCodeFetchInternal = "FETCH_INTERNAL"
	ErrCodeExtraction    = "EXTRACTION_FAILED"
	ErrCodeSink          = "SINK_FAILED"
)

// ScrapeError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type ScrapeError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// NewScrapeError creates a new ScrapeError.
func NewScrapeError(code, message string, err error) *ScrapeError {
	return &ScrapeError{Code: code, Message: message, Err: err}
}

// ErrorCode returns the ScrapeError code embedded anywhere in err's chain,
// or the empty string when there is none.
func ErrorCode(err error) string {
	var se *ScrapeError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}
