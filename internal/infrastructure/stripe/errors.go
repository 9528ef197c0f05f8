package stripe

import (
	"errors"
	"fmt"
	"net/http"
)

// ProcessorError is a non-2xx answer from the processor API.
type ProcessorError struct {
	Type       string
	Code       string
	Message    string
	StatusCode int
}

type processorErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (e *ProcessorError) Error() string {
	return fmt.Sprintf("processor error [%s/%s]: %s (status: %d)", e.Type, e.Code, e.Message, e.StatusCode)
}

func (e *ProcessorError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

func IsProcessorError(err error) (*ProcessorError, bool) {
	var procErr *ProcessorError
	ok := errors.As(err, &procErr)
	return procErr, ok
}
