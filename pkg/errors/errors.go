package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// Load-time failures. Any of these aborts startup; they are never
	// surfaced on the query path.
	ErrCorpusNotFound  = errors.New("corpus file not found")
	ErrCorpusMalformed = errors.New("corpus record malformed")
	ErrCorpusInvalid   = errors.New("corpus internally inconsistent")

	// Query-time failures, returned as values to the caller.
	ErrSynsetNotFound  = errors.New("synset not found")
	ErrInvalidArgument = errors.New("invalid argument")

	ErrInternal = errors.New("internal error")
	ErrTimeout  = errors.New("operation timed out")
)

type AppError struct {
	Err        error
	Message    string
	StatusCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, statusCode int, message string) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    message,
		StatusCode: statusCode,
	}
}

func Newf(sentinel error, statusCode int, format string, args ...any) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: statusCode,
	}
}

// IsLoadError reports whether err belongs to the load-time failure class.
func IsLoadError(err error) bool {
	return errors.Is(err, ErrCorpusNotFound) ||
		errors.Is(err, ErrCorpusMalformed) ||
		errors.Is(err, ErrCorpusInvalid)
}

func HTTPStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, ErrSynsetNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ErrTimeout):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
