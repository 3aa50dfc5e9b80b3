package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Base error kinds. Every failure crossing the usecase boundary wraps exactly one of these.
var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrAnalysisFailed       = errors.New("analysis failed")
	ErrPersistenceFailed    = errors.New("persistence failed")
	ErrNotFound             = errors.New("not found")
)

// Error carries the operation that failed, its kind and an optional cause.
type Error struct {
	Op     string
	Kind   error
	Detail string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s (op:%s)", e.Kind, e.Op)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the kind of e, so errors.Is(err, ErrNotFound) works
// regardless of the wrapped cause.
func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func newError(kind error, op, detail string, cause error) error {
	return &Error{Op: op, Kind: kind, Detail: detail, Err: cause}
}

func InvalidInput(op, detail string) error {
	return newError(ErrInvalidInput, op, detail, nil)
}

func UnsupportedMediaType(op, mediaType string) error {
	return newError(ErrUnsupportedMediaType, op, mediaType, nil)
}

func AnalysisFailed(op, detail string, cause error) error {
	return newError(ErrAnalysisFailed, op, detail, cause)
}

func PersistenceFailed(op string, cause error) error {
	return newError(ErrPersistenceFailed, op, "", cause)
}

func NotFound(op, detail string) error {
	return newError(ErrNotFound, op, detail, nil)
}

// KindOf returns the base kind of err, or nil when err is not an *Error.
func KindOf(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return nil
}

// KindName is the machine-readable kind sent to clients.
func KindName(err error) string {
	switch KindOf(err) {
	case ErrInvalidInput:
		return "invalid_input"
	case ErrUnsupportedMediaType:
		return "unsupported_media_type"
	case ErrAnalysisFailed:
		return "analysis_failed"
	case ErrPersistenceFailed:
		return "persistence_failed"
	case ErrNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

func StatusCode(err error) int {
	switch KindOf(err) {
	case ErrInvalidInput, ErrUnsupportedMediaType:
		return http.StatusBadRequest
	case ErrNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the generic client message for err. For input errors the detail is
// written by this codebase and safe to expose; everything else is fixed text.
func PublicMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return "Internal Server Error"
	}
	switch e.Kind {
	case ErrInvalidInput:
		if e.Detail != "" {
			return e.Detail
		}
		return "Invalid request"
	case ErrUnsupportedMediaType:
		return "Unsupported file type. Please upload a PDF or TXT file"
	case ErrNotFound:
		return "Resume not found"
	case ErrAnalysisFailed:
		return "Failed to analyze resume"
	case ErrPersistenceFailed:
		return "Failed to access resume history"
	default:
		return "Internal Server Error"
	}
}
