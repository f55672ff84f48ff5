package lifegrid

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure for the (out-of-scope) HTTP/WS boundary,
// per the error taxonomy: InvalidInput, NotFound, BackendUnavailable,
// CacheUnavailable, ComputeError, Unknown.
type ErrorKind int

const (
	Unknown ErrorKind = iota
	InvalidInput
	NotFound
	BackendUnavailable
	CacheUnavailable
	ComputeError
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidInput:
		return "InvalidInput"
	case NotFound:
		return "NotFound"
	case BackendUnavailable:
		return "BackendUnavailable"
	case CacheUnavailable:
		return "CacheUnavailable"
	case ComputeError:
		return "ComputeError"
	default:
		return "Unknown"
	}
}

// kindError pairs a classification with a human-readable message, mirroring
// the teacher's practice of wrapping a plain error with gin-facing context
// at the boundary, except centralised here so both the HTTP and streaming
// boundaries can share it.
type kindError struct {
	kind ErrorKind
	msg  string
	err  error
}

func (e *kindError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *kindError) Unwrap() error { return e.err }

// NewError builds a classified error. wrapped may be nil.
func NewError(kind ErrorKind, msg string, wrapped error) error {
	return &kindError{kind: kind, msg: msg, err: wrapped}
}

// Classify reports the ErrorKind for any error produced by this module's
// components. Errors that were never classified (programming errors,
// corrupted state) fall through to Unknown, matching the "unexpected
// conditions propagate to the boundary" policy in the error-handling design.
func Classify(err error) ErrorKind {
	if err == nil {
		return Unknown
	}
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.kind
	}
	return Unknown
}

// Sentinel errors for the cases components need to compare against directly
// rather than classify after the fact.
var (
	ErrInvalidInput       = NewError(InvalidInput, "invalid input", nil)
	ErrBoardNotFound      = NewError(NotFound, "board not found", nil)
	ErrBackendUnavailable = NewError(BackendUnavailable, "durable backend unavailable", nil)
	ErrCacheUnavailable   = NewError(CacheUnavailable, "shared cache unavailable", nil)
	ErrComputeFailed      = NewError(ComputeError, "compute failure", nil)
)
