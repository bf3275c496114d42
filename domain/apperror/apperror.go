package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error into the service's taxonomy.
type Kind string

const (
	// KindUnauthorized covers missing/invalid sessions and inactive profiles.
	KindUnauthorized Kind = "unauthorized"
	// KindForbidden covers authenticated callers with insufficient role and
	// blocked self-actions.
	KindForbidden Kind = "forbidden"
	// KindNotFound covers absent records. Authorization failures must never
	// degrade to NotFound: the two are deliberately distinct so denials do
	// not leak record existence.
	KindNotFound        Kind = "not_found"
	KindInvalidArgument Kind = "invalid_argument"
	KindConflict        Kind = "conflict"
	// KindTransient covers network/backend failures that are safe to retry.
	KindTransient Kind = "transient"
)

// Error is a structured application error carrying a taxonomy kind.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches two errors by kind, so sentinel-style comparisons work with
// errors.Is without comparing messages.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func Unauthorized(message string) *Error {
	return New(KindUnauthorized, message)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, message)
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func InvalidArgument(message string) *Error {
	return New(KindInvalidArgument, message)
}

func Conflict(message string) *Error {
	return New(KindConflict, message)
}

func Transient(message string, cause error) *Error {
	return Wrap(KindTransient, message, cause)
}

// KindOf extracts the kind from err, or KindTransient for unclassified errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindTransient
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps an error kind to its HTTP status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidArgument:
		return http.StatusUnprocessableEntity
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
