package backend

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Kind classifies a failed upstream call. Callers branch on the kind, never
// on raw status codes.
type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindValidation   Kind = "validation"
	KindConflict     Kind = "conflict"
	KindUnauthorized Kind = "unauthorized"
	KindUnknown      Kind = "unknown"
)

type Error struct {
	Kind    Kind
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream %s (status %d)", e.Kind, e.Status)
	}
	return fmt.Sprintf("upstream %s (status %d): %s", e.Kind, e.Status, e.Message)
}

func kindFromStatus(status int) Kind {
	switch status {
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusConflict:
		return KindConflict
	case http.StatusUnauthorized:
		return KindUnauthorized
	default:
		return KindUnknown
	}
}

// KindOf returns KindUnknown for transport failures and non-backend errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == KindNotFound
}

func IsUnauthorized(err error) bool {
	return err != nil && KindOf(err) == KindUnauthorized
}

// MessageOf returns the upstream message, or fallback when there is none.
func MessageOf(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}
