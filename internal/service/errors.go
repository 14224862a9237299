package service

import (
	"github.com/yakoovad/club-portal/internal/backend"
)

type ErrorCode string

const (
	ErrorCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrorCodeValidation   ErrorCode = "VALIDATION"
	ErrorCodeInvalidBody  ErrorCode = "INVALID_BODY"
	ErrorCodeConflict     ErrorCode = "CONFLICT"
	ErrorCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrorCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrorCodeNoTeam       ErrorCode = "NO_TEAM"
	ErrorCodeInFlight     ErrorCode = "IN_FLIGHT"
	ErrorCodeUnspecified  ErrorCode = "UNSPECIFIED"
)

type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

func (e *Error) Error() string {
	return e.Message
}

// fromBackend maps an upstream failure to a service error carrying the
// upstream message, or fallback when upstream sent none.
func fromBackend(err error, fallback string) *Error {
	msg := backend.MessageOf(err, fallback)

	switch backend.KindOf(err) {
	case backend.KindNotFound:
		return NewError(ErrorCodeNotFound, msg)
	case backend.KindValidation:
		return NewError(ErrorCodeValidation, msg)
	case backend.KindConflict:
		return NewError(ErrorCodeConflict, msg)
	case backend.KindUnauthorized:
		return NewError(ErrorCodeUnauthorized, "로그인이 필요합니다.")
	default:
		return NewError(ErrorCodeUnspecified, msg)
	}
}

var (
	errForbidden = NewError(ErrorCodeForbidden, "권한이 없습니다.")
	errNoTeam    = NewError(ErrorCodeNoTeam, "소속된 팀이 없습니다.")
)
