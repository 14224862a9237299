package api

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/yakoovad/club-portal/internal/service"
)

func ProcessRequest[T any](e echo.Context, req *T, steps ...func(echo.Context, *T) error) error {
	for _, step := range steps {
		if err := step(e, req); err != nil {
			return err
		}
	}
	return nil
}

func bindBody[T any](e echo.Context, req *T) error {
	if err := e.Bind(req); err != nil {
		return service.NewError(service.ErrorCodeInvalidBody, "잘못된 요청입니다.")
	}
	return nil
}

func validateBody[T any](e echo.Context, req *T) error {
	if err := e.Validate(req); err != nil {
		return service.NewError(service.ErrorCodeInvalidBody, validationMessage(err))
	}
	return nil
}

// decodeRequest binds and validates req. The returned error is always a
// service error.
func decodeRequest[T any](e echo.Context, req *T) *service.Error {
	err := ProcessRequest(e, req, bindBody[T], validateBody[T])
	if err == nil {
		return nil
	}
	var serr *service.Error
	if errors.As(err, &serr) {
		return serr
	}
	return service.NewError(service.ErrorCodeInvalidBody, "잘못된 요청입니다.")
}
