package api

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/yakoovad/club-portal/internal/model"
)

type requestValidator struct {
	validate *validator.Validate
}

// NewValidator returns the echo validator with the portal's custom tags:
// phone (010-XXXX-XXXX) and position (GK, DF, MF, FW).
func NewValidator() echo.Validator {
	v := validator.New()

	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return model.ValidPhone(fl.Field().String())
	})
	_ = v.RegisterValidation("position", func(fl validator.FieldLevel) bool {
		return model.Position(fl.Field().String()).Valid()
	})

	return &requestValidator{validate: v}
}

func (r *requestValidator) Validate(i any) error {
	return r.validate.Struct(i)
}

// validationMessage turns the first failed rule into a message the
// portal can show as is.
func validationMessage(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return errors.Wrap(err, "request validation failed").Error()
	}

	fe := ve[0]
	switch fe.Tag() {
	case "phone":
		return "전화번호 형식이 올바르지 않습니다. (010-XXXX-XXXX)"
	case "position":
		return "올바르지 않은 포지션입니다."
	case "required":
		return fmt.Sprintf("%s 항목은 필수입니다.", fe.Field())
	case "email":
		return "이메일 형식이 올바르지 않습니다."
	case "min":
		return fmt.Sprintf("%s 항목이 너무 짧습니다.", fe.Field())
	default:
		return fmt.Sprintf("Field validation for '%s' failed on the '%s' tag", fe.Field(), fe.Tag())
	}
}
