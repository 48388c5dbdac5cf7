package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "propertyhub/internal/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report json names so messages match what callers sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validator returns the shared validator used for models and request payloads.
func Validator() *validator.Validate {
	return validate
}

// Validate checks struct tags and returns an InvalidInput error describing the first failure.
func Validate(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		return ValidationError(err)
	}
	return nil
}

// ValidationError converts validator output into an InvalidInput error.
func ValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperrors.InvalidInput(err.Error())
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return apperrors.InvalidInput(fmt.Sprintf("%s is required", fe.Field()))
	case "oneof":
		return apperrors.InvalidInput(fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param()))
	case "email":
		return apperrors.InvalidInput(fmt.Sprintf("%s must be a valid email", fe.Field()))
	case "min", "gte":
		return apperrors.InvalidInput(fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
	case "max", "lte":
		return apperrors.InvalidInput(fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param()))
	default:
		return apperrors.InvalidInput(fmt.Sprintf("%s is invalid", fe.Field()))
	}
}
