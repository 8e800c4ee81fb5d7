package utils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	pkgerrors "github.com/eykd/prosemark-sub000/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// nodeid accepts a UUIDv7 in any form uuid.Parse understands
	_ = v.RegisterValidation("nodeid", func(fl validator.FieldLevel) bool {
		parsed, err := uuid.Parse(fl.Field().String())
		return err == nil && parsed.Version() == 7
	})
	return v
}

// ValidateStruct validates a struct based on its validation tags. Failures
// come back as *errors.ValidationErrors keyed by lower-cased field name.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	errs := pkgerrors.NewValidationErrors()
	for _, e := range validationErrors {
		errs.Add(strings.ToLower(e.Field()), formatFieldError(e))
	}
	return errs
}

// formatFieldError formats a single field validation error
func formatFieldError(e validator.FieldError) string {
	field := strings.ToLower(e.Field())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "nodeid":
		return fmt.Sprintf("%s must be a UUIDv7", field)
	case "dir":
		return fmt.Sprintf("%s must be an existing directory", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
