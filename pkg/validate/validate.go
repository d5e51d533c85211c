// Package validate holds the field-error types shared by the per-domain
// validators and the translation from validator/v10 tag failures into
// human-readable messages.
package validate

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (f FieldError) Error() string {
	return fmt.Sprintf("%s: %s", f.Field, f.Message)
}

type FieldErrors []FieldError

func (f FieldErrors) Error() string {
	if len(f) == 0 {
		return ""
	}
	messages := make([]string, 0, len(f))
	for _, err := range f {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(f), strings.Join(messages, "; "))
}

// Details renders the errors in the shape carried by the error envelope.
func (f FieldErrors) Details() map[string]any {
	fields := make([]map[string]string, 0, len(f))
	for _, err := range f {
		fields = append(fields, map[string]string{
			"field":  err.Field,
			"reason": err.Message,
		})
	}
	return map[string]any{"errors": fields}
}

func Translate(errs validator.ValidationErrors) FieldErrors {
	var fieldErrors FieldErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "gte":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid object id", err.Field())
		case "required_without":
			message = fmt.Sprintf("%s is required when %s is absent", err.Field(), strings.ToLower(err.Param()))
		}

		fieldErrors = append(fieldErrors, FieldError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return fieldErrors
}
