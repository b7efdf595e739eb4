package serrors

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Base is a coded error safe to surface to API clients.
type Base struct {
	Code    string
	Message string
	Hint    string
}

func (e *Base) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Hint)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewError(code, message, hint string) *Base {
	return &Base{Code: code, Message: message, Hint: hint}
}

// ValidationErrors maps struct field names to human-readable messages.
type ValidationErrors map[string]string

// ProcessValidatorErrors flattens go-playground validator errors into
// per-field messages keyed by the struct field name.
func ProcessValidatorErrors(errs validator.ValidationErrors) ValidationErrors {
	out := make(ValidationErrors, len(errs))
	for _, fe := range errs {
		switch fe.Tag() {
		case "required":
			out[fe.Field()] = fmt.Sprintf("%s is required", fe.Field())
		case "email":
			out[fe.Field()] = fmt.Sprintf("%s must be a valid email address", fe.Field())
		case "min":
			out[fe.Field()] = fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
		case "max":
			out[fe.Field()] = fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
		case "oneof":
			out[fe.Field()] = fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
		default:
			out[fe.Field()] = fmt.Sprintf("%s is invalid", fe.Field())
		}
	}
	return out
}
