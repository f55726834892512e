package handlers

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Shared validator, safe for concurrent use across handlers.
var validate = validator.New()

// ValidateRequest checks a decoded request body against its struct tags.
// Only the first failing field is reported; the client fixes one thing
// at a time anyway.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	ve, ok := err.(validator.ValidationErrors)
	if !ok || len(ve) == 0 {
		return fmt.Errorf("validation failed: %w", err)
	}

	return fmt.Errorf("validation failed: %s: %s", ve[0].Field(), fieldMessage(ve[0]))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must have a minimum of %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must have a maximum of %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed validation: %s", fe.Tag())
	}
}
