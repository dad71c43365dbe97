package handler

import (
	"errors"
	"fmt"

	"blogging-api/pkg/response"

	"github.com/go-playground/validator/v10"
)

// fieldErrors flattens validator failures into the {"errors": [...]} body.
func fieldErrors(err error) []response.FieldError {
	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return []response.FieldError{{Field: "body", Message: "Invalid request body"}}
	}

	errs := make([]response.FieldError, 0, len(invalid))
	for _, fe := range invalid {
		errs = append(errs, response.FieldError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
		})
	}
	return errs
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
