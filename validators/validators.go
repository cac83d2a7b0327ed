// Package validators holds the shared validator instance and helpers used
// by the per-area request validators.
package validators

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validate is the shared validator instance
var Validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report field errors under their json names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldErrors flattens a validation error into a field -> message map
func FieldErrors(err error) map[string]string {
	errors := make(map[string]string)

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		errors["body"] = "Invalid request body!"
		return errors
	}

	for _, fieldError := range validationErrors {
		field := fieldError.Field()
		switch fieldError.Tag() {
		case "required":
			errors[field] = "This field is required!"
		case "email":
			errors[field] = "Must be a valid email address!"
		case "min":
			errors[field] = "Value is below the allowed minimum (" + fieldError.Param() + ")!"
		case "max":
			errors[field] = "Value is above the allowed maximum (" + fieldError.Param() + ")!"
		case "gte":
			errors[field] = "Must be greater than or equal to " + fieldError.Param() + "!"
		case "oneof":
			errors[field] = "Must be one of: " + fieldError.Param() + "!"
		default:
			errors[field] = "Invalid value!"
		}
	}
	return errors
}
