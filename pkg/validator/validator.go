// Package validator wraps go-playground struct validation behind one call.
package validator

import (
	"github.com/go-playground/validator/v10"
)

// ErrorResponse is one failed field of a validated request struct.
type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

var validate = validator.New()

// ValidateStruct runs the `validate` tags and reports every failed field.
// An empty slice means the struct passed.
func ValidateStruct(data interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			var element ErrorResponse
			element.FailedField = err.StructNamespace()
			element.Tag = err.Tag()
			element.Value = err.Param()
			errors = append(errors, &element)
		}
	}
	return errors
}
