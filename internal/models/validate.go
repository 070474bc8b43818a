// internal/models/validate.go
package models

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the struct tags of a record at an input boundary.
func Validate(v interface{}) error {
	return validate.Struct(v)
}
