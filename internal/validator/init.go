package validator

import (
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	// Initialize validation
	validate = validator.New(validator.WithRequiredStructEnabled())

	// A board cell: "X", "O" or "" for empty. Works on any string kind.
	if err := validate.RegisterValidation("mark", validateMark); err != nil {
		panic(err)
	}
}

func validateMark(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "", "X", "O":
		return true
	}
	return false
}

func GetValidator() *validator.Validate {
	return validate
}
