package validator

import (
	"github.com/go-playground/validator/v10"

	"ecotrack/internal/emission"
)

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New()

	// Custom validators
	v.RegisterValidation("fuel_type", validateFuelType)

	return &Validator{validate: v}
}

func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func validateFuelType(fl validator.FieldLevel) bool {
	return emission.ValidFuelType(fl.Field().String())
}
