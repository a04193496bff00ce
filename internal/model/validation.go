package model

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// E.164-ish, same shape the profile forms enforce client-side
var phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

// RegisterValidations installs custom binding rules on gin's validator.
// Called once from main.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("clinicphone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
}
