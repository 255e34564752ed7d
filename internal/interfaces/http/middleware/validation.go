package middleware

import (
	"errors"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	csvimport "github.com/partsdepot/backend/internal/infrastructure/import"
)

// RegisterValidators installs custom binding validators on gin's validator
// engine. Must run before the first request is bound.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected validator engine")
	}
	return v.RegisterValidation("import_field", validImportField)
}

// validImportField accepts only known import field names
func validImportField(fl validator.FieldLevel) bool {
	return csvimport.IsValidField(fl.Field().String())
}
