package middleware

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/garagehq/gms-backend/internal/domain/shared/valueobject"
)

// SetupValidator registers custom binding rules and makes validation errors
// report json field names. Call once at startup before routes are served.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	// phone: a parseable E.164 number
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		raw := fl.Field().String()
		if raw == "" {
			return true
		}
		_, err := valueobject.NewPhone(raw)
		return err == nil
	})

	// money: a non-negative decimal amount carried as a string
	_ = v.RegisterValidation("money", func(fl validator.FieldLevel) bool {
		raw := fl.Field().String()
		if raw == "" {
			return true
		}
		m, err := valueobject.NewMoneyINRFromString(raw)
		return err == nil && !m.IsNegative()
	})

	// percent: a decimal string within [0, 100]
	_ = v.RegisterValidation("percent", func(fl validator.FieldLevel) bool {
		raw := fl.Field().String()
		if raw == "" {
			return true
		}
		_, err := valueobject.NewPercentFromString(raw)
		return err == nil
	})
}
