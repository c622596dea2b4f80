package validation

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/academy/internal/app/models"
)

// Register adds the academy tags to v: hhmm for clock times and weekday for schedule days
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return CompiledPatterns.Time.MatchString(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("failed to register hhmm validator: %w", err)
	}

	if err := v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		return models.IsValidWeekday(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("failed to register weekday validator: %w", err)
	}

	return nil
}

// RegisterGinValidators installs the custom tags on gin's binding engine
func RegisterGinValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected gin validator engine %T", binding.Validator.Engine())
	}
	return Register(v)
}
