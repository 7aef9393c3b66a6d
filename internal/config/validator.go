package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aleister1102/discordkit/internal/common/errorwrapper"
	"github.com/aleister1102/discordkit/libs/discord"
	"github.com/go-playground/validator/v10"
)

var configValidator = newConfigValidator()

func newConfigValidator() *validator.Validate {
	validate := validator.New()

	_ = validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", "trace", "debug", "info", "warn", "error", "fatal", "panic":
			return true
		default:
			return false
		}
	})

	_ = validate.RegisterValidation("logformat", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", "console", "text", "json":
			return true
		default:
			return false
		}
	})

	_ = validate.RegisterValidation("embedcolor", func(fl validator.FieldLevel) bool {
		_, err := discord.ResolveColor(fl.Field().String())
		return err == nil
	})

	return validate
}

// ValidateConfig checks cfg against its struct tags. Every failing field is
// listed in the returned error, which matches ErrInvalidConfiguration.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return errorwrapper.NewConfigurationError("", "", "config is nil")
	}

	err := configValidator.Struct(cfg)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return errorwrapper.NewConfigurationError("", "", err.Error())
	}

	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		msg := fmt.Sprintf("validation failed for '%s': rule '%s'", strings.TrimPrefix(e.StructNamespace(), "Config."), e.Tag())
		if e.Param() != "" {
			msg += fmt.Sprintf(" (expected: %s)", e.Param())
		}
		if e.Value() != nil && e.Value() != "" {
			msg += fmt.Sprintf(", actual: '%v'", e.Value())
		}
		messages = append(messages, msg)
	}

	first := errs[0]
	section := strings.TrimPrefix(first.StructNamespace(), "Config.")
	if idx := strings.Index(section, "."); idx >= 0 {
		section = section[:idx]
	}
	return errorwrapper.NewConfigurationError(section, first.Field(), strings.Join(messages, "; "))
}
