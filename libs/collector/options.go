package collector

import (
	"errors"
	"fmt"
	"time"

	"github.com/aleister1102/discordkit/internal/common/errorwrapper"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// End reasons reported by the collectors in this package.
const (
	ReasonUser           = "user"
	ReasonTime           = "time"
	ReasonIdle           = "idle"
	ReasonLimit          = "limit"
	ReasonComponentLimit = "componentLimit"
	ReasonUserLimit      = "userLimit"
	ReasonMessageDelete  = "messageDelete"
	ReasonChannelDelete  = "channelDelete"
	ReasonThreadDelete   = "threadDelete"
	ReasonGuildDelete    = "guildDelete"
)

// Filter decides whether an event that matched the collector should be kept.
// It receives a snapshot of what has been collected so far. It may block;
// an error is returned to whoever called HandleCollect.
type Filter[E any] func(event E, collected []E) (bool, error)

// Options configures a Collector.
type Options[E any] struct {
	// Filter is consulted after the collector's own matching. Nil accepts everything.
	Filter Filter[E] `validate:"-"`
	// Time stops the collector this long after it starts. Zero disables it.
	Time time.Duration `validate:"gte=0"`
	// Idle stops the collector when nothing is collected for this long. Zero disables it.
	Idle time.Duration `validate:"gte=0"`
	// Dispose enables HandleDispose.
	Dispose bool
	// Logger defaults to a disabled logger.
	Logger *zerolog.Logger `validate:"-"`
}

// TimerOptions overrides durations for ResetTimer. Zero keeps the configured value.
type TimerOptions struct {
	Time time.Duration
	Idle time.Duration
}

var optionsValidator = validator.New()

// validateOptions runs struct tag validation and reports the first failure as a
// configuration error for section.
func validateOptions(section string, opts any) error {
	err := optionsValidator.Struct(opts)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return errorwrapper.NewConfigurationError(section, fe.Field(),
			fmt.Sprintf("failed '%s' rule (value: %v)", fe.Tag(), fe.Value()))
	}
	return errorwrapper.NewConfigurationError(section, "", err.Error())
}
