package config

import "time"

// Config is the discord-bot configuration
type Config struct {
	Discord   DiscordConfig   `json:"discord" yaml:"discord"`
	Poll      PollConfig      `json:"poll" yaml:"poll"`
	RateLimit RateLimitConfig `json:"rate_limit" yaml:"rate_limit"`
	Log       LogConfig       `json:"log" yaml:"log"`
}

// DiscordConfig contains Discord connection settings
type DiscordConfig struct {
	Token                string `json:"token" yaml:"token" validate:"required"`
	GuildID              string `json:"guild_id,omitempty" yaml:"guild_id,omitempty"` // Empty registers commands globally
	RemoveCommandsOnExit bool   `json:"remove_commands_on_exit" yaml:"remove_commands_on_exit"`
}

// PollConfig controls the /poll command and its vote collector
type PollConfig struct {
	DefaultDuration time.Duration `json:"default_duration" yaml:"default_duration" validate:"gt=0"`
	MaxDuration     time.Duration `json:"max_duration" yaml:"max_duration" validate:"gtefield=DefaultDuration"`

	// Zero disables the idle stop
	IdleTimeout time.Duration `json:"idle_timeout,omitempty" yaml:"idle_timeout,omitempty" validate:"gte=0"`

	// Zero means unlimited
	MaxVoters int `json:"max_voters,omitempty" yaml:"max_voters,omitempty" validate:"gte=0"`

	// Select menu options offered with every poll
	Choices []string `json:"choices" yaml:"choices" validate:"min=2,max=25,unique,dive,required,max=80"`

	// Palette name or hex value
	ResultColor string `json:"result_color,omitempty" yaml:"result_color,omitempty" validate:"omitempty,embedcolor"`
}

// RateLimitConfig limits how many interactions the bot handles
type RateLimitConfig struct {
	CommandsPerMinute int `json:"commands_per_minute" yaml:"commands_per_minute" validate:"min=1"`
	BurstLimit        int `json:"burst_limit" yaml:"burst_limit" validate:"min=1"`
}

// NewDefaultConfig creates a Config with default values
func NewDefaultConfig() *Config {
	return &Config{
		Discord: DiscordConfig{
			RemoveCommandsOnExit: true,
		},
		Poll:      NewDefaultPollConfig(),
		RateLimit: NewDefaultRateLimitConfig(),
		Log:       NewDefaultLogConfig(),
	}
}

// NewDefaultPollConfig creates default poll configuration
func NewDefaultPollConfig() PollConfig {
	return PollConfig{
		DefaultDuration: DefaultPollDuration,
		MaxDuration:     DefaultPollMaxDuration,
		IdleTimeout:     0,
		MaxVoters:       0,
		Choices:         []string{"Yes", "No", "Maybe"},
		ResultColor:     DefaultPollResultColor,
	}
}

// NewDefaultRateLimitConfig creates default rate limit configuration
func NewDefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		CommandsPerMinute: DefaultCommandsPerMinute,
		BurstLimit:        DefaultBurstLimit,
	}
}
