package config

import "time"

const (
	// Environment overrides
	EnvConfigPath = "DISCORDKIT_CONFIG_PATH"
	EnvBotToken   = "DISCORD_BOT_TOKEN"
	EnvGuildID    = "DISCORD_GUILD_ID"

	// Poll Defaults
	DefaultPollDuration    = 2 * time.Minute
	DefaultPollMaxDuration = time.Hour
	DefaultPollResultColor = "blurple"

	// Rate Limit Defaults
	DefaultCommandsPerMinute = 30
	DefaultBurstLimit        = 5

	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3

	maxConfigFileSize = 10 * 1024 * 1024
)
