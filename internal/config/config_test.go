package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aleister1102/discordkit/internal/common/errorwrapper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvBotToken, "")
	t.Setenv(EnvGuildID, "")
	t.Setenv(EnvConfigPath, "")
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.True(t, cfg.Discord.RemoveCommandsOnExit)
	assert.Equal(t, DefaultPollDuration, cfg.Poll.DefaultDuration)
	assert.Equal(t, DefaultPollMaxDuration, cfg.Poll.MaxDuration)
	assert.Equal(t, []string{"Yes", "No", "Maybe"}, cfg.Poll.Choices)
	assert.Equal(t, DefaultCommandsPerMinute, cfg.RateLimit.CommandsPerMinute)
	assert.Equal(t, DefaultLogLevel, cfg.Log.LogLevel)
	assert.Equal(t, DefaultLogFormat, cfg.Log.LogFormat)
}

func TestLoadConfig_NoConfigFile(t *testing.T) {
	clearEnv(t)

	_, err := LoadConfig("")
	require.Error(t, err, "defaults carry no token")
	assert.True(t, errors.Is(err, errorwrapper.ErrInvalidConfiguration))

	t.Setenv(EnvBotToken, "env-token")
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Discord.Token)
}

func TestLoadConfig_NonExistentFile(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errorwrapper.ErrNotFound))
}

func TestLoadConfig_YAMLFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.yaml", `
discord:
  token: yaml-token
  guild_id: "123"
poll:
  default_duration: 5m
  max_duration: 30m
  idle_timeout: 1m
  max_voters: 10
  choices: [Red, Green, Blue]
log:
  log_level: debug
  log_format: json
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "yaml-token", cfg.Discord.Token)
	assert.Equal(t, "123", cfg.Discord.GuildID)
	assert.Equal(t, 5*time.Minute, cfg.Poll.DefaultDuration)
	assert.Equal(t, 30*time.Minute, cfg.Poll.MaxDuration)
	assert.Equal(t, time.Minute, cfg.Poll.IdleTimeout)
	assert.Equal(t, 10, cfg.Poll.MaxVoters)
	assert.Equal(t, []string{"Red", "Green", "Blue"}, cfg.Poll.Choices)
	assert.Equal(t, "debug", cfg.Log.LogLevel)
	assert.Equal(t, "json", cfg.Log.LogFormat)
	assert.Equal(t, DefaultCommandsPerMinute, cfg.RateLimit.CommandsPerMinute, "unset sections keep defaults")
}

func TestLoadConfig_JSONFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.json", `{
		"discord": {"token": "json-token"},
		"rate_limit": {"commands_per_minute": 10, "burst_limit": 2}
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "json-token", cfg.Discord.Token)
	assert.Equal(t, 10, cfg.RateLimit.CommandsPerMinute)
	assert.Equal(t, 2, cfg.RateLimit.BurstLimit)
}

func TestLoadConfig_InvalidContent(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.json", `{"discord": `)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config content")
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.yaml", "discord:\n  token: file-token\n  guild_id: file-guild\n")
	t.Setenv(EnvBotToken, "env-token")
	t.Setenv(EnvGuildID, "env-guild")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.Discord.Token)
	assert.Equal(t, "env-guild", cfg.Discord.GuildID)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		section string
		field   string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing token", mutate: func(c *Config) { c.Discord.Token = "" }, section: "Discord", field: "Token"},
		{name: "zero duration", mutate: func(c *Config) { c.Poll.DefaultDuration = 0 }, section: "Poll", field: "DefaultDuration"},
		{name: "max below default", mutate: func(c *Config) { c.Poll.MaxDuration = time.Second }, section: "Poll", field: "MaxDuration"},
		{name: "negative idle", mutate: func(c *Config) { c.Poll.IdleTimeout = -time.Second }, section: "Poll", field: "IdleTimeout"},
		{name: "single choice", mutate: func(c *Config) { c.Poll.Choices = []string{"Yes"} }, section: "Poll", field: "Choices"},
		{name: "duplicate choices", mutate: func(c *Config) { c.Poll.Choices = []string{"Yes", "Yes"} }, section: "Poll", field: "Choices"},
		{name: "zero rate", mutate: func(c *Config) { c.RateLimit.CommandsPerMinute = 0 }, section: "RateLimit", field: "CommandsPerMinute"},
		{name: "bad log level", mutate: func(c *Config) { c.Log.LogLevel = "verbose" }, section: "Log", field: "LogLevel"},
		{name: "unknown result color", mutate: func(c *Config) { c.Poll.ResultColor = "sparkly" }, section: "Poll", field: "ResultColor"},
		{name: "bad log format", mutate: func(c *Config) { c.Log.LogFormat = "xml" }, section: "Log", field: "LogFormat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			cfg.Discord.Token = "token"
			tt.mutate(cfg)

			err := ValidateConfig(cfg)
			if tt.section == "" {
				assert.NoError(t, err)
				return
			}

			var cfgErr *errorwrapper.ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.section, cfgErr.Section)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestValidateConfig_Nil(t *testing.T) {
	err := ValidateConfig(nil)
	assert.True(t, errors.Is(err, errorwrapper.ErrInvalidConfiguration))
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	clearEnv(t)
	cfg := NewDefaultConfig()
	cfg.Discord.Token = "saved-token"
	cfg.Poll.IdleTimeout = 45 * time.Second
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestGetConfigPath(t *testing.T) {
	clearEnv(t)
	assert.Equal(t, "explicit.yaml", GetConfigPath("explicit.yaml"))

	path := writeFile(t, "env.yaml", "discord:\n  token: x\n")
	t.Setenv(EnvConfigPath, path)
	assert.Equal(t, path, GetConfigPath(""))
}
