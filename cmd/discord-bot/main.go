package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aleister1102/discordkit/internal/config"
	"github.com/aleister1102/discordkit/internal/logger"
	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	watch      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "discord-bot",
		Short: "Discord bot running interactive polls",
		Long: `discord-bot registers a /poll slash command. Every poll is answered with an
embed, a select menu of the configured choices and buttons to retract a vote
or end the poll. Votes are gathered until the poll times out, goes idle,
reaches its voter limit or its message is deleted, then the results replace
the poll.`,
		SilenceUsage: true,
		RunE:         runBot,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the YAML/JSON configuration file (defaults to "+config.EnvConfigPath+" or ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&watch, "watch", false, "Reload the configuration file when it changes")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runBot(cmd *cobra.Command, _ []string) error {
	path := config.GetConfigPath(configPath)

	bootstrap := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	opts := config.DefaultConfigManagerOptions()
	opts.Logger = bootstrap
	opts.HotReloadEnabled = watch
	manager, err := config.NewConfigManager(path, opts)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	defer manager.Close()

	cfg := manager.GetConfig()
	if logLevel != "" {
		cfg.Log.LogLevel = logLevel
	}
	appLogger, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		if err := appLogger.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to close log file: %v\n", err)
		}
	}()
	zLogger := *appLogger.GetZerolog()
	routeDiscordgoLogs(zLogger)

	bot, err := NewBot(manager, zLogger)
	if err != nil {
		return err
	}
	manager.OnReload(bot.ApplyConfig)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	manager.StartHotReload(ctx)

	zLogger.Info().Str("config", path).Bool("watch", manager.IsHotReloadEnabled()).Msg("Starting discord bot")
	if err := bot.Start(ctx); err != nil {
		return err
	}
	zLogger.Info().Msg("Discord bot stopped")
	return nil
}

// routeDiscordgoLogs sends discordgo's internal messages through zerolog.
func routeDiscordgoLogs(zLogger zerolog.Logger) {
	discordLogger := zLogger.With().Str("module", "discordgo").Logger()
	discordgo.Logger = func(msgL, _ int, format string, a ...interface{}) {
		level := zerolog.DebugLevel
		switch msgL {
		case discordgo.LogError:
			level = zerolog.ErrorLevel
		case discordgo.LogWarning:
			level = zerolog.WarnLevel
		case discordgo.LogInformational:
			level = zerolog.InfoLevel
		}
		discordLogger.WithLevel(level).Msgf(format, a...)
	}
}
