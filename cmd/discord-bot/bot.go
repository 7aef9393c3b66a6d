package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aleister1102/discordkit/internal/config"
	"github.com/aleister1102/discordkit/internal/notifier"
	"github.com/aleister1102/discordkit/libs/collector"
	"github.com/aleister1102/discordkit/libs/discord"
	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const reasonFailed = "failed"

// configSource hands out the current configuration. *config.ConfigManager
// satisfies it.
type configSource interface {
	GetConfig() *config.Config
}

// Bot represents the Discord bot instance
type Bot struct {
	session     *discordgo.Session
	configs     configSource
	guildID     string
	notifier    notifier.Notifier
	client      collector.Client
	rateLimiter *rate.Limiter
	logger      zerolog.Logger

	mu    sync.Mutex
	polls map[string]*Poll
}

// NewBot creates a new Discord bot instance
func NewBot(configs configSource, logger zerolog.Logger) (*Bot, error) {
	cfg := configs.GetConfig()

	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages

	bot := newBot(configs, notifier.NewDiscordNotifier(session, logger), collector.NewSessionClient(session), logger)
	bot.session = session
	bot.session.AddHandler(bot.onReady)
	bot.session.AddHandler(bot.onInteractionCreate)
	return bot, nil
}

func newBot(configs configSource, n notifier.Notifier, client collector.Client, logger zerolog.Logger) *Bot {
	cfg := configs.GetConfig()
	return &Bot{
		configs:     configs,
		guildID:     cfg.Discord.GuildID,
		notifier:    n,
		client:      client,
		rateLimiter: newRateLimiter(cfg.RateLimit),
		logger:      logger.With().Str("module", "Bot").Logger(),
		polls:       make(map[string]*Poll),
	}
}

func newRateLimiter(cfg config.RateLimitConfig) *rate.Limiter {
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.CommandsPerMinute)), cfg.BurstLimit)
}

// ApplyConfig picks up settings that can change while the bot runs.
func (b *Bot) ApplyConfig(cfg *config.Config) {
	b.rateLimiter.SetLimit(rate.Every(time.Minute / time.Duration(cfg.RateLimit.CommandsPerMinute)))
	b.rateLimiter.SetBurst(cfg.RateLimit.BurstLimit)
	b.logger.Info().
		Int("commands_per_minute", cfg.RateLimit.CommandsPerMinute).
		Dur("poll_duration", cfg.Poll.DefaultDuration).
		Msg("Configuration applied")
}

// Start opens the gateway connection and blocks until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	b.logger.Info().Msg("Discord bot started successfully")

	if err := b.session.UpdateGameStatus(0, "/poll"); err != nil {
		b.logger.Warn().Err(err).Msg("Failed to set bot status")
	}

	<-ctx.Done()
	b.logger.Info().Msg("Shutting down Discord bot...")

	b.stopPolls(reasonShutdown)
	if b.configs.GetConfig().Discord.RemoveCommandsOnExit {
		b.cleanupCommands()
	}
	return b.session.Close()
}

func (b *Bot) onReady(s *discordgo.Session, event *discordgo.Ready) {
	b.logger.Info().Str("username", event.User.Username).Msg("Discord bot is ready")

	if err := b.registerCommands(); err != nil {
		b.logger.Error().Err(err).Msg("Failed to register commands")
	}
}

// onInteractionCreate handles slash commands. Component interactions belong
// to the collectors of running polls.
func (b *Bot) onInteractionCreate(_ *discordgo.Session, event *discordgo.InteractionCreate) {
	b.handleCommand(context.Background(), event.Interaction)
}

func (b *Bot) handleCommand(ctx context.Context, i *discordgo.Interaction) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	if !b.rateLimiter.Allow() {
		b.logger.Warn().Msg("Rate limit exceeded for interaction")
		b.replyEphemeral(ctx, i, "⚠️ Rate limit exceeded. Please wait before sending another command.")
		return
	}

	data := i.ApplicationCommandData()
	switch data.Name {
	case pollCommandName:
		req, err := parsePollOptions(data.Options)
		if err != nil {
			b.replyEphemeral(ctx, i, err.Error())
			return
		}
		if _, err := b.startPoll(ctx, i, req); err != nil {
			b.logger.Error().Err(err).Msg("Failed to start poll")
		}
	default:
		b.logger.Warn().Str("command", data.Name).Msg("Unknown command")
	}
}

// pollSettings applies the configured defaults and caps to a request.
func pollSettings(cfg config.PollConfig, requested time.Duration) PollSettings {
	duration := requested
	if duration <= 0 {
		duration = cfg.DefaultDuration
	}
	duration = min(duration, cfg.MaxDuration)

	return PollSettings{
		Choices:     cfg.Choices,
		Duration:    duration,
		Idle:        cfg.IdleTimeout,
		MaxVoters:   cfg.MaxVoters,
		ResultColor: cfg.ResultColor,
	}
}

func (b *Bot) startPoll(ctx context.Context, i *discordgo.Interaction, req pollRequest) (*Poll, error) {
	cfg := b.configs.GetConfig()
	poll := newPoll(i, req.Question, pollSettings(cfg.Poll, req.Duration), b.notifier, b.logger)

	payload, err := poll.message()
	if err != nil {
		b.replyEphemeral(ctx, i, "Could not build the poll: "+err.Error())
		return nil, err
	}

	// Listen before the message exists so no early vote is missed.
	if err := poll.bind(b.client); err != nil {
		return nil, err
	}
	if err := b.notifier.Respond(ctx, i, payload); err != nil {
		poll.Stop(reasonFailed)
		return nil, err
	}

	b.track(poll)
	poll.logger.Info().Str("question", poll.Question).Dur("duration", poll.settings.Duration).Msg("Poll started")
	return poll, nil
}

func (b *Bot) track(poll *Poll) {
	b.mu.Lock()
	b.polls[poll.ID] = poll
	b.mu.Unlock()

	go func() {
		<-poll.Done()
		b.mu.Lock()
		delete(b.polls, poll.ID)
		b.mu.Unlock()
	}()
}

func (b *Bot) activePolls() []*Poll {
	b.mu.Lock()
	defer b.mu.Unlock()

	polls := make([]*Poll, 0, len(b.polls))
	for _, poll := range b.polls {
		polls = append(polls, poll)
	}
	return polls
}

func (b *Bot) stopPolls(reason string) {
	polls := b.activePolls()
	for _, poll := range polls {
		poll.Stop(reason)
	}
	if len(polls) > 0 {
		b.logger.Info().Int("count", len(polls)).Str("reason", reason).Msg("Stopped running polls")
	}
}

func (b *Bot) replyEphemeral(ctx context.Context, i *discordgo.Interaction, content string) {
	sendEphemeral(ctx, b.notifier, b.logger, i, content)
}

func sendEphemeral(ctx context.Context, n notifier.Notifier, logger zerolog.Logger, i *discordgo.Interaction, content string) {
	payload, err := discord.NewMessagePayloadBuilder().WithContent(content).WithEphemeral(true).Build()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to build reply")
		return
	}
	if err := n.Respond(ctx, i, payload); err != nil {
		logger.Error().Err(err).Msg("Failed to send reply")
	}
}
