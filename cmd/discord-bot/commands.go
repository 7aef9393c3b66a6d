package main

import (
	"fmt"
	"time"

	"github.com/aleister1102/discordkit/internal/common/errorwrapper"
	"github.com/bwmarrin/discordgo"
	"github.com/samber/lo"
)

const pollCommandName = "poll"

var commands = []*discordgo.ApplicationCommand{
	{
		Name:        pollCommandName,
		Description: "Start a poll that closes after a while",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "question",
				Description: "What are people voting on",
				Required:    true,
				MaxLength:   256,
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "minutes",
				Description: "How long the poll stays open",
				Required:    false,
				MinValue:    lo.ToPtr(1.0),
			},
		},
	},
}

type pollRequest struct {
	Question string
	Duration time.Duration
}

func parsePollOptions(options []*discordgo.ApplicationCommandInteractionDataOption) (pollRequest, error) {
	var req pollRequest
	for _, opt := range options {
		switch opt.Name {
		case "question":
			req.Question = opt.StringValue()
		case "minutes":
			req.Duration = time.Duration(opt.IntValue()) * time.Minute
		}
	}
	if req.Question == "" {
		return pollRequest{}, errorwrapper.NewValidationError("question", req.Question, "question is required")
	}
	return req, nil
}

func (b *Bot) registerCommands() error {
	b.logger.Info().Msg("Registering slash commands...")

	appID := b.session.State.User.ID
	for _, cmd := range commands {
		if _, err := b.session.ApplicationCommandCreate(appID, b.guildID, cmd); err != nil {
			return fmt.Errorf("failed to create command %s: %w", cmd.Name, err)
		}
		b.logger.Debug().Str("command", cmd.Name).Msg("Registered command")
	}

	b.logger.Info().Int("count", len(commands)).Msg("Successfully registered all commands")
	return nil
}

func (b *Bot) cleanupCommands() {
	b.logger.Info().Msg("Cleaning up slash commands...")

	appID := b.session.State.User.ID
	registered, err := b.session.ApplicationCommands(appID, b.guildID)
	if err != nil {
		b.logger.Error().Err(err).Msg("Failed to fetch commands for cleanup")
		return
	}

	for _, cmd := range registered {
		if err := b.session.ApplicationCommandDelete(appID, b.guildID, cmd.ID); err != nil {
			b.logger.Error().Err(err).Str("command", cmd.Name).Msg("Failed to delete command")
		} else {
			b.logger.Debug().Str("command", cmd.Name).Msg("Deleted command")
		}
	}

	b.logger.Info().Msg("Command cleanup completed")
}
