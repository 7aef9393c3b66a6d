package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aleister1102/discordkit/internal/common/errorwrapper"
	"github.com/aleister1102/discordkit/libs/discord"
	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

type interactionResponse struct {
	Type discordgo.InteractionResponseType `json:"type"`
	Data *discord.MessagePayload           `json:"data,omitempty"`
}

// DiscordNotifier sends payloads over the Discord REST API. Rate limits are
// handled by discordgo; any other failure is returned as is.
type DiscordNotifier struct {
	requester Requester
	logger    zerolog.Logger
}

// NewDiscordNotifier creates a new DiscordNotifier.
func NewDiscordNotifier(requester Requester, logger zerolog.Logger) *DiscordNotifier {
	return &DiscordNotifier{
		requester: requester,
		logger:    logger.With().Str("module", "DiscordNotifier").Logger(),
	}
}

// Respond answers an interaction with a new message.
func (dn *DiscordNotifier) Respond(ctx context.Context, interaction *discordgo.Interaction, payload discord.MessagePayload) error {
	return dn.respond(ctx, interaction, discordgo.InteractionResponseChannelMessageWithSource, &payload)
}

// UpdateMessage answers a component interaction by editing the message the
// component is attached to.
func (dn *DiscordNotifier) UpdateMessage(ctx context.Context, interaction *discordgo.Interaction, payload discord.MessagePayload) error {
	return dn.respond(ctx, interaction, discordgo.InteractionResponseUpdateMessage, &payload)
}

// DeferUpdate acknowledges a component interaction without changing the message.
func (dn *DiscordNotifier) DeferUpdate(ctx context.Context, interaction *discordgo.Interaction) error {
	return dn.respond(ctx, interaction, discordgo.InteractionResponseDeferredMessageUpdate, nil)
}

// EditOriginal edits the response message of interaction.
func (dn *DiscordNotifier) EditOriginal(ctx context.Context, interaction *discordgo.Interaction, payload discord.MessagePayload) (*discordgo.Message, error) {
	if interaction == nil {
		return nil, errorwrapper.NewValidationError("interaction", nil, "interaction is required")
	}
	endpoint := discordgo.EndpointInteractionResponseActions(interaction.AppID, interaction.Token)
	bucket := discordgo.EndpointInteractionResponseActions(interaction.AppID, "")
	return dn.sendMessage(ctx, http.MethodPatch, endpoint, bucket, payload)
}

// SendChannelMessage posts payload to a channel.
func (dn *DiscordNotifier) SendChannelMessage(ctx context.Context, channelID string, payload discord.MessagePayload) (*discordgo.Message, error) {
	if channelID == "" {
		return nil, errorwrapper.NewValidationError("channel_id", channelID, "channel id is required")
	}
	endpoint := discordgo.EndpointChannelMessages(channelID)
	return dn.sendMessage(ctx, http.MethodPost, endpoint, endpoint, payload)
}

// SendWebhook executes a webhook and waits for the created message.
func (dn *DiscordNotifier) SendWebhook(ctx context.Context, webhookID, token string, payload discord.MessagePayload) (*discordgo.Message, error) {
	if webhookID == "" || token == "" {
		dn.logger.Info().Msg("Webhook credentials are empty. Skipping Discord notification.")
		return nil, nil
	}
	bucket := discordgo.EndpointWebhookToken(webhookID, "")
	endpoint := discordgo.EndpointWebhookToken(webhookID, token) + "?wait=true"
	return dn.sendMessage(ctx, http.MethodPost, endpoint, bucket, payload)
}

func (dn *DiscordNotifier) respond(ctx context.Context, interaction *discordgo.Interaction, responseType discordgo.InteractionResponseType, payload *discord.MessagePayload) error {
	if interaction == nil {
		return errorwrapper.NewValidationError("interaction", nil, "interaction is required")
	}

	endpoint := discordgo.EndpointInteractionResponse(interaction.ID, interaction.Token)
	bucket := discordgo.EndpointInteractionResponse(interaction.ID, "")
	body := interactionResponse{Type: responseType, Data: payload}
	if _, err := dn.request(ctx, http.MethodPost, endpoint, bucket, body); err != nil {
		return err
	}

	dn.logger.Debug().
		Str("interaction_id", interaction.ID).
		Int("response_type", int(responseType)).
		Msg("Interaction response sent")
	return nil
}

func (dn *DiscordNotifier) sendMessage(ctx context.Context, method, endpoint, bucket string, payload discord.MessagePayload) (*discordgo.Message, error) {
	response, err := dn.request(ctx, method, endpoint, bucket, payload)
	if err != nil {
		return nil, err
	}

	var message discordgo.Message
	if err := json.Unmarshal(response, &message); err != nil {
		return nil, errorwrapper.NewRequestError(method, bucket, errorwrapper.WrapError(err, "failed to decode message"))
	}

	dn.logger.Debug().Str("method", method).Str("message_id", message.ID).Msg("Discord message sent")
	return &message, nil
}

// request logs and reports the bucket, never the endpoint, since endpoints
// embed interaction and webhook tokens.
func (dn *DiscordNotifier) request(ctx context.Context, method, endpoint, bucket string, body interface{}) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, errorwrapper.NewRequestError(method, bucket, err)
	}

	response, err := dn.requester.RequestWithBucketID(method, endpoint, body, bucket, discordgo.WithContext(ctx))
	if err != nil {
		event := dn.logger.Error().Err(err).Str("method", method).Str("bucket", bucket)
		var restErr *discordgo.RESTError
		if errors.As(err, &restErr) && restErr.Response != nil {
			event = event.Int("status_code", restErr.Response.StatusCode)
		}
		event.Msg("Discord request failed")
		return nil, errorwrapper.NewRequestError(method, bucket, err)
	}
	return response, nil
}
