package notifier

import (
	"context"

	"github.com/aleister1102/discordkit/libs/discord"
	"github.com/bwmarrin/discordgo"
)

// Requester performs raw Discord REST calls. *discordgo.Session satisfies it.
type Requester interface {
	RequestWithBucketID(method, urlStr string, data interface{}, bucketID string, options ...discordgo.RequestOption) ([]byte, error)
}

// Notifier delivers built message payloads to Discord.
type Notifier interface {
	Respond(ctx context.Context, interaction *discordgo.Interaction, payload discord.MessagePayload) error
	UpdateMessage(ctx context.Context, interaction *discordgo.Interaction, payload discord.MessagePayload) error
	DeferUpdate(ctx context.Context, interaction *discordgo.Interaction) error
	EditOriginal(ctx context.Context, interaction *discordgo.Interaction, payload discord.MessagePayload) (*discordgo.Message, error)
	SendChannelMessage(ctx context.Context, channelID string, payload discord.MessagePayload) (*discordgo.Message, error)
	SendWebhook(ctx context.Context, webhookID, token string, payload discord.MessagePayload) (*discordgo.Message, error)
}

var (
	_ Requester = (*discordgo.Session)(nil)
	_ Notifier  = (*DiscordNotifier)(nil)
)
