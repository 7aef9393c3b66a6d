package discord

import (
	"fmt"
	"unicode/utf8"

	"github.com/aleister1102/discordkit/internal/common/errorwrapper"
	"github.com/bwmarrin/discordgo"
)

const (
	MaxContentLength    = 2000
	MaxEmbedsPerMessage = 10
)

// AllowedMentions controls which mentions in the content notify anyone.
type AllowedMentions struct {
	Parse       []discordgo.AllowedMentionType `json:"parse"`
	Users       []string                       `json:"users,omitempty"`
	Roles       []string                       `json:"roles,omitempty"`
	RepliedUser bool                           `json:"replied_user,omitempty"`
}

// MessagePayload represents the JSON body of a message create, edit or
// interaction response.
type MessagePayload struct {
	Content         string                 `json:"content,omitempty"`    // Message content (text)
	Username        string                 `json:"username,omitempty"`   // Override the default webhook username
	AvatarURL       string                 `json:"avatar_url,omitempty"` // Override the default webhook avatar
	TTS             bool                   `json:"tts,omitempty"`
	Embeds          []Embed                `json:"embeds,omitempty"` // Array of embed objects
	Components      []ActionRow            `json:"components,omitempty"`
	AllowedMentions *AllowedMentions       `json:"allowed_mentions,omitempty"`
	Flags           discordgo.MessageFlags `json:"flags,omitempty"`
}

// MessagePayloadBuilder helps in constructing MessagePayload objects.
type MessagePayloadBuilder struct {
	payload   MessagePayload
	validator *EmbedValidator
}

// NewMessagePayloadBuilder creates a new instance of MessagePayloadBuilder.
func NewMessagePayloadBuilder() *MessagePayloadBuilder {
	return &MessagePayloadBuilder{
		payload:   MessagePayload{},
		validator: NewEmbedValidator(),
	}
}

// WithContent sets the Content for the MessagePayload.
func (b *MessagePayloadBuilder) WithContent(content string) *MessagePayloadBuilder {
	b.payload.Content = content
	return b
}

// WithUsername sets the Username for the MessagePayload.
func (b *MessagePayloadBuilder) WithUsername(username string) *MessagePayloadBuilder {
	b.payload.Username = username
	return b
}

// WithAvatarURL sets the AvatarURL for the MessagePayload.
func (b *MessagePayloadBuilder) WithAvatarURL(avatarURL string) *MessagePayloadBuilder {
	b.payload.AvatarURL = avatarURL
	return b
}

// WithTTS sets whether the message is read aloud.
func (b *MessagePayloadBuilder) WithTTS(tts bool) *MessagePayloadBuilder {
	b.payload.TTS = tts
	return b
}

// WithEphemeral makes an interaction response visible only to its invoker.
func (b *MessagePayloadBuilder) WithEphemeral(ephemeral bool) *MessagePayloadBuilder {
	if ephemeral {
		b.payload.Flags |= discordgo.MessageFlagsEphemeral
	} else {
		b.payload.Flags &^= discordgo.MessageFlagsEphemeral
	}
	return b
}

// WithAllowedMentions restricts which mentions notify. Passing no types
// suppresses every mention.
func (b *MessagePayloadBuilder) WithAllowedMentions(types ...discordgo.AllowedMentionType) *MessagePayloadBuilder {
	if types == nil {
		types = []discordgo.AllowedMentionType{}
	}
	b.payload.AllowedMentions = &AllowedMentions{Parse: types}
	return b
}

// AddEmbed adds an Embed to the MessagePayload.
func (b *MessagePayloadBuilder) AddEmbed(embed Embed) *MessagePayloadBuilder {
	b.payload.Embeds = append(b.payload.Embeds, embed)
	return b
}

// AddComponents appends action rows to the MessagePayload.
func (b *MessagePayloadBuilder) AddComponents(rows ...ActionRow) *MessagePayloadBuilder {
	b.payload.Components = append(b.payload.Components, rows...)
	return b
}

// Build validates and returns the constructed MessagePayload.
func (b *MessagePayloadBuilder) Build() (MessagePayload, error) {
	payload := b.payload

	if utf8.RuneCountInString(payload.Content) > MaxContentLength {
		return MessagePayload{}, errorwrapper.NewValidationError("content", payload.Content, fmt.Sprintf("content cannot exceed %d characters", MaxContentLength))
	}
	if len(payload.Embeds) > MaxEmbedsPerMessage {
		return MessagePayload{}, errorwrapper.NewValidationError("embeds", len(payload.Embeds), fmt.Sprintf("cannot have more than %d embeds", MaxEmbedsPerMessage))
	}
	for i, embed := range payload.Embeds {
		if err := b.validator.ValidateEmbed(embed); err != nil {
			return MessagePayload{}, errorwrapper.WrapError(err, fmt.Sprintf("embed %d", i))
		}
	}
	if len(payload.Components) > MaxRowsPerMessage {
		return MessagePayload{}, errorwrapper.NewValidationError("components", len(payload.Components), fmt.Sprintf("cannot have more than %d action rows", MaxRowsPerMessage))
	}
	for i, row := range payload.Components {
		if err := ValidateActionRow(row); err != nil {
			return MessagePayload{}, errorwrapper.WrapError(err, fmt.Sprintf("action row %d", i))
		}
	}
	return payload, nil
}
