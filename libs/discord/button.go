package discord

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/aleister1102/discordkit/internal/common/errorwrapper"
	"github.com/bwmarrin/discordgo"
)

const (
	MaxButtonLabelLength = 80
	MaxCustomIDLength    = 100
)

var buttonStyles = map[string]discordgo.ButtonStyle{
	"primary":   discordgo.PrimaryButton,
	"secondary": discordgo.SecondaryButton,
	"success":   discordgo.SuccessButton,
	"danger":    discordgo.DangerButton,
	"link":      discordgo.LinkButton,
}

// Button represents a message button component.
type Button struct {
	Style    discordgo.ButtonStyle `json:"style"`
	Label    string                `json:"label,omitempty"`
	Emoji    *Emoji                `json:"emoji,omitempty"`
	CustomID string                `json:"custom_id,omitempty"` // Not sent for link buttons
	URL      string                `json:"url,omitempty"`       // Only sent for link buttons
	Disabled bool                  `json:"disabled,omitempty"`
}

// ComponentType implements Component.
func (Button) ComponentType() discordgo.ComponentType {
	return discordgo.ButtonComponent
}

// MarshalJSON adds the component type Discord expects.
func (b Button) MarshalJSON() ([]byte, error) {
	type button Button
	return json.Marshal(struct {
		Type discordgo.ComponentType `json:"type"`
		button
	}{
		Type:   b.ComponentType(),
		button: button(b),
	})
}

// ButtonBuilder helps in constructing Button objects.
type ButtonBuilder struct {
	button Button
	err    error
}

// NewButtonBuilder creates a button builder with the primary style.
func NewButtonBuilder() *ButtonBuilder {
	return &ButtonBuilder{button: Button{Style: discordgo.PrimaryButton}}
}

// WithStyle sets the button style
func (bb *ButtonBuilder) WithStyle(style discordgo.ButtonStyle) *ButtonBuilder {
	bb.button.Style = style
	return bb
}

// WithStyleName sets the style from its name: primary, secondary, success,
// danger or link.
func (bb *ButtonBuilder) WithStyleName(name string) *ButtonBuilder {
	style, ok := buttonStyles[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		if bb.err == nil {
			bb.err = errorwrapper.NewValidationError("style", name, "unknown button style")
		}
		return bb
	}
	bb.button.Style = style
	return bb
}

// WithLabel sets the button label
func (bb *ButtonBuilder) WithLabel(label string) *ButtonBuilder {
	bb.button.Label = label
	return bb
}

// WithEmoji sets the button emoji, see ParseEmoji
func (bb *ButtonBuilder) WithEmoji(emoji string) *ButtonBuilder {
	bb.button.Emoji = ParseEmoji(emoji)
	return bb
}

// WithCustomID sets the id sent back in the component interaction
func (bb *ButtonBuilder) WithCustomID(customID string) *ButtonBuilder {
	bb.button.CustomID = customID
	return bb
}

// WithURL turns the button into a link button pointing at url
func (bb *ButtonBuilder) WithURL(url string) *ButtonBuilder {
	bb.button.URL = url
	bb.button.Style = discordgo.LinkButton
	return bb
}

// WithDisabled sets whether the button is disabled
func (bb *ButtonBuilder) WithDisabled(disabled bool) *ButtonBuilder {
	bb.button.Disabled = disabled
	return bb
}

// Build validates and returns the button
func (bb *ButtonBuilder) Build() (Button, error) {
	if bb.err != nil {
		return Button{}, bb.err
	}
	if err := ValidateButton(bb.button); err != nil {
		return Button{}, err
	}
	return bb.button, nil
}

// ValidateButton checks the fields Discord requires for the button's style.
func ValidateButton(button Button) error {
	if button.Style < discordgo.PrimaryButton || button.Style > discordgo.LinkButton {
		return errorwrapper.NewValidationError("style", button.Style, "unknown button style")
	}
	if button.Label == "" && button.Emoji == nil {
		return errorwrapper.NewValidationError("label", button.Label, "button needs a label or an emoji")
	}
	if utf8.RuneCountInString(button.Label) > MaxButtonLabelLength {
		return errorwrapper.NewValidationError("label", button.Label, fmt.Sprintf("label cannot exceed %d characters", MaxButtonLabelLength))
	}

	if button.Style == discordgo.LinkButton {
		if button.URL == "" {
			return errorwrapper.NewValidationError("url", button.URL, "link button requires a url")
		}
		if button.CustomID != "" {
			return errorwrapper.NewValidationError("custom_id", button.CustomID, "link button cannot have a custom id")
		}
		return nil
	}

	if button.URL != "" {
		return errorwrapper.NewValidationError("url", button.URL, "only link buttons can have a url")
	}
	return validateCustomID(button.CustomID)
}

func validateCustomID(customID string) error {
	if customID == "" {
		return errorwrapper.NewValidationError("custom_id", customID, "custom id is required")
	}
	if utf8.RuneCountInString(customID) > MaxCustomIDLength {
		return errorwrapper.NewValidationError("custom_id", customID, fmt.Sprintf("custom id cannot exceed %d characters", MaxCustomIDLength))
	}
	return nil
}
