package discord

import (
	"time"
)

// EmbedBuilder helps in constructing Embed objects.
type EmbedBuilder struct {
	embed     Embed
	validator *EmbedValidator
	err       error
}

// NewEmbedBuilder creates a new embed builder
func NewEmbedBuilder() *EmbedBuilder {
	return &EmbedBuilder{
		embed:     Embed{},
		validator: NewEmbedValidator(),
	}
}

// WithTitle sets the embed title
func (eb *EmbedBuilder) WithTitle(title string) *EmbedBuilder {
	eb.embed.Title = title
	return eb
}

// WithDescription sets the embed description
func (eb *EmbedBuilder) WithDescription(description string) *EmbedBuilder {
	eb.embed.Description = description
	return eb
}

// WithURL sets the embed URL
func (eb *EmbedBuilder) WithURL(url string) *EmbedBuilder {
	eb.embed.URL = url
	return eb
}

// WithTimestamp sets the embed timestamp. A zero time clears it.
func (eb *EmbedBuilder) WithTimestamp(timestamp time.Time) *EmbedBuilder {
	if timestamp.IsZero() {
		eb.embed.Timestamp = ""
		return eb
	}
	eb.embed.Timestamp = timestamp.UTC().Format(time.RFC3339)
	return eb
}

// WithColor sets the embed color
func (eb *EmbedBuilder) WithColor(color int) *EmbedBuilder {
	eb.embed.Color = color
	return eb
}

// WithColorName sets the embed color from a palette name or hex string.
// An unknown color is reported by Build.
func (eb *EmbedBuilder) WithColorName(name string) *EmbedBuilder {
	color, err := ResolveColor(name)
	if err != nil {
		if eb.err == nil {
			eb.err = err
		}
		return eb
	}
	eb.embed.Color = color
	return eb
}

// WithFooter sets the embed footer
func (eb *EmbedBuilder) WithFooter(text, iconURL string) *EmbedBuilder {
	eb.embed.Footer = &EmbedFooter{Text: text, IconURL: iconURL}
	return eb
}

// WithAuthor sets the embed author
func (eb *EmbedBuilder) WithAuthor(name, url, iconURL string) *EmbedBuilder {
	eb.embed.Author = &EmbedAuthor{Name: name, URL: url, IconURL: iconURL}
	return eb
}

// WithImage sets the embed image
func (eb *EmbedBuilder) WithImage(url string) *EmbedBuilder {
	eb.embed.Image = &EmbedImage{URL: url}
	return eb
}

// WithThumbnail sets the embed thumbnail
func (eb *EmbedBuilder) WithThumbnail(url string) *EmbedBuilder {
	eb.embed.Thumbnail = &EmbedThumbnail{URL: url}
	return eb
}

// AddField adds a field to the embed
func (eb *EmbedBuilder) AddField(name, value string, inline bool) *EmbedBuilder {
	eb.embed.Fields = append(eb.embed.Fields, NewEmbedField(name, value, inline))
	return eb
}

// AddFields appends several fields at once
func (eb *EmbedBuilder) AddFields(fields ...EmbedField) *EmbedBuilder {
	eb.embed.Fields = append(eb.embed.Fields, fields...)
	return eb
}

// Validate validates the current embed
func (eb *EmbedBuilder) Validate() error {
	if eb.err != nil {
		return eb.err
	}
	return eb.validator.ValidateEmbed(eb.embed)
}

// Build returns the embed, or the first error recorded while building it.
func (eb *EmbedBuilder) Build() (Embed, error) {
	if err := eb.Validate(); err != nil {
		return Embed{}, err
	}
	return eb.embed, nil
}
