package discord

import (
	"fmt"
	"unicode/utf8"

	"github.com/aleister1102/discordkit/internal/common/errorwrapper"
)

// Discord embed limits, counted in characters.
const (
	MaxEmbedTitleLength       = 256
	MaxEmbedDescriptionLength = 4096
	MaxEmbedFields            = 25
	MaxEmbedFieldNameLength   = 256
	MaxEmbedFieldValueLength  = 1024
	MaxEmbedFooterLength      = 2048
	MaxEmbedAuthorLength      = 256
	MaxEmbedTotalLength       = 6000
)

// EmbedValidator validates Discord embed objects
type EmbedValidator struct{}

// NewEmbedValidator creates a new embed validator
func NewEmbedValidator() *EmbedValidator {
	return &EmbedValidator{}
}

// ValidateEmbed validates a Discord embed
func (ev *EmbedValidator) ValidateEmbed(embed Embed) error {
	if utf8.RuneCountInString(embed.Title) > MaxEmbedTitleLength {
		return errorwrapper.NewValidationError("title", embed.Title, fmt.Sprintf("title cannot exceed %d characters", MaxEmbedTitleLength))
	}

	if utf8.RuneCountInString(embed.Description) > MaxEmbedDescriptionLength {
		return errorwrapper.NewValidationError("description", embed.Description, fmt.Sprintf("description cannot exceed %d characters", MaxEmbedDescriptionLength))
	}

	if embed.Color < 0 || embed.Color > MaxColor {
		return errorwrapper.NewValidationError("color", embed.Color, fmt.Sprintf("color must be between 0 and %#x", MaxColor))
	}

	if len(embed.Fields) > MaxEmbedFields {
		return errorwrapper.NewValidationError("fields", len(embed.Fields), fmt.Sprintf("cannot have more than %d fields", MaxEmbedFields))
	}

	for i, field := range embed.Fields {
		if field.Name == "" {
			return errorwrapper.NewValidationError("field_name", field.Name, fmt.Sprintf("field %d name cannot be empty", i))
		}
		if field.Value == "" {
			return errorwrapper.NewValidationError("field_value", field.Value, fmt.Sprintf("field %d value cannot be empty", i))
		}
		if utf8.RuneCountInString(field.Name) > MaxEmbedFieldNameLength {
			return errorwrapper.NewValidationError("field_name", field.Name, fmt.Sprintf("field %d name cannot exceed %d characters", i, MaxEmbedFieldNameLength))
		}
		if utf8.RuneCountInString(field.Value) > MaxEmbedFieldValueLength {
			return errorwrapper.NewValidationError("field_value", field.Value, fmt.Sprintf("field %d value cannot exceed %d characters", i, MaxEmbedFieldValueLength))
		}
	}

	if embed.Footer != nil && utf8.RuneCountInString(embed.Footer.Text) > MaxEmbedFooterLength {
		return errorwrapper.NewValidationError("footer_text", embed.Footer.Text, fmt.Sprintf("footer text cannot exceed %d characters", MaxEmbedFooterLength))
	}

	if embed.Author != nil && utf8.RuneCountInString(embed.Author.Name) > MaxEmbedAuthorLength {
		return errorwrapper.NewValidationError("author_name", embed.Author.Name, fmt.Sprintf("author name cannot exceed %d characters", MaxEmbedAuthorLength))
	}

	if total := embed.length(); total > MaxEmbedTotalLength {
		return errorwrapper.NewValidationError("embed", total, fmt.Sprintf("embed text cannot exceed %d characters in total", MaxEmbedTotalLength))
	}

	return nil
}
