package discord

import (
	"strings"
	"testing"
	"time"

	"github.com/aleister1102/discordkit/internal/common/errorwrapper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedBuilder_Build(t *testing.T) {
	timestamp := time.Date(2024, 5, 1, 12, 30, 0, 0, time.FixedZone("UTC+7", 7*3600))

	embed, err := NewEmbedBuilder().
		WithTitle("Test").
		WithDescription("Description").
		WithURL("https://example.com").
		WithTimestamp(timestamp).
		WithColor(0x00FF00).
		WithFooter("footer", "").
		WithAuthor("author", "", "").
		WithImage("https://example.com/a.png").
		WithThumbnail("https://example.com/b.png").
		AddField("name", "value", true).
		AddFields(NewEmbedField("second", "value", false)).
		Build()
	require.NoError(t, err)

	assert.Equal(t, "Test", embed.Title)
	assert.Equal(t, "Description", embed.Description)
	assert.Equal(t, "https://example.com", embed.URL)
	assert.Equal(t, "2024-05-01T05:30:00Z", embed.Timestamp)
	assert.Equal(t, 0x00FF00, embed.Color)
	assert.Equal(t, "footer", embed.Footer.Text)
	assert.Equal(t, "author", embed.Author.Name)
	assert.Equal(t, "https://example.com/a.png", embed.Image.URL)
	assert.Equal(t, "https://example.com/b.png", embed.Thumbnail.URL)
	assert.Len(t, embed.Fields, 2)
}

func TestEmbedBuilder_ZeroTimestampClears(t *testing.T) {
	embed, err := NewEmbedBuilder().
		WithTitle("Test").
		WithTimestamp(time.Now()).
		WithTimestamp(time.Time{}).
		Build()
	require.NoError(t, err)
	assert.Empty(t, embed.Timestamp)
}

func TestEmbedBuilder_WithColorName(t *testing.T) {
	embed, err := NewEmbedBuilder().WithTitle("t").WithColorName("Dark Blue").Build()
	require.NoError(t, err)
	assert.Equal(t, 0x206694, embed.Color)

	_, err = NewEmbedBuilder().WithTitle("t").WithColorName("no-such-color").Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, errorwrapper.ErrInvalidInput)
}

func TestEmbedValidator_ValidateEmbed(t *testing.T) {
	tooManyFields := make([]EmbedField, MaxEmbedFields+1)
	for i := range tooManyFields {
		tooManyFields[i] = NewEmbedField("n", "v", false)
	}

	tests := []struct {
		name  string
		embed Embed
		field string
	}{
		{
			name:  "valid",
			embed: Embed{Title: "ok", Fields: []EmbedField{NewEmbedField("n", "v", false)}},
		},
		{
			name:  "title counts characters not bytes",
			embed: Embed{Title: strings.Repeat("é", MaxEmbedTitleLength)},
		},
		{
			name:  "title too long",
			embed: Embed{Title: strings.Repeat("a", MaxEmbedTitleLength+1)},
			field: "title",
		},
		{
			name:  "description too long",
			embed: Embed{Description: strings.Repeat("a", MaxEmbedDescriptionLength+1)},
			field: "description",
		},
		{
			name:  "color out of range",
			embed: Embed{Color: MaxColor + 1},
			field: "color",
		},
		{
			name:  "too many fields",
			embed: Embed{Fields: tooManyFields},
			field: "fields",
		},
		{
			name:  "empty field name",
			embed: Embed{Fields: []EmbedField{NewEmbedField("", "v", false)}},
			field: "field_name",
		},
		{
			name:  "empty field value",
			embed: Embed{Fields: []EmbedField{NewEmbedField("n", "", false)}},
			field: "field_value",
		},
		{
			name:  "field value too long",
			embed: Embed{Fields: []EmbedField{NewEmbedField("n", strings.Repeat("a", MaxEmbedFieldValueLength+1), false)}},
			field: "field_value",
		},
		{
			name:  "footer too long",
			embed: Embed{Footer: &EmbedFooter{Text: strings.Repeat("a", MaxEmbedFooterLength+1)}},
			field: "footer_text",
		},
		{
			name:  "author too long",
			embed: Embed{Author: &EmbedAuthor{Name: strings.Repeat("a", MaxEmbedAuthorLength+1)}},
			field: "author_name",
		},
		{
			name: "total too long",
			embed: Embed{
				Description: strings.Repeat("a", MaxEmbedDescriptionLength),
				Footer:      &EmbedFooter{Text: strings.Repeat("a", MaxEmbedFooterLength)},
			},
			field: "embed",
		},
	}

	validator := NewEmbedValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateEmbed(tt.embed)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}

			var validationErr *errorwrapper.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}
}
