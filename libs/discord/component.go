package discord

import (
	"encoding/json"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Component is anything that can be placed inside an action row.
type Component interface {
	ComponentType() discordgo.ComponentType
}

// Emoji is a unicode emoji (Name only) or a custom guild emoji.
type Emoji struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	Animated bool   `json:"animated,omitempty"`
}

// ParseEmoji accepts a unicode emoji, "name:id", "<:name:id>" or
// "<a:name:id>". It returns nil for an empty string.
func ParseEmoji(raw string) *Emoji {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	trimmed := raw
	animated := false
	if strings.HasPrefix(trimmed, "<") && strings.HasSuffix(trimmed, ">") {
		trimmed = strings.TrimSuffix(strings.TrimPrefix(trimmed, "<"), ">")
		if strings.HasPrefix(trimmed, "a:") {
			animated = true
			trimmed = strings.TrimPrefix(trimmed, "a:")
		} else {
			trimmed = strings.TrimPrefix(trimmed, ":")
		}
	}

	name, id, found := strings.Cut(trimmed, ":")
	if !found || name == "" || id == "" {
		return &Emoji{Name: raw}
	}
	return &Emoji{ID: id, Name: name, Animated: animated}
}

// ActionRow groups up to five buttons or a single select menu.
type ActionRow struct {
	Components []Component `json:"components"`
}

// ComponentType implements Component.
func (ActionRow) ComponentType() discordgo.ComponentType {
	return discordgo.ActionsRowComponent
}

// MarshalJSON adds the component type Discord expects.
func (r ActionRow) MarshalJSON() ([]byte, error) {
	type actionRow ActionRow
	return json.Marshal(struct {
		Type discordgo.ComponentType `json:"type"`
		actionRow
	}{
		Type:      r.ComponentType(),
		actionRow: actionRow(r),
	})
}
