package discord

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/aleister1102/discordkit/internal/common/errorwrapper"
	"github.com/bwmarrin/discordgo"
	"github.com/samber/lo"
)

const (
	MaxSelectMenuOptions       = 25
	MaxSelectOptionLength      = 100
	MaxSelectPlaceholderLength = 150
)

// SelectMenuOption is one choice of a string select menu.
type SelectMenuOption struct {
	Label       string `json:"label"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
	Emoji       *Emoji `json:"emoji,omitempty"`
	Default     bool   `json:"default,omitempty"`
}

// SelectMenu represents a string select menu component.
type SelectMenu struct {
	CustomID    string             `json:"custom_id"`
	Placeholder string             `json:"placeholder,omitempty"`
	MinValues   *int               `json:"min_values,omitempty"` // Nil lets Discord default to 1
	MaxValues   int                `json:"max_values,omitempty"`
	Options     []SelectMenuOption `json:"options"`
	Disabled    bool               `json:"disabled,omitempty"`
}

// ComponentType implements Component.
func (SelectMenu) ComponentType() discordgo.ComponentType {
	return discordgo.SelectMenuComponent
}

// MarshalJSON adds the component type Discord expects.
func (m SelectMenu) MarshalJSON() ([]byte, error) {
	type selectMenu SelectMenu
	return json.Marshal(struct {
		Type discordgo.ComponentType `json:"type"`
		selectMenu
	}{
		Type:       m.ComponentType(),
		selectMenu: selectMenu(m),
	})
}

// SelectMenuBuilder helps in constructing SelectMenu objects.
type SelectMenuBuilder struct {
	menu SelectMenu
}

// NewSelectMenuBuilder creates a new select menu builder
func NewSelectMenuBuilder(customID string) *SelectMenuBuilder {
	return &SelectMenuBuilder{menu: SelectMenu{CustomID: customID}}
}

// WithPlaceholder sets the text shown when nothing is selected
func (sb *SelectMenuBuilder) WithPlaceholder(placeholder string) *SelectMenuBuilder {
	sb.menu.Placeholder = placeholder
	return sb
}

// WithMinValues sets the minimum number of selected options
func (sb *SelectMenuBuilder) WithMinValues(minValues int) *SelectMenuBuilder {
	sb.menu.MinValues = &minValues
	return sb
}

// WithMaxValues sets the maximum number of selected options
func (sb *SelectMenuBuilder) WithMaxValues(maxValues int) *SelectMenuBuilder {
	sb.menu.MaxValues = maxValues
	return sb
}

// WithDisabled sets whether the menu is disabled
func (sb *SelectMenuBuilder) WithDisabled(disabled bool) *SelectMenuBuilder {
	sb.menu.Disabled = disabled
	return sb
}

// AddOption adds a single option
func (sb *SelectMenuBuilder) AddOption(label, value, description string) *SelectMenuBuilder {
	sb.menu.Options = append(sb.menu.Options, SelectMenuOption{
		Label:       label,
		Value:       value,
		Description: description,
	})
	return sb
}

// AddOptions appends fully specified options
func (sb *SelectMenuBuilder) AddOptions(options ...SelectMenuOption) *SelectMenuBuilder {
	sb.menu.Options = append(sb.menu.Options, options...)
	return sb
}

// AddValues adds one option per value, using the value as its label
func (sb *SelectMenuBuilder) AddValues(values ...string) *SelectMenuBuilder {
	return sb.AddOptions(lo.Map(values, func(value string, _ int) SelectMenuOption {
		return SelectMenuOption{Label: value, Value: value}
	})...)
}

// Build validates and returns the select menu
func (sb *SelectMenuBuilder) Build() (SelectMenu, error) {
	if err := ValidateSelectMenu(sb.menu); err != nil {
		return SelectMenu{}, err
	}
	return sb.menu, nil
}

// ValidateSelectMenu checks option counts, lengths and value bounds.
func ValidateSelectMenu(menu SelectMenu) error {
	if err := validateCustomID(menu.CustomID); err != nil {
		return err
	}
	if utf8.RuneCountInString(menu.Placeholder) > MaxSelectPlaceholderLength {
		return errorwrapper.NewValidationError("placeholder", menu.Placeholder, fmt.Sprintf("placeholder cannot exceed %d characters", MaxSelectPlaceholderLength))
	}

	count := len(menu.Options)
	if count == 0 || count > MaxSelectMenuOptions {
		return errorwrapper.NewValidationError("options", count, fmt.Sprintf("select menu needs between 1 and %d options", MaxSelectMenuOptions))
	}

	for i, option := range menu.Options {
		if option.Label == "" || option.Value == "" {
			return errorwrapper.NewValidationError("options", option, fmt.Sprintf("option %d needs a label and a value", i))
		}
		if utf8.RuneCountInString(option.Label) > MaxSelectOptionLength ||
			utf8.RuneCountInString(option.Value) > MaxSelectOptionLength ||
			utf8.RuneCountInString(option.Description) > MaxSelectOptionLength {
			return errorwrapper.NewValidationError("options", option, fmt.Sprintf("option %d text cannot exceed %d characters", i, MaxSelectOptionLength))
		}
	}

	if duplicates := lo.FindDuplicatesBy(menu.Options, func(option SelectMenuOption) string { return option.Value }); len(duplicates) > 0 {
		return errorwrapper.NewValidationError("options", duplicates[0].Value, "option values must be unique")
	}

	minValues := 1
	if menu.MinValues != nil {
		minValues = *menu.MinValues
	}
	maxValues := menu.MaxValues
	if maxValues == 0 {
		maxValues = 1
	}
	if minValues < 0 || minValues > maxValues || maxValues > count {
		return errorwrapper.NewValidationError("values", fmt.Sprintf("%d..%d", minValues, maxValues),
			fmt.Sprintf("value bounds must satisfy 0 <= min <= max <= %d", count))
	}

	if defaults := lo.CountBy(menu.Options, func(option SelectMenuOption) bool { return option.Default }); defaults > maxValues {
		return errorwrapper.NewValidationError("options", defaults, "more default options than max values")
	}
	return nil
}
