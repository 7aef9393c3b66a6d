package discord

import (
	"fmt"

	"github.com/aleister1102/discordkit/internal/common/errorwrapper"
	"github.com/samber/lo"
)

const (
	MaxButtonsPerRow  = 5
	MaxRowsPerMessage = 5
)

// ActionRowBuilder helps in constructing ActionRow objects.
type ActionRowBuilder struct {
	row ActionRow
}

// NewActionRowBuilder creates a new action row builder
func NewActionRowBuilder() *ActionRowBuilder {
	return &ActionRowBuilder{}
}

// AddButtons appends buttons to the row
func (ab *ActionRowBuilder) AddButtons(buttons ...Button) *ActionRowBuilder {
	for _, button := range buttons {
		ab.row.Components = append(ab.row.Components, button)
	}
	return ab
}

// WithSelectMenu adds a select menu; a row holding one cannot hold anything else
func (ab *ActionRowBuilder) WithSelectMenu(menu SelectMenu) *ActionRowBuilder {
	ab.row.Components = append(ab.row.Components, menu)
	return ab
}

// Build validates and returns the row
func (ab *ActionRowBuilder) Build() (ActionRow, error) {
	if err := ValidateActionRow(ab.row); err != nil {
		return ActionRow{}, err
	}
	return ab.row, nil
}

// ValidateActionRow checks the row layout and every component in it.
func ValidateActionRow(row ActionRow) error {
	if len(row.Components) == 0 {
		return errorwrapper.NewValidationError("components", 0, "action row cannot be empty")
	}

	menus := lo.CountBy(row.Components, func(c Component) bool {
		_, ok := c.(SelectMenu)
		return ok
	})
	if menus > 0 && len(row.Components) > 1 {
		return errorwrapper.NewValidationError("components", len(row.Components), "a select menu must be alone in its action row")
	}
	if len(row.Components) > MaxButtonsPerRow {
		return errorwrapper.NewValidationError("components", len(row.Components), fmt.Sprintf("action row cannot hold more than %d buttons", MaxButtonsPerRow))
	}

	for _, component := range row.Components {
		var err error
		switch c := component.(type) {
		case Button:
			err = ValidateButton(c)
		case SelectMenu:
			err = ValidateSelectMenu(c)
		default:
			err = errorwrapper.NewValidationError("components", component.ComponentType(), "unsupported component in action row")
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// DisableAll returns a copy of rows with every button and select menu disabled.
func DisableAll(rows []ActionRow) []ActionRow {
	return lo.Map(rows, func(row ActionRow, _ int) ActionRow {
		return ActionRow{Components: lo.Map(row.Components, func(component Component, _ int) Component {
			switch c := component.(type) {
			case Button:
				c.Disabled = true
				return c
			case SelectMenu:
				c.Disabled = true
				return c
			default:
				return component
			}
		})}
	})
}
