package discord

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aleister1102/discordkit/internal/common/errorwrapper"
)

// MaxColor is the largest RGB value an embed accepts.
const MaxColor = 0xFFFFFF

// Palette maps lower-case color names to their RGB value.
var Palette = map[string]int{
	"default":           0x000000,
	"white":             0xFFFFFF,
	"aqua":              0x1ABC9C,
	"green":             0x57F287,
	"blue":              0x3498DB,
	"yellow":            0xFEE75C,
	"purple":            0x9B59B6,
	"luminousvividpink": 0xE91E63,
	"fuchsia":           0xEB459E,
	"gold":              0xF1C40F,
	"orange":            0xE67E22,
	"red":               0xED4245,
	"grey":              0x95A5A6,
	"navy":              0x34495E,
	"darkaqua":          0x11806A,
	"darkgreen":         0x1F8B4C,
	"darkblue":          0x206694,
	"darkpurple":        0x71368A,
	"darkvividpink":     0xAD1457,
	"darkgold":          0xC27C0E,
	"darkorange":        0xA84300,
	"darkred":           0x992D22,
	"darkgrey":          0x979C9F,
	"darkergrey":        0x7F8C8D,
	"lightgrey":         0xBCC0C0,
	"darknavy":          0x2C3E50,
	"blurple":           0x5865F2,
	"greyple":           0x99AAB5,
	"darkbutnotblack":   0x2C2F33,
	"notquiteblack":     0x23272A,
	"success":           0x5CB85C,
	"error":             0xD9534F,
	"warning":           0xF0AD4E,
	"info":              0x5BC0DE,
}

// ResolveColor turns a palette name ("red", "Dark Blue", "dark_blue") or a
// hex string ("#ff0000", "0xff0000", "ff0000") into an RGB value.
func ResolveColor(value string) (int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, errorwrapper.NewValidationError("color", value, "color cannot be empty")
	}

	key := strings.ToLower(strings.NewReplacer(" ", "", "_", "", "-", "").Replace(trimmed))
	if color, ok := Palette[key]; ok {
		return color, nil
	}

	hex := strings.TrimPrefix(strings.ToLower(trimmed), "#")
	hex = strings.TrimPrefix(hex, "0x")
	if len(hex) == 0 || len(hex) > 6 {
		return 0, errorwrapper.NewValidationError("color", value, "unknown color name or hex value")
	}
	color, err := strconv.ParseInt(hex, 16, 32)
	if err != nil {
		return 0, errorwrapper.NewValidationError("color", value, fmt.Sprintf("unknown color name or hex value: %v", err))
	}
	return int(color), nil
}
