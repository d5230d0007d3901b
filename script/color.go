package script

import (
	"regexp"
	"strconv"
	"strings"
)

var colorPattern = regexp.MustCompile(`^&H[0-9A-Fa-f]{6,8}$|^\d+$`)

// ValidColor reports whether s is &H followed by 6-8 hex digits or a bare
// decimal integer.
func ValidColor(s string) bool {
	return colorPattern.MatchString(s)
}

// Color is a decoded ASS colour. ASS stores components as &HAABBGGRR, where
// alpha 00 is opaque and FF fully transparent.
type Color struct {
	R, G, B  uint8
	A        uint8
	HasAlpha bool
}

// ParseColor decodes &HBBGGRR, &HAABBGGRR (optionally wrapped in a trailing
// '&') or the decimal form of the same 32-bit value.
func ParseColor(s string) (Color, bool) {
	s = strings.TrimSpace(s)
	if rest, ok := cutPrefixFold(s, "&H"); ok {
		hex := strings.TrimSuffix(rest, "&")
		if len(hex) < 6 || len(hex) > 8 {
			return Color{}, false
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return Color{}, false
		}
		return fromValue(uint32(v), len(hex) > 6), true
	}

	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return Color{}, false
	}
	return fromValue(uint32(v), v > 0xFFFFFF), true
}

// Opacity returns the alpha channel as a 0-100 opacity percentage.
func (c Color) Opacity() int {
	return int(255-c.A) * 100 / 255
}

func fromValue(v uint32, alpha bool) Color {
	c := Color{
		R: uint8(v),
		G: uint8(v >> 8),
		B: uint8(v >> 16),
	}
	if alpha {
		c.A = uint8(v >> 24)
		c.HasAlpha = true
	}
	return c
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return s, false
}
