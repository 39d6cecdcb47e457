package theme

import "strconv"

// rgb holds 8-bit color channels.
type rgb struct {
	r, g, b uint8
}

// parseHex parses "#RRGGBB" or "RRGGBB".
func parseHex(s string) (rgb, bool) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) != 6 {
		return rgb{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return rgb{}, false
	}
	return rgb{
		r: uint8(v >> 16),
		g: uint8(v >> 8),
		b: uint8(v),
	}, true
}

// Luminance returns the relative luminance of a hex color in [0,1],
// using the WCAG coefficients. Unparseable input counts as dark so
// callers fall back to a light foreground.
func Luminance(hexColor string) float64 {
	c, ok := parseHex(hexColor)
	if !ok {
		return 0
	}
	return (0.2126*float64(c.r) + 0.7152*float64(c.g) + 0.0722*float64(c.b)) / 255
}
