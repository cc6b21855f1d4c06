package render

import (
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ParseHex reads #rgb or #rrggbb, with or without the leading '#'. Anything
// unreadable is opaque black, the default pen colour.
func ParseHex(s string) color.NRGBA {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{A: 0xff}
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}
}

// Hex formats c as #rrggbb, dropping alpha. Fully transparent colours come
// out black.
func Hex(c color.Color) string {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return "#000000"
	}
	return cf.Hex()
}
