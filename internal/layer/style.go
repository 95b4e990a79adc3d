package layer

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// AnimationPalette colours animation tracks by category, cycling.
var AnimationPalette = []string{"red", "blue", "green", "orange", "purple", "cyan", "magenta"}

var namedColors = map[string]string{
	"red":     "#ff0000",
	"blue":    "#0000ff",
	"green":   "#008000",
	"orange":  "#ffa500",
	"purple":  "#800080",
	"cyan":    "#00ffff",
	"magenta": "#ff00ff",
	"white":   "#ffffff",
	"black":   "#000000",
}

// ParseColor accepts a colour name, a #rrggbb hex string or an "r,g,b"
// triple.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if hex, ok := namedColors[s]; ok {
		s = hex
	}
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("parse colour %q: %w", s, err)
		}
		r, g, b := c.RGB255()
		return color.RGBA{R: r, G: g, B: b, A: 255}, nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return color.RGBA{}, fmt.Errorf("parse colour %q: want name, #rrggbb or r,g,b", s)
	}
	var rgb [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("parse colour %q: %w", s, err)
		}
		rgb[i] = uint8(v)
	}
	return color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}, nil
}

func mustColor(s string) color.RGBA {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats c as #rrggbb.
func Hex(c color.Color) string {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return "#000000"
	}
	return cf.Hex()
}

// PaletteCategories assigns AnimationPalette colours to values in order.
func PaletteCategories(values []string, width float64) []Category {
	cats := make([]Category, len(values))
	for i, v := range values {
		c := mustColor(AnimationPalette[i%len(AnimationPalette)])
		cats[i] = Category{Value: v, Label: v, Symbol: LineSymbol(c, width)}
	}
	return cats
}
