// Package palette resolves colour identifiers used in system
// configurations. An identifier is either a CSS colour name ("orange") or a
// hex triplet ("#ff8800").
package palette

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Fallback is used by MustParse when an identifier cannot be resolved.
var Fallback = color.RGBA{200, 200, 255, 255}

// Parse resolves a colour identifier.
func Parse(id string) (color.RGBA, error) {
	id = strings.TrimSpace(strings.ToLower(id))
	if id == "" {
		return color.RGBA{}, fmt.Errorf("palette: empty colour")
	}
	if strings.HasPrefix(id, "#") {
		c, err := colorful.Hex(id)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("palette: %q: %w", id, err)
		}
		r, g, b := c.RGB255()
		return color.RGBA{r, g, b, 255}, nil
	}
	if c, ok := colornames.Map[id]; ok {
		return c, nil
	}
	return color.RGBA{}, fmt.Errorf("palette: unknown colour %q", id)
}

// MustParse resolves id or returns Fallback.
func MustParse(id string) color.RGBA {
	c, err := Parse(id)
	if err != nil {
		return Fallback
	}
	return c
}

// Hex returns the #rrggbb form of a colour identifier, or the fallback's.
func Hex(id string) string {
	c := MustParse(id)
	cf, _ := colorful.MakeColor(c)
	return cf.Hex()
}
