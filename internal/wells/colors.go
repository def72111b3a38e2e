package wells

import (
	"fmt"
	"image/color"
	"math/rand"
	"strconv"

	"gorm.io/gorm"
)

var grey = color.RGBA{R: 158, G: 158, B: 158, A: 255}

// ParseHexColor parses "#rrggbb". Anything else is an error.
func ParseHexColor(hex string) (color.RGBA, error) {
	if len(hex) != 7 || hex[0] != '#' {
		return color.RGBA{}, fmt.Errorf("invalid color %q", hex)
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// RGB is the Deck.gl fill colour for the organisation's markers.
func (o *Organisation) RGB() [4]uint8 {
	c, err := ParseHexColor(o.Color)
	if err != nil {
		c = grey
	}
	return [4]uint8{c.R, c.G, c.B, 200}
}

// RandomColor picks a default colour for organisations created without one.
func RandomColor() string {
	return fmt.Sprintf("#%02x%02x%02x", rand.Intn(256), rand.Intn(256), rand.Intn(256))
}

// BeforeCreate gives new organisations a colour so their markers stay distinguishable.
func (o *Organisation) BeforeCreate(tx *gorm.DB) error {
	if o.Color == "" {
		o.Color = RandomColor()
	}
	return nil
}
