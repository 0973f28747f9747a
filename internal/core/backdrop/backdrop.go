// Package backdrop computes the colours painted behind the clock card.
package backdrop

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	// CountdownStart is the backdrop colour when a countdown begins.
	CountdownStart = color.NRGBA{R: 52, G: 152, B: 219, A: 255}
	// CountdownEnd is the backdrop colour when a countdown reaches zero.
	CountdownEnd = color.NRGBA{R: 231, G: 76, B: 60, A: 255}
)

// Interpolate blends from CountdownStart to CountdownEnd by the elapsed
// fraction of the countdown. Progress is clamped to [0, 1].
func Interpolate(progress float64) color.NRGBA {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	from, _ := colorful.MakeColor(CountdownStart)
	to, _ := colorful.MakeColor(CountdownEnd)
	return toNRGBA(from.BlendRgb(to, progress))
}

// Gradient is the three-stop diagonal fill derived from a base colour.
type Gradient struct {
	Start  color.NRGBA
	Middle color.NRGBA
	End    color.NRGBA
}

// ParseHex parses a #rrggbb colour.
func ParseHex(value string) (color.NRGBA, error) {
	value = strings.TrimSpace(value)
	if !strings.HasPrefix(value, "#") {
		value = "#" + value
	}
	parsed, err := colorful.Hex(value)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("parse colour %q: %w", value, err)
	}
	return toNRGBA(parsed), nil
}

// GradientFrom builds the backdrop gradient for a base colour; the middle
// and end stops are each channel darkened by 20 and 40.
func GradientFrom(hex string) (Gradient, error) {
	base, err := ParseHex(hex)
	if err != nil {
		return Gradient{}, err
	}
	return Gradient{
		Start:  base,
		Middle: darken(base, 20),
		End:    darken(base, 40),
	}, nil
}

// Hex formats a colour as #rrggbb.
func Hex(value color.NRGBA) string {
	parsed, _ := colorful.MakeColor(color.NRGBA{R: value.R, G: value.G, B: value.B, A: 255})
	return parsed.Hex()
}

func darken(base color.NRGBA, amount uint8) color.NRGBA {
	sub := func(channel uint8) uint8 {
		if channel < amount {
			return 0
		}
		return channel - amount
	}
	return color.NRGBA{R: sub(base.R), G: sub(base.G), B: sub(base.B), A: base.A}
}

func toNRGBA(value colorful.Color) color.NRGBA {
	r, g, b := value.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}
