// Package palette maps retained points to RGB colors by phase and density.
package palette

import (
	"errors"
	"fmt"
	"math"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/orbitals/internal/density"
)

// ErrUnknownMode indicates a coloring mode name or value that is not defined.
var ErrUnknownMode = errors.New("palette: unknown coloring mode")

// Color is an RGB triple. Components are not clamped.
type Color = colorful.Color

// Mode selects how density modulates the phase color.
type Mode int

const (
	// Constant uses the phase color as is.
	Constant Mode = iota
	// Linear scales the phase color by density/max.
	Linear
	// Exponential scales the phase color by 2^(density/max).
	Exponential

	numModes
)

var modeNames = [numModes]string{"constant", "linear", "exponential"}

func (m Mode) Valid() bool { return m >= Constant && m < numModes }

func (m Mode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// Next cycles through the modes in declaration order.
func (m Mode) Next() Mode {
	if !m.Valid() {
		return Constant
	}
	return (m + 1) % numModes
}

// ParseMode accepts a mode name or its numeric form ("0", "1", "2").
func ParseMode(s string) (Mode, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, name := range modeNames {
		if key == name || key == fmt.Sprint(i) {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(m))
	}
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// FromHex decodes 0xRRGGBB into components in [0, 1].
func FromHex(hex uint32) Color {
	return Color{
		R: float64(hex>>16&0xff) / 255,
		G: float64(hex>>8&0xff) / 255,
		B: float64(hex&0xff) / 255,
	}
}

// Hex encodes c as 0xRRGGBB after clamping to the displayable range.
func Hex(c Color) uint32 {
	c = c.Clamped()
	r := uint32(math.Round(c.R * 255))
	g := uint32(math.Round(c.G * 255))
	b := uint32(math.Round(c.B * 255))
	return r<<16 | g<<8 | b
}

func scale(c Color, s float64) Color {
	return Color{R: c.R * s, G: c.G * s, B: c.B * s}
}

// ColorOf colors a single retained point. Psi > 0 takes pos, anything else
// takes neg. An unknown mode yields black.
func ColorOf(p density.Retained, pos, neg Color, maxDensity float64, mode Mode) Color {
	base := neg
	if p.Positive() {
		base = pos
	}

	switch mode {
	case Constant:
		return base
	case Linear:
		return scale(base, density.Normalize(p.Density, maxDensity))
	case Exponential:
		return scale(base, math.Pow(2, density.Normalize(p.Density, maxDensity)))
	}
	return Color{}
}

// Colors colors every retained point in order.
func Colors(retained []density.Retained, pos, neg Color, maxDensity float64, mode Mode) []Color {
	out := make([]Color, len(retained))
	for i, p := range retained {
		out[i] = ColorOf(p, pos, neg, maxDensity, mode)
	}
	return out
}
