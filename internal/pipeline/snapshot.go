package pipeline

import (
	"time"

	"github.com/san-kum/orbitals/internal/density"
	"github.com/san-kum/orbitals/internal/orbital"
	"github.com/san-kum/orbitals/internal/palette"
)

// Orientation is the renderer's rotation in radians, applied X then Y then Z.
type Orientation struct {
	X, Y, Z float64
}

// Spin advances X and Y by rate, the automatic rotation rule.
func (o Orientation) Spin(rate float64) Orientation {
	return Orientation{X: o.X + rate, Y: o.Y + rate, Z: o.Z}
}

// Snapshot is an immutable point-cloud buffer pair plus the settings a
// renderer needs. Positions and Colors hold three values per point, aligned
// by index.
type Snapshot struct {
	Positions []float64
	Colors    []float64
	Count     int

	// Retained backs the buffers, ascending by density. Read only.
	Retained   []density.Retained
	MaxDensity float64

	// Params is the parameter set the snapshot was built from.
	Params      Params
	Orbital     orbital.Orbital
	Orientation Orientation

	Generation uint64
	Rebuilt    Stage
	Elapsed    time.Duration
}

// Position returns the i-th point's coordinates.
func (s *Snapshot) Position(i int) (x, y, z float64) {
	return s.Positions[3*i], s.Positions[3*i+1], s.Positions[3*i+2]
}

// Color returns the i-th point's color.
func (s *Snapshot) Color(i int) palette.Color {
	return palette.Color{R: s.Colors[3*i], G: s.Colors[3*i+1], B: s.Colors[3*i+2]}
}

// Positions flattens retained points into x, y, z triples.
func Positions(retained []density.Retained) []float64 {
	buf := make([]float64, 0, 3*len(retained))
	for _, p := range retained {
		buf = append(buf, p.X, p.Y, p.Z)
	}
	return buf
}

// ColorBuffer flattens colors into r, g, b triples.
func ColorBuffer(colors []palette.Color) []float64 {
	buf := make([]float64, 0, 3*len(colors))
	for _, c := range colors {
		buf = append(buf, c.R, c.G, c.B)
	}
	return buf
}

// Assemble packs retained points and their colors into renderer buffers.
func Assemble(retained []density.Retained, colors []palette.Color) (positions, colorBuf []float64) {
	return Positions(retained), ColorBuffer(colors)
}
