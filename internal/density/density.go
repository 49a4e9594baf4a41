// Package density turns sampled points into a probability field and keeps the
// highest-density fraction of it.
package density

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/orbitals/internal/orbital"
	"github.com/san-kum/orbitals/internal/sampling"
	"gonum.org/v1/gonum/floats"
)

// ErrThresholdRange indicates a threshold fraction outside [0, 1].
var ErrThresholdRange = errors.New("density: threshold fraction out of [0, 1]")

// Evaluated is a sample with its amplitude and density (Psi squared).
type Evaluated struct {
	sampling.Point
	Psi     float64
	Density float64
}

// Positive reports whether the point lies in the positive phase. Zero is
// negative phase.
func (e Evaluated) Positive() bool { return e.Psi > 0 }

// Retained is an evaluated point that survived the cutoff.
type Retained struct {
	Evaluated
	Normalized float64
}

// Field is an evaluated point set sorted ascending by density.
type Field struct {
	points []Evaluated
	max    float64
}

// Evaluate computes amplitudes for every point and sorts the result. The input
// slice is not modified.
func Evaluate(orb orbital.Orbital, points []sampling.Point) *Field {
	evaluated := make([]Evaluated, len(points))
	for i, p := range points {
		psi := orb.Psi(p.Rho, p.Theta, p.Phi)
		evaluated[i] = Evaluated{Point: p, Psi: psi, Density: psi * psi}
	}
	return NewField(evaluated)
}

// NewField sorts a copy of evaluated and records the global maximum density.
func NewField(evaluated []Evaluated) *Field {
	sorted := make([]Evaluated, len(evaluated))
	copy(sorted, evaluated)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Density < sorted[j].Density })

	f := &Field{points: sorted}
	if len(sorted) > 0 {
		densities := make([]float64, len(sorted))
		for i, e := range sorted {
			densities[i] = e.Density
		}
		f.max = floats.Max(densities)
	}
	return f
}

func (f *Field) Len() int { return len(f.points) }

// Max is the maximum density over the whole field, independent of any cutoff.
func (f *Field) Max() float64 { return f.max }

// Points returns the sorted points. Callers must not modify the slice.
func (f *Field) Points() []Evaluated { return f.points }

// CutoffIndex is floor(len*fraction), clamped so at least one point survives
// when the field is non-empty.
func CutoffIndex(n int, fraction float64) (int, error) {
	if math.IsNaN(fraction) || fraction < 0 || fraction > 1 {
		return 0, fmt.Errorf("%w: %g", ErrThresholdRange, fraction)
	}
	if n == 0 {
		return 0, nil
	}
	idx := int(math.Floor(float64(n) * fraction))
	if idx > n-1 {
		idx = n - 1
	}
	return idx, nil
}

// Retain keeps the suffix [cutoff, len) and normalizes each density by the
// field maximum.
func (f *Field) Retain(fraction float64) ([]Retained, error) {
	idx, err := CutoffIndex(len(f.points), fraction)
	if err != nil {
		return nil, err
	}

	kept := f.points[idx:]
	out := make([]Retained, len(kept))
	for i, e := range kept {
		out[i] = Retained{Evaluated: e, Normalized: Normalize(e.Density, f.max)}
	}
	return out, nil
}

// Filter is the one-shot form of NewField followed by Retain. It also returns
// the maximum density of the full input.
func Filter(evaluated []Evaluated, fraction float64) ([]Retained, float64, error) {
	if _, err := CutoffIndex(len(evaluated), fraction); err != nil {
		return nil, 0, err
	}
	f := NewField(evaluated)
	kept, err := f.Retain(fraction)
	return kept, f.max, err
}

// Normalize returns d/maxDensity, or 0 when maxDensity is zero.
func Normalize(d, maxDensity float64) float64 {
	if maxDensity == 0 {
		return 0
	}
	return d / maxDensity
}
