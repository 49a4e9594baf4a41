package analysis

import (
	"time"

	"github.com/san-kum/orbitals/internal/density"
	"github.com/san-kum/orbitals/internal/orbital"
	"github.com/san-kum/orbitals/internal/pipeline"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes one published snapshot.
type Summary struct {
	Orbital    orbital.Orbital
	Count      int
	Positive   int
	Negative   int
	MeanRadius float64
	StdRadius  float64
	MaxRadius  float64
	MaxDensity float64
	Generation uint64
	Elapsed    time.Duration
}

func Summarize(s *pipeline.Snapshot) Summary {
	sum := Summary{
		Orbital:    s.Orbital,
		Count:      s.Count,
		MaxDensity: s.MaxDensity,
		Generation: s.Generation,
		Elapsed:    s.Elapsed,
	}
	if len(s.Retained) == 0 {
		return sum
	}

	radii := Radii(s.Retained)
	for _, p := range s.Retained {
		if p.Positive() {
			sum.Positive++
		} else {
			sum.Negative++
		}
	}

	if len(radii) == 1 {
		sum.MeanRadius = radii[0]
	} else {
		sum.MeanRadius, sum.StdRadius = stat.MeanStdDev(radii, nil)
	}
	sum.MaxRadius = floats.Max(radii)
	return sum
}

func Radii(retained []density.Retained) []float64 {
	radii := make([]float64, len(retained))
	for i, p := range retained {
		radii[i] = p.Rho
	}
	return radii
}

// RadialProfile bins retained radii over [0, maxRadius] and returns the
// fraction of points per bin. Radii at or beyond maxRadius land in the last
// bin.
func RadialProfile(retained []density.Retained, bins int, maxRadius float64) []float64 {
	if bins <= 0 {
		return nil
	}
	hist := make([]float64, bins)
	if len(retained) == 0 || !(maxRadius > 0) {
		return hist
	}

	for _, r := range Radii(retained) {
		i := int(r / maxRadius * float64(bins))
		if i >= bins {
			i = bins - 1
		}
		if i < 0 {
			i = 0
		}
		hist[i]++
	}
	floats.Scale(1/floats.Sum(hist), hist)
	return hist
}

// PeakRadius returns the center of the most populated profile bin.
func PeakRadius(profile []float64, maxRadius float64) float64 {
	if len(profile) == 0 {
		return 0
	}
	width := maxRadius / float64(len(profile))
	return (float64(floats.MaxIdx(profile)) + 0.5) * width
}
