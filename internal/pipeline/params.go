package pipeline

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/orbitals/internal/density"
	"github.com/san-kum/orbitals/internal/orbital"
	"github.com/san-kum/orbitals/internal/palette"
)

const (
	DefaultSampleCount   = 1000000
	DefaultMaxRadius     = 50000.0
	DefaultThreshold     = 0.95
	DefaultPositiveColor = 0xff0000
	DefaultNegativeColor = 0x00ff00
	DefaultPointSize     = 1.0
	DefaultRotationRate  = 0.003
)

// ErrInvalidParams indicates a parameter set that cannot be rendered.
var ErrInvalidParams = errors.New("pipeline: invalid parameters")

// Params is the full parameter set. Each field belongs to exactly one stage.
type Params struct {
	SampleCount int
	MaxRadius   float64
	Seed        int64

	Selector orbital.Selector

	Threshold float64

	Mode          palette.Mode
	PositiveColor uint32
	NegativeColor uint32

	PointSize    float64
	RotationRate float64
}

func DefaultParams() Params {
	return Params{
		SampleCount:   DefaultSampleCount,
		MaxRadius:     DefaultMaxRadius,
		Seed:          1,
		Selector:      orbital.Orbital3dz2.Selector(),
		Threshold:     DefaultThreshold,
		Mode:          palette.Exponential,
		PositiveColor: DefaultPositiveColor,
		NegativeColor: DefaultNegativeColor,
		PointSize:     DefaultPointSize,
		RotationRate:  DefaultRotationRate,
	}
}

// Validate rejects parameter sets before any stage runs.
func (p Params) Validate() error {
	if p.SampleCount < 0 {
		return fmt.Errorf("%w: sample count %d is negative", ErrInvalidParams, p.SampleCount)
	}
	if !(p.MaxRadius > 0) || math.IsInf(p.MaxRadius, 0) {
		return fmt.Errorf("%w: max radius %g must be positive", ErrInvalidParams, p.MaxRadius)
	}
	if _, err := orbital.Lookup(p.Selector); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	if _, err := density.CutoffIndex(0, p.Threshold); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	if !p.Mode.Valid() {
		return fmt.Errorf("%w: %w: %d", ErrInvalidParams, palette.ErrUnknownMode, int(p.Mode))
	}
	if p.PositiveColor > 0xffffff || p.NegativeColor > 0xffffff {
		return fmt.Errorf("%w: phase colors must be 0xRRGGBB", ErrInvalidParams)
	}
	if !(p.PointSize > 0) {
		return fmt.Errorf("%w: point size %g must be positive", ErrInvalidParams, p.PointSize)
	}
	if math.IsNaN(p.RotationRate) || math.IsInf(p.RotationRate, 0) {
		return fmt.Errorf("%w: rotation rate %g is not finite", ErrInvalidParams, p.RotationRate)
	}
	return nil
}

// Stage identifies one step of the pipeline, in dependency order.
type Stage int

const (
	StageSample Stage = iota
	StageEvaluate
	StageFilter
	StageColor
	StageDisplay

	// StageNone means nothing needs rebuilding.
	StageNone
)

var stageNames = [...]string{"sample", "evaluate", "filter", "color", "display", "none"}

func (s Stage) String() string {
	if s < StageSample || s > StageNone {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

// Invalidated returns the earliest stage whose parameters differ between prev
// and next, or StageNone when they are identical.
func Invalidated(prev, next Params) Stage {
	switch {
	case prev.SampleCount != next.SampleCount || prev.MaxRadius != next.MaxRadius || prev.Seed != next.Seed:
		return StageSample
	case prev.Selector != next.Selector:
		return StageEvaluate
	case prev.Threshold != next.Threshold:
		return StageFilter
	case prev.Mode != next.Mode || prev.PositiveColor != next.PositiveColor || prev.NegativeColor != next.NegativeColor:
		return StageColor
	case prev.PointSize != next.PointSize || prev.RotationRate != next.RotationRate:
		return StageDisplay
	}
	return StageNone
}
