package pipeline

import (
	"log/slog"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/san-kum/orbitals/internal/density"
	"github.com/san-kum/orbitals/internal/orbital"
	"github.com/san-kum/orbitals/internal/palette"
	"github.com/san-kum/orbitals/internal/sampling"
)

// stageCache holds the memoized output of every stage. Slices are replaced,
// never mutated, so published snapshots can share them.
type stageCache struct {
	points    []sampling.Point
	orbital   orbital.Orbital
	field     *density.Field
	retained  []density.Retained
	positions []float64
	colors    []float64
}

// Orchestrator owns the parameters, the stage cache and the published
// snapshot.
type Orchestrator struct {
	mu         sync.Mutex
	params     Params
	cache      stageCache
	generation uint64

	snap atomic.Pointer[Snapshot]

	viewMu      sync.Mutex
	orientation Orientation

	log *slog.Logger
}

// New validates p and builds the first snapshot. A nil logger uses
// slog.Default().
func New(p Params, log *slog.Logger) (*Orchestrator, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	o := &Orchestrator{log: log}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rebuild(p, StageSample)
	return o, nil
}

// Snapshot returns the most recently published snapshot.
func (o *Orchestrator) Snapshot() *Snapshot { return o.snap.Load() }

// Params returns a copy of the current parameters.
func (o *Orchestrator) Params() Params {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.params
}

// Apply replaces the parameter set and reruns only the invalidated stages.
// An invalid set changes nothing and the previous snapshot stays published.
func (o *Orchestrator) Apply(next Params) (*Snapshot, error) {
	return o.Update(func(p *Params) { *p = next })
}

// Update applies fn to a copy of the current parameters under the rebuild
// lock, so concurrent setters never lose each other's changes.
func (o *Orchestrator) Update(fn func(p *Params)) (*Snapshot, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	next := o.params
	fn(&next)
	if err := next.Validate(); err != nil {
		o.log.Warn("parameter change rejected", "error", err)
		return nil, err
	}

	from := Invalidated(o.params, next)
	if from == StageNone {
		return o.snap.Load(), nil
	}
	return o.rebuild(next, from), nil
}

func (o *Orchestrator) SetSampleCount(n int) (*Snapshot, error) {
	return o.Update(func(p *Params) { p.SampleCount = n })
}

func (o *Orchestrator) SetMaxRadius(r float64) (*Snapshot, error) {
	return o.Update(func(p *Params) { p.MaxRadius = r })
}

func (o *Orchestrator) SetSeed(seed int64) (*Snapshot, error) {
	return o.Update(func(p *Params) { p.Seed = seed })
}

func (o *Orchestrator) SetSelector(sel orbital.Selector) (*Snapshot, error) {
	return o.Update(func(p *Params) { p.Selector = sel })
}

func (o *Orchestrator) SetOrbital(orb orbital.Orbital) (*Snapshot, error) {
	return o.SetSelector(orb.Selector())
}

func (o *Orchestrator) SetPrincipal(n int) (*Snapshot, error) {
	return o.Update(func(p *Params) { p.Selector.N = n })
}

func (o *Orchestrator) SetAngular(l int) (*Snapshot, error) {
	return o.Update(func(p *Params) { p.Selector.L = l })
}

func (o *Orchestrator) SetLabel(label string) (*Snapshot, error) {
	return o.Update(func(p *Params) { p.Selector.Label = label })
}

func (o *Orchestrator) SetThreshold(fraction float64) (*Snapshot, error) {
	return o.Update(func(p *Params) { p.Threshold = fraction })
}

func (o *Orchestrator) SetMode(m palette.Mode) (*Snapshot, error) {
	return o.Update(func(p *Params) { p.Mode = m })
}

func (o *Orchestrator) SetPositiveColor(hex uint32) (*Snapshot, error) {
	return o.Update(func(p *Params) { p.PositiveColor = hex })
}

func (o *Orchestrator) SetNegativeColor(hex uint32) (*Snapshot, error) {
	return o.Update(func(p *Params) { p.NegativeColor = hex })
}

func (o *Orchestrator) SetPointSize(size float64) (*Snapshot, error) {
	return o.Update(func(p *Params) { p.PointSize = size })
}

func (o *Orchestrator) SetRotationRate(rate float64) (*Snapshot, error) {
	return o.Update(func(p *Params) { p.RotationRate = rate })
}

// Orientation returns the renderer's current rotation.
func (o *Orchestrator) Orientation() Orientation {
	o.viewMu.Lock()
	defer o.viewMu.Unlock()
	return o.orientation
}

func (o *Orchestrator) SetOrientation(r Orientation) {
	o.viewMu.Lock()
	o.orientation = r
	o.viewMu.Unlock()
}

// Spin advances the orientation by the published rotation rate and returns
// the new value.
func (o *Orchestrator) Spin() Orientation {
	rate := 0.0
	if s := o.snap.Load(); s != nil {
		rate = s.Params.RotationRate
	}
	o.viewMu.Lock()
	defer o.viewMu.Unlock()
	o.orientation = o.orientation.Spin(rate)
	return o.orientation
}

// rebuild runs stages [from, StageDisplay] on a copy of the cache and
// publishes the result. Callers hold o.mu and have validated p.
func (o *Orchestrator) rebuild(p Params, from Stage) *Snapshot {
	start := time.Now()
	c := o.cache

	if from <= StageSample {
		c.points = sampling.Sample(rand.New(rand.NewSource(p.Seed)), p.SampleCount, p.MaxRadius)
	}
	if from <= StageEvaluate {
		// Validate has already resolved the selector.
		c.orbital, _ = orbital.Lookup(p.Selector)
		c.field = density.Evaluate(c.orbital, c.points)
	}
	if from <= StageFilter {
		c.retained, _ = c.field.Retain(p.Threshold)
		c.positions = Positions(c.retained)
	}
	if from <= StageColor {
		pos, neg := palette.FromHex(p.PositiveColor), palette.FromHex(p.NegativeColor)
		c.colors = ColorBuffer(palette.Colors(c.retained, pos, neg, c.field.Max(), p.Mode))
	}

	o.generation++
	snap := &Snapshot{
		Positions:  c.positions,
		Colors:     c.colors,
		Count:      len(c.retained),
		Retained:   c.retained,
		MaxDensity: c.field.Max(),
		Params:     p,
		Orbital:    c.orbital,
		Generation: o.generation,
		Rebuilt:    from,
		Elapsed:    time.Since(start),
	}

	o.params, o.cache = p, c
	o.publish(snap)

	o.log.Debug("pipeline rebuilt",
		"from", from,
		"orbital", c.orbital,
		"samples", len(c.points),
		"retained", snap.Count,
		"generation", snap.Generation,
		"elapsed", snap.Elapsed,
	)
	return snap
}

// publish carries the current orientation onto snap and swaps it in.
func (o *Orchestrator) publish(snap *Snapshot) {
	o.viewMu.Lock()
	snap.Orientation = o.orientation
	o.viewMu.Unlock()
	o.snap.Store(snap)
}
