package pipeline_test

import (
	"io"
	"log/slog"
	"math"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orbitals/internal/density"
	"github.com/san-kum/orbitals/internal/orbital"
	"github.com/san-kum/orbitals/internal/palette"
	"github.com/san-kum/orbitals/internal/pipeline"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func smallParams() pipeline.Params {
	p := pipeline.DefaultParams()
	p.SampleCount = 2000
	p.MaxRadius = 20000
	p.Seed = 7
	return p
}

func newOrchestrator(p pipeline.Params) *pipeline.Orchestrator {
	o, err := pipeline.New(p, quiet)
	Expect(err).NotTo(HaveOccurred())
	return o
}

func expectConsistent(s *pipeline.Snapshot) {
	Expect(s.Positions).To(HaveLen(3 * s.Count))
	Expect(s.Colors).To(HaveLen(3 * s.Count))
	Expect(s.Retained).To(HaveLen(s.Count))
}

var _ = Describe("Params", func() {
	It("accepts the defaults", func() {
		Expect(pipeline.DefaultParams().Validate()).To(Succeed())
	})

	DescribeTable("rejects invalid values",
		func(mutate func(p *pipeline.Params)) {
			p := smallParams()
			mutate(&p)
			Expect(p.Validate()).To(MatchError(pipeline.ErrInvalidParams))
		},
		Entry("negative count", func(p *pipeline.Params) { p.SampleCount = -1 }),
		Entry("zero radius", func(p *pipeline.Params) { p.MaxRadius = 0 }),
		Entry("NaN radius", func(p *pipeline.Params) { p.MaxRadius = math.NaN() }),
		Entry("undefined selector", func(p *pipeline.Params) { p.Selector = orbital.Selector{N: 2, L: 1, Label: orbital.LabelZ2} }),
		Entry("threshold above one", func(p *pipeline.Params) { p.Threshold = 1.5 }),
		Entry("negative threshold", func(p *pipeline.Params) { p.Threshold = -0.1 }),
		Entry("unknown mode", func(p *pipeline.Params) { p.Mode = palette.Mode(9) }),
		Entry("color overflow", func(p *pipeline.Params) { p.PositiveColor = 0x1000000 }),
		Entry("zero point size", func(p *pipeline.Params) { p.PointSize = 0 }),
		Entry("infinite rotation", func(p *pipeline.Params) { p.RotationRate = math.Inf(1) }),
	)

	It("wraps the underlying selector error", func() {
		p := smallParams()
		p.Selector = orbital.Selector{N: 2, L: 1, Label: orbital.LabelZ2}
		Expect(p.Validate()).To(MatchError(orbital.ErrInvalidSelector))
	})

	DescribeTable("maps each parameter to its stage",
		func(mutate func(p *pipeline.Params), want pipeline.Stage) {
			prev := smallParams()
			next := prev
			mutate(&next)
			Expect(pipeline.Invalidated(prev, next)).To(Equal(want))
		},
		Entry("count", func(p *pipeline.Params) { p.SampleCount++ }, pipeline.StageSample),
		Entry("radius", func(p *pipeline.Params) { p.MaxRadius *= 2 }, pipeline.StageSample),
		Entry("seed", func(p *pipeline.Params) { p.Seed++ }, pipeline.StageSample),
		Entry("selector", func(p *pipeline.Params) { p.Selector = orbital.Orbital2s.Selector() }, pipeline.StageEvaluate),
		Entry("threshold", func(p *pipeline.Params) { p.Threshold = 0.5 }, pipeline.StageFilter),
		Entry("mode", func(p *pipeline.Params) { p.Mode = palette.Linear }, pipeline.StageColor),
		Entry("positive color", func(p *pipeline.Params) { p.PositiveColor = 0x0000ff }, pipeline.StageColor),
		Entry("negative color", func(p *pipeline.Params) { p.NegativeColor = 0x0000ff }, pipeline.StageColor),
		Entry("point size", func(p *pipeline.Params) { p.PointSize = 3 }, pipeline.StageDisplay),
		Entry("rotation rate", func(p *pipeline.Params) { p.RotationRate = 0.01 }, pipeline.StageDisplay),
		Entry("nothing", func(p *pipeline.Params) {}, pipeline.StageNone),
		Entry("earliest stage wins", func(p *pipeline.Params) { p.Mode = palette.Linear; p.SampleCount++ }, pipeline.StageSample),
	)
})

var _ = Describe("Orchestrator", func() {
	var o *pipeline.Orchestrator

	BeforeEach(func() {
		o = newOrchestrator(smallParams())
	})

	It("publishes an initial consistent snapshot", func() {
		s := o.Snapshot()
		Expect(s).NotTo(BeNil())
		Expect(s.Rebuilt).To(Equal(pipeline.StageSample))
		Expect(s.Generation).To(Equal(uint64(1)))
		Expect(s.Count).To(Equal(2000 - int(math.Floor(2000*0.95))))
		Expect(s.Orbital).To(Equal(orbital.Orbital3dz2))
		expectConsistent(s)
	})

	It("refuses to start from invalid parameters", func() {
		p := smallParams()
		p.Threshold = 2
		_, err := pipeline.New(p, quiet)
		Expect(err).To(MatchError(pipeline.ErrInvalidParams))
	})

	Describe("minimal suffix rebuild", func() {
		It("reruns only color and display for a coloring change", func() {
			before := o.Snapshot()
			s, err := o.SetMode(palette.Constant)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Rebuilt).To(Equal(pipeline.StageColor))
			Expect(&s.Positions[0]).To(BeIdenticalTo(&before.Positions[0]))
			Expect(&s.Colors[0]).NotTo(BeIdenticalTo(&before.Colors[0]))
		})

		It("reruns from the filter for a threshold change", func() {
			s, err := o.SetThreshold(0.5)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Rebuilt).To(Equal(pipeline.StageFilter))
			Expect(s.Count).To(Equal(1000))
			expectConsistent(s)
		})

		It("keeps the normalization base when only the threshold changes", func() {
			before := o.Snapshot().MaxDensity
			s, err := o.SetThreshold(0.2)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.MaxDensity).To(Equal(before))
		})

		It("reruns from evaluation for a selector change", func() {
			s, err := o.SetOrbital(orbital.Orbital2pz)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Rebuilt).To(Equal(pipeline.StageEvaluate))
			Expect(s.Orbital).To(Equal(orbital.Orbital2pz))
		})

		It("resamples for a count change", func() {
			s, err := o.SetSampleCount(4000)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Rebuilt).To(Equal(pipeline.StageSample))
			Expect(s.Count).To(Equal(200))
		})

		It("shares every buffer for a display change", func() {
			before := o.Snapshot()
			s, err := o.SetPointSize(2.5)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Rebuilt).To(Equal(pipeline.StageDisplay))
			Expect(s.Params.PointSize).To(Equal(2.5))
			Expect(&s.Positions[0]).To(BeIdenticalTo(&before.Positions[0]))
			Expect(&s.Colors[0]).To(BeIdenticalTo(&before.Colors[0]))
		})

		It("does not republish when nothing changed", func() {
			before := o.Snapshot()
			s, err := o.Apply(o.Params())
			Expect(err).NotTo(HaveOccurred())
			Expect(s).To(BeIdenticalTo(before))
		})

		It("is reproducible for a fixed seed", func() {
			other := newOrchestrator(smallParams())
			Expect(other.Snapshot().Positions).To(Equal(o.Snapshot().Positions))
		})
	})

	DescribeTable("rebuilds from each setter's stage",
		func(set func(o *pipeline.Orchestrator) (*pipeline.Snapshot, error), want pipeline.Stage) {
			before := o.Snapshot()
			s, err := set(o)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Rebuilt).To(Equal(want))
			Expect(s.Generation).To(BeNumerically(">", before.Generation))
			Expect(o.Snapshot()).To(BeIdenticalTo(s))
			expectConsistent(s)
		},
		Entry("sample count", func(o *pipeline.Orchestrator) (*pipeline.Snapshot, error) { return o.SetSampleCount(3000) }, pipeline.StageSample),
		Entry("max radius", func(o *pipeline.Orchestrator) (*pipeline.Snapshot, error) { return o.SetMaxRadius(30000) }, pipeline.StageSample),
		Entry("seed", func(o *pipeline.Orchestrator) (*pipeline.Snapshot, error) { return o.SetSeed(8) }, pipeline.StageSample),
		Entry("selector", func(o *pipeline.Orchestrator) (*pipeline.Snapshot, error) { return o.SetSelector(orbital.Orbital2s.Selector()) }, pipeline.StageEvaluate),
		Entry("principal", func(o *pipeline.Orchestrator) (*pipeline.Snapshot, error) {
			if _, err := o.SetOrbital(orbital.Orbital3pz); err != nil {
				return nil, err
			}
			return o.SetPrincipal(2)
		}, pipeline.StageEvaluate),
		Entry("label", func(o *pipeline.Orchestrator) (*pipeline.Snapshot, error) { return o.SetLabel(orbital.LabelXZ) }, pipeline.StageEvaluate),
		Entry("threshold", func(o *pipeline.Orchestrator) (*pipeline.Snapshot, error) { return o.SetThreshold(0.5) }, pipeline.StageFilter),
		Entry("mode", func(o *pipeline.Orchestrator) (*pipeline.Snapshot, error) { return o.SetMode(palette.Linear) }, pipeline.StageColor),
		Entry("positive color", func(o *pipeline.Orchestrator) (*pipeline.Snapshot, error) { return o.SetPositiveColor(0x00ffff) }, pipeline.StageColor),
		Entry("negative color", func(o *pipeline.Orchestrator) (*pipeline.Snapshot, error) { return o.SetNegativeColor(0x0000ff) }, pipeline.StageColor),
		Entry("point size", func(o *pipeline.Orchestrator) (*pipeline.Snapshot, error) { return o.SetPointSize(2) }, pipeline.StageDisplay),
		Entry("rotation rate", func(o *pipeline.Orchestrator) (*pipeline.Snapshot, error) { return o.SetRotationRate(0.01) }, pipeline.StageDisplay),
	)

	DescribeTable("rejects setter edits that leave invalid parameters",
		func(set func(o *pipeline.Orchestrator) (*pipeline.Snapshot, error)) {
			before := o.Snapshot()
			params := o.Params()
			s, err := set(o)
			Expect(err).To(MatchError(pipeline.ErrInvalidParams))
			Expect(s).To(BeNil())
			Expect(o.Snapshot()).To(BeIdenticalTo(before))
			Expect(o.Params()).To(Equal(params))
		},
		Entry("angular without a matching label", func(o *pipeline.Orchestrator) (*pipeline.Snapshot, error) { return o.SetAngular(1) }),
		Entry("unknown label", func(o *pipeline.Orchestrator) (*pipeline.Snapshot, error) { return o.SetLabel("q") }),
		Entry("negative radius", func(o *pipeline.Orchestrator) (*pipeline.Snapshot, error) { return o.SetMaxRadius(-1) }),
		Entry("NaN rotation", func(o *pipeline.Orchestrator) (*pipeline.Snapshot, error) { return o.SetRotationRate(math.NaN()) }),
		Entry("color overflow", func(o *pipeline.Orchestrator) (*pipeline.Snapshot, error) { return o.SetNegativeColor(0x1000000) }),
	)

	Describe("invalid changes", func() {
		It("rejects an undefined selector and keeps the previous snapshot", func() {
			before := o.Snapshot()
			s, err := o.SetSelector(orbital.Selector{N: 2, L: 1, Label: orbital.LabelZ2})
			Expect(err).To(MatchError(orbital.ErrInvalidSelector))
			Expect(s).To(BeNil())
			Expect(o.Snapshot()).To(BeIdenticalTo(before))
			Expect(o.Params().Selector).To(Equal(orbital.Orbital3dz2.Selector()))
		})

		It("rejects partial selector edits that leave no formula", func() {
			_, err := o.SetPrincipal(1)
			Expect(err).To(MatchError(pipeline.ErrInvalidParams))
			Expect(o.Params().Selector.N).To(Equal(3))
		})

		It("rejects an out of range threshold", func() {
			before := o.Snapshot()
			_, err := o.SetThreshold(1.01)
			Expect(err).To(MatchError(density.ErrThresholdRange))
			Expect(o.Snapshot()).To(BeIdenticalTo(before))
		})
	})

	Describe("orientation", func() {
		It("spins by the rotation rate", func() {
			r := o.Spin()
			Expect(r.X).To(BeNumerically("~", pipeline.DefaultRotationRate, 1e-15))
			Expect(r.Y).To(BeNumerically("~", pipeline.DefaultRotationRate, 1e-15))
			Expect(r.Z).To(BeZero())
		})

		It("survives a full rebuild", func() {
			o.SetOrientation(pipeline.Orientation{X: 1.5, Y: -0.25, Z: 0.1})
			s, err := o.SetSampleCount(500)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Orientation).To(Equal(pipeline.Orientation{X: 1.5, Y: -0.25, Z: 0.1}))
			Expect(o.Orientation()).To(Equal(s.Orientation))
		})
	})

	It("serializes concurrent setters", func() {
		var wg sync.WaitGroup
		thresholds := []float64{0.1, 0.3, 0.5, 0.7, 0.9}
		for _, th := range thresholds {
			wg.Add(2)
			go func(th float64) {
				defer GinkgoRecover()
				defer wg.Done()
				_, err := o.SetThreshold(th)
				Expect(err).NotTo(HaveOccurred())
			}(th)
			go func() {
				defer GinkgoRecover()
				defer wg.Done()
				expectConsistent(o.Snapshot())
				o.Spin()
			}()
		}
		wg.Wait()

		s := o.Snapshot()
		expectConsistent(s)
		Expect(s.Generation).To(Equal(uint64(1 + len(thresholds))))
		Expect(thresholds).To(ContainElement(o.Params().Threshold))
	})

	It("never loses read-modify-write edits", func() {
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer GinkgoRecover()
				defer wg.Done()
				_, err := o.Update(func(p *pipeline.Params) { p.SampleCount += 10 })
				Expect(err).NotTo(HaveOccurred())
			}()
		}
		wg.Wait()
		Expect(o.Params().SampleCount).To(Equal(2080))
		Expect(o.Snapshot().Count).To(Equal(2080 - int(math.Floor(2080*0.95))))
	})
})

var _ = Describe("Scenarios", func() {
	It("keeps every 1s point in one phase at zero threshold", func() {
		p := smallParams()
		p.SampleCount = 10
		p.Selector = orbital.Selector{N: 1, L: 0, Label: orbital.LabelNone}
		p.Threshold = 0
		p.Mode = palette.Constant
		o := newOrchestrator(p)

		s := o.Snapshot()
		Expect(s.Count).To(Equal(10))
		first := s.Color(0)
		for i := 0; i < s.Count; i++ {
			Expect(s.Retained[i].Psi).To(BeNumerically(">=", 0))
			Expect(s.Color(i)).To(Equal(first))
		}
		Expect(first).To(Equal(palette.FromHex(p.PositiveColor)))
	})

	It("retains exactly 100 of 1000 2pz points at 0.9", func() {
		p := smallParams()
		p.SampleCount = 1000
		p.Selector = orbital.Selector{N: 2, L: 1, Label: orbital.LabelZ}
		p.Threshold = 0.9
		s := newOrchestrator(p).Snapshot()
		Expect(s.Count).To(Equal(1000 - int(math.Floor(1000*0.9))))
		Expect(s.Count).To(Equal(100))
		expectConsistent(s)
	})

	It("rejects n=2 l=1 z^2 before producing any amplitude", func() {
		p := smallParams()
		p.Selector = orbital.Selector{N: 2, L: 1, Label: orbital.LabelZ2}
		o, err := pipeline.New(p, quiet)
		Expect(err).To(MatchError(orbital.ErrInvalidSelector))
		Expect(o).To(BeNil())
	})

	It("handles an empty sample set", func() {
		p := smallParams()
		p.SampleCount = 0
		s := newOrchestrator(p).Snapshot()
		Expect(s.Count).To(BeZero())
		Expect(s.MaxDensity).To(BeZero())
		expectConsistent(s)
	})

	It("passes exponential colors above one through", func() {
		p := smallParams()
		p.Mode = palette.Exponential
		s := newOrchestrator(p).Snapshot()
		top := s.Color(s.Count - 1)
		Expect(math.Max(top.R, top.G)).To(BeNumerically("~", 2, 1e-12))
	})

	It("keeps linear colors within the base color", func() {
		p := smallParams()
		p.Mode = palette.Linear
		s := newOrchestrator(p).Snapshot()
		for i := 0; i < s.Count; i++ {
			c := s.Color(i)
			Expect(c.R).To(BeNumerically(">=", 0))
			Expect(c.R).To(BeNumerically("<=", 1))
			Expect(c.G).To(BeNumerically(">=", 0))
			Expect(c.G).To(BeNumerically("<=", 1))
			Expect(c.B).To(BeZero())
		}
	})
})

var _ = Describe("Assemble", func() {
	It("flattens points and colors by index", func() {
		retained := []density.Retained{
			{Evaluated: density.Evaluated{Psi: 1, Density: 1}},
			{Evaluated: density.Evaluated{Psi: -1, Density: 1}},
		}
		retained[0].X, retained[0].Y, retained[0].Z = 1, 2, 3
		retained[1].X, retained[1].Y, retained[1].Z = 4, 5, 6
		colors := []palette.Color{{R: 1}, {G: 1}}

		pos, col := pipeline.Assemble(retained, colors)
		Expect(pos).To(Equal([]float64{1, 2, 3, 4, 5, 6}))
		Expect(col).To(Equal([]float64{1, 0, 0, 0, 1, 0}))
	})
})
