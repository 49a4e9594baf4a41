package analysis

import (
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/orbitals/internal/density"
	"github.com/san-kum/orbitals/internal/orbital"
	"github.com/san-kum/orbitals/internal/pipeline"
)

func retainedAt(rho ...float64) []density.Retained {
	out := make([]density.Retained, len(rho))
	for i, r := range rho {
		out[i].Rho = r
		out[i].X = r
		out[i].Psi = 1
	}
	return out
}

func snapshot(t *testing.T, sel orbital.Selector, count int) *pipeline.Snapshot {
	t.Helper()
	p := pipeline.DefaultParams()
	p.SampleCount = count
	p.Selector = sel
	p.Threshold = 0.5
	o, err := pipeline.New(p, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatal(err)
	}
	return o.Snapshot()
}

func TestSummarize(t *testing.T) {
	s := snapshot(t, orbital.Orbital2pz.Selector(), 4000)
	sum := Summarize(s)

	if sum.Count != 2000 {
		t.Errorf("expected 2000 points, got %d", sum.Count)
	}
	if sum.Positive+sum.Negative != sum.Count {
		t.Errorf("phase counts %d+%d do not add up to %d", sum.Positive, sum.Negative, sum.Count)
	}
	if sum.Positive == 0 || sum.Negative == 0 {
		t.Error("2pz should have both lobes populated")
	}
	if sum.MeanRadius <= 0 || sum.StdRadius <= 0 {
		t.Errorf("expected positive radius stats, got %f ± %f", sum.MeanRadius, sum.StdRadius)
	}
	if sum.MaxRadius > pipeline.DefaultMaxRadius {
		t.Errorf("max radius %f beyond sampling radius", sum.MaxRadius)
	}
	if sum.Orbital != orbital.Orbital2pz {
		t.Errorf("expected 2pz, got %s", sum.Orbital)
	}
}

func TestSummarize_OnePhase(t *testing.T) {
	sum := Summarize(snapshot(t, orbital.Orbital1s.Selector(), 1000))
	if sum.Negative != 0 {
		t.Errorf("1s should have no negative phase, got %d", sum.Negative)
	}
}

func TestSummarize_Small(t *testing.T) {
	tests := []struct {
		name     string
		retained []density.Retained
		mean     float64
	}{
		{"empty", nil, 0},
		{"single", retainedAt(42), 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum := Summarize(&pipeline.Snapshot{Retained: tt.retained, Count: len(tt.retained)})
			if sum.MeanRadius != tt.mean {
				t.Errorf("expected mean %f, got %f", tt.mean, sum.MeanRadius)
			}
			if sum.StdRadius != 0 || math.IsNaN(sum.StdRadius) {
				t.Errorf("expected zero spread, got %f", sum.StdRadius)
			}
		})
	}
}

func TestRadialProfile(t *testing.T) {
	profile := RadialProfile(retainedAt(1, 2, 11, 19, 40, 100), 4, 40)
	want := []float64{2.0 / 6, 2.0 / 6, 0, 2.0 / 6}
	if len(profile) != len(want) {
		t.Fatalf("expected %d bins, got %d", len(want), len(profile))
	}
	for i := range want {
		if math.Abs(profile[i]-want[i]) > 1e-12 {
			t.Errorf("bin %d: expected %f, got %f", i, want[i], profile[i])
		}
	}
}

func TestRadialProfile_Empty(t *testing.T) {
	if got := RadialProfile(nil, 0, 10); got != nil {
		t.Errorf("expected nil for zero bins, got %v", got)
	}
	for i, v := range RadialProfile(nil, 5, 10) {
		if v != 0 {
			t.Errorf("bin %d: expected 0, got %f", i, v)
		}
	}
}

func TestPeakRadius(t *testing.T) {
	if got := PeakRadius([]float64{0.1, 0.6, 0.3}, 30); got != 15 {
		t.Errorf("expected 15, got %f", got)
	}
}

func TestParsePlane(t *testing.T) {
	for _, name := range []string{"xy", "XZ", "yz"} {
		p, err := ParsePlane(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !strings.EqualFold(p.String(), name) {
			t.Errorf("expected %s, got %s", name, p)
		}
	}
	if _, err := ParsePlane("xw"); err == nil {
		t.Error("expected error for unknown plane")
	}
}

func TestProjectionToASCII(t *testing.T) {
	retained := []density.Retained{
		{Evaluated: density.Evaluated{Psi: 1}},
		{Evaluated: density.Evaluated{Psi: -1}},
	}
	retained[0].Z = 10
	retained[1].Z = -10

	art := Project(retained, PlaneXZ).ToASCII(21, 11)
	lines := strings.Split(strings.TrimRight(art, "\n"), "\n")
	if len(lines) != 11 {
		t.Fatalf("expected 11 rows, got %d", len(lines))
	}
	top := strings.Index(art, "+")
	bottom := strings.Index(art, "-")
	if top < 0 || bottom < 0 {
		t.Fatalf("expected both phases drawn:\n%s", art)
	}
	if top > bottom {
		t.Errorf("positive lobe should be above negative lobe:\n%s", art)
	}
}

func TestProjectionToASCII_Empty(t *testing.T) {
	if got := Project(nil, PlaneXY).ToASCII(10, 10); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}
