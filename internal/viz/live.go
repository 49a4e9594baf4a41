package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/orbitals/internal/analysis"
	"github.com/san-kum/orbitals/internal/orbital"
	"github.com/san-kum/orbitals/internal/pipeline"
)

const (
	width      = 80
	height     = 24
	panelWidth = 40

	// maxDrawn caps the points projected per frame. The densest points are
	// always among them.
	maxDrawn     = 40000
	profileBins  = 32
	rotateStep   = 0.1
	defaultFPS   = 30
	thresholdEps = 0.01

	// maxSamples bounds the ] key. Each sample is held three times over
	// (points, evaluated, sorted field).
	maxSamples = 8_000_000
)

type TickMsg time.Time

// rebuiltMsg reports the outcome of a parameter change run off the UI loop.
type rebuiltMsg struct {
	what string
	snap *pipeline.Snapshot
	err  error
}

// stats is derived once per published generation.
type stats struct {
	generation uint64
	summary    analysis.Summary
	profile    []float64
}

// Model is the live point-cloud viewer.
type Model struct {
	orch          *pipeline.Orchestrator
	canvas        *Canvas
	camera        *Camera
	width, height int
	fps           int
	paused        bool
	showHelp      bool
	showAxes      bool
	picker        *picker
	pending       int
	frame         int
	status        string
	failed        bool
	stats         *stats
}

func NewModel(o *pipeline.Orchestrator, fps int) Model {
	if fps <= 0 {
		fps = defaultFPS
	}
	return Model{
		orch:   o,
		canvas: NewCanvas(width-panelWidth-4, height-2),
		camera: NewCamera(),
		width:  width,
		height: height,
		fps:    fps,
		stats:  &stats{},
	}
}

// Run starts the viewer on the alternate screen and blocks until it exits.
func Run(o *pipeline.Orchestrator, fps int) error {
	p := tea.NewProgram(NewModel(o, fps), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

// change runs fn against the orchestrator in a command so the UI keeps
// drawing while the stages rebuild.
func (m *Model) change(what string, fn func(p *pipeline.Params)) tea.Cmd {
	m.pending++
	o := m.orch
	return func() tea.Msg {
		snap, err := o.Update(fn)
		return rebuiltMsg{what: what, snap: snap, err: err}
	}
}

func (m *Model) rotate(dx, dy float64) {
	r := m.orch.Orientation()
	r.X += dx
	r.Y += dy
	m.orch.SetOrientation(r)
}

// Update handles input events and advances the spin.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.canvas = NewCanvas(max(msg.Width-panelWidth-4, 10), max(msg.Height-2, 5))
		return m, nil
	case TickMsg:
		if !m.paused {
			m.orch.Spin()
		}
		m.frame++
		return m, m.tick()
	case rebuiltMsg:
		m.pending--
		switch {
		case msg.err != nil:
			m.status, m.failed = msg.err.Error(), true
		default:
			m.status = fmt.Sprintf("%s: gen %d, %s rebuilt in %s", msg.what, msg.snap.Generation, msg.snap.Rebuilt, msg.snap.Elapsed.Round(time.Millisecond))
			m.failed = false
		}
		return m, nil
	case tea.KeyMsg:
		if m.picker != nil {
			orb, chosen, done := m.picker.key(msg)
			if done {
				m.picker = nil
			}
			if chosen {
				return m, m.change("orbital "+orb.Name(), func(p *pipeline.Params) { p.Selector = orb.Selector() })
			}
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.paused = !m.paused
	case "?":
		m.showHelp = !m.showHelp
	case "a":
		m.showAxes = !m.showAxes
	case "o":
		m.picker = newPicker(m.orch.Snapshot().Orbital)
	case "tab":
		return m, m.change("orbital", func(p *pipeline.Params) { p.Selector = cycle(p.Selector, orbital.Orbital.Next) })
	case "shift+tab":
		return m, m.change("orbital", func(p *pipeline.Params) { p.Selector = cycle(p.Selector, orbital.Orbital.Prev) })
	case "c":
		return m, m.change("coloring", func(p *pipeline.Params) { p.Mode = p.Mode.Next() })
	case "t":
		return m, m.change("theme", func(p *pipeline.Params) {
			t := NextTheme(p.PositiveColor, p.NegativeColor)
			p.PositiveColor, p.NegativeColor = t.Positive, t.Negative
		})
	case "+", "=":
		return m, m.change("threshold", func(p *pipeline.Params) { p.Threshold = stepThreshold(p.Threshold, thresholdEps) })
	case "-", "_":
		return m, m.change("threshold", func(p *pipeline.Params) { p.Threshold = stepThreshold(p.Threshold, -thresholdEps) })
	case "]":
		return m, m.change("samples", func(p *pipeline.Params) { p.SampleCount = growSamples(p.SampleCount) })
	case "[":
		return m, m.change("samples", func(p *pipeline.Params) { p.SampleCount /= 2 })
	case ">", ".":
		return m, m.change("radius", func(p *pipeline.Params) { p.MaxRadius *= 1.25 })
	case "<", ",":
		return m, m.change("radius", func(p *pipeline.Params) { p.MaxRadius /= 1.25 })
	case "r":
		return m, m.change("resample", func(p *pipeline.Params) { p.Seed++ })
	case "f":
		return m, m.change("rotation", func(p *pipeline.Params) { p.RotationRate *= 1.5 })
	case "F":
		return m, m.change("rotation", func(p *pipeline.Params) { p.RotationRate /= 1.5 })
	case "s":
		return m, m.change("point size", func(p *pipeline.Params) { p.PointSize += 0.5 })
	case "S":
		return m, m.change("point size", func(p *pipeline.Params) { p.PointSize -= 0.5 })
	case "z":
		m.camera.ZoomIn()
	case "Z":
		m.camera.ZoomOut()
	case "up", "k":
		m.rotate(-rotateStep, 0)
	case "down", "j":
		m.rotate(rotateStep, 0)
	case "left", "h":
		m.rotate(0, -rotateStep)
	case "right", "l":
		m.rotate(0, rotateStep)
	}
	return m, nil
}

// cycle steps to the neighboring orbital, starting over from 1s when the
// current selector has no formula.
func cycle(sel orbital.Selector, step func(orbital.Orbital) orbital.Orbital) orbital.Selector {
	orb, err := orbital.Lookup(sel)
	if err != nil {
		return orbital.Orbital1s.Selector()
	}
	return step(orb).Selector()
}

// growSamples doubles n, capped at maxSamples.
func growSamples(n int) int {
	return min(max(n*2, 1), maxSamples)
}

// stepThreshold moves t by d on a 0.01 grid so repeated steps land exactly
// on 0 and 1.
func stepThreshold(t, d float64) float64 {
	return math.Round((t+d)*100) / 100
}

func (m Model) refreshStats(snap *pipeline.Snapshot) {
	if m.stats.generation == snap.Generation && m.stats.profile != nil {
		return
	}
	m.stats.generation = snap.Generation
	m.stats.summary = analysis.Summarize(snap)
	m.stats.profile = analysis.RadialProfile(snap.Retained, profileBins, snap.Params.MaxRadius)
}

// draw projects the snapshot onto the canvas, densest points first.
func (m Model) draw(snap *pipeline.Snapshot) {
	m.canvas.Clear()
	m.camera.Extent = m.stats.summary.MaxRadius
	m.camera.SetOrientation(m.orch.Orientation())

	sw, sh := m.canvas.Width*2, m.canvas.Height*4
	stride := max(1, snap.Count/maxDrawn)
	for i := snap.Count - 1; i >= 0; i -= stride {
		x, y, z := snap.Position(i)
		sx, sy, depth, ok := m.camera.Project(Vec3{x, y, z}, sw, sh)
		if ok {
			m.canvas.PlotDisc(sx, sy, snap.Params.PointSize, snap.Color(i), depth)
		}
	}
	if m.showAxes {
		DrawAxes(m.canvas, m.camera, m.camera.Extent)
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	snap := m.orch.Snapshot()
	m.refreshStats(snap)
	m.draw(snap)

	if m.picker != nil {
		return lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(m.canvas.String()), statsStyle.Render(m.picker.View()))
	}

	p := snap.Params
	sum := m.stats.summary

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(snap.Orbital.Name())) + "  " + valueStyle.Render(p.Selector.String()) + "\n")
	status := StatusRunning.Render("SPINNING")
	if m.paused {
		status = StatusPaused.Render("PAUSED")
	}
	if m.pending > 0 {
		status += " " + AnimatedSpinner(m.frame) + " rebuilding"
	}
	s.WriteString(status + "\n\n")

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Samples", fmt.Sprintf("%d", p.SampleCount))
	row("Retained", fmt.Sprintf("%d (+%d / -%d)", snap.Count, sum.Positive, sum.Negative))
	row("Threshold", fmt.Sprintf("%s %.2f", ProgressBar(p.Threshold, 12), p.Threshold))
	row("Radius", fmt.Sprintf("%.0f", p.MaxRadius))
	row("Mean r", fmt.Sprintf("%.0f ± %.0f", sum.MeanRadius, sum.StdRadius))
	row("Coloring", p.Mode.String())
	row("+ phase", Swatch(p.PositiveColor))
	row("- phase", Swatch(p.NegativeColor))
	row("Point", fmt.Sprintf("%.1f", p.PointSize))
	row("Spin", fmt.Sprintf("%.4f rad/frame", p.RotationRate))
	row("Zoom", fmt.Sprintf("%.2fx", m.camera.Zoom))
	row("Build", fmt.Sprintf("gen %d, %s", snap.Generation, snap.Elapsed.Round(time.Millisecond)))

	s.WriteString("\nRADIAL PROFILE\n")
	s.WriteString(SparklineChart(m.stats.profile, panelWidth-6) + "\n")

	if m.status != "" {
		if m.failed {
			s.WriteString("\n" + errorStyle.Render(m.status) + "\n")
		} else {
			s.WriteString("\n" + okStyle.Render(m.status) + "\n")
		}
	}
	s.WriteString(helpStyle.Render("SP:Pause TAB:Orbital O:Pick C:Color\n+/-:Threshold [ ]:Samples ?:Help Q:Quit"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(m.canvas.String()), statsStyle.Render(s.String()))
	if m.showHelp {
		return helpText + "\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space     - Pause/Resume spin       ║
║  Tab/S-Tab - Next/previous orbital   ║
║  O         - Orbital menu            ║
║  C         - Cycle coloring mode     ║
║  T         - Cycle phase colors      ║
║  + / -     - Threshold ±0.01         ║
║  ] / [     - Samples ×2 / ÷2         ║
║  > / <     - Radius ×1.25 / ÷1.25    ║
║  R         - Resample (next seed)    ║
║  F / f     - Spin slower / faster    ║
║  s / S     - Point size ±0.5         ║
║  z / Z     - Zoom in / out           ║
║  A         - Toggle axes             ║
║  Arrows    - Rotate                  ║
║  ?         - Toggle this help        ║
║  Q         - Quit                    ║
╚══════════════════════════════════════╝`
