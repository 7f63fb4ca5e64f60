package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/rlsim/internal/circuit"
	"github.com/san-kum/rlsim/internal/config"
	"github.com/san-kum/rlsim/internal/dynamo"
)

const (
	canvasWidth  = 60
	canvasHeight = 16
	// a replay never takes more than maxFrames ticks; long runs skip samples
	maxFrames = 500
)

type TickMsg time.Time

// Model is the whole interactive state: slider values, the latest
// trajectory and the replay position.
type Model struct {
	values        map[string]float64
	initialValues map[string]float64
	selected      int
	high, low     float64
	h, tMax       float64
	interval      time.Duration

	traj    *dynamo.Trajectory
	params  circuit.Params
	frame   int
	stride  int
	playing bool
	runs    int

	warning  string
	err      error
	canvas   *Canvas
	showHelp bool
}

// NewModel seeds the sliders from cfg. With autoStart the first run is
// computed immediately and its replay begins on the first tick.
func NewModel(cfg *config.Config, autoStart bool) Model {
	p := cfg.Params()
	values := map[string]float64{"L": p.L, "R": p.R, "T": p.T, "alpha": p.Alpha}
	initial := make(map[string]float64, len(values))
	for k, v := range values {
		initial[k] = v
	}

	m := Model{
		values:        values,
		initialValues: initial,
		high:          cfg.Source.High,
		low:           cfg.Source.Low,
		h:             cfg.Solver.H,
		tMax:          cfg.Solver.TMax,
		interval:      time.Duration(cfg.View.FrameIntervalMs) * time.Millisecond,
		canvas:        NewCanvas(canvasWidth, canvasHeight),
	}
	if autoStart {
		m.start()
	}
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and advances the replay.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab", "down", "j":
			m.selected = (m.selected + 1) % len(config.Sliders)
		case "shift+tab", "up", "k":
			m.selected = (m.selected + len(config.Sliders) - 1) % len(config.Sliders)
		case "right", "l", "+":
			m.adjust(1)
		case "left", "h", "-":
			m.adjust(-1)
		case "enter", "s":
			m.start()
		case " ", "p":
			if m.traj != nil {
				if !m.playing && m.frame >= m.traj.Len() {
					m.frame = 0
				}
				m.playing = !m.playing
			}
		case "r":
			for k, v := range m.initialValues {
				m.values[k] = v
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		m.advance()
		return m, m.tick()
	}
	return m, nil
}

// adjust moves the selected slider by dir steps.
func (m *Model) adjust(dir int) {
	s := config.Sliders[m.selected]
	v := m.values[s.Key] + float64(dir)*s.Step
	// snap to the step grid to keep repeated presses free of drift
	v = math.Round(v/s.Step) * s.Step
	m.values[s.Key] = s.Clamp(v)
}

// Params returns the circuit parameters currently set on the sliders.
func (m Model) Params() circuit.Params {
	return circuit.Params{
		R:     m.values["R"],
		L:     m.values["L"],
		T:     m.values["T"],
		Alpha: m.values["alpha"],
	}
}

// start runs a fresh simulation with the slider values. On failure the
// previous trajectory is kept and the error is shown.
func (m *Model) start() {
	p := m.Params()
	traj, err := circuit.Integrate(p, p.Wave(m.high, m.low), m.h, m.tMax)
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.warning = ""
	if err := circuit.CheckStability(p, m.h); err != nil {
		m.warning = err.Error()
	}
	m.params = p
	m.OnTrajectory(traj)
}

// OnTrajectory replaces the displayed trajectory and restarts the replay.
func (m *Model) OnTrajectory(traj *dynamo.Trajectory) {
	m.traj = traj
	m.frame = 0
	m.stride = (traj.Len() + maxFrames - 1) / maxFrames
	if m.stride < 1 {
		m.stride = 1
	}
	m.playing = true
	m.runs++
}

func (m *Model) advance() {
	if !m.playing || m.traj == nil {
		return
	}
	m.frame += m.stride
	if m.frame >= m.traj.Len() {
		m.frame = m.traj.Len()
		m.playing = false
	}
}

// Revealed is the number of samples the replay has shown so far.
func (m Model) Revealed() int {
	if m.traj == nil {
		return 0
	}
	if m.frame < 1 {
		return 1
	}
	return m.frame
}

func (m Model) Playing() bool                  { return m.playing }
func (m Model) Trajectory() *dynamo.Trajectory { return m.traj }
func (m Model) Err() error                     { return m.err }
func (m Model) Runs() int                      { return m.runs }

// draw renders the revealed part of the trace on the canvas.
func (m *Model) draw() {
	m.canvas.Clear()
	if m.traj == nil {
		return
	}

	pw, ph := m.canvas.PixelSize()
	lo, hi := 0.0, 0.0
	for _, s := range m.traj.Samples {
		if math.IsNaN(s.Current) || math.IsInf(s.Current, 0) {
			continue
		}
		lo = math.Min(lo, s.Current)
		hi = math.Max(hi, s.Current)
	}
	if !(hi-lo >= 1e-12) || math.IsInf(hi-lo, 0) {
		hi = lo + 1
	}
	tEnd := m.traj.Duration

	// coordinates are clamped one pixel past the edges so that diverged
	// samples cannot blow up the line drawing
	project := func(s dynamo.Sample) (int, int) {
		fx := s.Time / tEnd * float64(pw-1)
		fy := (hi - s.Current) / (hi - lo) * float64(ph-1)
		if math.IsNaN(fy) {
			fy = float64(ph)
		}
		return clampInt(fx, -1, pw), clampInt(fy, -1, ph)
	}

	n := m.Revealed()
	px, py := project(m.traj.Samples[0])
	for _, s := range m.traj.Samples[1:n] {
		x, y := project(s)
		m.canvas.DrawLine(px, py, x, y)
		px, py = x, y
	}
	m.canvas.DrawMarker(px, py)
}

func clampInt(v float64, lo, hi int) int {
	if v < float64(lo) {
		return lo
	}
	if v > float64(hi) {
		return hi
	}
	return int(v)
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()

	var s strings.Builder
	s.WriteString(headerStyle.Render("FORWARD EULER RL CIRCUIT") + "\n")

	switch {
	case m.err != nil:
		s.WriteString(statusError.Render(m.err.Error()) + "\n")
	case m.traj == nil:
		s.WriteString(statusPaused.Render("press enter to start") + "\n")
	case m.playing:
		s.WriteString(statusPlaying.Render("PLAYING") + "\n")
	default:
		s.WriteString(statusPaused.Render("PAUSED") + "\n")
	}
	if m.warning != "" {
		s.WriteString(statusPaused.Render("warning: "+m.warning) + "\n")
	}
	s.WriteString("\n")

	if m.traj != nil {
		cur := m.traj.Samples[m.Revealed()-1]
		peak := m.traj.MaxAbs()
		intensity := 0.0
		if peak > 0 {
			intensity = math.Abs(cur.Current) / (peak + 1e-6)
		}
		s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.3fs", cur.Time)) + "\n")
		s.WriteString(labelStyle.Render("Current") + valueStyle.Render(fmt.Sprintf("%.4fA ", cur.Current)) + markerStyle(intensity).Render("●") + "\n")
		s.WriteString(labelStyle.Render("Peak") + valueStyle.Render(fmt.Sprintf("%.4fA", peak)) + "\n")
		s.WriteString(labelStyle.Render("L/R") + valueStyle.Render(fmt.Sprintf("%.4fs", m.params.TimeConstant())) + "\n")
		s.WriteString(labelStyle.Render("2L/R") + valueStyle.Render(fmt.Sprintf("%.4fs (h=%g)", m.params.StabilityLimit(), m.h)) + "\n")

		if v := m.voltageWindow(); len(v) > 1 {
			chart := asciigraph.Plot(v, asciigraph.Height(3), asciigraph.Width(30), asciigraph.Caption("v_in (V)"))
			s.WriteString("\n" + graphStyle.Render(chart) + "\n")
		}
	}

	s.WriteString("\nPARAMETERS\n")
	for i, sl := range config.Sliders {
		val := m.values[sl.Key]
		barWidth := 10
		filled := int(sl.Fraction(val) * float64(barWidth))
		bar := "[" + strings.Repeat("=", filled) + strings.Repeat("-", barWidth-filled) + "]"
		line := fmt.Sprintf("%-18s %s %.2f", sl.Label, bar, val)
		if i == m.selected {
			s.WriteString(activeParamStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + labelStyle.Render(line) + "\n")
		}
	}
	s.WriteString(helpStyle.Render("─────────────────────\nENTER:Start SP:Pause R:Reset Q:Quit\nTAB:Select ←→:Adjust ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(m.canvas.String()), statsStyle.Render(s.String()))
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Enter/S  - Run and animate          ║
║  Space/P  - Pause/Resume replay      ║
║  Tab      - Next slider              ║
║  ←/→      - Adjust slider            ║
║  R        - Reset sliders            ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// voltageWindow samples the source over the revealed time span.
func (m Model) voltageWindow() []float64 {
	n := m.Revealed()
	if n < 2 {
		return nil
	}
	wave := m.params.Wave(m.high, m.low)
	const points = 60
	out := make([]float64, points)
	tEnd := m.traj.Samples[n-1].Time
	for i := range out {
		out[i] = wave.VoltageAt(tEnd * float64(i) / float64(points-1))
	}
	return out
}
