package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"math"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/clothsim/internal/automation"
	"github.com/san-kum/clothsim/internal/cloth"
	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/interact"
	"github.com/san-kum/clothsim/internal/metrics"
	"github.com/san-kum/clothsim/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 300
	statsWidth      = 45

	// FrameDt is the simulated time per viewer tick.
	FrameDt = 1.0 / 60
)

// tunable lists the parameters the viewer can edit, in tab order.
var tunable = []string{
	"gravity", "damping", "stiffness", "tear_threshold", "iterations",
	"cut_radius", "pick_radius", "rows", "cols", "spacing",
}

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model drives one simulation from terminal mouse and key input.
type Model struct {
	sim     *sim.Simulation
	opts    []sim.Option
	params  sim.Params
	initial sim.Params
	name    string

	width, height int
	canvas        *Canvas
	view          Viewport
	frame         sim.Frame
	theme         Theme
	styles        styles

	pointer     dynamo.Vec2
	left, right bool

	running    bool
	selected   int
	sagHistory []float64
	last       sim.Report
	torn, cut  int
	err        error

	recorder  *automation.Recorder
	recording bool
	frames    []*image.Paletted
	showHelp  bool
}

// NewModel builds a viewer for a fresh simulation of p.
func NewModel(name string, p sim.Params, opts ...sim.Option) (Model, error) {
	s, err := sim.New(p, opts...)
	if err != nil {
		return Model{}, err
	}
	m := Model{
		sim:        s,
		opts:       opts,
		params:     p,
		initial:    p,
		name:       name,
		width:      width,
		height:     height,
		canvas:     NewCanvas(width, height),
		theme:      ThemeLinen,
		styles:     newStyles(ThemeLinen),
		running:    true,
		sagHistory: make([]float64, 0, historyCapacity),
	}
	m.fit()
	m.draw()
	return m, nil
}

// WithRecorder records every simulated frame into r.
func (m Model) WithRecorder(r *automation.Recorder) Model {
	m.recorder = r
	return m
}

func (m Model) Recorder() *automation.Recorder { return m.recorder }

func (m Model) Simulation() *sim.Simulation { return m.sim }

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "tab":
			m.selected = (m.selected + 1) % len(tunable)
		case "shift+tab":
			m.selected = (m.selected + len(tunable) - 1) % len(tunable)
		case "up", "k":
			m.adjustParam(1)
		case "down", "j":
			m.adjustParam(-1)
		case "g":
			if m.recording {
				m.saveGIF()
				m.recording = false
				m.frames = nil
			} else {
				m.recording = true
				m.frames = make([]*image.Paletted, 0)
			}
		case "t":
			m.theme = NextTheme(m.theme.Name)
			m.styles = newStyles(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.MouseMsg:
		m.mouse(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		if m.running {
			m.step()
		}
		m.draw()
		if m.recording {
			m.captureFrame()
		}
		return m, tick()
	}
	return m, nil
}

// mouse tracks the pointer in world coordinates and the button state. A
// release that does not name its button releases both.
func (m *Model) mouse(msg tea.MouseMsg) {
	m.pointer = m.view.CellToWorld(msg.X-canvasPadX, msg.Y-canvasPadY)

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			m.left = true
		case tea.MouseButtonRight:
			m.right = true
		}
	case tea.MouseActionRelease:
		switch msg.Button {
		case tea.MouseButtonLeft:
			m.left = false
		case tea.MouseButtonRight:
			m.right = false
		default:
			m.left, m.right = false, false
		}
	}
}

func (m *Model) resize(w, h int) {
	cw := max(20, w-2*canvasPadX-statsWidth)
	ch := max(8, h-2*canvasPadY)
	m.width, m.height = cw, ch
	m.canvas = NewCanvas(cw, ch)
	m.fit()
}

// fit frames the rest lattice with room below it for sag.
func (m *Model) fit() {
	p := m.params
	minX, minY := p.OriginX, p.OriginY
	maxX := minX + float64(p.Cols-1)*p.Spacing
	maxY := minY + float64(p.Rows-1)*p.Spacing
	pad := 2 * p.Spacing
	m.view = Fit(minX-pad, minY-pad, maxX+pad, maxY+pad+0.5*(maxY-minY), m.canvas.SubWidth(), m.canvas.SubHeight())
}

// step advances the physics simulation.
func (m *Model) step() {
	in := interact.Input{Pointer: m.pointer, Left: m.left, Right: m.right}
	rep, err := m.sim.Step(in, m.params, FrameDt)
	if err != nil {
		m.err = err
		m.params = m.sim.Params()
		return
	}
	if m.recorder != nil {
		m.recorder.Record(in, FrameDt, m.params)
	}
	if rep.Rebuilt {
		m.fit()
		m.sagHistory = m.sagHistory[:0]
	}
	m.last = rep
	m.torn += rep.Torn
	m.cut += rep.Cut

	m.sagHistory = append(m.sagHistory, metrics.BottomSag(m.sim.Grid()))
	if len(m.sagHistory) > historyCapacity {
		m.sagHistory = m.sagHistory[1:]
	}
}

func (m *Model) adjustParam(dir int) {
	name := tunable[m.selected]
	v, err := m.params.Get(name)
	if err != nil {
		m.err = err
		return
	}

	switch name {
	case "rows", "cols", "iterations":
		v += float64(dir)
	default:
		switch {
		case dir > 0 && v == 0:
			v = 0.5
		case dir > 0:
			v *= 1.05
		default:
			v *= 0.95
			if v < 1e-3 {
				v = 0
			}
		}
	}
	if name == "damping" || name == "stiffness" {
		v = math.Min(v, 1)
	}

	p := m.params
	if err := p.Set(name, v); err != nil {
		m.err = err
		return
	}
	if err := p.Validate(); err != nil {
		m.err = err
		return
	}
	m.params, m.err = p, nil
}

// reset restores the initial parameters and a fresh cloth. A running
// recording restarts with it.
func (m *Model) reset() {
	s, err := sim.New(m.initial, m.opts...)
	if err != nil {
		m.err = err
		return
	}
	m.sim = s
	m.params = m.initial
	m.torn, m.cut = 0, 0
	m.last = sim.Report{}
	m.sagHistory = m.sagHistory[:0]
	m.err = nil
	if m.recorder != nil {
		m.recorder = automation.NewRecorder(m.name, FrameDt)
	}
	m.fit()
}

func (m *Model) draw() {
	m.canvas.Clear()
	m.sim.FrameInto(&m.frame)

	for _, s := range m.frame.Springs {
		if s.Kind != cloth.Structural {
			continue
		}
		m.canvas.Segment(m.view, s.A, s.B)
	}

	grabbed, dragging := m.sim.Controller().Grabbed()
	for i, p := range m.frame.Particles {
		if !p.Pos.IsValid() {
			continue
		}
		x, y := m.view.ToCanvas(p.Pos)
		switch {
		case dragging && i == grabbed:
			m.canvas.Mark(x, y, m.theme.Grabbed)
		case p.Pinned:
			m.canvas.Mark(x, y, m.theme.Pinned)
		}
	}

	x, y := m.view.ToCanvas(m.pointer)
	m.canvas.Mark(x, y, m.theme.Cursor)
}

func (m Model) statusLine() string {
	switch {
	case !m.running:
		return m.styles.paused.Render("PAUSED")
	case m.recorder != nil:
		return m.styles.err.Render("● REC")
	}
	return m.styles.status.Render("RUNNING")
}

// View renders the TUI interface.
func (m Model) View() string {
	st := m.styles
	canvasView := st.canvas.Render(m.canvas.Render(st.cloth))

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.name)) + "\n")
	s.WriteString(m.statusLine() + "\n")

	if len(m.sagHistory) > 1 {
		chart := asciigraph.Plot(m.sagHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Sag"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}

	mesh := m.sim.Mesh()
	integrity := 1.0
	if mesh.Len() > 0 {
		integrity = float64(mesh.IntactCount()) / float64(mesh.Len())
	}
	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.sim.Time()))
	row("Steps", fmt.Sprintf("%d", m.sim.Steps()))
	row("Mode", m.sim.Controller().Mode().String())
	row("Springs", fmt.Sprintf("%d / %d", mesh.IntactCount(), mesh.Len()))
	row("Integrity", ProgressBar(integrity, 16))
	row("Torn", fmt.Sprintf("%d", m.torn))
	row("Cut", fmt.Sprintf("%d", m.cut))
	row("Stretch", fmt.Sprintf("%.3f", m.last.MaxStretch))

	s.WriteString("\nPARAMETERS\n")
	for i, name := range tunable {
		v, _ := m.params.Get(name)
		line := fmt.Sprintf("%-15s %10.4g", name, v)
		if i == m.selected {
			s.WriteString(st.active.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + st.label.Width(0).Render(line) + "\n")
		}
	}
	if m.err != nil {
		s.WriteString("\n" + st.err.Width(statsWidth-6).Render(m.err.Error()) + "\n")
	}
	s.WriteString(st.help.Render("─────────────────────\nLMB:Drag RMB:Cut SP:Pause\nR:Reset Q:Quit ?:Help"))

	statsView := st.stats.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD AND MOUSE          ║
╠══════════════════════════════════════╣
║  Left drag  - Move a particle        ║
║  Right drag - Cut springs            ║
║  Space      - Pause/Resume           ║
║  R          - Reset cloth            ║
║  Tab        - Cycle parameters       ║
║  Up/K       - Increase parameter     ║
║  Down/J     - Decrease parameter     ║
║  G          - Toggle GIF recording   ║
║  T          - Cycle themes           ║
║  ?          - Toggle this help       ║
║  Q          - Quit                   ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

func (m *Model) captureFrame() {
	charW, charH := 8, 16
	imgW, imgH := m.canvas.Width*charW, m.canvas.Height*charH
	img := image.NewPaletted(image.Rect(0, 0, imgW, imgH), color.Palette{color.Black, color.White})
	dotW, dotH := charW/2, charH/4

	for y := 0; y < m.canvas.SubHeight(); y++ {
		for x := 0; x < m.canvas.SubWidth(); x++ {
			if !m.canvas.IsSet(x, y) {
				continue
			}
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, 1)
				}
			}
		}
	}
	m.frames = append(m.frames, img)
}

func (m *Model) saveGIF() {
	if len(m.frames) == 0 {
		return
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}
	f, err := os.Create(m.name + ".gif")
	if err != nil {
		m.err = err
		return
	}
	defer f.Close()
	if err := gif.EncodeAll(f, &anim); err != nil {
		m.err = err
	}
}

// Run opens the viewer on p and blocks until it quits. When record is set,
// the session is written there as an input script.
func Run(name string, p sim.Params, record string, opts ...sim.Option) error {
	m, err := NewModel(name, p, opts...)
	if err != nil {
		return err
	}
	if record != "" {
		m = m.WithRecorder(automation.NewRecorder(name, FrameDt))
	}
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	if err != nil {
		return err
	}
	return saveRecording(final, record)
}

func saveRecording(final tea.Model, path string) error {
	if path == "" {
		return nil
	}
	var r *automation.Recorder
	switch fm := final.(type) {
	case Model:
		r = fm.recorder
	case menu:
		r = fm.live.recorder
	}
	if r == nil {
		return nil
	}
	return automation.SaveScript(path, r.Script())
}
