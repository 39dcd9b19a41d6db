package viz

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/verletbox/internal/render"
	"github.com/san-kum/verletbox/internal/session"
	"github.com/san-kum/verletbox/internal/verlet"
)

const (
	canvasWidth  = 80
	canvasHeight = 24

	canvasPadX = 2
	canvasPadY = 1
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(canvasPadY, canvasPadX)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(34)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(11)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model drives the interactive sandbox: a session stepped on a timer,
// mouse clicks queued as spawn commands, and the scroll wheel queued as
// substep adjustments.
type Model struct {
	newSession func() *session.Session
	sess       *session.Session
	palette    render.Palette
	canvas     *Canvas
	theme      Theme

	rng       *rand.Rand
	radiusMin float64
	radiusMax float64

	// World units per sub-pixel, and the world point at canvas center.
	scale  float64
	center verlet.Vec2

	maxFrameDt float64
	lastTick   time.Time
	fps        float64
	running    bool
	showHelp   bool
}

// NewModel builds the sandbox around a session factory; the factory is
// re-invoked on reset so the world starts over from the same setup.
func NewModel(factory func() *session.Session, pal render.Palette, radiusMin, radiusMax, maxFrameDt float64, seed int64) Model {
	sess := factory()

	m := Model{
		newSession: factory,
		sess:       sess,
		palette:    pal,
		canvas:     NewCanvas(canvasWidth, canvasHeight),
		theme:      ThemeNeon,
		rng:        rand.New(rand.NewSource(seed)),
		radiusMin:  radiusMin,
		radiusMax:  radiusMax,
		maxFrameDt: maxFrameDt,
		running:    true,
	}
	m.fitView()
	return m
}

// fitView sizes the world-to-canvas transform so the arena fills the
// sub-pixel raster with a small margin.
func (m *Model) fitView() {
	halfW, halfH := 300.0, 300.0
	switch a := m.sess.Solver().Arena().(type) {
	case verlet.CircleArena:
		m.center = a.Center
		halfW, halfH = a.Radius*1.1, a.Radius*1.1
	case verlet.BoxArena:
		m.center = a.Min.Add(a.Max).Scale(0.5)
		halfW = (a.Max.X - a.Min.X) * 0.55
		halfH = (a.Max.Y - a.Min.Y) * 0.55
	}

	scaleX := 2 * halfW / float64(canvasWidth*2)
	scaleY := 2 * halfH / float64(canvasHeight*4)
	if scaleX > scaleY {
		m.scale = scaleX
	} else {
		m.scale = scaleY
	}
}

func (m *Model) worldToPixel(w verlet.Vec2) (int, int) {
	d := w.Sub(m.center)
	px := int(d.X/m.scale) + canvasWidth
	py := int(d.Y/m.scale) + canvasHeight*2
	return px, py
}

func (m *Model) cellToWorld(cellX, cellY int) verlet.Vec2 {
	px := (cellX-canvasPadX)*2 + 1
	py := (cellY-canvasPadY)*4 + 2
	return m.center.Add(verlet.Vec2{
		X: float64(px-canvasWidth) * m.scale,
		Y: float64(py-canvasHeight*2) * m.scale,
	})
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.sess = m.newSession()
			m.fitView()
		case "+", "=":
			m.sess.Queue(session.AdjustSubsteps{Delta: 1})
		case "-", "_":
			m.sess.Queue(session.AdjustSubsteps{Delta: -1})
		case "t":
			m.theme = NextTheme(m.theme.Name)
		case "?":
			m.showHelp = !m.showHelp
		}

	case tea.MouseMsg:
		switch {
		case msg.Button == tea.MouseButtonWheelUp:
			m.sess.Queue(session.AdjustSubsteps{Delta: 1})
		case msg.Button == tea.MouseButtonWheelDown:
			m.sess.Queue(session.AdjustSubsteps{Delta: -1})
		case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
			radius := m.radiusMin + m.rng.Float64()*(m.radiusMax-m.radiusMin)
			m.sess.Queue(session.Spawn{Pos: m.cellToWorld(msg.X, msg.Y), Radius: radius})
		}

	case TickMsg:
		now := time.Time(msg)
		dt := m.maxFrameDt
		if !m.lastTick.IsZero() {
			dt = now.Sub(m.lastTick).Seconds()
		}
		m.lastTick = now

		if m.running {
			m.sess.Step(dt)
			if dt > 0 {
				m.fps = 0.9*m.fps + 0.1/dt
			}
		}
		return m, tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) draw() {
	m.canvas.Clear()

	switch a := m.sess.Solver().Arena().(type) {
	case verlet.CircleArena:
		cx, cy := m.worldToPixel(a.Center)
		m.canvas.DrawCircle(cx, cy, int(a.Radius/m.scale))
	case verlet.BoxArena:
		x0, y0 := m.worldToPixel(a.Min)
		x1, y1 := m.worldToPixel(a.Max)
		m.canvas.DrawLine(x0, y0, x1, y0)
		m.canvas.DrawLine(x1, y0, x1, y1)
		m.canvas.DrawLine(x1, y1, x0, y1)
		m.canvas.DrawLine(x0, y1, x0, y0)
	}

	for _, b := range m.sess.Bodies() {
		px, py := m.worldToPixel(b.Pos)
		m.canvas.FillCircle(px, py, int(b.Radius/m.scale))
	}
}

func (m Model) View() string {
	m.draw()

	primary := lipgloss.NewStyle().Foreground(m.theme.Primary)
	header := lipgloss.NewStyle().Foreground(m.theme.Accent).Bold(true)
	value := lipgloss.NewStyle().Foreground(m.theme.Text)

	canvasView := canvasStyle.Render(primary.Render(m.canvas.String()))

	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}

	bodies := m.sess.Bodies()
	meanSpeed, maxSpeed := 0.0, 0.0
	for _, b := range bodies {
		meanSpeed += b.Speed
		if b.Speed > maxSpeed {
			maxSpeed = b.Speed
		}
	}
	if len(bodies) > 0 {
		meanSpeed /= float64(len(bodies))
	}

	var stats strings.Builder
	stats.WriteString(header.Render("VERLETBOX") + "\n")
	stats.WriteString(value.Render(status) + "\n\n")
	stats.WriteString(labelStyle.Render("particles") + value.Render(fmt.Sprintf("%d", len(bodies))) + "\n")
	stats.WriteString(labelStyle.Render("substeps") + value.Render(fmt.Sprintf("%d", m.sess.Solver().Substeps())) + "\n")
	stats.WriteString(labelStyle.Render("fps") + value.Render(fmt.Sprintf("%.0f", m.fps)) + "\n")
	stats.WriteString(labelStyle.Render("mean speed") + m.speedSwatch(meanSpeed) + "\n")
	stats.WriteString(labelStyle.Render("max speed") + m.speedSwatch(maxSpeed) + "\n")
	stats.WriteString(labelStyle.Render("dropped") + value.Render(fmt.Sprintf("%d", m.sess.Dropped())) + "\n")
	stats.WriteString("\n" + m.legend())

	view := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(stats.String()))

	help := "click spawn · wheel/± substeps · space pause · r reset · t theme · q quit"
	if m.showHelp {
		help = "left click spawns a particle at the cursor\n" +
			"mouse wheel or +/- adjusts the substep count (min 1)\n" +
			"space pauses, r resets the world, t cycles themes, q quits"
	}

	return view + "\n" + helpStyle.Render(help)
}

// speedSwatch renders a speed with a block colored by the palette.
func (m Model) speedSwatch(speed float64) string {
	sw := lipgloss.NewStyle().Foreground(lipgloss.Color(m.palette.Hex(speed)))
	return sw.Render("■ ") + fmt.Sprintf("%.1f", speed)
}

// legend shows the slow-to-fast color ramp.
func (m Model) legend() string {
	var b strings.Builder
	steps := 16
	for i := 0; i <= steps; i++ {
		speed := m.palette.MinSpeed + float64(i)/float64(steps)*(m.palette.MaxSpeed-m.palette.MinSpeed)
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(m.palette.Hex(speed))).Render("█"))
	}
	return labelStyle.Render("slow→fast") + b.String()
}
