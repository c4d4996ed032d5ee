package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/particles/internal/sim"
)

const (
	defaultWidth  = 72
	defaultHeight = 24
	defaultFPS    = 30
)

var (
	canvasStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#444466"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
)

type TickMsg time.Time

type PlayerOptions struct {
	Stride        int
	Plane         Plane
	Width, Height int
	FPS           int
	Theme         string
}

// Player replays a recorded trajectory in the terminal. Only every
// Stride-th step is shown.
type Player struct {
	name    string
	traj    *sim.Trajectory
	times   []float64
	frame   int
	running bool
	view    View
	bounds  Bounds
	theme   Theme
	canvas  *Canvas
	fps     int
}

func NewPlayer(name string, traj *sim.Trajectory, times []float64, opts PlayerOptions) Player {
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = defaultHeight
	}
	if opts.FPS <= 0 {
		opts.FPS = defaultFPS
	}

	idx := sim.SampleIndices(traj.Len(), opts.Stride)
	sampled := make([]float64, len(idx))
	for i, step := range idx {
		if step < len(times) {
			sampled[i] = times[step]
		}
	}

	view := View{Plane: opts.Plane}
	ds := traj.Downsample(opts.Stride)
	p := Player{
		name:    name,
		traj:    ds,
		times:   sampled,
		running: true,
		view:    view,
		bounds:  BoundsOf(ds, view),
		theme:   GetTheme(opts.Theme),
		canvas:  NewCanvas(opts.Width, opts.Height),
		fps:     opts.FPS,
	}
	return p
}

func (m Player) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Player) Init() tea.Cmd {
	return m.tick()
}

// Frame is the number of recorded steps currently shown.
func (m Player) Frame() int { return m.frame }

func (m Player) Frames() int { return m.traj.Len() }

func (m Player) Running() bool { return m.running }

func (m Player) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
			if m.running && m.frame >= m.traj.Len() {
				m.frame = 0
			}
		case "right", "l":
			m.running = false
			m.seek(1)
		case "left", "h":
			m.running = false
			m.seek(-1)
		case "home", "r":
			m.frame = 0
		case "end":
			m.running = false
			m.frame = m.traj.Len()
		case "t":
			m.theme = m.theme.next()
		case "x":
			m.rotate(0.1, 0)
		case "X":
			m.rotate(-0.1, 0)
		case "y":
			m.rotate(0, 0.1)
		case "Y":
			m.rotate(0, -0.1)
		}
	case TickMsg:
		if m.running {
			m.seek(1)
			if m.frame >= m.traj.Len() {
				m.running = false
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Player) seek(dir int) {
	m.frame += dir
	if m.frame < 0 {
		m.frame = 0
	}
	if m.frame > m.traj.Len() {
		m.frame = m.traj.Len()
	}
}

func (m *Player) rotate(dx, dy float64) {
	if m.traj.Dim() < 3 {
		return
	}
	m.view.RotX = math.Mod(m.view.RotX+dx, 2*math.Pi)
	m.view.RotY = math.Mod(m.view.RotY+dy, 2*math.Pi)
	m.bounds = BoundsOf(m.traj, m.view)
}

// draw rasterises every particle's path up to the current frame.
func (m *Player) draw() {
	m.canvas.Clear()
	dw, dh := m.canvas.Dots()

	for i := 0; i < m.traj.NumParticles(); i++ {
		px, py, havePrev := 0, 0, false
		plot := func(u, v float64) {
			fx, fy := m.bounds.Map(u, v, dw-1, dh-1)
			x, y := int(math.Round(fx)), int(math.Round(fy))
			if havePrev {
				m.canvas.DrawLine(px, py, x, y, i)
			} else {
				m.canvas.SetLayer(x, y, i)
			}
			px, py, havePrev = x, y, true
		}

		if start := m.traj.Initial(i); start != nil {
			plot(m.view.Apply(start))
		}
		for _, p := range m.traj.Positions(i)[:m.frame] {
			plot(m.view.Apply(p))
		}
	}
}

func (m Player) View() string {
	m.draw()

	title := lipgloss.NewStyle().Bold(true).Foreground(m.theme.Title)
	muted := lipgloss.NewStyle().Foreground(m.theme.Muted)

	status := lipgloss.NewStyle().Bold(true).Foreground(m.theme.Running).Render("PLAYING")
	if !m.running {
		status = lipgloss.NewStyle().Bold(true).Foreground(m.theme.Paused).Render("PAUSED")
	}

	t := 0.0
	if m.frame > 0 && m.frame <= len(m.times) {
		t = m.times[m.frame-1]
	}

	legend := make([]string, 0, m.traj.NumParticles())
	for i, name := range m.traj.Names() {
		legend = append(legend, m.theme.particleStyle(i).Render("● "+name))
	}

	var s strings.Builder
	s.WriteString(title.Render(strings.ToUpper(m.name)) + "  " + muted.Render(m.view.Plane.String()) + "\n")
	s.WriteString(canvasStyle.Render(m.canvas.Render(m.theme.particleStyle)) + "\n")
	s.WriteString(fmt.Sprintf("%s  frame %d/%d  t=%.4f\n", status, m.frame, m.traj.Len(), t))
	s.WriteString(strings.Join(legend, "  ") + "\n")
	s.WriteString(helpStyle.Render("space pause  ←/→ step  r restart  t theme  x/y rotate  q quit") + "\n")
	return s.String()
}
