// Package viz renders a live terminal view of a running simulation: the
// m_z grid as a colored heat map, a sliding energy sparkline, and the
// progress line (step, energy, dt).
package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/spinsim/internal/mag"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

// mzPalette maps m_z buckets from −1 (blue) to +1 (red).
var mzPalette = []lipgloss.Style{
	lipgloss.NewStyle().Foreground(lipgloss.Color("21")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("27")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("51")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("223")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("215")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
}

// Frame is one update pushed by the simulation loop.
type Frame struct {
	Step   int
	Energy float64
	Dt     float64
	Mz     *mag.ScalarField
	Done   bool
}

type Model struct {
	frames  <-chan Frame
	cancel  func()
	latest  Frame
	history []float64

	width  int
	height int
	quit   bool
}

// NewModel builds a live view fed by frames; cancel is invoked when the
// user quits so the producer stops promptly.
func NewModel(frames <-chan Frame, cancel func()) *Model {
	return &Model{
		frames:  frames,
		cancel:  cancel,
		history: make([]float64, 0, 256),
		width:   80,
		height:  24,
	}
}

func (m *Model) Init() tea.Cmd { return m.waitForFrame() }

func (m *Model) waitForFrame() tea.Cmd {
	return func() tea.Msg {
		f, ok := <-m.frames
		if !ok {
			return Frame{Done: true}
		}
		return f
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quit = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case Frame:
		if msg.Done {
			return m, tea.Quit
		}
		m.latest = msg
		m.history = append(m.history, msg.Energy)
		if len(m.history) > 200 {
			m.history = m.history[1:]
		}
		return m, m.waitForFrame()
	}
	return m, nil
}

func (m *Model) View() string {
	if m.quit {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("spinsim live"))
	b.WriteString("\n\n")

	if m.latest.Mz != nil {
		b.WriteString(renderMz(m.latest.Mz, min(m.width-4, 64), min(m.height-12, 28)))
		b.WriteString("\n")
	}

	if len(m.history) >= 2 {
		graph := asciigraph.Plot(m.history,
			asciigraph.Height(6),
			asciigraph.Width(min(m.width-10, 70)),
			asciigraph.Caption("energy (J/m²)"),
		)
		b.WriteString(dimStyle.Render(graph))
		b.WriteString("\n")
	}

	status := fmt.Sprintf("step %d   E=%.4e   dt=%.3e", m.latest.Step, m.latest.Energy, m.latest.Dt)
	b.WriteString(statusStyle.Render(status))
	b.WriteString("\n")
	b.WriteString(warnStyle.Render("q to quit"))
	b.WriteString("\n")
	return b.String()
}

// renderMz downsamples the grid to fit the terminal, two grid cells per
// character column.
func renderMz(mz *mag.ScalarField, maxCols, maxRows int) string {
	if maxCols < 8 {
		maxCols = 8
	}
	if maxRows < 4 {
		maxRows = 4
	}
	stepX := (mz.N + maxCols - 1) / maxCols
	stepY := (mz.N + maxRows - 1) / maxRows
	if stepX < 1 {
		stepX = 1
	}
	if stepY < 1 {
		stepY = 1
	}

	var b strings.Builder
	for y := 0; y < mz.N; y += stepY {
		for x := 0; x < mz.N; x += stepX {
			v := blockMean(mz, x, y, stepX, stepY)
			b.WriteString(styleFor(v).Render("█"))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func blockMean(mz *mag.ScalarField, x0, y0, w, h int) float64 {
	sum, count := 0.0, 0
	for y := y0; y < y0+h && y < mz.N; y++ {
		for x := x0; x < x0+w && x < mz.N; x++ {
			sum += mz.At(x, y)
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func styleFor(v float64) lipgloss.Style {
	t := (v + 1) / 2
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	i := int(t * float64(len(mzPalette)-1))
	return mzPalette[i]
}

// Run blocks until the producer closes the frame channel or the user quits.
func Run(frames <-chan Frame, cancel func()) error {
	p := tea.NewProgram(NewModel(frames, cancel))
	_, err := p.Run()
	return err
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
