// Package tui is a live terminal view of a running simulation, driven by
// the simulator's streaming callback so no trajectory history is retained.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/gravlab/internal/nbody"
	"github.com/san-kum/gravlab/internal/viz"
)

const (
	canvasWidth   = 64
	canvasHeight  = 20
	energyHistory = 240
)

type frame struct {
	step int
	pos  []nbody.Vec3
	diag nbody.Diagnostics
}

type tickMsg time.Time

type model struct {
	frames <-chan frame
	cancel context.CancelFunc

	latest     *frame
	energy     []float64
	totalSteps int
	scale      float64
	done       bool
}

// Run streams a simulation into a live terminal view. The simulation is
// paced by the view: each step's frame is handed over a channel before the
// next step begins.
func Run(sim *nbody.Simulator, pos, vel []nbody.Vec3, scale float64) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	frames := make(chan frame, 8)

	go func() {
		defer close(frames)
		_ = sim.RunWithCallback(ctx, pos, vel, func(step int, p, v []nbody.Vec3, d nbody.Diagnostics) bool {
			select {
			case frames <- frame{step: step, pos: nbody.CloneFrame(p), diag: d}:
				return true
			case <-ctx.Done():
				return false
			}
		})
	}()

	m := model{
		frames:     frames,
		cancel:     cancel,
		totalSteps: sim.Config().Steps,
		scale:      scale,
		energy:     make([]float64, 0, energyHistory),
	}

	_, err := tea.NewProgram(m).Run()
	return err
}

func (m model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.cancel()
			return m, tea.Quit
		}

	case tickMsg:
		// Drain whatever the simulation produced since the last tick.
		for drained := false; !drained; {
			select {
			case f, ok := <-m.frames:
				if !ok {
					m.done = true
					drained = true
					break
				}
				m.latest = &f
				m.energy = append(m.energy, f.diag.Total)
				if len(m.energy) > energyHistory {
					m.energy = m.energy[1:]
				}
			default:
				drained = true
			}
		}
		return m, tick()
	}

	return m, nil
}

func (m model) View() string {
	if m.latest == nil {
		return viz.HeaderStyle.Render("gravlab live") + "\n  priming...\n"
	}

	canvas := m.renderCanvas()
	stats := m.renderStats()

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		viz.CanvasStyle.Render(canvas),
		viz.StatsStyle.Render(stats),
	)

	var b strings.Builder
	b.WriteString(viz.HeaderStyle.Render("gravlab live"))
	b.WriteString("\n")
	b.WriteString(body)
	if graph := viz.Sparkline(m.energy, "total energy"); graph != "" {
		b.WriteString("\n")
		b.WriteString(viz.GraphStyle.Render(graph))
	}
	b.WriteString("\n")
	b.WriteString(viz.HelpStyle.Render("q quit"))
	b.WriteString("\n")
	return b.String()
}

// renderCanvas projects body positions onto the xy-plane.
func (m model) renderCanvas() string {
	grid := make([][]rune, canvasHeight)
	for y := range grid {
		grid[y] = make([]rune, canvasWidth)
		for x := range grid[y] {
			grid[y][x] = ' '
		}
	}

	for _, p := range m.latest.pos {
		cx := int((p.X/m.scale + 1) / 2 * float64(canvasWidth-1))
		cy := int((1 - p.Y/m.scale) / 2 * float64(canvasHeight-1))
		if cx < 0 || cx >= canvasWidth || cy < 0 || cy >= canvasHeight {
			continue
		}
		grid[cy][cx] = '*'
	}

	rows := make([]string, canvasHeight)
	for y := range grid {
		rows[y] = string(grid[y])
	}
	return strings.Join(rows, "\n")
}

func (m model) renderStats() string {
	d := m.latest.diag
	lines := []string{
		viz.StatLine("step", fmt.Sprintf("%d / %d", m.latest.step+1, m.totalSteps)),
		viz.StatLine("kinetic", fmt.Sprintf("%.6f", d.Kinetic)),
		viz.StatLine("potential", fmt.Sprintf("%.6f", d.Potential)),
		viz.StatLine("total", fmt.Sprintf("%.6f", d.Total)),
		viz.StatLine("virial", fmt.Sprintf("%.4f", d.Virial)),
	}
	if m.done {
		lines = append(lines, viz.WarnStyle.Render("complete"))
	}
	return strings.Join(lines, "\n")
}
