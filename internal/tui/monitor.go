// Package tui is the live run monitor: a terminal view of atom count and
// capture statistics while the simulation steps.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/coldatoms/motsim/internal/sim"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

const historyLen = 120

type model struct {
	run *sim.Run

	stepsPerFrame int
	paused        bool
	done          bool
	err           error

	stats   sim.StepStats
	history []float64

	width  int
	height int
}

// NewMonitor wraps a built run in the interactive monitor model.
func NewMonitor(run *sim.Run) tea.Model {
	return model{
		run:           run,
		stepsPerFrame: 50,
		history:       make([]float64, 0, historyLen),
		width:         80,
		height:        24,
	}
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(33*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Init() tea.Cmd { return tick() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.run.Close()
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "+", "=":
			m.stepsPerFrame *= 2
		case "-":
			if m.stepsPerFrame > 1 {
				m.stepsPerFrame /= 2
			}
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if m.done || m.err != nil {
			return m, tick()
		}
		if !m.paused {
			for i := 0; i < m.stepsPerFrame; i++ {
				if int(m.run.Disp.StepCount()) >= m.run.Steps() {
					m.done = true
					m.err = m.run.Close()
					break
				}
				if err := m.run.Step(); err != nil {
					m.err = err
					m.run.Close()
					break
				}
			}
			m.stats = m.run.Stats()
			m.history = append(m.history, float64(m.stats.Atoms))
			if len(m.history) > historyLen {
				m.history = m.history[1:]
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(cyan.Render("motsim") + dim.Render("  live monitor") + "\n\n")

	b.WriteString(fmt.Sprintf("  %s %s   %s %s   %s %s   %s %s\n",
		dim.Render("step"), white.Render(fmt.Sprintf("%d/%d", m.stats.Step, m.run.Steps())),
		dim.Render("t"), white.Render(fmt.Sprintf("%.4gs", m.stats.Time)),
		dim.Render("atoms"), yellow.Render(fmt.Sprintf("%d", m.stats.Atoms)),
		dim.Render("captured"), green.Render(fmt.Sprintf("%d", m.stats.Captured)),
	))

	if len(m.history) > 1 {
		w := m.width - 12
		if w < 20 {
			w = 20
		}
		b.WriteString("\n" + dim.Render("  atoms in simulation") + "\n")
		b.WriteString(asciigraph.Plot(m.history,
			asciigraph.Height(8), asciigraph.Width(w), asciigraph.Offset(4)))
		b.WriteString("\n")
	}

	switch {
	case m.err != nil:
		b.WriteString("\n" + red.Render("error: "+m.err.Error()) + "\n")
		b.WriteString(dim.Render("  q quit") + "\n")
	case m.done:
		b.WriteString("\n" + green.Render("run complete") + "\n")
		b.WriteString(dim.Render("  q quit") + "\n")
	case m.paused:
		b.WriteString("\n" + yellow.Render("paused") +
			dim.Render("  space resume  +/- speed  q quit") + "\n")
	default:
		b.WriteString("\n" + dim.Render(fmt.Sprintf("  %d steps/frame  space pause  +/- speed  q quit", m.stepsPerFrame)) + "\n")
	}
	return b.String()
}

// Run drives the monitor program to completion and returns the run error,
// if the simulation failed mid-flight.
func Run(run *sim.Run) error {
	p := tea.NewProgram(NewMonitor(run))
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(model); ok && m.err != nil {
		return m.err
	}
	return nil
}
