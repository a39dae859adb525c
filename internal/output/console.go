package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// StatusLine renders one console progress line.
func StatusLine(step uint64, t float64, atoms, captured int) string {
	return fmt.Sprintf("%s %s  %s %s  %s %s  %s %s",
		labelStyle.Render("step"), valueStyle.Render(fmt.Sprintf("%d", step)),
		labelStyle.Render("t"), valueStyle.Render(fmt.Sprintf("%.4gs", t)),
		labelStyle.Render("atoms"), valueStyle.Render(fmt.Sprintf("%d", atoms)),
		labelStyle.Render("captured"), valueStyle.Render(fmt.Sprintf("%d", captured)),
	)
}

// Summary renders the end-of-run report with a sparkline of the atom count
// history.
func Summary(atomHistory []float64, captured int, meanSpeed, meanInitSpeed float64) string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("run complete") + "\n")
	b.WriteString(fmt.Sprintf("%s %d\n", dimStyle.Render("captured:"), captured))
	if captured > 0 {
		b.WriteString(fmt.Sprintf("%s %.4g m/s\n", dimStyle.Render("mean capture speed:"), meanSpeed))
		b.WriteString(fmt.Sprintf("%s %.4g m/s\n", dimStyle.Render("mean initial speed:"), meanInitSpeed))
	}
	if len(atomHistory) > 1 {
		b.WriteString(dimStyle.Render("atoms in simulation:") + "\n")
		b.WriteString(asciigraph.Plot(atomHistory, asciigraph.Height(8), asciigraph.Width(60)))
		b.WriteString("\n")
	}
	return b.String()
}
