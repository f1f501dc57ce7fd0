package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders a Unicode progress bar with percentage.
func ProgressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if width < 5 {
		width = 5
	}
	filled := int(float64(done) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	pct := int(float64(done) / float64(total) * 100)
	return fmt.Sprintf("%s %3d%%", bar, pct)
}

// Panel frames lines in a box using the current theme.
func Panel(lines []string) string {
	t := Current()
	return lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.BorderColor).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

// Header is the "Todos ✔ 3 • 2 Total 5" line shared by the list output and the table.
func Header(done, pending int) string {
	t := Current()
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		t.Title.Render("Todos"),
		t.Success.Render(t.SymDone), done,
		t.Pending.Render(t.SymPending), pending,
		t.Accent.Render("Total"), done+pending,
	)
}

// OK prints a success line.
func OK(w io.Writer, msg string) {
	t := Current()
	fmt.Fprintln(w, t.Success.Render(t.SymDone+" "+msg))
}

// Fail prints an error line.
func Fail(w io.Writer, msg string) {
	fmt.Fprintln(w, Current().Error.Render("✖ "+msg))
}
