package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Name string

	Title, Muted, Accent, Success, Error, Pending lipgloss.Style
	Selected, Done                                lipgloss.Style

	BoxUnchecked, BoxChecked string
	SymDone, SymPending      string
	Border                   lipgloss.Border
	BorderColor              lipgloss.TerminalColor
}

var themes = map[string]func() Theme{
	"classic": classic,
	"neon":    neon,
	"mono":    mono,
}

var current = classic()

// DefaultTheme is used when nothing is configured.
const DefaultTheme = "classic"

// SetTheme switches the current theme by name (case-insensitive).
func SetTheme(name string) error {
	if name == "" {
		name = DefaultTheme
	}
	fn, ok := themes[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("unknown theme %q (have %s)", name, strings.Join(Themes(), ", "))
	}
	current = fn()
	return nil
}

// Themes lists the known theme names.
func Themes() []string {
	out := make([]string, 0, len(themes))
	for k := range themes {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Current returns the active theme.
func Current() Theme { return current }

func classic() Theme {
	return Theme{
		Name:         "classic",
		Title:        lipgloss.NewStyle().Bold(true),
		Muted:        lipgloss.NewStyle().Faint(true),
		Accent:       lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Success:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Error:        lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Pending:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Selected:     lipgloss.NewStyle().Bold(true).Reverse(true),
		Done:         lipgloss.NewStyle().Faint(true).Strikethrough(true),
		BoxUnchecked: "☐", BoxChecked: "☑",
		SymDone: "✔", SymPending: "•",
		Border:      lipgloss.RoundedBorder(),
		BorderColor: lipgloss.Color("8"),
	}
}

func neon() Theme {
	return Theme{
		Name:         "neon",
		Title:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
		Muted:        lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Accent:       lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Success:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Error:        lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Pending:      lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Selected:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("13")),
		Done:         lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true),
		BoxUnchecked: "◻", BoxChecked: "◼",
		SymDone: "✔", SymPending: "•",
		Border:      lipgloss.RoundedBorder(),
		BorderColor: lipgloss.Color("13"),
	}
}

func mono() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Name:  "mono",
		Title: plain, Muted: plain, Accent: plain, Success: plain, Error: plain, Pending: plain,
		Selected:     plain.Reverse(true),
		Done:         plain,
		BoxUnchecked: "[ ]", BoxChecked: "[x]",
		SymDone: "x", SymPending: "-",
		Border: lipgloss.Border{
			Top: "-", Bottom: "-", Left: "|", Right: "|",
			TopLeft: "+", TopRight: "+", BottomLeft: "+", BottomRight: "+",
		},
		BorderColor: lipgloss.NoColor{},
	}
}
