package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/todotable/internal/store"
	"github.com/idilsaglam/todotable/internal/ui"
	"github.com/idilsaglam/todotable/internal/validate"
)

// View renders one of loading, error, or the table, plus any open modal.
func (m Model) View() string {
	t := ui.Current()

	switch m.state.Status {
	case store.Idle, store.Loading:
		return panelString(m.spinner.View() + " Loading...")
	case store.Failed:
		lines := []string{t.Error.Render("Error loading todos")}
		if m.state.Err != "" {
			lines = append(lines, t.Muted.Render(m.state.Err))
		}
		lines = append(lines, "", t.Muted.Render("r retry • q quit"))
		return panelString(strings.Join(lines, "\n"))
	}

	done, pending := m.state.Counts()
	var b strings.Builder
	b.WriteString(ui.Header(done, pending))
	b.WriteString("\n\n")

	switch m.mode {
	case modeForm:
		b.WriteString(m.formView())
	default:
		b.WriteString(m.table.View())
	}
	b.WriteString("\n")

	switch {
	case m.mode == modeConfirm:
		b.WriteString(t.Error.Render("Are you sure you want to delete this todo?"))
		fmt.Fprintf(&b, " %s %s", t.Muted.Render(fmt.Sprintf("#%d %q", m.pendingDelete.ID, m.pendingDelete.Title)), t.Title.Render("(y/n)"))
	case m.notice != "" && m.failed:
		b.WriteString(t.Error.Render("✖ " + m.notice))
	case m.notice != "":
		b.WriteString(t.Success.Render(t.SymDone + " " + m.notice))
	}

	if m.mode == modeBrowse {
		b.WriteString("\n")
		b.WriteString(m.help.View(m.keys))
	}
	return panelString(b.String())
}

func (m Model) formView() string {
	t := ui.Current()
	title := "Create New Todo"
	if m.editingID != 0 {
		title = fmt.Sprintf("Edit Todo #%d", m.editingID)
	}

	inner := t.Title.Render(title) + "\n\n"
	if m.form != nil {
		inner += m.form.View()
	}
	for _, field := range []string{validate.FieldTitle, validate.FieldCompleted} {
		if msg := m.fieldErrs[field]; msg != "" {
			inner += "\n" + t.Error.Render("✖ "+msg)
		}
	}
	inner += "\n" + t.Muted.Render("esc cancel")

	return lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.Accent.GetForeground()).
		Padding(0, 1).
		Render(inner)
}

// helpers for View
func panelString(inner string) string {
	t := ui.Current()
	return lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.BorderColor).
		Padding(0, 1).
		Render(inner)
}
