package cli

import (
	"fmt"

	"github.com/idilsaglam/todotable/internal/model"
	"github.com/idilsaglam/todotable/internal/store"
	"github.com/idilsaglam/todotable/internal/ui"
)

const barWidth = 24

// listPanel renders the non-interactive `ls` output.
func listPanel(st store.State, group bool) string {
	done, pending := st.Counts()
	lines := []string{
		ui.Header(done, pending),
		ui.ProgressBar(done, done+pending, barWidth),
		"",
	}
	switch {
	case len(st.Todos) == 0:
		lines = append(lines, ui.Current().Muted.Render("nothing to do"))
	case group:
		lines = append(lines, groupLines(st.Todos)...)
	default:
		lines = append(lines, flatLines(st.Todos)...)
	}
	lines = append(lines, "", ui.Current().Muted.Render("tip: todo edit <id> --completed, todo rm <id>"))
	return ui.Panel(lines)
}

func flatLines(todos []model.Todo) []string {
	out := make([]string, 0, len(todos))
	for _, t := range todos {
		out = append(out, todoLine(t))
	}
	return out
}

func groupLines(todos []model.Todo) []string {
	t := ui.Current()
	var pending, done []string
	for _, td := range todos {
		if td.Completed {
			done = append(done, todoLine(td))
		} else {
			pending = append(pending, todoLine(td))
		}
	}
	out := []string{t.Pending.Render(model.NotCompletedLabel)}
	out = append(out, pending...)
	out = append(out, "", t.Success.Render(model.CompletedLabel))
	return append(out, done...)
}

func todoLine(td model.Todo) string {
	t := ui.Current()
	id := t.Muted.Render(fmt.Sprintf("#%-4d", td.ID))
	if td.Completed {
		return fmt.Sprintf("%s %s %s", id, t.Success.Render(t.BoxChecked), t.Done.Render(td.Title))
	}
	return fmt.Sprintf("%s %s %s", id, t.Muted.Render(t.BoxUnchecked), td.Title)
}
