package tui

import (
	"errors"

	"github.com/charmbracelet/huh"

	"github.com/idilsaglam/todotable/internal/model"
	"github.com/idilsaglam/todotable/internal/validate"
)

// formValues is what the modal edits. Completed holds a label, or "" while
// nothing is chosen. It lives behind a pointer because huh writes into it.
type formValues struct {
	Title     string
	Completed string
}

// draft crosses the label back to a boolean.
func (v *formValues) draft() model.Draft {
	d := model.Draft{Title: v.Title}
	if b, err := model.ParseLabel(v.Completed); err == nil {
		d.Completed = &b
	}
	return d
}

func valuesOf(t model.Todo) *formValues {
	return &formValues{Title: t.Title, Completed: model.Label(t.Completed)}
}

// fieldCheck adapts one validator field to huh's inline validation.
func fieldCheck(field string, build func(string) model.Draft) func(string) error {
	return func(s string) error {
		if msg := validate.Field(field, build(s)); msg != "" {
			return errors.New(msg)
		}
		return nil
	}
}

// newForm builds the create/edit modal. Creating starts with no completed
// choice so the user has to pick one.
func newForm(v *formValues, creating bool, theme *huh.Theme) *huh.Form {
	opts := []huh.Option[string]{
		huh.NewOption(model.CompletedLabel, model.CompletedLabel),
		huh.NewOption(model.NotCompletedLabel, model.NotCompletedLabel),
	}
	if creating {
		opts = append([]huh.Option[string]{huh.NewOption("Choose…", "")}, opts...)
	}

	title := huh.NewInput().
		Key(validate.FieldTitle).
		Title("Todo").
		Placeholder("What needs doing?").
		CharLimit(200).
		Value(&v.Title).
		Validate(fieldCheck(validate.FieldTitle, func(s string) model.Draft {
			return model.Draft{Title: s}
		}))

	completed := huh.NewSelect[string]().
		Key(validate.FieldCompleted).
		Title("Completed").
		Options(opts...).
		Value(&v.Completed).
		Validate(fieldCheck(validate.FieldCompleted, func(s string) model.Draft {
			return (&formValues{Completed: s}).draft()
		}))

	return huh.NewForm(huh.NewGroup(title, completed)).
		WithTheme(theme).
		WithShowHelp(true)
}
