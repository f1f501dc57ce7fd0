package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/todotable/internal/config"
	"github.com/idilsaglam/todotable/internal/model"
	"github.com/idilsaglam/todotable/internal/store"
	"github.com/idilsaglam/todotable/internal/tui"
	"github.com/idilsaglam/todotable/internal/ui"
	"github.com/idilsaglam/todotable/internal/validate"
)

type cfgFunc func() *config.Config

// -------------- interactive ----------------

func newUICmd(cfg cfgFunc, opt Options) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive table (default)",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUI(cmd, cfg(), opt)
		},
	}
}

func runUI(cmd *cobra.Command, cfg *config.Config, opt Options) error {
	a, err := newApp(cfg, opt.Stderr, true)
	if err != nil {
		return err
	}
	defer a.Close()
	return tui.Run(cmd.Context(), a.store, tui.WithChanges(a.changes), tui.WithLogger(a.log))
}

// -------------- subcommand impls ----------------

func newListCmd(cfg cfgFunc, opt Options) *cobra.Command {
	var group, asJSON bool
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "Print all todos",
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cfg(), opt.Stderr, false)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.store.Fetch(cmd.Context()); err != nil {
				return fmt.Errorf("load: %w", err)
			}
			st := a.store.Snapshot()
			if asJSON {
				enc := json.NewEncoder(opt.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(st.Todos)
			}
			fmt.Fprintln(opt.Stdout, listPanel(st, group))
			return nil
		},
	}
	cmd.Flags().BoolVar(&group, "group", false, "group output by pending/done")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a panel")
	return cmd
}

func newAddCmd(cfg cfgFunc, opt Options) *cobra.Command {
	var completed bool
	cmd := &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a new todo (title can be multiple words)",
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usagef("usage: todo add <title...>")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			d := model.Draft{Title: strings.Join(args, " "), Completed: &completed}
			if errs := validate.Todo(d); errs.Any() {
				return &validationError{errs: errs}
			}

			a, err := newApp(cfg(), opt.Stderr, false)
			if err != nil {
				return err
			}
			defer a.Close()

			created, err := a.store.Create(cmd.Context(), d.Todo(0))
			if err != nil {
				return err
			}
			ui.OK(opt.Stdout, fmt.Sprintf("added #%d", created.ID))
			return nil
		},
	}
	cmd.Flags().BoolVar(&completed, "completed", false, "mark the new todo as completed")
	return cmd
}

func newEditCmd(cfg cfgFunc, opt Options) *cobra.Command {
	var title string
	var completed bool
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the title or completed state of a todo",
		Args:  idArg("edit"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := strconv.Atoi(args[0])
			if !cmd.Flags().Changed("title") && !cmd.Flags().Changed("completed") {
				return usagef("edit: nothing to change, pass --title and/or --completed")
			}

			a, err := newApp(cfg(), opt.Stderr, false)
			if err != nil {
				return err
			}
			defer a.Close()

			current, err := lookup(cmd, a.store, id)
			if err != nil {
				return err
			}
			d := model.DraftOf(current)
			if cmd.Flags().Changed("title") {
				d.Title = title
			}
			if cmd.Flags().Changed("completed") {
				d.Completed = &completed
			}
			if errs := validate.Todo(d); errs.Any() {
				return &validationError{errs: errs}
			}

			if _, err := a.store.Update(cmd.Context(), d.Todo(id)); err != nil {
				return err
			}
			ui.OK(opt.Stdout, fmt.Sprintf("updated #%d", id))
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().BoolVar(&completed, "completed", false, "completed state (--completed=false to reopen)")
	return cmd
}

func newRemoveCmd(cfg cfgFunc, opt Options) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a todo",
		Args:    idArg("rm"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := strconv.Atoi(args[0])

			a, err := newApp(cfg(), opt.Stderr, false)
			if err != nil {
				return err
			}
			defer a.Close()

			current, err := lookup(cmd, a.store, id)
			if err != nil {
				return err
			}
			if !yes && !confirm(opt, fmt.Sprintf("Are you sure you want to delete this todo? #%d %q [y/N]: ", current.ID, current.Title)) {
				fmt.Fprintln(opt.Stdout, ui.Current().Muted.Render("kept"))
				return nil
			}

			if _, err := a.store.Delete(cmd.Context(), id); err != nil {
				return err
			}
			ui.OK(opt.Stdout, fmt.Sprintf("removed #%d", id))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

// -------------- helpers ----------------

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usagef("%s: unexpected argument %q", cmd.Name(), args[0])
	}
	return nil
}

func idArg(name string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != 1 {
			return usagef("usage: todo %s <id>", name)
		}
		if _, err := strconv.Atoi(args[0]); err != nil {
			return usagef("%s: not a number: %s", name, args[0])
		}
		return nil
	}
}

// lookup fetches the collection and returns the todo with id.
func lookup(cmd *cobra.Command, st *store.Store, id int) (model.Todo, error) {
	if err := st.Fetch(cmd.Context()); err != nil {
		return model.Todo{}, fmt.Errorf("load: %w", err)
	}
	t, ok := st.Snapshot().Find(id)
	if !ok {
		return model.Todo{}, usagef("no todo with id %d (run `todo ls` to see ids)", id)
	}
	return t, nil
}

func confirm(opt Options, prompt string) bool {
	fmt.Fprint(opt.Stdout, prompt)
	line, _ := bufio.NewReader(opt.Stdin).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
