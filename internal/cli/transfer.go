package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/todotable/internal/model"
	"github.com/idilsaglam/todotable/internal/store/jsonstore"
	"github.com/idilsaglam/todotable/internal/ui"
	"github.com/idilsaglam/todotable/internal/validate"
)

func newExportCmd(cfg cfgFunc, opt Options) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all todos to a JSON file",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cfg(), opt.Stderr, false)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.store.Fetch(cmd.Context()); err != nil {
				return fmt.Errorf("load: %w", err)
			}
			todos := a.store.Snapshot().Todos
			if err := jsonstore.Save(file, todos); err != nil {
				return err
			}
			ui.OK(opt.Stdout, fmt.Sprintf("exported %d todos to %s", len(todos), file))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", jsonstore.DefaultFile, "target file")
	return cmd
}

// Import creates every todo of the file as a new record. Ids in the file are
// ignored; the API assigns new ones. Nothing is sent if any entry is invalid.
func newImportCmd(cfg cfgFunc, opt Options) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Create todos from a JSON file",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			todos, err := jsonstore.Load(file)
			if err != nil {
				return err
			}
			for i, t := range todos {
				if errs := validate.Todo(model.DraftOf(t)); errs.Any() {
					return fmt.Errorf("entry %d: %w", i+1, &validationError{errs: errs})
				}
			}

			a, err := newApp(cfg(), opt.Stderr, false)
			if err != nil {
				return err
			}
			defer a.Close()

			for i, t := range todos {
				if _, err := a.store.Create(cmd.Context(), t); err != nil {
					return fmt.Errorf("entry %d: %w (%d imported)", i+1, err, i)
				}
			}
			ui.OK(opt.Stdout, fmt.Sprintf("imported %d todos from %s", len(todos), file))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", jsonstore.DefaultFile, "source file")
	return cmd
}
