package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/todotable/internal/config"
	"github.com/idilsaglam/todotable/internal/ui"
	"github.com/idilsaglam/todotable/internal/validate"
)

// Options wires the process streams. Zero values mean the real ones.
type Options struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func (o Options) withDefaults() Options {
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	return o
}

// usageError marks mistakes in how the command was called (exit code 2).
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// validationError carries field messages from the validator (exit code 2).
type validationError struct{ errs validate.Errors }

func (e *validationError) Error() string {
	msg := "invalid todo:"
	for _, f := range []string{validate.FieldTitle, validate.FieldCompleted} {
		if m := e.errs[f]; m != "" {
			msg += " " + m + "."
		}
	}
	return msg
}

// flagValues are the persistent flags; only changed ones override config.
type flagValues struct {
	apiURL    string
	timeout   time.Duration
	logLevel  string
	logFormat string
	logFile   string
	theme     string
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	opt = opt.withDefaults()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd(opt)
	root.SetArgs(args)
	root.SetIn(opt.Stdin)
	root.SetOut(opt.Stdout)
	root.SetErr(opt.Stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	ui.Fail(opt.Stderr, err.Error())

	var ue *usageError
	var ve *validationError
	if errors.As(err, &ue) || errors.As(err, &ve) {
		return 2
	}
	return 1
}

func newRootCmd(opt Options) *cobra.Command {
	var fv flagValues
	var cfg *config.Config

	root := &cobra.Command{
		Use:   "todo",
		Short: "todo - a table of todos backed by a REST API",
		Long: `todo shows the todos of a REST resource in an interactive table and lets
you create, edit and delete them. Without a subcommand it opens the table.

Configuration comes from flags, TODO_* environment variables (a .env file in
the working directory is read too), .todorc.yaml in the working directory,
or the global config.yaml, in that order.`,
		Example: `  todo
  todo ls --group
  todo add "Buy milk" --completed
  todo edit 5 --title "Updated"
  todo rm 7
  todo --api-url http://localhost:8080/todos devserver`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          noArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			c, err := resolveConfig(cmd, fv)
			if err != nil {
				return err
			}
			cfg = c
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd, cfg, opt)
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&fv.apiURL, "api-url", "", "todos collection URL (default "+config.Default().APIURL+")")
	pf.DurationVar(&fv.timeout, "timeout", 0, "per-request timeout, e.g. 10s (default: none)")
	pf.StringVar(&fv.logLevel, "log-level", "", "debug, info, warn or error")
	pf.StringVar(&fv.logFormat, "log-format", "", "text or json")
	pf.StringVar(&fv.logFile, "log-file", "", "append logs to this file")
	pf.StringVar(&fv.theme, "theme", "", "classic, neon or mono")

	cfgFn := func() *config.Config { return cfg }
	root.AddCommand(
		newUICmd(cfgFn, opt),
		newListCmd(cfgFn, opt),
		newAddCmd(cfgFn, opt),
		newEditCmd(cfgFn, opt),
		newRemoveCmd(cfgFn, opt),
		newExportCmd(cfgFn, opt),
		newImportCmd(cfgFn, opt),
		newDevserverCmd(cfgFn, opt),
	)
	return root
}

func resolveConfig(cmd *cobra.Command, fv flagValues) (*config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getwd: %w", err)
	}
	cfg, err := config.Load(filepath.Join(wd, config.LocalFileName), config.GlobalFilePath())
	if err != nil {
		return nil, err
	}

	applyFlags(cmd, fv, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, &usageError{err: err}
	}
	if err := ui.SetTheme(cfg.Theme); err != nil {
		return nil, &usageError{err: err}
	}
	return cfg, nil
}

// applyFlags copies every flag the user set into cfg, zero values included,
// so `--timeout 0` or `--log-file ""` still beat files and environment.
func applyFlags(cmd *cobra.Command, fv flagValues, cfg *config.Config) {
	if cfg.Sources == nil {
		cfg.Sources = map[string]string{}
	}
	changed := cmd.Flags().Changed
	set := func(flag, key string, apply func()) {
		if changed(flag) {
			apply()
			cfg.Sources[key] = config.SourceFlag
		}
	}
	set("api-url", "apiUrl", func() { cfg.APIURL = fv.apiURL })
	set("timeout", "timeout", func() { cfg.Timeout = fv.timeout })
	set("log-level", "logLevel", func() { cfg.LogLevel = fv.logLevel })
	set("log-format", "logFormat", func() { cfg.LogFormat = fv.logFormat })
	set("log-file", "logFile", func() { cfg.LogFile = fv.logFile })
	set("theme", "theme", func() { cfg.Theme = fv.theme })
}
