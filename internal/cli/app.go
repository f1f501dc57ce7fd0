package cli

import (
	"io"
	"log/slog"

	"github.com/idilsaglam/todotable/internal/config"
	"github.com/idilsaglam/todotable/internal/logging"
	"github.com/idilsaglam/todotable/internal/remote"
	"github.com/idilsaglam/todotable/internal/store"
	"github.com/idilsaglam/todotable/internal/tui"
)

// app is everything a command needs, wired from the resolved config.
type app struct {
	cfg     *config.Config
	log     *slog.Logger
	store   *store.Store
	changes tui.Changes

	closers []io.Closer
}

// newApp builds logger, remote client and store. Interactive runs never log
// to the terminal; they need a log file.
func newApp(cfg *config.Config, stderr io.Writer, interactive bool) (*app, error) {
	a := &app{cfg: cfg}

	l, c, err := newLogger(cfg, stderr, interactive)
	if err != nil {
		return nil, err
	}
	a.log = l
	if c != nil {
		a.closers = append(a.closers, c)
	}

	client := remote.New(cfg.APIURL,
		remote.WithTimeout(cfg.Timeout),
		remote.WithLogger(a.log),
	)

	opts := []store.Option{store.WithLogger(a.log)}
	if interactive {
		a.changes = tui.NewChanges(64)
		opts = append(opts, store.WithListener(a.changes.Listen))
	}
	a.store = store.New(client, opts...)

	a.log.Debug("app ready", "api_url", cfg.APIURL, "interactive", interactive)
	return a, nil
}

// newLogger picks the log sink: the configured file, nothing for the
// interactive table, stderr otherwise.
func newLogger(cfg *config.Config, stderr io.Writer, interactive bool) (*slog.Logger, io.Closer, error) {
	level := logging.ParseLevel(cfg.LogLevel)
	format := logging.ParseFormat(cfg.LogFormat)
	switch {
	case cfg.LogFile != "":
		return logging.OpenFile(cfg.LogFile, level, format)
	case interactive:
		return logging.Nop(), nil, nil
	default:
		return logging.New(logging.Config{Level: level, Format: format, Output: stderr}), nil, nil
	}
}

func (a *app) Close() {
	a.store.Close()
	for _, c := range a.closers {
		_ = c.Close()
	}
}
