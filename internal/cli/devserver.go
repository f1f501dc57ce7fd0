package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/todotable/internal/devserver"
	"github.com/idilsaglam/todotable/internal/ui"
)

const shutdownTimeout = 5 * time.Second

func newDevserverCmd(cfg cfgFunc, opt Options) *cobra.Command {
	var addr string
	var seed int
	cmd := &cobra.Command{
		Use:   "devserver",
		Short: "Serve an in-memory todos API for local use",
		Long: `devserver serves GET/POST /todos and GET/PUT/DELETE /todos/:id from memory.
Point the table at it with --api-url http://localhost:8080/todos.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if seed < 0 {
				return usagef("devserver: --seed must not be negative")
			}
			log, closer, err := newLogger(cfg(), opt.Stderr, false)
			if err != nil {
				return err
			}
			if closer != nil {
				defer closer.Close()
			}

			srv := devserver.New(devserver.Seed(seed), log)
			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start(addr) }()
			ui.OK(opt.Stdout, fmt.Sprintf("serving %d todos on %s/todos (ctrl+c to stop)", seed, addr))

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
			}
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			return <-errCh
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().IntVar(&seed, "seed", 20, "number of generated todos")
	return cmd
}
