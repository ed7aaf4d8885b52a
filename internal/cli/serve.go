package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Interval time.Duration
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the reminder scheduler as a long-lived process",
		Long: `Run a reminder pass immediately, then once per interval (default 24h),
until interrupted. This is the built-in scheduler trigger for deployments
without an external cron.

Duplicate passes on the same calendar day are harmless: the ledger makes
them no-ops.

Example:
  licensewatch serve --db ./licensewatch.db
  licensewatch serve --config /etc/licensewatch.yml --interval 24h`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().DurationVar(&opts.Interval, "interval", 24*time.Hour, "time between reminder passes")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	st, cfg, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	disp := buildDispatcher(st, cfg, nil, nil, nil)

	// Use the command's context if available (for testing), otherwise
	// create one.
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("reminder scheduler started", "interval", opts.Interval, "database", cfg.Database)

	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	// First pass runs immediately; the ticker handles subsequent days.
	if _, err := disp.Run(ctx); err != nil {
		slog.Error("reminder run failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("reminder scheduler stopping")
			return nil
		case <-ticker.C:
			if _, err := disp.Run(ctx); err != nil {
				slog.Error("reminder run failed", "error", err)
			}
		}
	}
}
