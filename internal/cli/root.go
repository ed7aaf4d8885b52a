// Package cli implements the licensewatch command-line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Config   string // path to YAML config file (optional)
	Database string // path to SQLite database (overrides config)
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the licensewatch CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "licensewatch",
		Short: "Driver license expiry tracking and reminders",
		Long: `licensewatch tracks driver records and their license expiry dates and
sends reminders (in-app alerts and email) when a license approaches expiry.

Reminders fire at fixed thresholds of 30, 7 and 1 days before expiry. Each
(driver, recipient, threshold) email is sent at most once, enforced by an
append-only ledger.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			configureLogging(opts.Verbose)
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "path to YAML config file")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (overrides config)")

	// Add subcommands
	cmd.AddCommand(NewRemindCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewNotifyTestCommand(opts))
	cmd.AddCommand(NewDriverCommand(opts))
	cmd.AddCommand(NewRecipientCommand(opts))
	cmd.AddCommand(NewAlertsCommand(opts))

	return cmd
}

// configureLogging installs the default slog handler, with debug level when
// verbose is set.
func configureLogging(verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
