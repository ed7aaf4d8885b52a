package cli

import (
	"log/slog"

	"github.com/roach88/licensewatch/internal/config"
	"github.com/roach88/licensewatch/internal/notify"
	"github.com/roach88/licensewatch/internal/reminder"
	"github.com/roach88/licensewatch/internal/store"
)

// resolveConfig merges the config file (if given) with command-line
// overrides. The --db flag wins over the file's database path.
func resolveConfig(opts *RootOptions) (config.Config, error) {
	cfg := config.Config{Database: opts.Database}
	if opts.Config != "" {
		loaded, err := config.Load(opts.Config)
		if err != nil {
			return config.Config{}, WrapExitError(ExitCommandError, "failed to load config", err)
		}
		cfg = loaded
		if opts.Database != "" {
			cfg.Database = opts.Database
		}
	}
	if cfg.Database == "" {
		return config.Config{}, NewExitError(ExitCommandError, "no database configured: pass --db or a --config file with a database path")
	}
	return cfg, nil
}

// openStore resolves the configuration and opens the SQLite store.
func openStore(opts *RootOptions) (*store.Store, config.Config, error) {
	cfg, err := resolveConfig(opts)
	if err != nil {
		return nil, config.Config{}, err
	}
	st, err := store.Open(cfg.Database)
	if err != nil {
		return nil, config.Config{}, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, cfg, nil
}

// buildDispatcher wires the production dispatcher: store-backed owner
// alerts, SMTP email when configured, UUIDv7 run tokens and the wall
// clock. mailer overrides the SMTP configuration when non-nil (tests).
func buildDispatcher(st *store.Store, cfg config.Config, mailer notify.Mailer, tokens reminder.TokenGenerator, clock reminder.Clock) *reminder.Dispatcher {
	if mailer == nil && cfg.SMTP.Enabled() {
		mailer = notify.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	}
	if tokens == nil {
		tokens = reminder.UUIDv7Generator{}
	}
	if clock == nil {
		clock = reminder.WallClock{}
	}
	sink := notify.NewSink(st, mailer)
	return reminder.New(st, sink, tokens, clock, slog.Default())
}
