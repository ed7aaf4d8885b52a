package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/licensewatch/internal/model"
	"github.com/roach88/licensewatch/internal/store"
)

// Thresholds is the fixed set of days-before-expiry at which reminders
// fire, in processing order. Order affects log output only, not
// correctness.
var Thresholds = []int{30, 7, 1}

// Store is the persistence surface the dispatcher depends on. Implemented
// by *store.Store; tests may substitute fakes per concern.
type Store interface {
	// FindDriversExpiringOn returns drivers whose expiry date equals the
	// given calendar date, ordered by expiry date, surname, name.
	FindDriversExpiringOn(ctx context.Context, date time.Time) ([]model.Driver, error)

	// GetDriver returns a driver by id. Used by the diagnostic path only.
	GetDriver(ctx context.Context, id int64) (model.Driver, error)

	// FindActiveRecipients returns the reminder fan-out set.
	FindActiveRecipients(ctx context.Context) ([]model.Recipient, error)

	// HasReminderBeenSent reports whether the ledger holds the triple.
	HasReminderBeenSent(ctx context.Context, driverID, recipientID int64, daysBefore int) (bool, error)

	// RecordReminderSent appends a ledger entry; a duplicate key returns
	// store.ErrDuplicateReminder.
	RecordReminderSent(ctx context.Context, driverID, recipientID int64, daysBefore int, sentAt time.Time) error
}

// Sink abstracts the two delivery channels. The dispatcher calls it but
// does not implement it; see the notify package for the production
// implementation.
type Sink interface {
	// NotifyOwner delivers a best-effort in-app alert to the driver's
	// owning account. Not deduplicated.
	NotifyOwner(ctx context.Context, driver model.Driver, daysRemaining int) error

	// SendEmail synchronously sends one reminder email. Any error is
	// treated as a failed attempt eligible for retry on the next run.
	SendEmail(ctx context.Context, address, subject, htmlBody, textBody string) error
}

// Clock supplies "now" for target-date arithmetic and ledger timestamps.
type Clock interface {
	Now() time.Time
}

// WallClock is the production Clock.
type WallClock struct{}

// Now returns the current wall-clock time.
func (WallClock) Now() time.Time { return time.Now() }

// ThresholdResult aggregates per-threshold counters for one run.
type ThresholdResult struct {
	// Notifications counts owner in-app alerts delivered.
	Notifications int `json:"notifications"`
	// Success counts emails sent and recorded in the ledger.
	Success int `json:"success"`
	// Skipped counts (driver, recipient) pairs already in the ledger.
	Skipped int `json:"skipped"`
	// Failed counts email attempts that errored (retried next run).
	Failed int `json:"failed"`
}

// RunSummary is the in-memory aggregate of one dispatcher run. It is never
// persisted - it exists for logging and CLI output.
type RunSummary struct {
	RunToken string                  `json:"run_token"`
	Results  map[int]ThresholdResult `json:"results"` // keyed by threshold days
}

// Total sums the counters across all thresholds.
func (s RunSummary) Total() ThresholdResult {
	var total ThresholdResult
	for _, r := range s.Results {
		total.Notifications += r.Notifications
		total.Success += r.Success
		total.Skipped += r.Skipped
		total.Failed += r.Failed
	}
	return total
}

// Dispatcher orchestrates scan, recipient fan-out, ledger check, send and
// ledger record for each threshold. See the package documentation for the
// concurrency assumptions.
type Dispatcher struct {
	store  Store
	sink   Sink
	tokens TokenGenerator
	clock  Clock
	logger *slog.Logger
}

// New creates a dispatcher. Pass UUIDv7Generator{} and WallClock{} in
// production; tests substitute FixedGenerator and a fixed clock for
// deterministic runs.
func New(st Store, sink Sink, tokens TokenGenerator, clock Clock, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		store:  st,
		sink:   sink,
		tokens: tokens,
		clock:  clock,
		logger: logger,
	}
}

// Run executes one full daily reminder pass over all thresholds.
//
// Per-threshold failures are logged and isolated - a scan error on
// threshold 30 does not prevent thresholds 7 and 1 from running, and the
// failed threshold reports zero counts. Only context cancellation aborts
// the run.
//
// Running twice on the same calendar day is idempotent in effect: the
// second run finds the ledger already populated and skips every pair.
func (d *Dispatcher) Run(ctx context.Context) (RunSummary, error) {
	summary := RunSummary{
		RunToken: d.tokens.Generate(),
		Results:  make(map[int]ThresholdResult, len(Thresholds)),
	}
	logger := d.logger.With("run", summary.RunToken)
	logger.Info("starting license expiry reminder run")

	for _, days := range Thresholds {
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("reminder run cancelled: %w", err)
		}

		result, err := d.sendForThreshold(ctx, logger, summary.RunToken, days)
		summary.Results[days] = result
		if err != nil {
			logger.Error("threshold scan failed",
				"days", days,
				"error", err)
			continue
		}
		logger.Info("threshold processed",
			"days", days,
			"notifications", result.Notifications,
			"success", result.Success,
			"skipped", result.Skipped,
			"failed", result.Failed)
	}

	total := summary.Total()
	logger.Info("completed license expiry reminder run",
		"notifications", total.Notifications,
		"success", total.Success,
		"skipped", total.Skipped,
		"failed", total.Failed)
	return summary, nil
}

// SendForThreshold runs the reminder flow for a single threshold. The days
// value must be one of Thresholds; anything else returns an
// invalid-threshold RunError without touching the stores.
func (d *Dispatcher) SendForThreshold(ctx context.Context, days int) (ThresholdResult, error) {
	token := d.tokens.Generate()
	return d.sendForThreshold(ctx, d.logger.With("run", token), token, days)
}

func (d *Dispatcher) sendForThreshold(ctx context.Context, logger *slog.Logger, runToken string, days int) (ThresholdResult, error) {
	var result ThresholdResult

	if !validThreshold(days) {
		return result, NewInvalidThresholdError(days)
	}

	targetDate := model.DateOnly(d.clock.Now()).AddDate(0, 0, days)

	drivers, err := d.store.FindDriversExpiringOn(ctx, targetDate)
	if err != nil {
		return result, NewScanError(runToken, days, err)
	}
	if len(drivers) == 0 {
		return result, nil
	}

	// Loaded once per threshold, not once per driver.
	recipients, err := d.store.FindActiveRecipients(ctx)
	if err != nil {
		return result, NewScanError(runToken, days, err)
	}

	for _, driver := range drivers {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("threshold %d cancelled: %w", days, err)
		}

		// Owner alerts are always attempted, never deduplicated. A
		// failure is logged and does not block the email fan-out.
		if err := d.sink.NotifyOwner(ctx, driver, days); err != nil {
			logger.Error("failed to send owner alert",
				"days", days,
				"driver_id", driver.ID,
				"error", err)
		} else {
			result.Notifications++
		}

		if len(recipients) == 0 {
			continue
		}

		for _, recipient := range recipients {
			d.sendReminderEmail(ctx, logger, days, driver, recipient, &result)
		}
	}

	return result, nil
}

// sendReminderEmail runs the check-then-act sequence for one
// (driver, recipient) pair: read ledger, decide, send, write ledger. The
// ledger write happens only after a confirmed-successful send and before
// the next pair is processed.
func (d *Dispatcher) sendReminderEmail(ctx context.Context, logger *slog.Logger, days int, driver model.Driver, recipient model.Recipient, result *ThresholdResult) {
	sent, err := d.store.HasReminderBeenSent(ctx, driver.ID, recipient.ID, days)
	if err != nil {
		logger.Error("ledger check failed",
			"days", days,
			"driver_id", driver.ID,
			"recipient_id", recipient.ID,
			"error", err)
		result.Failed++
		return
	}
	if sent {
		result.Skipped++
		return
	}

	subject := EmailSubject(driver, days)
	htmlBody, textBody := EmailBodies(driver, days)

	if err := d.sink.SendEmail(ctx, recipient.Email, subject, htmlBody, textBody); err != nil {
		// No ledger entry on failure - the next run retries this pair.
		logger.Error("failed to send reminder email",
			"days", days,
			"driver_id", driver.ID,
			"recipient_id", recipient.ID,
			"error", err)
		result.Failed++
		return
	}

	if err := d.store.RecordReminderSent(ctx, driver.ID, recipient.ID, days, d.clock.Now()); err != nil {
		if errors.Is(err, store.ErrDuplicateReminder) {
			// The triple was recorded between our check and write. That
			// means another run is executing concurrently, violating the
			// single-scheduler assumption. Logged distinctly from send
			// failures.
			logger.Error("duplicate ledger entry detected",
				"code", string(ErrCodeDuplicateLedgerEntry),
				"days", days,
				"driver_id", driver.ID,
				"recipient_id", recipient.ID)
		} else {
			// The email went out but the ledger write failed; the next
			// run may resend this pair.
			logger.Error("failed to record ledger entry after send",
				"days", days,
				"driver_id", driver.ID,
				"recipient_id", recipient.ID,
				"error", err)
		}
	}
	result.Success++
}

// NotifyDriver is the manual diagnostic entry point: it delivers a single
// owner alert for the given driver and threshold, outside the scheduled
// flow. It bypasses the ledger entirely, so it can be invoked repeatedly
// without affecting dedup state, and its activity appears in no
// RunSummary.
func (d *Dispatcher) NotifyDriver(ctx context.Context, driverID int64, days int) (model.Driver, error) {
	if !validThreshold(days) {
		return model.Driver{}, NewInvalidThresholdError(days)
	}
	driver, err := d.store.GetDriver(ctx, driverID)
	if err != nil {
		return model.Driver{}, fmt.Errorf("notify driver: %w", err)
	}
	if err := d.sink.NotifyOwner(ctx, driver, days); err != nil {
		return model.Driver{}, fmt.Errorf("notify driver %d: %w", driverID, err)
	}
	return driver, nil
}

func validThreshold(days int) bool {
	for _, t := range Thresholds {
		if days == t {
			return true
		}
	}
	return false
}
