// Package notify provides the production notification sink: persisted
// in-app owner alerts plus SMTP email delivery.
//
// The dispatcher consumes the sink through its own interface; nothing here
// is framework-registered. Hosts that deliver alerts differently (or not
// at all) supply their own implementation.
package notify

import (
	"context"
	"fmt"

	"github.com/roach88/licensewatch/internal/model"
	"github.com/roach88/licensewatch/internal/reminder"
)

// AlertRecorder persists in-app owner alerts. Implemented by *store.Store.
type AlertRecorder interface {
	RecordOwnerAlert(ctx context.Context, a model.OwnerAlert) (int64, error)
}

// Mailer sends one email. Implemented by *SMTPMailer in production and by
// fakes in tests.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody, textBody string) error
}

// Sink implements the dispatcher's notification capability by recording
// owner alerts in the store and delegating emails to a Mailer.
type Sink struct {
	alerts AlertRecorder
	mailer Mailer
}

var _ reminder.Sink = (*Sink)(nil)

// NewSink creates a sink. mailer may be nil, in which case every email
// send fails with an explanatory error (and is retried on the next run
// once mail is configured) while owner alerts keep working.
func NewSink(alerts AlertRecorder, mailer Mailer) *Sink {
	return &Sink{alerts: alerts, mailer: mailer}
}

// NotifyOwner records an in-app alert row for the driver's owning account.
// Fire-and-forget from the dispatcher's perspective: the returned error is
// only used for counting and logging.
func (s *Sink) NotifyOwner(ctx context.Context, driver model.Driver, daysRemaining int) error {
	_, err := s.alerts.RecordOwnerAlert(ctx, model.OwnerAlert{
		DriverID:   driver.ID,
		UserID:     driver.UserID,
		DaysBefore: daysRemaining,
		Message:    reminder.AlertMessage(driver, daysRemaining),
	})
	if err != nil {
		return fmt.Errorf("notify owner of driver %d: %w", driver.ID, err)
	}
	return nil
}

// SendEmail delivers one reminder email through the configured mailer.
func (s *Sink) SendEmail(ctx context.Context, address, subject, htmlBody, textBody string) error {
	if s.mailer == nil {
		return fmt.Errorf("send email to %s: no mailer configured", address)
	}
	return s.mailer.Send(ctx, address, subject, htmlBody, textBody)
}
