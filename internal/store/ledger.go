package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/licensewatch/internal/model"
)

// HasReminderBeenSent reports whether a ledger entry exists for the
// (driver, recipient, days_before) triple. Absence of an entry is the
// signal that a reminder is still owed.
func (s *Store) HasReminderBeenSent(ctx context.Context, driverID, recipientID int64, daysBefore int) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM reminders_sent
		WHERE driver_id = ? AND recipient_id = ? AND days_before = ?
	`, driverID, recipientID, daysBefore).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check reminder sent: %w", err)
	}
	return count > 0, nil
}

// RecordReminderSent appends one ledger entry for the triple.
//
// Unlike an ON CONFLICT DO NOTHING insert, a duplicate key fails loudly
// with ErrDuplicateReminder: the dispatcher only calls RecordReminderSent
// after HasReminderBeenSent returned false, so a violation of the UNIQUE
// constraint means two runs raced and the caller must log it as such.
//
// The ledger key deliberately excludes the expiry date. If a driver's
// expiry date changes and later reverts, the old entry still suppresses
// re-sending for that threshold; renewed licenses leave old entries behind
// as orphaned audit rows without blocking future reminders.
func (s *Store) RecordReminderSent(ctx context.Context, driverID, recipientID int64, daysBefore int, sentAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reminders_sent (driver_id, recipient_id, days_before, sent_at)
		VALUES (?, ?, ?, ?)
	`, driverID, recipientID, daysBefore, sentAt.UTC().Format(time.RFC3339))
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("record reminder (driver=%d recipient=%d days=%d): %w",
				driverID, recipientID, daysBefore, ErrDuplicateReminder)
		}
		return fmt.Errorf("record reminder (driver=%d recipient=%d days=%d): %w",
			driverID, recipientID, daysBefore, err)
	}
	return nil
}

// ListRemindersSent returns all ledger entries for a driver, oldest first.
// Operational inspection only; the dispatcher never reads the ledger this
// way.
func (s *Store) ListRemindersSent(ctx context.Context, driverID int64) ([]model.ReminderSent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, driver_id, recipient_id, days_before, sent_at
		FROM reminders_sent
		WHERE driver_id = ?
		ORDER BY id ASC
	`, driverID)
	if err != nil {
		return nil, fmt.Errorf("list reminders sent: %w", err)
	}
	defer rows.Close()
	return collectReminders(rows)
}

func collectReminders(rows *sql.Rows) ([]model.ReminderSent, error) {
	var entries []model.ReminderSent
	for rows.Next() {
		var e model.ReminderSent
		var sentAt string
		if err := rows.Scan(&e.ID, &e.DriverID, &e.RecipientID, &e.DaysBefore, &sentAt); err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339, sentAt)
		if err != nil {
			return nil, fmt.Errorf("scan reminder %d: %w", e.ID, err)
		}
		e.SentAt = t
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
