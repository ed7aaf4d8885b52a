package store

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/licensewatch/internal/model"
)

// RecordOwnerAlert appends one in-app alert row for a driver's owner.
//
// There is no deduplication on this path: every run that finds the driver
// expiring records a fresh alert. Only the email channel goes through the
// ledger.
func (s *Store) RecordOwnerAlert(ctx context.Context, a model.OwnerAlert) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO owner_alerts (driver_id, user_id, days_before, message, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, a.DriverID, a.UserID, a.DaysBefore, a.Message, s.now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("record owner alert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("record owner alert: %w", err)
	}
	return id, nil
}

// ListOwnerAlerts returns all alerts for a user, newest first.
func (s *Store) ListOwnerAlerts(ctx context.Context, userID string) ([]model.OwnerAlert, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, driver_id, user_id, days_before, message, created_at
		FROM owner_alerts
		WHERE user_id = ?
		ORDER BY id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list owner alerts: %w", err)
	}
	defer rows.Close()

	var alerts []model.OwnerAlert
	for rows.Next() {
		var a model.OwnerAlert
		var createdAt string
		if err := rows.Scan(&a.ID, &a.DriverID, &a.UserID, &a.DaysBefore, &a.Message, &createdAt); err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("scan owner alert %d: %w", a.ID, err)
		}
		a.CreatedAt = t
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return alerts, nil
}
