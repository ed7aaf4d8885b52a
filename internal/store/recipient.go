package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/licensewatch/internal/model"
)

const recipientColumns = "id, user_id, email, phone_number, active, created_at, updated_at"

// CreateRecipient inserts a new notification recipient and returns it with
// the generated id and timestamps populated.
//
// Email is unique per owner; a second recipient with the same (user, email)
// pair returns ErrDuplicateRecipient.
func (s *Store) CreateRecipient(ctx context.Context, r model.Recipient) (model.Recipient, error) {
	r.Email = norm.NFC.String(r.Email)
	if err := r.Validate(); err != nil {
		return model.Recipient{}, err
	}

	now := s.now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO recipients
		(user_id, email, phone_number, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		r.UserID,
		r.Email,
		nullableString(r.PhoneNumber),
		r.Active,
		now.Format(time.RFC3339),
		now.Format(time.RFC3339),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return model.Recipient{}, fmt.Errorf("create recipient: %w", ErrDuplicateRecipient)
		}
		return model.Recipient{}, fmt.Errorf("create recipient: %w", err)
	}

	r.ID, err = res.LastInsertId()
	if err != nil {
		return model.Recipient{}, fmt.Errorf("create recipient: %w", err)
	}
	return r, nil
}

// GetRecipient returns the recipient with the given id for the given owner.
func (s *Store) GetRecipient(ctx context.Context, userID string, id int64) (model.Recipient, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+recipientColumns+" FROM recipients WHERE id = ? AND user_id = ?", id, userID)
	r, err := scanRecipient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Recipient{}, fmt.Errorf("get recipient %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Recipient{}, fmt.Errorf("get recipient %d: %w", id, err)
	}
	return r, nil
}

// ListRecipients returns all recipients belonging to a user, ordered by
// email.
func (s *Store) ListRecipients(ctx context.Context, userID string) ([]model.Recipient, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+recipientColumns+` FROM recipients
		WHERE user_id = ?
		ORDER BY email ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list recipients: %w", err)
	}
	defer rows.Close()
	return collectRecipients(rows)
}

// FindActiveRecipients returns all active recipients across all owners,
// ordered by email. This is the reminder fan-out set: inactive recipients
// never receive expiry emails.
func (s *Store) FindActiveRecipients(ctx context.Context) ([]model.Recipient, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+recipientColumns+` FROM recipients
		WHERE active = 1
		ORDER BY email ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("find active recipients: %w", err)
	}
	defer rows.Close()
	return collectRecipients(rows)
}

// UpdateRecipient replaces the mutable fields of a recipient owned by
// userID. Returns ErrNotFound if no such recipient exists for that owner,
// ErrDuplicateRecipient if the new email collides with another recipient of
// the same owner.
func (s *Store) UpdateRecipient(ctx context.Context, userID string, r model.Recipient) (model.Recipient, error) {
	r.UserID = userID
	r.Email = norm.NFC.String(r.Email)
	if err := r.Validate(); err != nil {
		return model.Recipient{}, err
	}

	now := s.now().UTC()
	res, err := s.db.ExecContext(ctx, `
		UPDATE recipients
		SET email = ?, phone_number = ?, active = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`,
		r.Email,
		nullableString(r.PhoneNumber),
		r.Active,
		now.Format(time.RFC3339),
		r.ID,
		userID,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return model.Recipient{}, fmt.Errorf("update recipient %d: %w", r.ID, ErrDuplicateRecipient)
		}
		return model.Recipient{}, fmt.Errorf("update recipient %d: %w", r.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return model.Recipient{}, fmt.Errorf("update recipient %d: %w", r.ID, err)
	}
	if affected == 0 {
		return model.Recipient{}, fmt.Errorf("update recipient %d: %w", r.ID, ErrNotFound)
	}
	r.UpdatedAt = now
	return r, nil
}

// DeleteRecipient removes a recipient owned by userID.
func (s *Store) DeleteRecipient(ctx context.Context, userID string, id int64) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM recipients WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("delete recipient %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete recipient %d: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("delete recipient %d: %w", id, ErrNotFound)
	}
	return nil
}

func scanRecipient(row rowScanner) (model.Recipient, error) {
	var r model.Recipient
	var phone sql.NullString
	var createdAt, updatedAt string
	err := row.Scan(&r.ID, &r.UserID, &r.Email, &phone, &r.Active, &createdAt, &updatedAt)
	if err != nil {
		return model.Recipient{}, err
	}
	r.PhoneNumber = phone.String
	if r.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return model.Recipient{}, fmt.Errorf("scan recipient %d: %w", r.ID, err)
	}
	if r.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return model.Recipient{}, fmt.Errorf("scan recipient %d: %w", r.ID, err)
	}
	return r, nil
}

func collectRecipients(rows *sql.Rows) ([]model.Recipient, error) {
	var recipients []model.Recipient
	for rows.Next() {
		r, err := scanRecipient(rows)
		if err != nil {
			return nil, err
		}
		recipients = append(recipients, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return recipients, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
