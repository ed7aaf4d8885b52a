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

const driverColumns = "id, user_id, name, surname, license_number, expiry_date, phone_number, created_at, updated_at"

// CreateDriver inserts a new driver record and returns it with the
// generated id and timestamps populated. Name, surname and license number
// are normalized to NFC before storage.
func (s *Store) CreateDriver(ctx context.Context, d model.Driver) (model.Driver, error) {
	d.Name = norm.NFC.String(d.Name)
	d.Surname = norm.NFC.String(d.Surname)
	d.LicenseNumber = norm.NFC.String(d.LicenseNumber)
	if err := d.Validate(); err != nil {
		return model.Driver{}, err
	}

	now := s.now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO drivers
		(user_id, name, surname, license_number, expiry_date, phone_number, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		d.UserID,
		d.Name,
		d.Surname,
		d.LicenseNumber,
		model.FormatDate(d.ExpiryDate),
		d.PhoneNumber,
		now.Format(time.RFC3339),
		now.Format(time.RFC3339),
	)
	if err != nil {
		return model.Driver{}, fmt.Errorf("create driver: %w", err)
	}

	d.ID, err = res.LastInsertId()
	if err != nil {
		return model.Driver{}, fmt.Errorf("create driver: %w", err)
	}
	d.ExpiryDate = model.DateOnly(d.ExpiryDate)
	return d, nil
}

// GetDriver returns the driver with the given id, regardless of owner.
// Used by the operator-level diagnostic path; owner-scoped listing goes
// through ListDrivers.
func (s *Store) GetDriver(ctx context.Context, id int64) (model.Driver, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+driverColumns+" FROM drivers WHERE id = ?", id)
	d, err := scanDriver(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Driver{}, fmt.Errorf("get driver %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Driver{}, fmt.Errorf("get driver %d: %w", id, err)
	}
	return d, nil
}

// ListDrivers returns all drivers belonging to a user, ordered by surname
// then name.
func (s *Store) ListDrivers(ctx context.Context, userID string) ([]model.Driver, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+driverColumns+` FROM drivers
		WHERE user_id = ?
		ORDER BY surname ASC, name ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list drivers: %w", err)
	}
	defer rows.Close()
	return collectDrivers(rows)
}

// CountDrivers returns the number of drivers belonging to a user.
func (s *Store) CountDrivers(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM drivers WHERE user_id = ?", userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count drivers: %w", err)
	}
	return count, nil
}

// UpdateDriver replaces the mutable fields of a driver owned by userID.
// Returns ErrNotFound if no such driver exists for that owner.
func (s *Store) UpdateDriver(ctx context.Context, userID string, d model.Driver) (model.Driver, error) {
	d.UserID = userID
	d.Name = norm.NFC.String(d.Name)
	d.Surname = norm.NFC.String(d.Surname)
	d.LicenseNumber = norm.NFC.String(d.LicenseNumber)
	if err := d.Validate(); err != nil {
		return model.Driver{}, err
	}

	now := s.now().UTC()
	res, err := s.db.ExecContext(ctx, `
		UPDATE drivers
		SET name = ?, surname = ?, license_number = ?, expiry_date = ?, phone_number = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`,
		d.Name,
		d.Surname,
		d.LicenseNumber,
		model.FormatDate(d.ExpiryDate),
		d.PhoneNumber,
		now.Format(time.RFC3339),
		d.ID,
		userID,
	)
	if err != nil {
		return model.Driver{}, fmt.Errorf("update driver %d: %w", d.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return model.Driver{}, fmt.Errorf("update driver %d: %w", d.ID, err)
	}
	if affected == 0 {
		return model.Driver{}, fmt.Errorf("update driver %d: %w", d.ID, ErrNotFound)
	}
	d.UpdatedAt = now
	d.ExpiryDate = model.DateOnly(d.ExpiryDate)
	return d, nil
}

// DeleteDriver removes a driver owned by userID. Hard delete - there is no
// soft-delete lifecycle. Ledger entries referencing the driver remain as
// orphaned audit rows.
func (s *Store) DeleteDriver(ctx context.Context, userID string, id int64) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM drivers WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("delete driver %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete driver %d: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("delete driver %d: %w", id, ErrNotFound)
	}
	return nil
}

// FindDriversExpiringOn returns all drivers whose license expires exactly
// on the given calendar date, across all owners.
//
// Ordering is expiry date, then surname, then name - a stable tie-break so
// dispatcher logs are deterministic. No pagination; the full matching set
// is returned.
func (s *Store) FindDriversExpiringOn(ctx context.Context, date time.Time) ([]model.Driver, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+driverColumns+` FROM drivers
		WHERE expiry_date = ?
		ORDER BY expiry_date ASC, surname ASC, name ASC
	`, model.FormatDate(date))
	if err != nil {
		return nil, fmt.Errorf("find drivers expiring on %s: %w", model.FormatDate(date), err)
	}
	defer rows.Close()
	return collectDrivers(rows)
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDriver(row rowScanner) (model.Driver, error) {
	var d model.Driver
	var expiry, createdAt, updatedAt string
	err := row.Scan(&d.ID, &d.UserID, &d.Name, &d.Surname, &d.LicenseNumber,
		&expiry, &d.PhoneNumber, &createdAt, &updatedAt)
	if err != nil {
		return model.Driver{}, err
	}
	if d.ExpiryDate, err = model.ParseDate(expiry); err != nil {
		return model.Driver{}, fmt.Errorf("scan driver %d: %w", d.ID, err)
	}
	if d.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return model.Driver{}, fmt.Errorf("scan driver %d: %w", d.ID, err)
	}
	if d.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return model.Driver{}, fmt.Errorf("scan driver %d: %w", d.ID, err)
	}
	return d, nil
}

func collectDrivers(rows *sql.Rows) ([]model.Driver, error) {
	var drivers []model.Driver
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return drivers, nil
}
