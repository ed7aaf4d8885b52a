// Package model defines the plain data records shared by the store, the
// reminder dispatcher, and the CLI.
//
// Records are immutable by convention: the store returns copies, and all
// mutation goes through store operations that take the owning user id as an
// explicit parameter. There is no runtime type registry - fields are typed
// and validated at construction.
package model

import (
	"errors"
	"fmt"
	"net/mail"
	"time"
)

// Driver is a driver record with a license expiry date.
//
// ExpiryDate carries calendar-date semantics only: the time-of-day portion
// is always midnight UTC (see DateOnly). CreatedAt/UpdatedAt are wall-clock
// timestamps managed by the store.
type Driver struct {
	ID            int64
	UserID        string
	Name          string
	Surname       string
	LicenseNumber string
	ExpiryDate    time.Time
	PhoneNumber   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// FullName returns "Name Surname" as used in notification subjects and
// bodies.
func (d Driver) FullName() string {
	return d.Name + " " + d.Surname
}

// Validate checks the construction invariants of a driver record.
func (d Driver) Validate() error {
	if d.UserID == "" {
		return errors.New("driver: user id must not be empty")
	}
	if d.Name == "" {
		return errors.New("driver: name must not be empty")
	}
	if d.Surname == "" {
		return errors.New("driver: surname must not be empty")
	}
	if d.LicenseNumber == "" {
		return errors.New("driver: license number must not be empty")
	}
	if d.ExpiryDate.IsZero() {
		return errors.New("driver: expiry date must be set")
	}
	return nil
}

// Recipient is a configured destination for expiry reminder emails,
// independent of any driver's owner. Only active recipients participate in
// reminder fan-out. Email is unique within the same owner scope (enforced
// by the store).
type Recipient struct {
	ID          int64
	UserID      string
	Email       string
	PhoneNumber string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks the construction invariants of a recipient record.
func (r Recipient) Validate() error {
	if r.UserID == "" {
		return errors.New("recipient: user id must not be empty")
	}
	if r.Email == "" {
		return errors.New("recipient: email must not be empty")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return fmt.Errorf("recipient: invalid email %q", r.Email)
	}
	return nil
}

// ReminderSent is one ledger entry: a (driver, recipient, threshold) triple
// that has already been notified. Entries are append-only and never updated
// or deleted; at most one entry exists per triple.
type ReminderSent struct {
	ID          int64
	DriverID    int64
	RecipientID int64
	DaysBefore  int
	SentAt      time.Time
}

// OwnerAlert is a persisted in-app notification to a driver's owning
// account. Unlike emails, owner alerts are not deduplicated through the
// ledger - every run that finds the driver expiring records a fresh alert.
type OwnerAlert struct {
	ID         int64
	DriverID   int64
	UserID     string
	DaysBefore int
	Message    string
	CreatedAt  time.Time
}

// DateOnly truncates t to its calendar date in UTC (midnight).
//
// All expiry-date comparisons in the system happen on DateOnly values so a
// license expiring "today" matches regardless of when the scan runs.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// FormatDate renders t as a YYYY-MM-DD calendar date.
func FormatDate(t time.Time) string {
	return DateOnly(t).Format(time.DateOnly)
}
