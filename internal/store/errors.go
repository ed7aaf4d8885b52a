package store

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// Sentinel errors returned by store operations. Callers inspect these with
// errors.Is instead of relying on driver-specific error types.
var (
	// ErrNotFound indicates the requested row does not exist.
	ErrNotFound = errors.New("store: not found")

	// ErrDuplicateRecipient indicates a recipient with the same email
	// already exists for the same owner.
	ErrDuplicateRecipient = errors.New("store: recipient email already exists for this user")

	// ErrDuplicateReminder indicates a ledger entry already exists for the
	// (driver, recipient, days_before) triple. Under correct dispatcher
	// control flow this never happens; its occurrence indicates a
	// concurrency violation and is logged distinctly by the caller.
	ErrDuplicateReminder = errors.New("store: reminder already recorded for this driver, recipient and threshold")
)

// isConstraintViolation reports whether err is a SQLite UNIQUE/constraint
// violation.
func isConstraintViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}
	return false
}
