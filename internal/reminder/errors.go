package reminder

import (
	"errors"
	"fmt"
)

// RunError represents an error detected during dispatcher execution.
//
// Run errors include:
//   - Invalid threshold: days value outside the fixed allowed set
//   - Duplicate ledger entry: a record attempt hit an existing key
//   - Scan failure: the driver or recipient store could not be read
//
// RunError includes structured fields for diagnostics.
type RunError struct {
	// Code identifies the error category.
	Code RunErrorCode

	// Message is a human-readable description.
	Message string

	// RunToken identifies the affected dispatcher run, if any.
	RunToken string

	// Days identifies the threshold being processed, if any.
	Days int

	// Err is the underlying error, if any.
	Err error
}

// RunErrorCode categorizes run errors.
type RunErrorCode string

const (
	// ErrCodeInvalidThreshold indicates a days value outside {30, 7, 1}.
	// This is a configuration/programmer error, fatal to that call only.
	ErrCodeInvalidThreshold RunErrorCode = "INVALID_THRESHOLD"

	// ErrCodeDuplicateLedgerEntry indicates a ledger record attempt hit an
	// existing (driver, recipient, threshold) key. Under correct control
	// flow this never happens; it signals a concurrency violation.
	ErrCodeDuplicateLedgerEntry RunErrorCode = "DUPLICATE_LEDGER_ENTRY"

	// ErrCodeScanFailed indicates the driver or recipient store could not
	// be read. Terminal for the current threshold only.
	ErrCodeScanFailed RunErrorCode = "SCAN_FAILED"
)

// Error implements the error interface.
func (e *RunError) Error() string {
	if e.RunToken != "" && e.Days != 0 {
		return fmt.Sprintf("%s: %s (run=%s, days=%d)", e.Code, e.Message, e.RunToken, e.Days)
	}
	if e.Days != 0 {
		return fmt.Sprintf("%s: %s (days=%d)", e.Code, e.Message, e.Days)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *RunError) Unwrap() error {
	return e.Err
}

// IsInvalidThreshold returns true if the error is an invalid-threshold
// error. Uses errors.As to handle wrapped errors.
func IsInvalidThreshold(err error) bool {
	var re *RunError
	if errors.As(err, &re) {
		return re.Code == ErrCodeInvalidThreshold
	}
	return false
}

// IsDuplicateLedgerEntry returns true if the error is a duplicate-ledger
// error. Uses errors.As to handle wrapped errors.
func IsDuplicateLedgerEntry(err error) bool {
	var re *RunError
	if errors.As(err, &re) {
		return re.Code == ErrCodeDuplicateLedgerEntry
	}
	return false
}

// NewInvalidThresholdError creates a RunError for a days value outside the
// allowed set.
func NewInvalidThresholdError(days int) *RunError {
	return &RunError{
		Code:    ErrCodeInvalidThreshold,
		Message: fmt.Sprintf("invalid days parameter %d: must be one of %v", days, Thresholds),
		Days:    days,
	}
}

// NewScanError creates a RunError for a store read failure during a
// threshold scan.
func NewScanError(runToken string, days int, err error) *RunError {
	return &RunError{
		Code:     ErrCodeScanFailed,
		Message:  "store read failed during threshold scan",
		RunToken: runToken,
		Days:     days,
		Err:      err,
	}
}
