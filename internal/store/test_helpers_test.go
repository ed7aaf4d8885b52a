package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/licensewatch/internal/model"
)

// createTestStore creates a fresh store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// testDriver creates a driver record with minimal required fields.
func testDriver(userID, name, surname string, expiry time.Time) model.Driver {
	return model.Driver{
		UserID:        userID,
		Name:          name,
		Surname:       surname,
		LicenseNumber: "LIC-" + surname,
		ExpiryDate:    expiry,
		PhoneNumber:   "+44 1234 567890",
	}
}

// testRecipient creates an active recipient record.
func testRecipient(userID, email string) model.Recipient {
	return model.Recipient{
		UserID: userID,
		Email:  email,
		Active: true,
	}
}

// date builds a calendar date.
func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
