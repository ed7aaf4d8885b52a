package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/licensewatch/internal/model"
)

// ledgerFixture inserts one driver and one recipient and returns their ids.
func ledgerFixture(t *testing.T, s *Store) (driverID, recipientID int64) {
	t.Helper()
	ctx := context.Background()
	d, err := s.CreateDriver(ctx, testDriver("alice", "John", "Smith", date(2025, time.June, 7)))
	require.NoError(t, err)
	r, err := s.CreateRecipient(ctx, testRecipient("alice", "fleet@example.com"))
	require.NoError(t, err)
	return d.ID, r.ID
}

func TestLedger_CheckRecordCheck(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	driverID, recipientID := ledgerFixture(t, s)

	sent, err := s.HasReminderBeenSent(ctx, driverID, recipientID, 7)
	require.NoError(t, err)
	assert.False(t, sent, "fresh triple should have no ledger entry")

	require.NoError(t, s.RecordReminderSent(ctx, driverID, recipientID, 7, time.Now()))

	sent, err = s.HasReminderBeenSent(ctx, driverID, recipientID, 7)
	require.NoError(t, err)
	assert.True(t, sent)
}

func TestLedger_ThresholdsIndependent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	driverID, recipientID := ledgerFixture(t, s)

	require.NoError(t, s.RecordReminderSent(ctx, driverID, recipientID, 30, time.Now()))

	// An entry at one threshold does not suppress the others
	for _, days := range []int{7, 1} {
		sent, err := s.HasReminderBeenSent(ctx, driverID, recipientID, days)
		require.NoError(t, err)
		assert.False(t, sent, "days=%d should be unaffected", days)
	}
}

func TestLedger_DuplicateRecordFailsLoudly(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	driverID, recipientID := ledgerFixture(t, s)

	require.NoError(t, s.RecordReminderSent(ctx, driverID, recipientID, 7, time.Now()))

	err := s.RecordReminderSent(ctx, driverID, recipientID, 7, time.Now())
	assert.ErrorIs(t, err, ErrDuplicateReminder)
}

func TestLedger_KeyIgnoresExpiryDate(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	driverID, recipientID := ledgerFixture(t, s)

	require.NoError(t, s.RecordReminderSent(ctx, driverID, recipientID, 7, time.Now()))

	// Changing the driver's expiry date does not reopen the ledger slot
	d, err := s.GetDriver(ctx, driverID)
	require.NoError(t, err)
	d.ExpiryDate = date(2026, time.January, 1)
	_, err = s.UpdateDriver(ctx, "alice", d)
	require.NoError(t, err)

	sent, err := s.HasReminderBeenSent(ctx, driverID, recipientID, 7)
	require.NoError(t, err)
	assert.True(t, sent)
}

func TestListRemindersSent_OldestFirst(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	driverID, recipientID := ledgerFixture(t, s)

	for _, days := range []int{30, 7, 1} {
		require.NoError(t, s.RecordReminderSent(ctx, driverID, recipientID, days, time.Now()))
	}

	entries, err := s.ListRemindersSent(ctx, driverID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, 30, entries[0].DaysBefore)
	assert.Equal(t, 7, entries[1].DaysBefore)
	assert.Equal(t, 1, entries[2].DaysBefore)
}

func TestRecordOwnerAlert_NotDeduplicated(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	driverID, _ := ledgerFixture(t, s)

	alert := model.OwnerAlert{
		DriverID:   driverID,
		UserID:     "alice",
		DaysBefore: 7,
		Message:    "Driver license for John Smith expires in 7 days",
	}
	_, err := s.RecordOwnerAlert(ctx, alert)
	require.NoError(t, err)
	_, err = s.RecordOwnerAlert(ctx, alert)
	require.NoError(t, err, "owner alerts are append-only, never unique")

	alerts, err := s.ListOwnerAlerts(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, alerts, 2)
}

func TestListOwnerAlerts_NewestFirst(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	driverID, _ := ledgerFixture(t, s)

	for _, days := range []int{30, 7} {
		_, err := s.RecordOwnerAlert(ctx, model.OwnerAlert{
			DriverID:   driverID,
			UserID:     "alice",
			DaysBefore: days,
			Message:    "alert",
		})
		require.NoError(t, err)
	}

	alerts, err := s.ListOwnerAlerts(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, 7, alerts[0].DaysBefore)
	assert.Equal(t, 30, alerts[1].DaysBefore)
}
