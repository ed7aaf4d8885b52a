package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/licensewatch/internal/model"
	"github.com/roach88/licensewatch/internal/reminder"
	"github.com/roach88/licensewatch/internal/store"
	"github.com/roach88/licensewatch/internal/testutil"
)

type captureMailer struct {
	sent []string
	err  error
}

func (m *captureMailer) Send(_ context.Context, to, _, _, _ string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to)
	return nil
}

// seedDatabase creates a database with one driver expiring seven days after
// 2025-05-31 and one active recipient, then closes it so the command under
// test can reopen it.
func seedDatabase(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "remind.db")

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	_, err = st.CreateDriver(ctx, model.Driver{
		UserID:        "alice",
		Name:          "John",
		Surname:       "Smith",
		LicenseNumber: "D1234567",
		ExpiryDate:    time.Date(2025, time.June, 7, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	_, err = st.CreateRecipient(ctx, model.Recipient{
		UserID: "alice",
		Email:  "fleet@example.com",
		Active: true,
	})
	require.NoError(t, err)
	return dbPath
}

// execRemind runs the remind flow with deterministic clock and tokens.
func execRemind(t *testing.T, opts *RemindOptions) (string, error) {
	t.Helper()
	if opts.Tokens == nil {
		opts.Tokens = reminder.NewFixedGenerator("run-1", "run-2")
	}
	if opts.Clock == nil {
		opts.Clock = testutil.NewFixedClock(time.Date(2025, time.May, 31, 9, 0, 0, 0, time.UTC))
	}

	cmd := &cobra.Command{}
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetContext(context.Background())

	err := runRemind(opts, cmd)
	return buf.String(), err
}

func TestRemind_TextSummary(t *testing.T) {
	dbPath := seedDatabase(t)
	mailer := &captureMailer{}

	out, err := execRemind(t, &RemindOptions{
		RootOptions: &RootOptions{Format: "text", Database: dbPath},
		Mailer:      mailer,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"fleet@example.com"}, mailer.sent)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "remind_text_summary", []byte(out))
}

func TestRemind_JSONSummary(t *testing.T) {
	dbPath := seedDatabase(t)

	out, err := execRemind(t, &RemindOptions{
		RootOptions: &RootOptions{Format: "json", Database: dbPath},
		Mailer:      &captureMailer{},
	})
	require.NoError(t, err)

	var summary reminder.RunSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, "run-1", summary.RunToken)
	assert.Equal(t, reminder.ThresholdResult{Notifications: 1, Success: 1}, summary.Results[7])
}

func TestRemind_SecondRunSkips(t *testing.T) {
	dbPath := seedDatabase(t)
	mailer := &captureMailer{}
	root := &RootOptions{Format: "json", Database: dbPath}
	clock := testutil.NewFixedClock(time.Date(2025, time.May, 31, 9, 0, 0, 0, time.UTC))
	tokens := reminder.NewFixedGenerator("run-1", "run-2")

	_, err := execRemind(t, &RemindOptions{RootOptions: root, Mailer: mailer, Clock: clock, Tokens: tokens})
	require.NoError(t, err)

	out, err := execRemind(t, &RemindOptions{RootOptions: root, Mailer: mailer, Clock: clock, Tokens: tokens})
	require.NoError(t, err)

	var summary reminder.RunSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, reminder.ThresholdResult{Notifications: 1, Skipped: 1}, summary.Results[7])
	assert.Len(t, mailer.sent, 1, "second run sends nothing new")
}

func TestRemind_SingleThreshold(t *testing.T) {
	dbPath := seedDatabase(t)

	out, err := execRemind(t, &RemindOptions{
		RootOptions: &RootOptions{Format: "json", Database: dbPath},
		Days:        7,
		Mailer:      &captureMailer{},
	})
	require.NoError(t, err)

	var result reminder.ThresholdResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, reminder.ThresholdResult{Notifications: 1, Success: 1}, result)
}

func TestRemind_InvalidDays(t *testing.T) {
	dbPath := seedDatabase(t)

	_, err := execRemind(t, &RemindOptions{
		RootOptions: &RootOptions{Format: "text", Database: dbPath},
		Days:        14,
		Mailer:      &captureMailer{},
	})
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestFormatResult(t *testing.T) {
	r := reminder.ThresholdResult{Notifications: 1, Success: 2, Skipped: 3, Failed: 4}
	assert.Equal(t, "notifications=1 success=2 skipped=3 failed=4", formatResult(r))
}
