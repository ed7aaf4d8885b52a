// Package store provides SQLite-backed durable storage for the license
// reminder system.
//
// The store owns four tables:
//   - Drivers: driver records with calendar-date license expiry
//   - Recipients: email destinations for expiry reminders (active flag)
//   - Reminders Sent: append-only ledger of (driver, recipient, days_before)
//     triples already notified
//   - Owner Alerts: persisted in-app notifications to a driver's owner
//
// # Critical Patterns
//
// Ledger uniqueness:
//   - UNIQUE(driver_id, recipient_id, days_before) constraint
//   - The sole mechanism preventing duplicate email sends; a violated
//     constraint surfaces as ErrDuplicateReminder rather than being
//     silently ignored, because under correct dispatcher control flow a
//     duplicate insert indicates a concurrency violation
//
// Calendar dates:
//   - expiry_date is stored as a YYYY-MM-DD TEXT column and compared by
//     string equality; time-of-day never participates in expiry matching
//
// Deterministic query results:
//   - FindDriversExpiringOn orders by expiry_date, surname, name
//   - FindActiveRecipients orders by email
//
// Explicit ownership:
//   - Every owner-scoped operation takes the user id as a parameter; the
//     store never reads ambient session state
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// User-entered text (names, license numbers, emails) is normalized to
// Unicode NFC before storage so uniqueness checks compare canonical forms.
package store
