// Package reminder implements the license expiry reminder dispatcher.
//
// The dispatcher is the heart of the system - it scans driver records for
// licenses crossing the configured expiry thresholds, fans out to the
// active recipient set, and guarantees each (driver, recipient, threshold)
// email is sent at most once via the reminder ledger.
//
// ARCHITECTURE:
//
// Single Synchronous Run:
// A run processes the fixed thresholds {30, 7, 1} in that order,
// threshold-by-threshold, driver-by-driver, recipient-by-recipient. There
// is no internal parallelism: correctness of the ledger's check-then-act
// sequence (read ledger, decide, send, write ledger) depends on the runs
// themselves being serialized.
//
// Per-threshold flow:
//  1. Compute target date = today + threshold (calendar dates only)
//  2. Scan drivers whose expiry date equals the target date
//  3. If none match, record zero counts and move on (no fan-out work)
//  4. Load the active recipient set once per threshold, not per driver
//  5. Per driver: attempt one owner-directed in-app alert (no ledger -
//     this channel is intentionally un-deduplicated)
//  6. Per (driver, recipient) pair: skip if the ledger has the triple;
//     otherwise send the email, and only on success record the ledger
//     entry before moving to the next pair
//
// CRITICAL PATTERNS:
//
// At-Most-Once per Triple:
// The ledger entry is written only after a confirmed-successful send and
// before the next recipient is processed. A failed send writes nothing, so
// the next daily run retries the pair automatically - there is no backoff
// policy beyond "log and count".
//
// Single-Scheduler Assumption:
// The check-then-act sequence is not wrapped in a cross-process lock. The
// deployment assumption is a single scheduler triggering at most one
// concurrent run. The storage-level UNIQUE constraint on the ledger key is
// the last line of defense: if two runs ever race, the second insert fails
// with a duplicate-ledger error, which the dispatcher logs distinctly from
// ordinary send failures (it indicates a concurrency violation, not a
// delivery problem).
//
// Failure Isolation:
// Per-item errors (one driver, one recipient) are caught at the innermost
// scope and converted to counters plus log entries. A failure while
// processing threshold 30 does not prevent thresholds 7 and 1 from
// running. Only context cancellation propagates out of Run.
package reminder
