package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/licensewatch/internal/notify"
	"github.com/roach88/licensewatch/internal/reminder"
)

// RemindOptions holds flags for the remind command.
type RemindOptions struct {
	*RootOptions
	Days int

	// Mailer allows overriding the SMTP mailer (for testing).
	Mailer notify.Mailer
	// Tokens allows overriding the run token generator (for testing).
	Tokens reminder.TokenGenerator
	// Clock allows overriding the clock (for testing).
	Clock reminder.Clock
}

// NewRemindCommand creates the remind command.
func NewRemindCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RemindOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Run the daily expiry reminder pass",
		Long: `Run one reminder pass over all thresholds (30, 7 and 1 days before
expiry): scan drivers, alert owners, and email active recipients, skipping
every (driver, recipient, threshold) pair already recorded in the ledger.

Safe to invoke repeatedly on the same day - reruns find the ledger already
populated and send nothing new.

Example:
  licensewatch remind --db ./licensewatch.db
  licensewatch remind --config /etc/licensewatch.yml --days 7 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemind(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Days, "days", 0, "run a single threshold (30, 7 or 1) instead of all")

	return cmd
}

func runRemind(opts *RemindOptions, cmd *cobra.Command) error {
	st, cfg, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}
	defer st.Close()

	disp := buildDispatcher(st, cfg, opts.Mailer, opts.Tokens, opts.Clock)
	ctx := cmd.Context()

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	if opts.Days != 0 {
		result, err := disp.SendForThreshold(ctx, opts.Days)
		if reminder.IsInvalidThreshold(err) {
			return WrapExitError(ExitCommandError, "invalid --days value", err)
		}
		if err != nil {
			return WrapExitError(ExitFailure, "reminder pass failed", err)
		}
		text := fmt.Sprintf("threshold %d: %s", opts.Days, formatResult(result))
		return formatter.Print(text, result)
	}

	summary, err := disp.Run(ctx)
	if err != nil {
		return WrapExitError(ExitFailure, "reminder run failed", err)
	}
	return formatter.Print(formatSummary(summary), summary)
}

func formatResult(r reminder.ThresholdResult) string {
	return fmt.Sprintf("notifications=%d success=%d skipped=%d failed=%d",
		r.Notifications, r.Success, r.Skipped, r.Failed)
}

func formatSummary(s reminder.RunSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "run %s\n", s.RunToken)

	days := make([]int, 0, len(s.Results))
	for d := range s.Results {
		days = append(days, d)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(days)))
	for _, d := range days {
		fmt.Fprintf(&b, "threshold %2d: %s\n", d, formatResult(s.Results[d]))
	}
	fmt.Fprintf(&b, "total:        %s", formatResult(s.Total()))
	return b.String()
}
