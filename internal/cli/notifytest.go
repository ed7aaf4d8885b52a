package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/licensewatch/internal/reminder"
	"github.com/roach88/licensewatch/internal/store"
)

// NotifyTestOptions holds flags for the notify-test command.
type NotifyTestOptions struct {
	*RootOptions
	Days int
}

// NewNotifyTestCommand creates the notify-test command.
func NewNotifyTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NotifyTestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "notify-test <driver-id>",
		Short: "Send a single test owner alert for a driver",
		Long: `Send one owner-directed in-app alert for the given driver, outside the
scheduled flow. Bypasses the reminder ledger entirely, so it can be invoked
repeatedly without affecting dedup state, and it never appears in run
summaries. Intended for operational testing.

Example:
  licensewatch notify-test 42 --db ./licensewatch.db --days 7`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNotifyTest(opts, cmd, args[0])
		},
	}

	cmd.Flags().IntVar(&opts.Days, "days", 7, "threshold to render the alert for (30, 7 or 1)")

	return cmd
}

func runNotifyTest(opts *NotifyTestOptions, cmd *cobra.Command, idArg string) error {
	driverID, err := strconv.ParseInt(idArg, 10, 64)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid driver id", err)
	}

	st, cfg, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}
	defer st.Close()

	disp := buildDispatcher(st, cfg, nil, nil, nil)

	driver, err := disp.NotifyDriver(cmd.Context(), driverID, opts.Days)
	if reminder.IsInvalidThreshold(err) {
		return WrapExitError(ExitCommandError, "invalid --days value", err)
	}
	if errors.Is(err, store.ErrNotFound) {
		return WrapExitError(ExitFailure, fmt.Sprintf("driver %d not found", driverID), err)
	}
	if err != nil {
		return WrapExitError(ExitFailure, "failed to send test alert", err)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	text := fmt.Sprintf("test alert sent for driver %d (%s), threshold %d days",
		driver.ID, driver.FullName(), opts.Days)
	return formatter.Print(text, map[string]any{
		"driver_id": driver.ID,
		"driver":    driver.FullName(),
		"days":      opts.Days,
	})
}
