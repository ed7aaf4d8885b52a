package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// NewAlertsCommand creates the alerts command.
func NewAlertsCommand(rootOpts *RootOptions) *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "List in-app owner alerts for a user",
		Long: `List the persisted in-app alerts delivered to a user's account, newest
first. Alerts are recorded by reminder runs and by notify-test; unlike
emails they are not deduplicated.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			alerts, err := st.ListOwnerAlerts(cmd.Context(), user)
			if err != nil {
				return WrapExitError(ExitFailure, "failed to list alerts", err)
			}

			var b strings.Builder
			for _, a := range alerts {
				fmt.Fprintf(&b, "%s\t%s\n", a.CreatedAt.Format(time.RFC3339), a.Message)
			}
			fmt.Fprintf(&b, "%d alert(s)", len(alerts))

			formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return formatter.Print(b.String(), alerts)
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "user id (required)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
