package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/licensewatch/internal/model"
)

// NewDriverCommand creates the driver command group.
func NewDriverCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "driver",
		Short: "Manage driver records",
	}
	cmd.AddCommand(newDriverAddCommand(rootOpts))
	cmd.AddCommand(newDriverListCommand(rootOpts))
	cmd.AddCommand(newDriverRemoveCommand(rootOpts))
	return cmd
}

func newDriverAddCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		user    string
		name    string
		surname string
		license string
		expiry  string
		phone   string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a driver record",
		Example: `  licensewatch driver add --db ./licensewatch.db \
    --user alice --name John --surname Smith \
    --license B123456 --expiry 2026-06-07 --phone "+44 1234 567890"`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			expiryDate, err := model.ParseDate(expiry)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid --expiry", err)
			}

			st, _, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			driver, err := st.CreateDriver(cmd.Context(), model.Driver{
				UserID:        user,
				Name:          name,
				Surname:       surname,
				LicenseNumber: license,
				ExpiryDate:    expiryDate,
				PhoneNumber:   phone,
			})
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to add driver", err)
			}

			formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			text := fmt.Sprintf("added driver %d: %s (license %s, expires %s)",
				driver.ID, driver.FullName(), driver.LicenseNumber, model.FormatDate(driver.ExpiryDate))
			return formatter.Print(text, driver)
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "owning user id (required)")
	cmd.Flags().StringVar(&name, "name", "", "driver first name (required)")
	cmd.Flags().StringVar(&surname, "surname", "", "driver surname (required)")
	cmd.Flags().StringVar(&license, "license", "", "license number (required)")
	cmd.Flags().StringVar(&expiry, "expiry", "", "license expiry date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number")
	for _, f := range []string{"user", "name", "surname", "license", "expiry"} {
		_ = cmd.MarkFlagRequired(f)
	}

	return cmd
}

func newDriverListCommand(rootOpts *RootOptions) *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List driver records for a user",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			drivers, err := st.ListDrivers(cmd.Context(), user)
			if err != nil {
				return WrapExitError(ExitFailure, "failed to list drivers", err)
			}

			var b strings.Builder
			for _, d := range drivers {
				fmt.Fprintf(&b, "%d\t%s\t%s\t%s\t%s\n",
					d.ID, d.Surname, d.Name, d.LicenseNumber, model.FormatDate(d.ExpiryDate))
			}
			fmt.Fprintf(&b, "%d driver(s)", len(drivers))

			formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return formatter.Print(b.String(), drivers)
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "owning user id (required)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newDriverRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:           "rm <driver-id>",
		Short:         "Remove a driver record",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid driver id", err)
			}

			st, _, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.DeleteDriver(cmd.Context(), user, id); err != nil {
				return WrapExitError(ExitFailure, "failed to remove driver", err)
			}

			formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return formatter.Print(fmt.Sprintf("removed driver %d", id), map[string]any{"removed": id})
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "owning user id (required)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
