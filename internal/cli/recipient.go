package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/licensewatch/internal/model"
)

// NewRecipientCommand creates the recipient command group.
func NewRecipientCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipient",
		Short: "Manage reminder email recipients",
	}
	cmd.AddCommand(newRecipientAddCommand(rootOpts))
	cmd.AddCommand(newRecipientListCommand(rootOpts))
	cmd.AddCommand(newRecipientRemoveCommand(rootOpts))
	return cmd
}

func newRecipientAddCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		user     string
		email    string
		phone    string
		inactive bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a reminder email recipient",
		Long: `Add an email destination for expiry reminders. Email must be unique per
user. Only active recipients participate in reminder fan-out.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			recipient, err := st.CreateRecipient(cmd.Context(), model.Recipient{
				UserID:      user,
				Email:       email,
				PhoneNumber: phone,
				Active:      !inactive,
			})
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to add recipient", err)
			}

			formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			text := fmt.Sprintf("added recipient %d: %s", recipient.ID, recipient.Email)
			return formatter.Print(text, recipient)
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "owning user id (required)")
	cmd.Flags().StringVar(&email, "email", "", "recipient email (required)")
	cmd.Flags().StringVar(&phone, "phone", "", "recipient phone number")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "create the recipient deactivated")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newRecipientListCommand(rootOpts *RootOptions) *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List reminder recipients for a user",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			recipients, err := st.ListRecipients(cmd.Context(), user)
			if err != nil {
				return WrapExitError(ExitFailure, "failed to list recipients", err)
			}

			var b strings.Builder
			for _, r := range recipients {
				state := "active"
				if !r.Active {
					state = "inactive"
				}
				fmt.Fprintf(&b, "%d\t%s\t%s\n", r.ID, r.Email, state)
			}
			fmt.Fprintf(&b, "%d recipient(s)", len(recipients))

			formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return formatter.Print(b.String(), recipients)
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "owning user id (required)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newRecipientRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:           "rm <recipient-id>",
		Short:         "Remove a reminder recipient",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid recipient id", err)
			}

			st, _, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.DeleteRecipient(cmd.Context(), user, id); err != nil {
				return WrapExitError(ExitFailure, "failed to remove recipient", err)
			}

			formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return formatter.Print(fmt.Sprintf("removed recipient %d", id), map[string]any{"removed": id})
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "owning user id (required)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
