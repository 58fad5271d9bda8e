package app

import (
	"fmt"

	"github.com/blackwell-systems/readerctl/internal/reader"
	"github.com/spf13/cobra"
)

func newAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage the logged-in account",
	}
	cmd.AddCommand(
		newAccountStatsCmd(),
		newAccountUpdateCmd(),
		newAccountDeviceCmd(),
		newAccountDeleteCmd(),
	)
	return cmd
}

func newAccountStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show your reading statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireSession(cmd); err != nil {
				return err
			}
			st, err := users.Stats(cmd.Context())
			if err != nil {
				return err
			}
			header("Reading stats")
			fmt.Printf("  %-14s %d\n", "books:", st.TotalBooks)
			fmt.Printf("  %-14s %d\n", "finished:", st.BooksCompleted)
			fmt.Printf("  %-14s %d\n", "highlights:", st.TotalHighlights)
			fmt.Printf("  %-14s %d\n", "pages read:", st.PagesRead)
			fmt.Printf("  %-14s %.0f%%\n", "avg progress:", st.AvgProgress)
			return nil
		},
	}
}

func newAccountUpdateCmd() *cobra.Command {
	var (
		name  string
		email string
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update your display name or email",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireSession(cmd); err != nil {
				return err
			}
			upd := reader.ProfileUpdate{}
			if cmd.Flags().Changed("name") {
				upd.Name = &name
			}
			if cmd.Flags().Changed("email") {
				upd.Email = &email
			}
			if upd.Name == nil && upd.Email == nil {
				return fmt.Errorf("nothing to change: pass --name or --email")
			}
			p, err := users.Update(cmd.Context(), upd)
			if err != nil {
				return err
			}
			ok("profile updated (%s <%s>)", p.Name, p.Email)
			if upd.Email != nil {
				warn("the new email needs to be verified")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New display name")
	cmd.Flags().StringVar(&email, "email", "", "New account email")
	return cmd
}

func newAccountDeviceCmd() *cobra.Command {
	var platform string

	cmd := &cobra.Command{
		Use:   "register-device <device-id>",
		Short: "Register this device with the account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd); err != nil {
				return err
			}
			if err := users.RegisterDevice(cmd.Context(), args[0], platform); err != nil {
				return err
			}
			ok("device registered")
			return nil
		},
	}

	cmd.Flags().StringVar(&platform, "platform", "cli", "Device platform identifier")
	return cmd
}

func newAccountDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Permanently delete the account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireSession(cmd); err != nil {
				return err
			}
			if !yes {
				answer, err := promptLine("Really delete the account and all its data? (y/N)", "n")
				if err != nil {
					return err
				}
				if answer != "y" && answer != "Y" && answer != "yes" {
					warn("canceled")
					return nil
				}
			}
			if err := users.Delete(cmd.Context()); err != nil {
				return err
			}
			// The account is gone server-side; drop the local session too.
			if err := store.Clear(); err != nil {
				warn("clearing local session: %v", err)
			}
			ok("account deleted")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
