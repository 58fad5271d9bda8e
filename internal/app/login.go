package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the reader backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if email == "" {
				email, err = promptLine("Email", "")
				if err != nil {
					return err
				}
			}
			if email == "" {
				return fmt.Errorf("email is required")
			}
			password, err := promptPassword("Password")
			if err != nil {
				return err
			}

			profile, err := sess.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			ok("logged in as %s (%s)", profile.Name, profile.Email)
			if !profile.Verified {
				warn("account email is not verified yet")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email (prompted when omitted)")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and clear the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Local state is cleared even when the server call fails.
			if err := sess.Logout(cmd.Context()); err != nil {
				return err
			}
			ok("logged out")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the currently logged-in account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireSession(cmd); err != nil {
				return err
			}
			profile, _ := sess.CurrentUser()
			header("Account")
			fmt.Printf("  %-10s %s\n", "name:", profile.Name)
			fmt.Printf("  %-10s %s\n", "email:", profile.Email)
			fmt.Printf("  %-10s %s\n", "uuid:", profile.UUID)
			fmt.Printf("  %-10s %s\n", "status:", profile.Status)
			fmt.Printf("  %-10s %v\n", "verified:", profile.Verified)
			return nil
		},
	}
}
