package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRegisterCmd() *cobra.Command {
	var (
		name  string
		email string
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account and log in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if name == "" {
				name, err = promptLine("Display name", "")
				if err != nil {
					return err
				}
			}
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
			confirm, err := promptPassword("Confirm password")
			if err != nil {
				return err
			}
			if password != confirm {
				return fmt.Errorf("passwords do not match")
			}

			profile, err := sess.Register(cmd.Context(), name, email, password)
			if err != nil {
				return err
			}
			ok("account created, logged in as %s", profile.Email)
			warn("check your inbox to verify the account email")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	return cmd
}

func newForgotPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forgot-password <email>",
		Short: "Request a password reset email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := sess.ForgotPassword(cmd.Context(), args[0]); err != nil {
				return err
			}
			ok("reset email sent to %s (if the account exists)", args[0])
			return nil
		},
	}
}

func newResetPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password <token>",
		Short: "Set a new password using a reset token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := promptPassword("New password")
			if err != nil {
				return err
			}
			if err := sess.ResetPassword(cmd.Context(), args[0], password); err != nil {
				return err
			}
			ok("password updated, log in with the new password")
			return nil
		},
	}
}
