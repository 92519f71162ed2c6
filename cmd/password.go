package cmd

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var passwordCmd = &cobra.Command{
	Use:   "password",
	Short: "Request or complete a password reset",
}

var passwordForgotCmd = &cobra.Command{
	Use:   "forgot <email>",
	Short: "Email a password-reset link to the given address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := gatewayClient()
		if err := client.RequestPasswordReset(cmd.Context(), args[0]); err != nil {
			return err
		}
		cmd.Printf("If an account exists for %s, a reset link is on its way.\n", args[0])
		return nil
	},
}

var passwordResetCmd = &cobra.Command{
	Use:   "reset <token>",
	Short: "Set a new password using the emailed reset token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token := args[0]
		client := gatewayClient()

		valid, err := client.ValidateResetToken(cmd.Context(), token)
		if err != nil {
			return err
		}
		if !valid {
			return fmt.Errorf("reset token is invalid or expired; run 'opsim password forgot' again")
		}

		var password, confirm string
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("New password").
					EchoMode(huh.EchoModePassword).
					Value(&password).
					Validate(func(s string) error {
						if len(s) < 8 {
							return fmt.Errorf("password must be at least 8 characters")
						}
						return nil
					}),
				huh.NewInput().
					Title("Confirm password").
					EchoMode(huh.EchoModePassword).
					Value(&confirm),
			),
		)
		if err := form.Run(); err != nil {
			return fmt.Errorf("reset cancelled: %w", err)
		}
		if password != confirm {
			return fmt.Errorf("passwords do not match")
		}

		if err := client.ResetPassword(cmd.Context(), token, password); err != nil {
			return err
		}
		cmd.Println("Password updated. Run 'opsim login' to sign in.")
		return nil
	},
}

func init() {
	passwordCmd.AddCommand(passwordForgotCmd)
	passwordCmd.AddCommand(passwordResetCmd)
	rootCmd.AddCommand(passwordCmd)
}
