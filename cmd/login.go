package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/dispatchlab/opsim/internal/api"
	"github.com/dispatchlab/opsim/internal/auth"
)

var loginEmail string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the training platform",
	RunE: func(cmd *cobra.Command, args []string) error {
		email := loginEmail
		if email == "" && activeProfile != nil {
			email = activeProfile.Email
		}

		var password string
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Email").
					Value(&email).
					Validate(func(s string) error {
						if !strings.Contains(s, "@") {
							return fmt.Errorf("not a valid email address")
						}
						return nil
					}),
				huh.NewInput().
					Title("Password").
					EchoMode(huh.EchoModePassword).
					Value(&password).
					Validate(func(s string) error {
						if s == "" {
							return fmt.Errorf("password must not be empty")
						}
						return nil
					}),
			),
		)
		if err := form.Run(); err != nil {
			return fmt.Errorf("login cancelled: %w", err)
		}

		client := gatewayClient()
		res, err := client.Login(cmd.Context(), email, password)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		if res.TwoFactorRequired() {
			res, err = verify2FA(cmd, email)
			if err != nil {
				return err
			}
		}

		if res.AccessToken == "" {
			return fmt.Errorf("login failed: gateway returned no token")
		}

		if err := auth.SaveToken(&auth.Token{AccessToken: res.AccessToken, TokenType: res.TokenType}); err != nil {
			return fmt.Errorf("storing token: %w", err)
		}

		cmd.Printf("✓ Logged in as %s\n", email)
		return nil
	},
}

// verify2FA prompts for the emailed one-time code. Entering an empty code
// re-sends it.
func verify2FA(cmd *cobra.Command, email string) (*api.LoginResult, error) {
	client := gatewayClient()
	cmd.Println("A verification code was sent to your email.")

	for {
		var code string
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Verification code").
					Description("Leave empty and press enter to re-send the code.").
					Value(&code),
			),
		)
		if err := form.Run(); err != nil {
			return nil, fmt.Errorf("login cancelled: %w", err)
		}

		if strings.TrimSpace(code) == "" {
			if err := client.Resend2FA(cmd.Context(), email); err != nil {
				return nil, fmt.Errorf("re-sending code: %w", err)
			}
			cmd.Println("Code re-sent.")
			continue
		}

		out, err := client.Verify2FA(cmd.Context(), email, code)
		if err != nil {
			cmd.Printf("Verification failed: %v\n", err)
			continue
		}
		return out, nil
	}
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "login email (defaults to the profile email)")
	rootCmd.AddCommand(loginCmd)
}
