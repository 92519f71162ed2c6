package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/dispatchlab/opsim/internal/api"
	"github.com/dispatchlab/opsim/internal/auth"
	"github.com/dispatchlab/opsim/internal/config"
	"github.com/dispatchlab/opsim/internal/profile"
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

// activeProfile holds the loaded user profile.
var activeProfile *profile.Profile

var rootCmd = &cobra.Command{
	Use:   "opsim",
	Short: "Train emergency-call handling against the AI dispatch simulator",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip setup check for the setup command itself.
		if cmd.Name() == "setup" {
			return nil
		}

		// First-run: profile missing → run setup wizard automatically.
		// Only do this when stdin is an interactive terminal.
		if !profile.Exists() {
			if term.IsTerminal(os.Stdin.Fd()) {
				fmt.Println()
				fmt.Println("  Welcome to opsim! Looks like this is your first time.")
				if err := runSetup(true); err != nil {
					return err
				}
			}
			// Non-interactive (tests, pipes): continue with defaults, no profile required.
		}

		// Load profile if one exists; non-interactive environments run without it.
		if profile.Exists() {
			p, err := profile.Load()
			if err != nil {
				return fmt.Errorf("loading profile: %w", err)
			}
			activeProfile = p
		}

		// Load and merge config files.
		global, err := config.LoadGlobal()
		if err != nil {
			return fmt.Errorf("loading global config: %w", err)
		}
		project, err := config.LoadProject()
		if err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		cfg = config.Merge(global, project)

		// Profile values fill in config gaps left at their defaults.
		if activeProfile != nil {
			defaults := config.Defaults()
			if cfg.GatewayURL == defaults.GatewayURL && activeProfile.GatewayURL != "" {
				cfg.GatewayURL = activeProfile.GatewayURL
			}
			if cfg.VoiceAgentURL == defaults.VoiceAgentURL && activeProfile.VoiceAgentURL != "" {
				cfg.VoiceAgentURL = activeProfile.VoiceAgentURL
			}
			if cfg.DefaultFormat == defaults.DefaultFormat && activeProfile.DefaultFormat != "" {
				cfg.DefaultFormat = activeProfile.DefaultFormat
			}
		}

		return nil
	},
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetConfig returns the merged configuration for use by subcommands.
func GetConfig() config.Config {
	return cfg
}

// GetProfile returns the active user profile.
func GetProfile() *profile.Profile {
	return activeProfile
}

// gatewayClient returns an API client for the configured gateway, carrying
// the stored token when one exists.
func gatewayClient() *api.Client {
	token := ""
	if tok, err := auth.LoadToken(); err == nil {
		token = tok.AccessToken
	}
	return api.NewClient(cfg.GatewayURL, token)
}

// authedClient is gatewayClient but fails when no token is stored.
func authedClient() (*api.Client, error) {
	tok, err := auth.LoadToken()
	if err != nil {
		return nil, err
	}
	return api.NewClient(cfg.GatewayURL, tok.AccessToken), nil
}

// currentOperator resolves the logged-in account. Most commands need the
// numeric operator id for their gateway calls.
func currentOperator(cmd *cobra.Command) (*api.Client, *api.User, error) {
	client, err := authedClient()
	if err != nil {
		return nil, nil, err
	}
	user, err := client.Me(cmd.Context())
	if err != nil {
		return nil, nil, fmt.Errorf("resolving account: %w", err)
	}
	return client, user, nil
}
