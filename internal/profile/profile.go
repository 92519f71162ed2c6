// Package profile manages the operator's persistent opsim profile.
// The profile is stored at ~/.config/opsim/profile.json and is created
// once via the interactive setup flow, then referenced on every command.
package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
)

// Profile holds operator-level preferences set during first-run setup.
type Profile struct {
	Email         string `json:"email"`           // default login email
	GatewayURL    string `json:"gateway_url"`     // platform gateway base URL
	VoiceAgentURL string `json:"voice_agent_url"` // voice-simulation service base URL
	DefaultFormat string `json:"default_format"`  // "markdown" | "json"
}

// profilePath returns the path to the profile file.
func profilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "opsim", "profile.json"), nil
}

// ConfigDir returns the opsim config directory.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "opsim"), nil
}

// Exists reports whether a profile file is present on disk.
func Exists() bool {
	p, err := profilePath()
	if err != nil {
		return false
	}
	_, err = os.Stat(p)
	return err == nil
}

// Load reads the profile from disk. Returns an error if the file is missing or malformed.
func Load() (*Profile, error) {
	p, err := profilePath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("profile not found; run 'opsim setup' to configure: %w", err)
	}
	var prof Profile
	if err := json.Unmarshal(data, &prof); err != nil {
		return nil, fmt.Errorf("malformed profile at %s: %w", p, err)
	}
	return &prof, nil
}

// Save writes the profile to disk, creating the config directory if needed.
func Save(prof *Profile) error {
	p, err := profilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(prof, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o644)
}

// RunSetup runs the interactive setup form and returns the resulting profile.
// If existing is non-nil, it is used as the default for each prompt (edit mode).
func RunSetup(existing *Profile) (*Profile, error) {
	prof := Profile{
		GatewayURL:    "http://localhost:8000",
		VoiceAgentURL: "ws://localhost:5001",
		DefaultFormat: "json",
	}
	if existing != nil {
		prof = *existing
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Login email").
				Description("Used as the default identity for 'opsim login'.").
				Value(&prof.Email).
				Validate(func(s string) error {
					if !strings.Contains(s, "@") {
						return fmt.Errorf("not a valid email address")
					}
					return nil
				}),
			huh.NewInput().
				Title("Gateway URL").
				Description("Base URL of the training platform gateway.").
				Value(&prof.GatewayURL).
				Validate(notEmpty("gateway URL")),
			huh.NewInput().
				Title("Voice agent URL").
				Description("Base URL of the voice-simulation service (ws:// or wss://).").
				Value(&prof.VoiceAgentURL).
				Validate(notEmpty("voice agent URL")),
			huh.NewSelect[string]().
				Title("Call report format").
				Options(
					huh.NewOption("JSON", "json"),
					huh.NewOption("Markdown", "markdown"),
				).
				Value(&prof.DefaultFormat),
		),
	)

	if err := form.Run(); err != nil {
		return nil, err
	}
	return &prof, nil
}

func notEmpty(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s must not be empty", name)
		}
		return nil
	}
}
