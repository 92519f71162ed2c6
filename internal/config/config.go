package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Config holds all configurable opsim settings.
type Config struct {
	GatewayURL    string `json:"gateway_url"`     // base URL of the platform gateway
	VoiceAgentURL string `json:"voice_agent_url"` // base URL of the voice-simulation service
	DefaultFormat string `json:"default_format"`  // report format: "markdown" | "json"
	OutputDir     string `json:"output_dir"`      // where call reports are written
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	return Config{
		GatewayURL:    "http://localhost:8000",
		VoiceAgentURL: "ws://localhost:5001",
		DefaultFormat: "json",
		OutputDir:     ".",
	}
}

// LoadGlobal reads ~/.config/opsim/config.json.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(home, ".config", "opsim", "config.json")
	return loadFile(path, true)
}

// LoadProject reads .opsimconfig in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(".opsimconfig", false)
}

// loadFile reads and parses a JSON config file at path.
// If returnDefaults is true, returns defaults when the file is absent.
// If returnDefaults is false, returns nil when the file is absent.
func loadFile(path string, returnDefaults bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Merge combines global and project configs, with project taking precedence.
// Missing keys fall back to global, then defaults.
func Merge(global, project *Config) Config {
	result := Defaults()

	// Apply global values over defaults.
	if global != nil {
		if global.GatewayURL != "" {
			result.GatewayURL = global.GatewayURL
		}
		if global.VoiceAgentURL != "" {
			result.VoiceAgentURL = global.VoiceAgentURL
		}
		if global.DefaultFormat != "" {
			result.DefaultFormat = global.DefaultFormat
		}
		if global.OutputDir != "" {
			result.OutputDir = global.OutputDir
		}
	}

	// Apply project values over global.
	if project != nil {
		if project.GatewayURL != "" {
			result.GatewayURL = project.GatewayURL
		}
		if project.VoiceAgentURL != "" {
			result.VoiceAgentURL = project.VoiceAgentURL
		}
		if project.DefaultFormat != "" {
			result.DefaultFormat = project.DefaultFormat
		}
		if project.OutputDir != "" {
			result.OutputDir = project.OutputDir
		}
	}

	return result
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
