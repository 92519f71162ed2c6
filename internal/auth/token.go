// Package auth stores the gateway access token on disk between commands.
// The browser console kept the token in localStorage; here it lives at
// ~/.config/opsim/token.json with owner-only permissions.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dispatchlab/opsim/internal/profile"
)

// ErrNotLoggedIn is returned by LoadToken when no token file exists.
var ErrNotLoggedIn = errors.New("not logged in; run 'opsim login'")

// Token holds the bearer token issued by the gateway.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func tokenPath() (string, error) {
	dir, err := profile.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "token.json"), nil
}

// SaveToken writes the token to the config dir with owner-only permissions.
func SaveToken(tok *Token) error {
	p, err := tokenPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o600)
}

// LoadToken reads the stored token. Returns ErrNotLoggedIn if absent.
func LoadToken() (*Token, error) {
	p, err := tokenPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotLoggedIn
		}
		return nil, fmt.Errorf("failed to read token: %w", err)
	}
	var tok Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("malformed token file at %s: %w", p, err)
	}
	return &tok, nil
}

// ClearToken removes the stored token. Missing file is not an error.
func ClearToken() error {
	p, err := tokenPath()
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}
