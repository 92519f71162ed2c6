package api

import "context"

// User is the gateway's account record for the logged-in operator.
type User struct {
	ID           int    `json:"id"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Organization string `json:"organization,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Role         string `json:"role"` // "ADMIN" | "OPERATOR"
	IsActive     bool   `json:"is_active"`
	CallsCount   int    `json:"calls_count"`
	Is2FAEnabled bool   `json:"is_2fa_enabled"`
	Require2FA   bool   `json:"require_2fa"`
}

// LoginResult is the login response. When the account has two-factor auth
// enabled the gateway returns Detail == "2fa_required" instead of a token.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Detail      string `json:"detail"`
}

// TwoFactorRequired reports whether the login must continue with Verify2FA.
func (r *LoginResult) TwoFactorRequired() bool {
	return r.Detail == "2fa_required"
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var out LoginResult
	err := c.post(ctx, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Verify2FA exchanges the emailed one-time code for a token.
func (c *Client) Verify2FA(ctx context.Context, email, code string) (*LoginResult, error) {
	var out LoginResult
	err := c.post(ctx, "/api/auth/verify-2fa", map[string]string{
		"email": email,
		"code":  code,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Resend2FA asks the gateway to send a fresh one-time code.
func (c *Client) Resend2FA(ctx context.Context, email string) error {
	return c.post(ctx, "/api/auth/resend-2fa", map[string]string{"email": email}, nil)
}

// Me returns the account behind the current token.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var out User
	if err := c.get(ctx, "/api/auth/me", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RequestPasswordReset emails a reset link to the given address.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	return c.post(ctx, "/api/auth/forgot_password", map[string]string{"email": email}, nil)
}

// ResetPassword completes a password reset with the emailed token.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	return c.post(ctx, "/api/auth/reset_password", map[string]string{
		"token":        token,
		"new_password": newPassword,
	}, nil)
}

// ValidateResetToken checks whether a reset token is still usable.
func (c *Client) ValidateResetToken(ctx context.Context, token string) (bool, error) {
	var out struct {
		Valid   bool   `json:"valid"`
		Message string `json:"message"`
	}
	if err := c.post(ctx, "/api/auth/validate-reset-token", map[string]string{"token": token}, &out); err != nil {
		return false, err
	}
	return out.Valid, nil
}
