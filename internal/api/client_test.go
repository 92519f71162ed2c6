package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerTokenHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(User{ID: 7, Email: "op@example.com"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok-123")
	u, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, 7, u.ID)
}

func TestNoAuthHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	var hasAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth, hasAuth = r.Header.Get("Authorization"), r.Header.Get("Authorization") != ""
		json.NewEncoder(w).Encode(LoginResult{AccessToken: "t"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.Login(context.Background(), "op@example.com", "pw")
	require.NoError(t, err)
	assert.False(t, hasAuth, "unexpected Authorization header %q", gotAuth)
}

func TestErrorCarriesGatewayDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "invalid credentials"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.Login(context.Background(), "op@example.com", "wrong")
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "invalid credentials", apiErr.Error())
}

func TestErrorWithoutDetailBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "t")
	_, err := c.Me(context.Background())
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Error(), "failed with 500")
}

func TestTwoFactorRequired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"detail": "2fa_required"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	res, err := c.Login(context.Background(), "op@example.com", "pw")
	require.NoError(t, err)
	assert.True(t, res.TwoFactorRequired())
	assert.Empty(t, res.AccessToken)
}
