// Package identity talks to the Firebase Identity Toolkit REST endpoints.
// The Admin SDK deliberately has no email/password sign-in, so credential
// checks go straight to the REST API with the web API key.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"maplewood-records/app/models"
)

const (
	defaultSignInURL = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"
	defaultTokenURL  = "https://securetoken.googleapis.com/v1/token"
)

// SignInResult is the subset of the sign-in response the session layer needs.
type SignInResult struct {
	UID          string
	IDToken      string
	RefreshToken string
}

// RefreshResult carries a freshly minted ID token for an existing session.
type RefreshResult struct {
	IDToken      string
	RefreshToken string
}

type Client struct {
	apiKey    string
	signInURL string
	tokenURL  string
	http      *http.Client
}

func NewClient(apiKey string, timeout time.Duration) *Client {
	return &Client{
		apiKey:    apiKey,
		signInURL: defaultSignInURL,
		tokenURL:  defaultTokenURL,
		http:      &http.Client{Timeout: timeout},
	}
}

// WithBaseURLs points the client at alternate endpoints. Tests use this with
// an httptest server.
func (c *Client) WithBaseURLs(signInURL, tokenURL string) *Client {
	c.signInURL = signInURL
	c.tokenURL = tokenURL
	return c
}

// SignInWithPassword verifies email/password with the identity gateway.
// Rejected credentials map to models.ErrInvalidCredentials; anything else is
// a transport-level failure.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*SignInResult, error) {
	payload, err := json.Marshal(map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.signInURL+"?key="+url.QueryEscape(c.apiKey), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity gateway: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("identity gateway: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, signInError(resp.StatusCode, body)
	}

	var res struct {
		LocalID      string `json:"localId"`
		IDToken      string `json:"idToken"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("identity gateway: decoding response: %w", err)
	}
	if res.LocalID == "" || res.IDToken == "" {
		return nil, fmt.Errorf("identity gateway: incomplete sign-in response")
	}
	return &SignInResult{UID: res.LocalID, IDToken: res.IDToken, RefreshToken: res.RefreshToken}, nil
}

// RefreshIDToken exchanges a refresh token for a new ID token.
func (c *Client) RefreshIDToken(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL+"?key="+url.QueryEscape(c.apiKey), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity gateway: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("identity gateway: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity gateway: token refresh failed with status %d", resp.StatusCode)
	}

	var res struct {
		IDToken      string `json:"id_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("identity gateway: decoding refresh response: %w", err)
	}
	if res.IDToken == "" {
		return nil, fmt.Errorf("identity gateway: incomplete refresh response")
	}
	return &RefreshResult{IDToken: res.IDToken, RefreshToken: res.RefreshToken}, nil
}

func signInError(status int, body []byte) error {
	var res struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	_ = json.Unmarshal(body, &res)

	switch {
	case strings.HasPrefix(res.Error.Message, "EMAIL_NOT_FOUND"),
		strings.HasPrefix(res.Error.Message, "INVALID_PASSWORD"),
		strings.HasPrefix(res.Error.Message, "INVALID_LOGIN_CREDENTIALS"),
		strings.HasPrefix(res.Error.Message, "USER_DISABLED"):
		return fmt.Errorf("%s: %w", res.Error.Message, models.ErrInvalidCredentials)
	case res.Error.Message != "":
		return fmt.Errorf("identity gateway: %s (status %d)", res.Error.Message, status)
	default:
		return fmt.Errorf("identity gateway: sign-in failed with status %d", status)
	}
}
