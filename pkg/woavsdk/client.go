package woavsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// SessionCookieName matches the cookie the server sets.
const SessionCookieName = "__session"

// Client talks to a WOAV server and keeps its cookies between calls.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient returns a Client with a fresh cookie jar.
func NewClient(baseURL string) *Client {
	jar, _ := cookiejar.New(nil) // only errors on a bad public suffix list
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			Jar:     jar,
		},
	}
}

// SessionCookie returns the session cookie currently held in the jar.
func (c *Client) SessionCookie() string {
	if c.HTTPClient.Jar == nil {
		return ""
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return ""
	}
	for _, ck := range c.HTTPClient.Jar.Cookies(u) {
		if ck.Name == SessionCookieName {
			return ck.Value
		}
	}
	return ""
}

// SetSessionCookie replaces the jar's session cookie, for replaying a cookie
// captured earlier.
func (c *Client) SetSessionCookie(value string) error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return err
	}
	c.HTTPClient.Jar.SetCookies(u, []*http.Cookie{{Name: SessionCookieName, Value: value, Path: "/"}})
	return nil
}

// SignUp creates an account and returns its first ID token.
func (c *Client) SignUp(ctx context.Context, email, password, displayName string) (*SignInResponse, error) {
	var out SignInResponse
	err := c.do(ctx, http.MethodPost, "/identity/v1/accounts:signUp",
		SignUpRequest{Email: email, Password: password, DisplayName: displayName}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SignInWithPassword returns a fresh ID token.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*SignInResponse, error) {
	var out SignInResponse
	err := c.do(ctx, http.MethodPost, "/identity/v1/accounts:signInWithPassword",
		SignInRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateSession exchanges an ID token for a session cookie.
func (c *Client) CreateSession(ctx context.Context, idToken string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/session", SessionRequest{IDToken: idToken}, &StatusResponse{})
}

// CurrentSession reports who the session cookie belongs to. It fails with
// ErrNotAuthenticated when there is no valid session.
func (c *Client) CurrentSession(ctx context.Context) (*SessionResponse, error) {
	var out SessionResponse
	if err := c.do(ctx, http.MethodGet, "/api/auth/session", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout clears the session cookie.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, &StatusResponse{})
}

// RevokeSessions signs the caller out everywhere.
func (c *Client) RevokeSessions(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/revoke", nil, &StatusResponse{})
}

// GetJWKS fetches the published verification keys.
func (c *Client) GetJWKS(ctx context.Context) (*JWKSResponse, error) {
	var out JWKSResponse
	if err := c.do(ctx, http.MethodGet, "/.well-known/jwks.json", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetLiveness calls /livez.
func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.do(ctx, http.MethodGet, "/livez", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetReadiness calls /readyz. A degraded service yields an APIError with
// status 503.
func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.do(ctx, http.MethodGet, "/readyz", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("woav: encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("woav: build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("woav: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("woav: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return parseError(resp.StatusCode, raw)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("woav: decode response: %w", err)
	}
	return nil
}
