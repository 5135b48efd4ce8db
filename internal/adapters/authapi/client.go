package authapi

// Package authapi is the HTTP adapter for the remote account service
// (register/, login/ and me/ under a common base URL).

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	domainauth "github.com/hackathon/inventory-web/internal/domain/auth"
	apperrors "github.com/hackathon/inventory-web/internal/errors"
	"github.com/hackathon/inventory-web/internal/ports"
)

const (
	registerPath = "register/"
	loginPath    = "login/"
	profilePath  = "me/"

	maxResponseBytes = 1 << 20
)

var _ ports.AuthAPI = (*Client)(nil)

// Config configures the auth API client.
type Config struct {
	// BaseURL is the service root, e.g. http://127.0.0.1:7000/api/auth/.
	BaseURL string
	// Timeout bounds each outbound request. Zero disables the client timeout.
	Timeout time.Duration
	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client talks JSON to the auth API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	validate   *validator.Validate
	logger     *slog.Logger
}

// New creates a Client. The base URL must be absolute; a trailing slash is added when missing.
func New(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse auth api base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("auth api base url must be http(s), got %q", base)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("auth api base url is missing a host: %q", base)
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		baseURL:    base,
		httpClient: hc,
		validate:   validator.New(),
		logger:     cfg.Logger,
	}, nil
}

func (c *Client) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.Default()
}

// BaseURL returns the normalised service root.
func (c *Client) BaseURL() string { return c.baseURL }

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Access  string    `json:"access"  validate:"required"`
	Refresh string    `json:"refresh" validate:"required"`
	User    loginUser `json:"user"`
}

type loginUser struct {
	Username string               `json:"username" validate:"required"`
	Email    string               `json:"email"`
	IsAdmin  domainauth.AdminFlag `json:"is_admin"`
}

type profileResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"`
}

// Register creates an account. Only 201 counts as success.
func (c *Client) Register(ctx context.Context, req domainauth.RegistrationRequest) error {
	resp, err := c.postJSON(ctx, registerPath, registerRequest(req))
	if err != nil {
		return err
	}
	defer closeBody(resp)

	if resp.StatusCode == http.StatusCreated {
		c.log().DebugContext(ctx, "auth api register accepted", "status", resp.StatusCode)
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	detail := extractErrorDetail(body)
	c.log().InfoContext(ctx, "auth api register rejected", "status", resp.StatusCode, "has_detail", detail != "")
	return apperrors.Rejected(resp.StatusCode, detail)
}

// Login exchanges credentials for tokens. Non-200 responses are refused credentials;
// a 200 with a body missing tokens or username is a rejected response.
func (c *Client) Login(ctx context.Context, creds domainauth.Credentials) (domainauth.TokenGrant, error) {
	resp, err := c.postJSON(ctx, loginPath, loginRequest(creds))
	if err != nil {
		return domainauth.TokenGrant{}, err
	}
	defer closeBody(resp)

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		c.log().InfoContext(ctx, "auth api login refused", "status", resp.StatusCode)
		return domainauth.TokenGrant{}, apperrors.InvalidCredentials(resp.StatusCode)
	}

	var out loginResponse
	if err := c.decode(resp, &out); err != nil {
		c.log().WarnContext(ctx, "auth api login response malformed", "error", err)
		return domainauth.TokenGrant{}, apperrors.Rejected(resp.StatusCode, "")
	}

	return domainauth.TokenGrant{
		AccessToken:  out.Access,
		RefreshToken: out.Refresh,
		Username:     out.User.Username,
		Email:        out.User.Email,
		IsAdmin:      bool(out.User.IsAdmin),
		ExpiresAt:    TokenExpiry(out.Access),
	}, nil
}

// Profile fetches the account for a bearer token.
func (c *Client) Profile(ctx context.Context, accessToken string) (domainauth.Profile, error) {
	if strings.TrimSpace(accessToken) == "" {
		return domainauth.Profile{}, apperrors.Unauthorized("access token is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+profilePath, nil)
	if err != nil {
		return domainauth.Profile{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "build profile request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domainauth.Profile{}, apperrors.MapTransportError(err, "auth api unreachable")
	}
	defer closeBody(resp)

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return domainauth.Profile{}, apperrors.Unauthorized(fmt.Sprintf("profile refused with status %d", resp.StatusCode))
	default:
		return domainauth.Profile{}, apperrors.Rejected(resp.StatusCode, "")
	}

	var out profileResponse
	if err := c.decode(resp, &out); err != nil {
		return domainauth.Profile{}, apperrors.Rejected(resp.StatusCode, "")
	}
	return domainauth.Profile{ID: out.ID, Username: out.Username, Email: out.Email}, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) (*http.Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log().WarnContext(ctx, "auth api request failed", "path", path, "error", err, "elapsed", time.Since(start))
		return nil, apperrors.MapTransportError(err, "auth api unreachable")
	}
	return resp, nil
}

func (c *Client) decode(resp *http.Response, dst any) error {
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if err := c.validate.Struct(dst); err != nil {
		return fmt.Errorf("validate response: %w", err)
	}
	return nil
}

func closeBody(resp *http.Response) {
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
}

// TokenExpiry reads the exp claim of a JWT without verifying its signature.
// It returns the zero time when the token is not a JWT or carries no exp.
func TokenExpiry(token string) time.Time {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}

// extractErrorDetail pulls a user-facing message out of an error body.
// It understands {"error": "..."}, {"detail": "..."} and field maps like
// {"username": ["already taken"]}; field keys are visited in sorted order.
func extractErrorDetail(body []byte) string {
	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		return ""
	}
	for _, key := range []string{"error", "detail", "message"} {
		if s, ok := m[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if s := firstString(m[k]); s != "" {
			return s
		}
	}
	return ""
}

func firstString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}
