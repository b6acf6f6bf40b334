package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// IdentityClient talks to a GoTrue compatible identity provider
type IdentityClient struct {
	httpClient  *http.Client
	baseURL     string
	anonKey     string
	redirectURL string
	logger      *zap.Logger
}

// IdentityConfig configures an IdentityClient
type IdentityConfig struct {
	BaseURL     string
	AnonKey     string
	RedirectURL string // Email confirmation link target
	Timeout     time.Duration
}

// ProviderError carries the provider's human-readable rejection message
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return e.Message
}

// SignUpResult is the outcome of a successful sign-up call
type SignUpResult struct {
	UserID               string
	Email                string
	ConfirmationRequired bool // No session was issued; the user must confirm their email first
}

// Session is an authenticated provider session
type Session struct {
	AccessToken string
	ExpiresIn   int
	UserID      string
	Email       string
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type providerUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type providerResponse struct {
	AccessToken string        `json:"access_token"`
	ExpiresIn   int           `json:"expires_in"`
	User        *providerUser `json:"user"`

	// Sign-up with confirmation enabled returns the bare user object
	ID    string `json:"id"`
	Email string `json:"email"`

	Msg              string `json:"msg"`
	ErrorDescription string `json:"error_description"`
	Message          string `json:"message"`
	Error            string `json:"error"`
}

// NewIdentityClient creates a new identity provider client
func NewIdentityClient(cfg IdentityConfig, logger *zap.Logger) *IdentityClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &IdentityClient{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		anonKey:     cfg.AnonKey,
		redirectURL: cfg.RedirectURL,
		logger:      logger,
	}
}

// Configured reports whether a provider URL and key are set
func (c *IdentityClient) Configured() bool {
	return c != nil && c.baseURL != "" && c.anonKey != ""
}

// SignUp registers an account by email and password
func (c *IdentityClient) SignUp(ctx context.Context, email, password string) (*SignUpResult, error) {
	endpoint := c.baseURL + "/auth/v1/signup"
	if c.redirectURL != "" {
		endpoint += "?redirect_to=" + url.QueryEscape(c.redirectURL)
	}

	resp, err := c.post(ctx, endpoint, credentials{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	result := &SignUpResult{
		UserID:               resp.ID,
		Email:                resp.Email,
		ConfirmationRequired: resp.AccessToken == "",
	}
	if resp.User != nil {
		result.UserID = resp.User.ID
		result.Email = resp.User.Email
	}

	c.logger.Info("identity sign-up accepted",
		zap.String("user_id", result.UserID),
		zap.Bool("confirmation_required", result.ConfirmationRequired))

	return result, nil
}

// SignIn exchanges an email and password for a session
func (c *IdentityClient) SignIn(ctx context.Context, email, password string) (*Session, error) {
	resp, err := c.post(ctx, c.baseURL+"/auth/v1/token?grant_type=password", credentials{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, &ProviderError{StatusCode: http.StatusOK, Message: "Identity provider returned no session"}
	}

	session := &Session{AccessToken: resp.AccessToken, ExpiresIn: resp.ExpiresIn}
	if resp.User != nil {
		session.UserID = resp.User.ID
		session.Email = resp.User.Email
	}
	return session, nil
}

func (c *IdentityClient) post(ctx context.Context, endpoint string, payload interface{}) (*providerResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+c.anonKey)

	res, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("identity provider request failed", zap.String("endpoint", req.URL.Path), zap.Error(err))
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer res.Body.Close()

	var resp providerResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		if res.StatusCode >= http.StatusBadRequest {
			return nil, &ProviderError{StatusCode: res.StatusCode, Message: http.StatusText(res.StatusCode)}
		}
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if res.StatusCode >= http.StatusBadRequest {
		c.logger.Warn("identity provider rejected request",
			zap.String("endpoint", req.URL.Path),
			zap.Int("status", res.StatusCode))
		return nil, &ProviderError{StatusCode: res.StatusCode, Message: resp.message(res.StatusCode)}
	}

	return &resp, nil
}

// message picks the first populated error field; GoTrue versions disagree on the name
func (r *providerResponse) message(status int) string {
	for _, m := range []string{r.Msg, r.ErrorDescription, r.Message, r.Error} {
		if m != "" {
			return m
		}
	}
	return http.StatusText(status)
}
