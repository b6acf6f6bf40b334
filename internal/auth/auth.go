package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"hyroxbox-directory/pkg/model"
)

// MinPasswordLength is the shortest password accepted at sign-up
const MinPasswordLength = 6

// bcrypt cost for bootstrap admin hashes
const passwordCost = 12

var (
	// ErrPasswordMismatch is returned when the confirmation differs from the password
	ErrPasswordMismatch = errors.New("Passwords do not match")
	// ErrPasswordTooShort is returned for passwords under MinPasswordLength
	ErrPasswordTooShort = errors.New("Password must be at least 6 characters")
	// ErrInvalidCredentials is returned when a login fails
	ErrInvalidCredentials = errors.New("Invalid email or password")
	// ErrProviderUnavailable is returned when no identity provider is configured
	ErrProviderUnavailable = errors.New("Sign-up is not available")
	// ErrSessionsUnavailable is returned when a login succeeds but no session can be signed
	ErrSessionsUnavailable = errors.New("Admin sessions are not configured")
)

// BootstrapAdmin is a single configured admin credential for environments
// where the identity provider is not reachable
type BootstrapAdmin struct {
	Username     string
	PasswordHash string // bcrypt
}

// Configured reports whether both the username and hash are set
func (a BootstrapAdmin) Configured() bool {
	return a.Username != "" && a.PasswordHash != ""
}

// HashPassword creates a bcrypt hash of the password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	return string(bytes), err
}

// CheckPassword compares password with hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Provider is the identity provider surface used by AuthService
type Provider interface {
	Configured() bool
	SignUp(ctx context.Context, email, password string) (*SignUpResult, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
}

// AuthService handles sign-up, login and admin authentication
type AuthService struct {
	provider Provider
	tokens   *TokenService
	admin    BootstrapAdmin
	logger   *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(provider Provider, tokens *TokenService, admin BootstrapAdmin, logger *zap.Logger) *AuthService {
	return &AuthService{provider: provider, tokens: tokens, admin: admin, logger: logger}
}

// Enabled reports whether any admin authentication method is available
func (s *AuthService) Enabled() bool {
	return s.tokens.Configured() || s.admin.Configured()
}

// SignUp validates the form and registers the account with the provider
func (s *AuthService) SignUp(ctx context.Context, req model.SignUpRequest) (*model.SignUpResponse, error) {
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	if len(req.Password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if s.provider == nil || !s.provider.Configured() {
		return nil, ErrProviderUnavailable
	}

	result, err := s.provider.SignUp(ctx, strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		return nil, err
	}

	message := "Sign-up complete. You can now log in."
	if result.ConfirmationRequired {
		message = "Sign-up complete. Please check your email to confirm your account."
	}

	return &model.SignUpResponse{
		Message:              message,
		UserID:               result.UserID,
		ConfirmationRequired: result.ConfirmationRequired,
	}, nil
}

// Login authenticates an email and password and returns a session token.
// The bootstrap admin is checked first and receives a self-issued token.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (string, error) {
	email := strings.TrimSpace(req.Email)

	if s.admin.Configured() && email == s.admin.Username {
		if !CheckPassword(req.Password, s.admin.PasswordHash) {
			return "", ErrInvalidCredentials
		}
		if !s.tokens.Configured() {
			return "", ErrSessionsUnavailable
		}
		return s.tokens.Issue(BootstrapSubject, s.admin.Username)
	}

	if s.provider == nil || !s.provider.Configured() {
		return "", ErrInvalidCredentials
	}

	session, err := s.provider.SignIn(ctx, email, req.Password)
	if err != nil {
		var perr *ProviderError
		if errors.As(err, &perr) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("error signing in: %w", err)
	}

	// Reject non-admins at login rather than on the first admin request
	if _, err := s.tokens.Verify(session.AccessToken); err != nil {
		s.logger.Warn("login rejected", zap.String("email", email), zap.Error(err))
		return "", err
	}

	return session.AccessToken, nil
}

// Authenticate verifies a session token
func (s *AuthService) Authenticate(token string) (*Identity, error) {
	return s.tokens.Verify(token)
}

// AuthenticateBasic checks a username and password against the bootstrap admin
func (s *AuthService) AuthenticateBasic(username, password string) (*Identity, error) {
	if !s.admin.Configured() {
		return nil, ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(username), []byte(s.admin.Username)) != 1 {
		return nil, ErrInvalidCredentials
	}
	if !CheckPassword(password, s.admin.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return &Identity{Subject: BootstrapSubject, Email: s.admin.Username, Method: "basic"}, nil
}
