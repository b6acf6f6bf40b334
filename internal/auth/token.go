package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
)

var (
	// ErrInvalidToken is returned for malformed, expired or foreign tokens
	ErrInvalidToken = errors.New("invalid token")
	// ErrNotAdmin is returned when a valid token belongs to an email outside the allow-list
	ErrNotAdmin = errors.New("account is not an administrator")
)

// BootstrapSubject is the token subject of the bootstrap admin
const BootstrapSubject = "bootstrap-admin"

// Identity is the authenticated caller of an admin route
type Identity struct {
	Subject string
	Email   string
	Method  string // "token" or "basic"
}

// TokenService verifies provider-issued session tokens and issues tokens
// for the bootstrap admin. Both are HS256 JWTs signed with the same secret.
type TokenService struct {
	secret      []byte
	adminEmails map[string]bool
	ttl         time.Duration
}

// NewTokenService creates a token service. An empty adminEmails list
// admits every holder of a valid token.
func NewTokenService(secret string, adminEmails []string, ttl time.Duration) *TokenService {
	allowed := make(map[string]bool, len(adminEmails))
	for _, email := range adminEmails {
		if email = strings.ToLower(strings.TrimSpace(email)); email != "" {
			allowed[email] = true
		}
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), adminEmails: allowed, ttl: ttl}
}

// Configured reports whether a signing secret is set
func (s *TokenService) Configured() bool {
	return s != nil && len(s.secret) > 0
}

// Issue creates a token for subject
func (s *TokenService) Issue(subject, email string) (string, error) {
	if !s.Configured() {
		return "", errors.New("token secret not configured")
	}

	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["sub"] = subject
	claims["email"] = email
	claims["role"] = "authenticated"
	claims["iat"] = time.Now().Unix()
	claims["exp"] = time.Now().Add(s.ttl).Unix()

	return token.SignedString(s.secret)
}

// Verify parses tokenString and checks the signature, the expiry and the
// email allow-list
func (s *TokenService) Verify(tokenString string) (*Identity, error) {
	if !s.Configured() || tokenString == "" {
		return nil, ErrInvalidToken
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	identity := &Identity{Method: "token"}
	identity.Subject, _ = claims["sub"].(string)
	identity.Email, _ = claims["email"].(string)

	if identity.Subject != BootstrapSubject && len(s.adminEmails) > 0 && !s.adminEmails[strings.ToLower(identity.Email)] {
		return nil, ErrNotAdmin
	}

	return identity, nil
}
