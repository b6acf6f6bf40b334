package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hyroxbox-directory/internal/auth"
	"hyroxbox-directory/internal/middleware"
	"hyroxbox-directory/pkg/model"
)

// Accounts is the authentication surface used by AuthHandler
type Accounts interface {
	SignUp(ctx context.Context, req model.SignUpRequest) (*model.SignUpResponse, error)
	Login(ctx context.Context, req model.LoginRequest) (string, error)
}

// AuthHandler handles the sign-up and login pages
type AuthHandler struct {
	accounts     Accounts
	secureCookie bool
	logger       *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(accounts Accounts, secureCookie bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, secureCookie: secureCookie, logger: logger}
}

// SignUpPage handles GET /auth/signup
func (h *AuthHandler) SignUpPage(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.html", gin.H{"Email": ""})
}

// SignUp handles POST /auth/signup
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req model.SignUpRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, "signup.html", gin.H{"Error": "Please fill in every field with a valid email", "Email": req.Email})
		return
	}

	resp, err := h.accounts.SignUp(c.Request.Context(), req)
	if err != nil {
		status, message := signUpError(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("sign-up failed", zap.Error(err))
		}
		c.HTML(status, "signup.html", gin.H{"Error": message, "Email": req.Email})
		return
	}

	c.HTML(http.StatusOK, "signup.html", gin.H{"Success": resp.Message})
}

func signUpError(err error) (int, string) {
	var perr *auth.ProviderError
	switch {
	case errors.Is(err, auth.ErrPasswordMismatch), errors.Is(err, auth.ErrPasswordTooShort):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, auth.ErrProviderUnavailable):
		return http.StatusServiceUnavailable, err.Error()
	case errors.As(err, &perr):
		return http.StatusBadRequest, perr.Message
	default:
		return http.StatusInternalServerError, "An unexpected error occurred"
	}
}

// LoginPage handles GET /auth/login
func (h *AuthHandler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{"Email": "", "Next": safeNext(c.Query("next"))})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, "login.html", gin.H{"Error": "Email and password are required", "Email": req.Email, "Next": safeNext(req.Next)})
		return
	}
	next := safeNext(req.Next)

	token, err := h.accounts.Login(c.Request.Context(), req)
	if err != nil {
		status, message := http.StatusUnauthorized, auth.ErrInvalidCredentials.Error()
		switch {
		case errors.Is(err, auth.ErrNotAdmin):
			status, message = http.StatusForbidden, "This account is not an administrator"
		case errors.Is(err, auth.ErrSessionsUnavailable):
			h.logger.Error("login succeeded but sessions cannot be signed", zap.Error(err))
			status, message = http.StatusServiceUnavailable, err.Error()
		case !errors.Is(err, auth.ErrInvalidCredentials):
			h.logger.Error("login failed", zap.Error(err))
			status, message = http.StatusInternalServerError, "An unexpected error occurred"
		}
		c.HTML(status, "login.html", gin.H{"Error": message, "Email": req.Email, "Next": next})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, 24*60*60, "/", "", h.secureCookie, true)
	c.Redirect(http.StatusSeeOther, next)
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.secureCookie, true)
	c.Redirect(http.StatusSeeOther, "/")
}

// safeNext keeps redirects on this site
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/admin"
	}
	return next
}
