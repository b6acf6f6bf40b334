package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hyroxbox-directory/internal/auth"
	"hyroxbox-directory/internal/middleware"
	"hyroxbox-directory/internal/web"
	"hyroxbox-directory/pkg/model"
)

type fakeAccounts struct {
	signUpErr error
	loginErr  error
}

func (f *fakeAccounts) SignUp(ctx context.Context, req model.SignUpRequest) (*model.SignUpResponse, error) {
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	return &model.SignUpResponse{Message: "Please check your email", ConfirmationRequired: true}, nil
}

func (f *fakeAccounts) Login(ctx context.Context, req model.LoginRequest) (string, error) {
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return "session-token", nil
}

func newAuthRouter(t *testing.T, accounts *fakeAccounts) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tmpl, err := web.Templates()
	require.NoError(t, err)

	router := gin.New()
	router.SetHTMLTemplate(tmpl)

	h := NewAuthHandler(accounts, false, zap.NewNop())
	router.GET("/auth/signup", h.SignUpPage)
	router.POST("/auth/signup", h.SignUp)
	router.GET("/auth/login", h.LoginPage)
	router.POST("/auth/login", h.Login)
	router.POST("/auth/logout", h.Logout)
	return router
}

func postForm(router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSignUpForm(t *testing.T) {
	form := url.Values{"email": {"coach@hyroxbox.example"}, "password": {"abcdef"}, "confirm_password": {"abcdef"}}

	w := postForm(newAuthRouter(t, &fakeAccounts{}), "/auth/signup", form)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Please check your email")

	w = postForm(newAuthRouter(t, &fakeAccounts{signUpErr: auth.ErrPasswordMismatch}), "/auth/signup", form)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Passwords do not match")

	w = postForm(newAuthRouter(t, &fakeAccounts{signUpErr: &auth.ProviderError{StatusCode: 422, Message: "User already registered"}}), "/auth/signup", form)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "User already registered")

	w = postForm(newAuthRouter(t, &fakeAccounts{}), "/auth/signup", url.Values{"email": {"not-an-email"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginSetsCookieAndRedirects(t *testing.T) {
	router := newAuthRouter(t, &fakeAccounts{})

	w := postForm(router, "/auth/login", url.Values{"email": {"admin"}, "password": {"letmein"}, "next": {"/admin/boxes"}})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/boxes", w.Header().Get("Location"))
	cookie := w.Result().Cookies()[0]
	assert.Equal(t, middleware.SessionCookie, cookie.Name)
	assert.Equal(t, "session-token", cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestLoginFailures(t *testing.T) {
	form := url.Values{"email": {"admin"}, "password": {"nope"}}

	w := postForm(newAuthRouter(t, &fakeAccounts{loginErr: auth.ErrInvalidCredentials}), "/auth/login", form)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email or password")

	w = postForm(newAuthRouter(t, &fakeAccounts{loginErr: auth.ErrNotAdmin}), "/auth/login", form)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = postForm(newAuthRouter(t, &fakeAccounts{loginErr: auth.ErrSessionsUnavailable}), "/auth/login", form)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "Admin sessions are not configured")
}

func TestLogoutClearsCookie(t *testing.T) {
	w := postForm(newAuthRouter(t, &fakeAccounts{}), "/auth/logout", url.Values{})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	cookie := w.Result().Cookies()[0]
	assert.Equal(t, middleware.SessionCookie, cookie.Name)
	assert.Equal(t, "", cookie.Value)
	assert.True(t, cookie.MaxAge < 0)
}

func TestSafeNext(t *testing.T) {
	assert.Equal(t, "/admin/regions", safeNext("/admin/regions"))
	assert.Equal(t, "/admin", safeNext(""))
	assert.Equal(t, "/admin", safeNext("https://evil.example"))
	assert.Equal(t, "/admin", safeNext("//evil.example"))
}

func TestLoginPageKeepsNext(t *testing.T) {
	w := httptest.NewRecorder()
	newAuthRouter(t, &fakeAccounts{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/login?next=%2Fadmin%2Fboxes", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="/admin/boxes"`)
}
