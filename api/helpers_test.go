package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"mwrona/auth-api/internal/service"
	"mwrona/auth-api/middleware"
	"mwrona/auth-api/model"
	"mwrona/auth-api/pkg/security"
)

// captureMailer records what would have been sent so reset flow tests can
// read the code back.
type captureMailer struct {
	to    string
	code  string
	calls int
	err   error
}

func (m *captureMailer) SendOTP(to, code string) error {
	m.calls++
	if m.err != nil {
		return m.err
	}

	m.to = to
	m.code = code
	return nil
}

// fakeGoogle stands in for the OAuth client. It hands back a canned profile
// without any network traffic.
type fakeGoogle struct {
	user *service.GoogleUser
	err  error
}

func (f *fakeGoogle) AuthCodeURL(state string) string {
	return "https://accounts.example.com/consent?state=" + state
}

func (f *fakeGoogle) FetchUser(_ context.Context, code string) (*service.GoogleUser, error) {
	if code == "" {
		return nil, errors.New("missing code")
	}

	return f.user, f.err
}

func newTestAPI(t *testing.T) (*API, *captureMailer, *fakeGoogle) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	viper.Set("security.jwt_secret", "test-secret")

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.User{}, model.OTP{}))

	mailer := &captureMailer{}
	google := &fakeGoogle{}

	a := &API{
		DB:     db,
		Scrypt: security.New(),
		OTP:    service.NewOTPService(db, 2*time.Minute),
		Mailer: mailer,
		Google: google,
	}

	router := gin.New()
	router.Use(middleware.NewRequestIDMiddleware())
	router.LoadHTMLGlob("../templates/*.html")

	router.GET("/signup", a.SignupPage)
	router.POST("/signup", a.Signup)
	router.GET("/login", a.LoginPage)
	router.POST("/login", a.Login)
	router.GET("/forgot-password", a.ForgotPasswordPage)
	router.POST("/forgot-password", a.ForgotPassword)
	router.GET("/verify-otp", a.VerifyOTPPage)
	router.POST("/verify-otp", a.VerifyOTP)
	router.GET("/reset-password", a.ResetPasswordPage)
	router.POST("/reset-password", a.ResetPassword)
	router.GET("/login/google", a.GoogleLogin)
	router.GET("/auth/google", a.GoogleCallback)
	router.GET("/api/token", a.Token)

	a.Router = router

	return a, mailer, google
}

func postForm(a *API, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	return w
}

func get(a *API, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	return w
}

func signupUser(t *testing.T, a *API, username, email, password string) {
	t.Helper()

	w := postForm(a, "/signup", url.Values{
		"username": {username},
		"email":    {email},
		"password": {password},
	})
	require.Equal(t, http.StatusFound, w.Code, "signup failed: %s", w.Body.String())
	require.Equal(t, "/login", w.Header().Get("Location"))
}
