package api

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mwrona/auth-api/model"
)

func TestSignupThenLogin(t *testing.T) {
	a, _, _ := newTestAPI(t)

	signupUser(t, a, "alice", "alice@example.com", "correct-horse")

	var user model.User
	require.NoError(t, a.DB.Where("email = ?", "alice@example.com").First(&user).Error)
	require.NotNil(t, user.HashedPassword)
	assert.NotContains(t, *user.HashedPassword, "correct-horse")

	w := postForm(a, "/login", url.Values{
		"email":    {"alice@example.com"},
		"password": {"correct-horse"},
	})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	var sawSession bool
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "auth_token" && ck.Value != "" {
			sawSession = true
		}
	}
	assert.True(t, sawSession, "login did not set the session cookie")
}

func TestLoginWrongPassword(t *testing.T) {
	a, _, _ := newTestAPI(t)

	signupUser(t, a, "alice", "alice@example.com", "correct-horse")

	w := postForm(a, "/login", url.Values{
		"email":    {"alice@example.com"},
		"password": {"battery-staple"},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")
}

func TestLoginUnknownUser(t *testing.T) {
	a, _, _ := newTestAPI(t)

	w := postForm(a, "/login", url.Values{
		"email":    {"nobody@example.com"},
		"password": {"whatever1"},
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// Same message as a wrong password, nothing to enumerate accounts with
	assert.Contains(t, w.Body.String(), "Invalid credentials")
}

func TestLoginOAuthOnlyAccountFailsClosed(t *testing.T) {
	a, _, _ := newTestAPI(t)

	require.NoError(t, a.DB.Create(&model.User{
		Username: "bob",
		Email:    "bob@example.com",
	}).Error)

	w := postForm(a, "/login", url.Values{
		"email":    {"bob@example.com"},
		"password": {"anything-goes"},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")
}

func TestSignupDuplicateEmail(t *testing.T) {
	a, _, _ := newTestAPI(t)

	signupUser(t, a, "alice", "alice@example.com", "correct-horse")

	w := postForm(a, "/signup", url.Values{
		"username": {"alice2"},
		"email":    {"alice@example.com"},
		"password": {"correct-horse"},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Email already registered")
}

func TestSignupDuplicateUsername(t *testing.T) {
	a, _, _ := newTestAPI(t)

	signupUser(t, a, "alice", "alice@example.com", "correct-horse")

	w := postForm(a, "/signup", url.Values{
		"username": {"alice"},
		"email":    {"other@example.com"},
		"password": {"correct-horse"},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Username already taken")
}

func TestSignupRejectsBadInput(t *testing.T) {
	a, _, _ := newTestAPI(t)

	cases := []struct {
		name string
		form url.Values
		want string
	}{
		{"missing username", url.Values{"email": {"a@b.com"}, "password": {"longenough"}}, "no username provided"},
		{"bad email", url.Values{"username": {"a"}, "email": {"not-an-email"}, "password": {"longenough"}}, "invalid email address"},
		{"short password", url.Values{"username": {"a"}, "email": {"a@b.com"}, "password": {"short"}}, "at least 8 characters"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postForm(a, "/signup", tc.form)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), tc.want)
		})
	}
}

func TestTokenEndpoint(t *testing.T) {
	a, _, _ := newTestAPI(t)

	signupUser(t, a, "alice", "alice@example.com", "correct-horse")

	w := postForm(a, "/login", url.Values{
		"email":    {"alice@example.com"},
		"password": {"correct-horse"},
	})
	require.Equal(t, http.StatusFound, w.Code)

	var session *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "auth_token" {
			session = ck
		}
	}
	require.NotNil(t, session)

	resp := get(a, "/api/token", session)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"user_id"`)

	resp = get(a, "/api/token")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
