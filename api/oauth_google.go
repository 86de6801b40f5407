package api

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"mwrona/auth-api/internal/service"
	"mwrona/auth-api/model"
)

const oauthStateCookie = "oauthstate"

// GoogleLogin sends the browser to the Google consent page. The random state
// is pinned in a short-lived cookie and checked again in the callback.
func (a *API) GoogleLogin(c *gin.Context) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{"error": "Something went wrong. Please try again later"})

		zap.L().Error("Failed to generate oauth state", zap.Error(err))
		return
	}

	state := base64.URLEncoding.EncodeToString(b)
	c.SetCookie(oauthStateCookie, state, 300, "/", "", viper.GetBool("host.ssl.enabled"), true)

	c.Redirect(http.StatusFound, a.Google.AuthCodeURL(state))
}

// GoogleCallback finishes the flow: state check, code exchange, profile
// fetch, then find-or-create by email. OAuth accounts are provisioned
// without a local credential.
func (a *API) GoogleCallback(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	state, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || c.Query("state") != state {
		c.SetCookie(oauthStateCookie, "", -1, "/", "", viper.GetBool("host.ssl.enabled"), true)
		c.HTML(http.StatusBadRequest, "login.html", gin.H{"error": "Google sign-in failed. Please try again"})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.HTML(http.StatusBadRequest, "login.html", gin.H{"error": "Google sign-in failed. Please try again"})
		return
	}

	gu, err := a.Google.FetchUser(c.Request.Context(), code)
	if err != nil {
		c.HTML(http.StatusBadGateway, "login.html", gin.H{"error": "Google sign-in failed. Please try again"})

		zap.L().Error("Google token exchange failed", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	user, err := a.ensureGoogleUser(gu)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{"error": "Something went wrong. Please try again later"})

		zap.L().Error("Failed to resolve Google user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := a.startSession(c, user.ID); err != nil {
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{"error": "Something went wrong. Please try again later"})

		zap.L().Error("Failed to generate JWT auth token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// ensureGoogleUser resolves the account for a Google profile. A second login
// with the same email lands on the same row. New accounts derive their
// username from the display name (falling back to the email local part) and
// bump a numeric suffix until it is free.
func (a *API) ensureGoogleUser(gu *service.GoogleUser) (*model.User, error) {
	var user model.User

	err := a.DB.Where("email = ?", gu.Email).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	base := gu.Name
	if base == "" {
		base = strings.SplitN(gu.Email, "@", 2)[0]
	}
	base = strings.ReplaceAll(base, " ", "_")

	username := base
	for suffix := 1; ; suffix++ {
		var count int64
		if err := a.DB.Model(&model.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return nil, err
		}

		if count == 0 {
			break
		}

		username = fmt.Sprintf("%s_%d", base, suffix)
	}

	user = model.User{
		Username: username,
		Email:    gu.Email,
	}

	if err := a.DB.Create(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}
