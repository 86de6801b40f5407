package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"mwrona/auth-api/model"
)

const sessionMaxAge = 60 * 60 * 24 * 30

func (a *API) Login(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	email := c.PostForm("email")
	password := c.PostForm("password")

	if email == "" || password == "" {
		c.HTML(http.StatusOK, "login.html", gin.H{"error": "Invalid credentials"})
		return
	}

	var user model.User

	if err := a.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			zap.L().Error("Failed to look up user", zap.Error(err), zap.String("requestID", requestID))
		}

		// Unknown user and bad password answer the same on purpose
		c.HTML(http.StatusOK, "login.html", gin.H{"error": "Invalid credentials"})
		return
	}

	// OAuth-only accounts have no local credential and must fail closed
	if user.HashedPassword == nil {
		c.HTML(http.StatusOK, "login.html", gin.H{"error": "Invalid credentials"})
		return
	}

	ok, err := a.Scrypt.VerifyPasswd(password, *user.HashedPassword)
	if err != nil {
		// Malformed stored credential. Logged for auditing, answered as a
		// plain mismatch.
		zap.L().Error("Stored credential failed verification", zap.Error(err), zap.String("requestID", requestID))
	}

	if !ok {
		c.HTML(http.StatusOK, "login.html", gin.H{"error": "Invalid credentials"})
		return
	}

	if err := a.startSession(c, user.ID); err != nil {
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{"error": "Something went wrong. Please try again later"})

		zap.L().Error("Failed to generate JWT auth token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// startSession issues the HS256 session cookie. Both password and OAuth
// logins end in exactly this state.
func (a *API) startSession(c *gin.Context, userID uint) error {
	authToken, err := makeToken(&jwt.MapClaims{
		"user_id": userID,
		"type":    "auth",
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(time.Hour * 24 * 30).Unix(),
	})
	if err != nil {
		return err
	}

	ssl := viper.GetBool("host.ssl.enabled")

	c.SetCookie("auth_token", authToken, sessionMaxAge, "/", "", ssl, true)
	c.SetCookie("logged_in", "1", sessionMaxAge, "/", "", ssl, false)

	return nil
}

func makeToken(c *jwt.MapClaims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return t.SignedString([]byte(viper.GetString("security.jwt_secret")))
}
