package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"mwrona/auth-api/model"
	"mwrona/auth-api/validators"
)

func (a *API) ResetPassword(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	email := c.PostForm("email")
	password := c.PostForm("password")

	var user model.User

	if err := a.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			zap.L().Error("Failed to look up user", zap.Error(err), zap.String("requestID", requestID))
		}

		c.HTML(http.StatusOK, "reset_password.html", gin.H{"email": email, "error": "No account found with that email"})
		return
	}

	if err := validators.PasswordValidator(password); err != nil {
		c.HTML(http.StatusOK, "reset_password.html", gin.H{"email": email, "error": err.Error()})
		return
	}

	hash, err := a.Scrypt.GenerateFromPassword(password)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "reset_password.html", gin.H{"email": email, "error": "Something went wrong. Please try again later"})

		zap.L().Error("Failed to hash password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := a.DB.Model(&model.User{}).
		Where("id = ?", user.ID).
		Update("hashed_password", hash).
		Error; err != nil {
		c.HTML(http.StatusInternalServerError, "reset_password.html", gin.H{"email": email, "error": "Something went wrong. Please try again later"})

		zap.L().Error("Failed to update password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	// Close every other code still in flight for this user
	if err := a.OTP.InvalidateAll(user.ID); err != nil {
		c.HTML(http.StatusInternalServerError, "reset_password.html", gin.H{"email": email, "error": "Something went wrong. Please try again later"})

		zap.L().Error("Failed to invalidate OTPs", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.Redirect(http.StatusFound, "/login")
}
