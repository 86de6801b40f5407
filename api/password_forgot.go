package api

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"mwrona/auth-api/model"
)

func (a *API) ForgotPassword(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	email := c.PostForm("email")

	var user model.User

	if err := a.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			zap.L().Error("Failed to look up user", zap.Error(err), zap.String("requestID", requestID))
		}

		c.HTML(http.StatusOK, "forgot_password.html", gin.H{"error": "No account found with that email"})
		return
	}

	code, err := a.OTP.Issue(user.ID)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "forgot_password.html", gin.H{"error": "Something went wrong. Please try again later"})

		zap.L().Error("Failed to issue OTP", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	// Mail transport failure is surfaced, the user must know no code is
	// coming
	if err := a.Mailer.SendOTP(user.Email, code); err != nil {
		c.HTML(http.StatusInternalServerError, "forgot_password.html", gin.H{"error": "Failed to send email. Please try again later"})

		zap.L().Error("Failed to send OTP email", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.Redirect(http.StatusFound, "/verify-otp?email="+url.QueryEscape(email))
}
