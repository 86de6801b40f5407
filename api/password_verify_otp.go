package api

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"mwrona/auth-api/model"
)

func (a *API) VerifyOTP(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	email := c.PostForm("email")
	code := c.PostForm("otp")

	var user model.User

	if err := a.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			zap.L().Error("Failed to look up user", zap.Error(err), zap.String("requestID", requestID))
		}

		c.HTML(http.StatusOK, "verify_otp.html", gin.H{"email": email, "error": "No account found with that email"})
		return
	}

	ok, err := a.OTP.Verify(user.ID, code)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "verify_otp.html", gin.H{"email": email, "error": "Something went wrong. Please try again later"})

		zap.L().Error("Failed to verify OTP", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	// Wrong code and expired code are deliberately the same message
	if !ok {
		c.HTML(http.StatusOK, "verify_otp.html", gin.H{"email": email, "error": "Invalid or expired OTP"})
		return
	}

	c.Redirect(http.StatusFound, "/reset-password?email="+url.QueryEscape(email))
}
