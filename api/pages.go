package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *API) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{})
}

func (a *API) SignupPage(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.html", gin.H{})
}

func (a *API) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

func (a *API) ForgotPasswordPage(c *gin.Context) {
	c.HTML(http.StatusOK, "forgot_password.html", gin.H{})
}

// VerifyOTPPage and ResetPasswordPage carry the email over as the flow's
// correlation key, the POST handlers read it back from the form.
func (a *API) VerifyOTPPage(c *gin.Context) {
	c.HTML(http.StatusOK, "verify_otp.html", gin.H{
		"email": c.Query("email"),
	})
}

func (a *API) ResetPasswordPage(c *gin.Context) {
	c.HTML(http.StatusOK, "reset_password.html", gin.H{
		"email": c.Query("email"),
	})
}
