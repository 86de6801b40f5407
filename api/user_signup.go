package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"mwrona/auth-api/model"
	"mwrona/auth-api/validators"
)

func (a *API) Signup(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	username := c.PostForm("username")
	email := c.PostForm("email")
	password := c.PostForm("password")

	if err := validators.UsernameValidator(username); err != nil {
		c.HTML(http.StatusOK, "signup.html", gin.H{"error": err.Error()})
		return
	}

	if err := validators.EmailValidator(email); err != nil {
		c.HTML(http.StatusOK, "signup.html", gin.H{"error": err.Error()})
		return
	}

	if err := validators.PasswordValidator(password); err != nil {
		c.HTML(http.StatusOK, "signup.html", gin.H{"error": err.Error()})
		return
	}

	var found bool

	r := a.DB.Model(model.User{}).
		Select("count(*) > 0").
		Where("email = ?", email).
		First(&found)
	if r.Error != nil && r.Error != gorm.ErrRecordNotFound {
		c.HTML(http.StatusInternalServerError, "signup.html", gin.H{"error": "Something went wrong. Please try again later"})

		zap.L().Error("Failed to check if user is registered", zap.Error(r.Error), zap.String("requestID", requestID))
		return
	}

	if found {
		c.HTML(http.StatusOK, "signup.html", gin.H{"error": "Email already registered"})
		return
	}

	r = a.DB.Model(model.User{}).
		Select("count(*) > 0").
		Where("username = ?", username).
		First(&found)
	if r.Error != nil && r.Error != gorm.ErrRecordNotFound {
		c.HTML(http.StatusInternalServerError, "signup.html", gin.H{"error": "Something went wrong. Please try again later"})

		zap.L().Error("Failed to check if username is taken", zap.Error(r.Error), zap.String("requestID", requestID))
		return
	}

	if found {
		c.HTML(http.StatusOK, "signup.html", gin.H{"error": "Username already taken"})
		return
	}

	hash, err := a.Scrypt.GenerateFromPassword(password)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "signup.html", gin.H{"error": "Something went wrong. Please try again later"})

		zap.L().Error("Failed to hash password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := a.DB.Create(&model.User{
		Username:       username,
		Email:          email,
		HashedPassword: &hash,
	}).Error; err != nil {
		c.HTML(http.StatusInternalServerError, "signup.html", gin.H{"error": "Something went wrong. Please try again later"})

		zap.L().Error("Failed to create user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.Redirect(http.StatusFound, "/login")
}
