package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
)

// Token decodes the session token into its claims. The token comes from the
// Authorization header or falls back to the session cookie.
func (a *API) Token(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	tokenStr := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if tokenStr == "" {
		tokenStr, _ = c.Cookie("auth_token")
	}

	if tokenStr == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":     "Invalid token",
			"requestID": requestID,
		})
		return
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}

		return []byte(viper.GetString("security.jwt_secret")), nil
	})
	if err != nil || !token.Valid {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":     "Invalid token",
			"requestID": requestID,
		})
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":     "Invalid token",
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, claims)
}
