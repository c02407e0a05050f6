package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mealplanner/utils"
)

const credentialsKey = "credentials"

// AuthMiddleware verifies the bearer token and stores the caller's
// Credentials on the context. Websocket upgrades may pass the token as
// ?access_token= since browsers cannot set headers on them.
func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
			tokenString = strings.TrimPrefix(h, "Bearer ")
		} else if strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
			tokenString = c.Query("access_token")
		}
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		cred, err := utils.ParseCredentials(secret, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(credentialsKey, cred)
		c.Set("userID", cred.UserID)
		c.Next()
	}
}

// Credentials returns what AuthMiddleware stored for this request.
func Credentials(c *gin.Context) (utils.Credentials, bool) {
	v, ok := c.Get(credentialsKey)
	if !ok {
		return utils.Credentials{}, false
	}
	cred, ok := v.(utils.Credentials)
	return cred, ok
}
