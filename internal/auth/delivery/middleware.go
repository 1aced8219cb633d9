package delivery

import (
	"net/http"

	"mailgate-backend/internal/mailbox/repository"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// BasicAuthMiddleware resolves the request user from HTTP Basic
// credentials. The core engines never see credentials; they receive the
// resolved user.
func BasicAuthMiddleware(users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, password, ok := c.Request.BasicAuth()
		if !ok {
			c.Header("WWW-Authenticate", `Basic realm="mailgate"`)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}

		user, err := users.FindByEmail(email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			c.Abort()
			return
		}
		if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
			c.Header("WWW-Authenticate", `Basic realm="mailgate"`)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Next()
	}
}
