package middleware

import (
	"net/http"
	"time"

	"kivaiakids-api/database"
	"kivaiakids-api/internal/domain/subscriptions"

	"github.com/gin-gonic/gin"
)

// RequirePremium gates routes serving premium content. Must run after
// AuthMiddleware. The resolver may expire a lapsed subscription row as a
// side effect of the check.
func RequirePremium() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")
		if userID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		status := subscriptions.Resolve(database.DB, time.Now(), userID)
		if !status.IsPremium {
			c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{
				"error": "An active subscription is required",
			})
			return
		}

		c.Next()
	}
}
