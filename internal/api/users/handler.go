package users

import (
	"net/http"
	"time"

	"kivaiakids-api/database"
	"kivaiakids-api/internal/domain/subscriptions"
	"kivaiakids-api/internal/domain/users"

	"github.com/gin-gonic/gin"
)

type UserDTO struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

type SubscriptionDTO struct {
	Plan             string     `json:"plan"`
	Status           string     `json:"status"`
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`
}

type MeResponse struct {
	User         UserDTO          `json:"user"`
	IsPremium    bool             `json:"is_premium"`
	Subscription *SubscriptionDTO `json:"subscription,omitempty"`
}

func GetCurrentUser(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var user users.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	status := subscriptions.Resolve(database.DB, time.Now(), user.ID)

	resp := MeResponse{
		User: UserDTO{
			ID:        user.ID,
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Role:      user.Role,
		},
		IsPremium: status.IsPremium,
	}
	if status.Subscription != nil {
		resp.Subscription = &SubscriptionDTO{
			Plan:             status.Subscription.Plan,
			Status:           status.Subscription.Status,
			CurrentPeriodEnd: status.Subscription.CurrentPeriodEnd,
		}
	}

	c.JSON(http.StatusOK, resp)
}
