package admin

import (
	"net/http"
	"time"

	"kivaiakids-api/database"
	"kivaiakids-api/internal/domain/courses"
	"kivaiakids-api/internal/domain/eveil"
	"kivaiakids-api/internal/domain/subscriptions"
	"kivaiakids-api/internal/domain/users"

	"github.com/gin-gonic/gin"
)

type AdminUser struct {
	ID               uint       `json:"id"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	Email            string     `json:"email"`
	Role             string     `json:"role"`
	StripeCustomerID *string    `json:"stripe_customer_id,omitempty"`
	Plan             *string    `json:"plan,omitempty"`
	SubscriptionEnd  *time.Time `json:"subscription_end,omitempty"`
}

type AdminStats struct {
	TotalUsers          int            `json:"total_users"`
	PublishedCourses    int            `json:"published_courses"`
	PublishedEveilItems int            `json:"published_eveil_items"`
	ActivePerPlan       map[string]int `json:"active_per_plan"`
}

func AdminDashboard(c *gin.Context) {
	var stats AdminStats

	var totalUsers, publishedCourses, publishedItems int64
	database.DB.Model(&users.User{}).Count(&totalUsers)
	database.DB.Model(&courses.Course{}).Where("published = ?", true).Count(&publishedCourses)
	database.DB.Model(&eveil.EveilItem{}).Where("published = ?", true).Count(&publishedItems)

	type PlanCount struct {
		Plan  string
		Count int
	}
	var counts []PlanCount
	database.DB.Model(&subscriptions.Subscription{}).
		Select("plan, COUNT(id) as count").
		Where("status = ?", subscriptions.StatusActive).
		Group("plan").
		Scan(&counts)

	stats.TotalUsers = int(totalUsers)
	stats.PublishedCourses = int(publishedCourses)
	stats.PublishedEveilItems = int(publishedItems)
	stats.ActivePerPlan = map[string]int{}
	for _, pc := range counts {
		stats.ActivePerPlan[pc.Plan] = pc.Count
	}

	c.JSON(http.StatusOK, stats)
}

func ListAllUsers(c *gin.Context) {
	var list []users.User
	if err := database.DB.Order("created_at DESC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}

	out := make([]AdminUser, 0, len(list))
	for _, u := range list {
		entry := AdminUser{
			ID:               u.ID,
			FirstName:        u.FirstName,
			LastName:         u.LastName,
			Email:            u.Email,
			Role:             u.Role,
			StripeCustomerID: u.StripeCustomerID,
		}

		var sub subscriptions.Subscription
		if err := database.DB.
			Where("user_id = ? AND status = ?", u.ID, subscriptions.StatusActive).
			Order("updated_at DESC").
			First(&sub).Error; err == nil {
			entry.Plan = &sub.Plan
			entry.SubscriptionEnd = sub.CurrentPeriodEnd
		}

		out = append(out, entry)
	}

	c.JSON(http.StatusOK, out)
}

func ListAllSubscriptions(c *gin.Context) {
	var subs []subscriptions.Subscription
	if err := database.DB.Order("updated_at DESC").Find(&subs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load subscriptions"})
		return
	}
	c.JSON(http.StatusOK, subs)
}

func GetUserDetails(c *gin.Context) {
	var user users.User
	if err := database.DB.First(&user, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var subs []subscriptions.Subscription
	if err := database.DB.
		Where("user_id = ?", user.ID).
		Order("updated_at DESC").
		Find(&subs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load subscriptions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":          user,
		"subscriptions": subs,
	})
}
