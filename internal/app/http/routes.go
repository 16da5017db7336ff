package routes

import (
	adminapi "kivaiakids-api/internal/api/admin"
	authapi "kivaiakids-api/internal/api/auth"
	"kivaiakids-api/internal/api/billing"
	coursesapi "kivaiakids-api/internal/api/courses"
	eveilapi "kivaiakids-api/internal/api/eveil"
	stripewebhooks "kivaiakids-api/internal/api/stripewebhook"
	"kivaiakids-api/internal/api/users"
	"kivaiakids-api/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	// Webhook body must stay untouched for signature verification, so it is
	// registered outside the sanitization group.
	r.POST("/webhook", stripewebhooks.StripeWebhook)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/register", authapi.Register)
	public.POST("/login", authapi.Login)
	public.GET("/auth/google", authapi.GoogleStart)
	public.GET("/auth/google/callback", authapi.GoogleCallback)

	public.GET("/courses", coursesapi.ListCourses)
	public.GET("/eveil", eveilapi.ListItems)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware())
	auth.GET("/me", users.GetCurrentUser)
	auth.POST("/change-password", authapi.ChangePassword)
	auth.POST("/billing-portal", billing.CreateBillingPortal)
	auth.POST("/create-checkout-session", billing.CreateCheckoutSession)

	auth.GET("/courses/:id", coursesapi.GetCourse)
	auth.GET("/eveil/:slug", eveilapi.GetItem)

	// Subscribed users
	premium := auth.Group("/premium")
	premium.Use(middleware.RequirePremium())
	premium.GET("/library", coursesapi.GetPremiumLibrary)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole("admin"))
	admin.GET("/dashboard", adminapi.AdminDashboard)
	admin.GET("/users", adminapi.ListAllUsers)
	admin.GET("/user/:id", adminapi.GetUserDetails)
	admin.GET("/subscriptions", adminapi.ListAllSubscriptions)

	admin.POST("/courses", coursesapi.CreateCourse)
	admin.PUT("/courses/:id", coursesapi.UpdateCourse)
	admin.DELETE("/courses/:id", coursesapi.DeleteCourse)
	admin.POST("/courses/:id/publish", coursesapi.PublishCourse)
	admin.POST("/courses/:id/unpublish", coursesapi.UnpublishCourse)
	admin.POST("/courses/:id/pdf", coursesapi.UploadCoursePDF)
	admin.POST("/courses/:id/thumbnail", coursesapi.UploadCourseThumbnail)

	admin.POST("/eveil", eveilapi.CreateItem)
	admin.PUT("/eveil/:id", eveilapi.UpdateItem)
	admin.DELETE("/eveil/:id", eveilapi.DeleteItem)
	admin.POST("/eveil/:id/publish", eveilapi.PublishItem)
	admin.POST("/eveil/:id/unpublish", eveilapi.UnpublishItem)
	admin.POST("/eveil/:id/media", eveilapi.UploadItemMedia)
}
