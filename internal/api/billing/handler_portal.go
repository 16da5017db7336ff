package billing

import (
	"fmt"
	"net/http"
	"os"

	"kivaiakids-api/config"
	"kivaiakids-api/database"
	"kivaiakids-api/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	portalSession "github.com/stripe/stripe-go/v75/billingportal/session"
	"github.com/stripe/stripe-go/v75/customer"
)

// CreateBillingPortal answers POST /billing-portal with a one-time redirect
// URL into the Stripe self-service portal. A missing Stripe customer is
// provisioned on the fly.
func CreateBillingPortal(c *gin.Context) {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	if stripe.Key == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe key not configured"})
		return
	}

	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return
	}

	var user users.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	customerID, ok := ensureStripeCustomer(c, &user)
	if !ok {
		return
	}

	portal, err := portalSession.New(&stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnOrigin(c) + "/compte"),
	})
	if err != nil {
		fmt.Println("Failed to create billing portal session:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create billing portal session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": portal.URL})
}

// ensureStripeCustomer returns the user's Stripe customer ID, creating the
// customer upstream when the profile has none. Persisting the new ID can
// fail without aborting: the customer exists at Stripe either way, and the
// customer.created webhook back-fills the column later.
func ensureStripeCustomer(c *gin.Context, user *users.User) (string, bool) {
	if user.StripeCustomerID != nil && *user.StripeCustomerID != "" {
		return *user.StripeCustomerID, true
	}

	cus, err := customer.New(&stripe.CustomerParams{
		Email: stripe.String(user.Email),
		Metadata: map[string]string{
			"user_id": fmt.Sprint(user.ID),
		},
	})
	if err != nil {
		fmt.Println("Failed to create Stripe customer:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Stripe customer"})
		return "", false
	}

	if err := database.DB.Model(&users.User{}).
		Where("id = ?", user.ID).
		Update("stripe_customer_id", cus.ID).Error; err != nil {
		fmt.Println("Failed to store Stripe customer id:", err)
	}

	user.StripeCustomerID = stripe.String(cus.ID)
	return cus.ID, true
}

// returnOrigin prefers the request's Origin header, falling back to the
// configured app URL.
func returnOrigin(c *gin.Context) string {
	if origin := c.GetHeader("Origin"); origin != "" {
		return origin
	}
	return config.APP_URL
}
