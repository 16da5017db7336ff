package billing

import (
	"fmt"
	"net/http"
	"os"

	"kivaiakids-api/database"
	"kivaiakids-api/internal/domain/subscriptions"
	"kivaiakids-api/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
)

// CreateCheckoutSession starts a Stripe subscription checkout for one of
// the two configured plans.
func CreateCheckoutSession(c *gin.Context) {
	var body struct {
		Plan string `json:"plan"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Plan == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid plan"})
		return
	}

	var priceID string
	switch body.Plan {
	case subscriptions.PlanMonthly:
		priceID = os.Getenv("STRIPE_PRICE_MONTHLY")
	case subscriptions.PlanAnnual:
		priceID = os.Getenv("STRIPE_PRICE_ANNUAL")
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown plan"})
		return
	}
	if priceID == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Plan price not configured"})
		return
	}

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

	origin := returnOrigin(c)
	params := &stripe.CheckoutSessionParams{
		SuccessURL: stripe.String(origin + "/compte"),
		CancelURL:  stripe.String(origin + "/compte?canceled=1"),
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer:   stripe.String(customerID),

		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(priceID), Quantity: stripe.Int64(1)},
		},

		ClientReferenceID: stripe.String(fmt.Sprint(user.ID)),

		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				"user_id": fmt.Sprint(user.ID),
				"plan":    body.Plan,
			},
		},
	}

	s, err := checkoutsession.New(params)
	if err != nil {
		fmt.Println("Failed to create checkout session:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": s.URL})
}
