package stripewebhooks

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"kivaiakids-api/database"
	"kivaiakids-api/internal/domain/billing"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"
	"gorm.io/gorm"
)

// Stripe events routinely exceed 64 KiB once metadata and expanded objects
// pile up; truncating one breaks signature verification.
const maxEventBytes = 1 << 20

func StripeWebhook(c *gin.Context) {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	if stripe.Key == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "STRIPE_SECRET_KEY not configured"})
		return
	}

	endpointSecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	if endpointSecret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "STRIPE_WEBHOOK_SECRET not configured"})
		return
	}

	payload, err := readStripeBody(c, maxEventBytes)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Payload too large"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		c.GetHeader("Stripe-Signature"),
		endpointSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		fmt.Println("Stripe signature verification failed:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature verification failed"})
		return
	}

	// Stripe delivers at least once; a replayed event ID is acknowledged
	// without reprocessing.
	record := billing.WebhookEvent{
		StripeEventID: event.ID,
		EventType:     string(event.Type),
		PayloadJSON:   string(payload),
	}
	if err := database.DB.Create(&record).Error; err != nil {
		var existing billing.WebhookEvent
		if database.DB.Where("stripe_event_id = ?", event.ID).First(&existing).Error == nil {
			c.JSON(http.StatusOK, gin.H{"status": "duplicate"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record event"})
		return
	}

	// Processing failures are logged and acknowledged: answering non-2xx
	// would invite a retry the dedup row above has already doomed to a
	// "duplicate" short-circuit. The error stays queryable on the record.
	if err := ProcessEvent(database.DB, &event); err != nil {
		fmt.Printf("Webhook event %s (%s) failed: %v\n", event.ID, event.Type, err)
		markProcessed(database.DB, record.ID, err)
		c.JSON(http.StatusOK, gin.H{"status": "received"})
		return
	}

	markProcessed(database.DB, record.ID, nil)
	c.JSON(http.StatusOK, gin.H{"status": "received"})
}

// ProcessEvent dispatches one verified Stripe event. Events naming unknown
// customers or subscriptions are dropped, not retried: the error return is
// reserved for infrastructure failures Stripe should redeliver.
func ProcessEvent(db *gorm.DB, event *stripe.Event) error {
	switch event.Type {
	case "customer.subscription.created", "customer.subscription.updated":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("failed to parse subscription: %w", err)
		}
		return upsertSubscription(db, &sub)

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("failed to parse subscription: %w", err)
		}
		return handleSubscriptionDeleted(db, &sub)

	case "customer.created":
		var cus stripe.Customer
		if err := json.Unmarshal(event.Data.Raw, &cus); err != nil {
			return fmt.Errorf("failed to parse customer: %w", err)
		}
		return handleCustomerCreated(db, &cus)

	default:
		// Acknowledge unknown events to avoid retries
		return nil
	}
}

func markProcessed(db *gorm.DB, recordID uint, procErr error) {
	updates := map[string]interface{}{"processed_at": time.Now()}
	if procErr != nil {
		updates["processing_error"] = procErr.Error()
	}
	if err := db.Model(&billing.WebhookEvent{}).
		Where("id = ?", recordID).
		Updates(updates).Error; err != nil {
		fmt.Println("Failed to mark webhook event processed:", err)
	}
}

func readStripeBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
