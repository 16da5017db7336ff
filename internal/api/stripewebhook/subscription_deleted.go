package stripewebhooks

import (
	"errors"
	"fmt"
	"time"

	"kivaiakids-api/internal/domain/subscriptions"

	"github.com/stripe/stripe-go/v75"
	"gorm.io/gorm"
)

// handleSubscriptionDeleted retires the local row. Rows are never
// hard-deleted; a second identical event is a no-op.
func handleSubscriptionDeleted(db *gorm.DB, sub *stripe.Subscription) error {
	if sub.ID == "" {
		return nil
	}

	var existing subscriptions.Subscription
	err := db.Where("stripe_subscription_id = ?", sub.ID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up subscription %s: %w", sub.ID, err)
	}

	if err := db.Model(&subscriptions.Subscription{}).
		Where("id = ?", existing.ID).
		Updates(map[string]interface{}{
			"status":     subscriptions.StatusCanceled,
			"updated_at": time.Now(),
		}).Error; err != nil {
		return fmt.Errorf("failed to cancel subscription %s: %w", sub.ID, err)
	}
	return nil
}
