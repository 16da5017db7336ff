package stripewebhooks

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"kivaiakids-api/internal/domain/subscriptions"
	"kivaiakids-api/internal/domain/users"
	infrastripe "kivaiakids-api/internal/infra/stripe"

	"github.com/stripe/stripe-go/v75"
	"gorm.io/gorm"
)

// upsertSubscription applies a subscription.created or subscription.updated
// event. Keyed by the Stripe subscription ID, so redeliveries and
// out-of-order created/updated pairs converge on the last-processed payload.
func upsertSubscription(db *gorm.DB, sub *stripe.Subscription) error {
	if sub.ID == "" {
		return fmt.Errorf("subscription event missing id")
	}

	customerID := ""
	if sub.Customer != nil {
		customerID = sub.Customer.ID
	}

	user, ok := resolveOwner(db, customerID, sub.Metadata)
	if !ok {
		// Event for a customer we never provisioned. Drop it; Stripe must
		// not retry.
		fmt.Printf("Webhook subscription %s for unknown customer %q, dropped\n", sub.ID, customerID)
		return nil
	}

	priceID := ""
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		priceID = sub.Items.Data[0].Price.ID
	}

	periodStart := time.Unix(sub.CurrentPeriodStart, 0)
	periodEnd := time.Unix(sub.CurrentPeriodEnd, 0)
	status := infrastripe.NormalizeStatus(string(sub.Status))
	plan := subscriptions.PlanFromPriceID(priceID)

	return db.Transaction(func(tx *gorm.DB) error {
		// Keep at most one active row per user: anything else still marked
		// active is retired before this one lands.
		if status == subscriptions.StatusActive {
			if err := tx.Model(&subscriptions.Subscription{}).
				Where("user_id = ? AND status = ? AND stripe_subscription_id <> ?",
					user.ID, subscriptions.StatusActive, sub.ID).
				Update("status", subscriptions.StatusCanceled).Error; err != nil {
				return fmt.Errorf("failed to retire stale subscriptions: %w", err)
			}
		}

		var existing subscriptions.Subscription
		err := tx.Where("stripe_subscription_id = ?", sub.ID).First(&existing).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			row := subscriptions.Subscription{
				UserID:               user.ID,
				StripeCustomerID:     customerID,
				StripeSubscriptionID: sub.ID,
				Plan:                 plan,
				Status:               status,
				CurrentPeriodStart:   &periodStart,
				CurrentPeriodEnd:     &periodEnd,
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to insert subscription: %w", err)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to look up subscription: %w", err)
		}

		updates := map[string]interface{}{
			"plan":                 plan,
			"status":               status,
			"current_period_start": periodStart,
			"current_period_end":   periodEnd,
			"updated_at":           time.Now(),
		}
		if customerID != "" {
			updates["stripe_customer_id"] = customerID
		}

		if err := tx.Model(&subscriptions.Subscription{}).
			Where("id = ?", existing.ID).
			Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update subscription: %w", err)
		}
		return nil
	})
}

// resolveOwner finds the profile a subscription event belongs to: by Stripe
// customer ID first, metadata user_id as fallback.
func resolveOwner(db *gorm.DB, customerID string, metadata map[string]string) (users.User, bool) {
	var user users.User

	if customerID != "" {
		_ = db.Where("stripe_customer_id = ?", customerID).First(&user).Error
		if user.ID != 0 {
			return user, true
		}
	}

	if userID := userIDFromMetadata(metadata); userID != 0 {
		_ = db.Where("id = ?", userID).First(&user).Error
		if user.ID != 0 {
			return user, true
		}
	}

	return users.User{}, false
}

func userIDFromMetadata(md map[string]string) uint {
	if md == nil {
		return 0
	}
	s := md["user_id"]
	if s == "" {
		return 0
	}
	uid, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return uint(uid)
}
