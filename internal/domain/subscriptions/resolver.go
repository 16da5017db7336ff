package subscriptions

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"
)

// Status is the derived premium entitlement for one user. It is computed on
// demand and never persisted.
type Status struct {
	IsPremium    bool          `json:"is_premium"`
	Subscription *Subscription `json:"subscription,omitempty"`
}

// Resolve answers whether the user currently has premium access.
//
// A lapsed row still marked active gets a side-effecting correction: its
// status is set to canceled. Setting canceled on an already-canceled row is a
// no-op, so concurrent callers racing on the same correction are safe.
// Query failures other than "no rows" degrade to not premium; an
// infrastructure hiccup must never grant access.
func Resolve(db *gorm.DB, now time.Time, userID uint) Status {
	var sub Subscription
	err := db.
		Where("user_id = ? AND status = ?", userID, StatusActive).
		Order("updated_at DESC").
		First(&sub).Error

	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Println("subscriptions: status lookup failed:", err)
		}
		return Status{IsPremium: false}
	}

	if sub.CurrentPeriodEnd != nil && sub.CurrentPeriodEnd.After(now) {
		return Status{IsPremium: true, Subscription: &sub}
	}

	// Period lapsed but the cancellation event has not arrived (or was
	// missed). Expire the row here rather than waiting for Stripe.
	if err := db.Model(&Subscription{}).
		Where("id = ?", sub.ID).
		Updates(map[string]interface{}{
			"status":     StatusCanceled,
			"updated_at": now,
		}).Error; err != nil {
		log.Println("subscriptions: lazy expiry update failed:", err)
	}

	return Status{IsPremium: false}
}
