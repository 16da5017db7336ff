package stripewebhooks

import (
	"fmt"

	"kivaiakids-api/internal/domain/users"

	"github.com/stripe/stripe-go/v75"
	"gorm.io/gorm"
)

// handleCustomerCreated back-fills the profile's stripe_customer_id when the
// customer was provisioned with a user_id in its metadata. Events without
// the reference are dropped.
func handleCustomerCreated(db *gorm.DB, cus *stripe.Customer) error {
	if cus.ID == "" {
		return nil
	}

	userID := userIDFromMetadata(cus.Metadata)
	if userID == 0 {
		fmt.Printf("customer.created %s carries no user_id metadata, dropped\n", cus.ID)
		return nil
	}

	result := db.Model(&users.User{}).
		Where("id = ? AND stripe_customer_id IS NULL", userID).
		Update("stripe_customer_id", cus.ID)
	if result.Error != nil {
		return fmt.Errorf("failed to back-fill customer id: %w", result.Error)
	}
	return nil
}
