package subscriptions

import "time"

const (
	PlanMonthly = "monthly"
	PlanAnnual  = "annual"
)

const (
	StatusActive   = "active"
	StatusCanceled = "canceled"
	StatusPastDue  = "past_due"
	StatusUnpaid   = "unpaid"
	StatusTrialing = "trialing"
)

// Subscription mirrors one Stripe subscription for a user. Rows are never
// hard-deleted; a subscription is retired by setting status to canceled.
type Subscription struct {
	ID                   uint   `gorm:"primaryKey" json:"id"`
	UserID               uint   `gorm:"not null;index" json:"user_id"`
	StripeCustomerID     string `gorm:"column:stripe_customer_id;index" json:"stripe_customer_id"`
	StripeSubscriptionID string `gorm:"column:stripe_subscription_id;not null;uniqueIndex:idx_subscriptions_stripe_id" json:"stripe_subscription_id"`

	Plan   string `gorm:"type:varchar(16);not null" json:"plan"`
	Status string `gorm:"type:varchar(32);not null;index" json:"status"`

	CurrentPeriodStart *time.Time `json:"current_period_start,omitempty"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
