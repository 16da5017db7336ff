package billing

import "time"

// WebhookEvent stores every received Stripe event with deduplication
// metadata. Stripe delivers at least once; a replayed event ID is
// acknowledged without being processed again.
type WebhookEvent struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	StripeEventID   string     `gorm:"column:stripe_event_id;not null;uniqueIndex:idx_webhook_events_stripe_id" json:"stripe_event_id"`
	EventType       string     `gorm:"type:varchar(100);not null;index" json:"event_type"`
	PayloadJSON     string     `gorm:"type:text;not null" json:"payload_json"`
	ProcessedAt     *time.Time `json:"processed_at,omitempty"`
	ProcessingError string     `gorm:"type:text" json:"processing_error"`
	CreatedAt       time.Time  `json:"created_at"`
}
