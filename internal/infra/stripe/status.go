package stripe

import (
	"strings"

	"kivaiakids-api/internal/domain/subscriptions"
)

// NormalizeStatus maps a raw Stripe subscription status onto the local
// status enum. Unknown values pass through unchanged.
func NormalizeStatus(s string) string {
	switch strings.TrimSpace(s) {
	case "active":
		return subscriptions.StatusActive
	case "trialing":
		return subscriptions.StatusTrialing
	case "past_due":
		return subscriptions.StatusPastDue
	case "unpaid":
		return subscriptions.StatusUnpaid
	case "canceled", "incomplete_expired":
		return subscriptions.StatusCanceled
	default:
		return strings.TrimSpace(s)
	}
}
