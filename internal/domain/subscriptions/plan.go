package subscriptions

import (
	"os"
	"strings"
)

// priceTable maps known Stripe price IDs to plans. Populated from env at
// first use so tests can override the variables.
func priceTable() map[string]string {
	table := map[string]string{}
	if id := os.Getenv("STRIPE_PRICE_MONTHLY"); id != "" {
		table[id] = PlanMonthly
	}
	if id := os.Getenv("STRIPE_PRICE_ANNUAL"); id != "" {
		table[id] = PlanAnnual
	}
	return table
}

// PlanFromPriceID resolves a Stripe price ID to a plan. The configured price
// table wins; unknown IDs fall back to substring matching with annual as the
// documented default.
func PlanFromPriceID(priceID string) string {
	if plan, ok := priceTable()[priceID]; ok {
		return plan
	}

	lower := strings.ToLower(priceID)
	switch {
	case strings.Contains(lower, "monthly"):
		return PlanMonthly
	case strings.Contains(lower, "annual"):
		return PlanAnnual
	default:
		return PlanAnnual
	}
}
