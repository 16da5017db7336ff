package subscriptions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlanFromPriceID_ConfiguredTable(t *testing.T) {
	t.Setenv("STRIPE_PRICE_MONTHLY", "price_1AbCd")
	t.Setenv("STRIPE_PRICE_ANNUAL", "price_2EfGh")

	assert.Equal(t, PlanMonthly, PlanFromPriceID("price_1AbCd"))
	assert.Equal(t, PlanAnnual, PlanFromPriceID("price_2EfGh"))
}

func TestPlanFromPriceID_Fallback(t *testing.T) {
	t.Setenv("STRIPE_PRICE_MONTHLY", "")
	t.Setenv("STRIPE_PRICE_ANNUAL", "")

	tests := []struct {
		priceID string
		want    string
	}{
		{"price_monthly_v2", PlanMonthly},
		{"price_annual_v2", PlanAnnual},
		{"price_MONTHLY", PlanMonthly},
		{"price_something_else", PlanAnnual}, // documented default
		{"", PlanAnnual},
	}

	for _, tt := range tests {
		t.Run(tt.priceID, func(t *testing.T) {
			assert.Equal(t, tt.want, PlanFromPriceID(tt.priceID))
		})
	}
}
