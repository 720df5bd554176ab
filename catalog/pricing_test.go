package catalog

import (
	"testing"

	"poolcare_server/structs/tables"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func price(v float64) *float64 { return &v }

// one product at $20 x2 and one service at $15 x1
func sampleLines() []PricedLine {
	return []PricedLine{
		{ItemID: uuid.New(), ItemType: tables.ItemTypeProduct, UnitPrice: price(20), Quantity: 2},
		{ItemID: uuid.New(), ItemType: tables.ItemTypeService, UnitPrice: price(15), Quantity: 1},
	}
}

func TestComputeBundlePrice(t *testing.T) {
	cases := []struct {
		name     string
		pricing  BundlePricing
		lines    []PricedLine
		subtotal float64
		discount float64
		total    float64
		negative bool
	}{
		{
			name:     "itemized with ten percent",
			pricing:  BundlePricing{Mode: tables.PricingItemized, DiscountPercentage: 10},
			lines:    sampleLines(),
			subtotal: 55, discount: 5.5, total: 49.5,
		},
		{
			name:     "itemized without discount",
			pricing:  BundlePricing{Mode: tables.PricingItemized},
			lines:    sampleLines(),
			subtotal: 55, discount: 0, total: 55,
		},
		{
			name:     "negative percentage counts as zero",
			pricing:  BundlePricing{Mode: tables.PricingItemized, DiscountPercentage: -5},
			lines:    sampleLines(),
			subtotal: 55, discount: 0, total: 55,
		},
		{
			name:     "full discount",
			pricing:  BundlePricing{Mode: tables.PricingItemized, DiscountPercentage: 100},
			lines:    sampleLines(),
			subtotal: 55, discount: 55, total: 0,
		},
		{
			name:     "flat rate below subtotal",
			pricing:  BundlePricing{Mode: tables.PricingFlatRate, FlatPrice: 40},
			lines:    sampleLines(),
			subtotal: 55, discount: 15, total: 40,
		},
		{
			name:     "flat rate above subtotal gives negative discount",
			pricing:  BundlePricing{Mode: tables.PricingFlatRate, FlatPrice: 70},
			lines:    sampleLines(),
			subtotal: 55, discount: -15, total: 70, negative: true,
		},
		{
			name:     "flat rate on empty bundle",
			pricing:  BundlePricing{Mode: tables.PricingFlatRate, FlatPrice: 40},
			subtotal: 0, discount: 0, total: 40,
		},
		{
			name:    "unresolved price counts as zero",
			pricing: BundlePricing{Mode: tables.PricingItemized},
			lines: []PricedLine{
				{ItemID: uuid.New(), UnitPrice: nil, Quantity: 3},
				{ItemID: uuid.New(), UnitPrice: price(12.5), Quantity: 2},
			},
			subtotal: 25, discount: 0, total: 25,
		},
		{
			name:     "empty mode is itemized",
			pricing:  BundlePricing{DiscountPercentage: 20},
			lines:    sampleLines(),
			subtotal: 55, discount: 11, total: 44,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeBundlePrice(tc.pricing, tc.lines)
			assert.InDelta(t, tc.subtotal, got.Subtotal, 1e-9)
			assert.InDelta(t, tc.discount, got.DiscountAmount, 1e-9)
			assert.InDelta(t, tc.total, got.Total, 1e-9)
			assert.Equal(t, tc.negative, got.NegativeDiscount)
		})
	}
}

func TestFlatRateTotalIgnoresLines(t *testing.T) {
	pricing := BundlePricing{Mode: tables.PricingFlatRate, FlatPrice: 99.99}

	for _, lines := range [][]PricedLine{nil, sampleLines(), {{UnitPrice: price(1000), Quantity: 7}}} {
		assert.Equal(t, 99.99, ComputeBundlePrice(pricing, lines).Total)
	}
}

func TestRounded(t *testing.T) {
	got := ComputeBundlePrice(
		BundlePricing{Mode: tables.PricingItemized, DiscountPercentage: 10},
		[]PricedLine{{UnitPrice: price(19.99), Quantity: 3}},
	).Rounded()

	assert.Equal(t, 59.97, got.Subtotal)
	assert.Equal(t, 6.0, got.DiscountAmount)
	assert.Equal(t, 53.97, got.Total)
}

func TestRoundCents(t *testing.T) {
	assert.Equal(t, 5.5, RoundCents(5.500000000001))
	assert.Equal(t, 0.01, RoundCents(0.005))
	assert.Equal(t, -15.0, RoundCents(-15.0000001))
}
