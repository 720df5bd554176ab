package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeInvoiceTotals(t *testing.T) {
	cases := []struct {
		name    string
		lines   []BillingLine
		taxRate float64
		want    InvoiceTotals
	}{
		{
			name:  "no lines",
			lines: nil,
			want:  InvoiceTotals{},
		},
		{
			name: "only taxable lines are taxed",
			lines: []BillingLine{
				{UnitPrice: 25, Quantity: 2, Taxable: true},
				{UnitPrice: 80, Quantity: 1},
			},
			taxRate: 8.25,
			want:    InvoiceTotals{Subtotal: 130, TaxAmount: 4.13, Total: 134.13},
		},
		{
			name:    "zero rate",
			lines:   []BillingLine{{UnitPrice: 19.99, Quantity: 3, Taxable: true}},
			taxRate: 0,
			want:    InvoiceTotals{Subtotal: 59.97, TaxAmount: 0, Total: 59.97},
		},
		{
			name:    "negative rate is ignored",
			lines:   []BillingLine{{UnitPrice: 10, Quantity: 1, Taxable: true}},
			taxRate: -5,
			want:    InvoiceTotals{Subtotal: 10, TaxAmount: 0, Total: 10},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeInvoiceTotals(tc.lines, tc.taxRate)
			assert.InDelta(t, tc.want.Subtotal, got.Subtotal, 0.001)
			assert.InDelta(t, tc.want.TaxAmount, got.TaxAmount, 0.001)
			assert.InDelta(t, tc.want.Total, got.Total, 0.001)
		})
	}
}

func TestQuoteTotals(t *testing.T) {
	lines := []BillingLine{{UnitPrice: 120, Quantity: 1}, {UnitPrice: 15, Quantity: 4}}

	got := QuoteTotals(lines, 10)
	assert.InDelta(t, 180, got.Subtotal, 0.001)
	assert.InDelta(t, 18, got.DiscountAmount, 0.001)
	assert.InDelta(t, 162, got.Total, 0.001)
	assert.False(t, got.NegativeDiscount)

	none := QuoteTotals(lines, 0)
	assert.InDelta(t, 180, none.Total, 0.001)
}
