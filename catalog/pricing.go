package catalog

import (
	"poolcare_server/structs/tables"

	"github.com/google/uuid"
)

type BundlePricing struct {
	Mode               tables.PricingMode
	DiscountPercentage float64
	FlatPrice          float64
}

// PricedLine is a bundle line resolved against the current catalog price.
// A nil UnitPrice means the item could not be resolved and counts as 0.
type PricedLine struct {
	ItemID    uuid.UUID
	ItemType  tables.ItemType
	UnitPrice *float64
	Quantity  int
}

type Totals struct {
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discount_amount"`
	Total          float64 `json:"total"`
	// Set when a flat price exceeds the itemized subtotal.
	NegativeDiscount bool `json:"negative_discount"`
}

// Rounded returns the totals rounded to cents for display and storage.
func (t Totals) Rounded() Totals {
	return Totals{
		Subtotal:         RoundCents(t.Subtotal),
		DiscountAmount:   RoundCents(t.DiscountAmount),
		Total:            RoundCents(t.Total),
		NegativeDiscount: t.NegativeDiscount,
	}
}

func Subtotal(lines []PricedLine) float64 {
	var sum float64
	for _, l := range lines {
		if l.UnitPrice == nil {
			continue
		}
		sum += *l.UnitPrice * float64(l.Quantity)
	}
	return sum
}

// ComputeBundlePrice always recomputes from scratch. It never fails: checking that
// the bundle is sellable is BundleForm.Validate's job.
func ComputeBundlePrice(p BundlePricing, lines []PricedLine) Totals {
	subtotal := Subtotal(lines)

	if p.Mode == tables.PricingFlatRate {
		flat := p.FlatPrice
		var discount float64
		if subtotal > 0 {
			discount = subtotal - flat
		}
		return Totals{
			Subtotal:         subtotal,
			DiscountAmount:   discount,
			Total:            flat,
			NegativeDiscount: discount < 0,
		}
	}

	pct := p.DiscountPercentage
	if pct <= 0 {
		pct = 0
	}
	discount := subtotal * (pct / 100)

	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		Total:          subtotal - discount,
	}
}
