package catalog

import "poolcare_server/structs/tables"

// BillingLine is one line of an invoice or quote.
type BillingLine struct {
	UnitPrice float64
	Quantity  int
	Taxable   bool
}

func (l BillingLine) Total() float64 {
	return RoundCents(l.UnitPrice * float64(l.Quantity))
}

type InvoiceTotals struct {
	Subtotal  float64 `json:"subtotal"`
	TaxAmount float64 `json:"tax_amount"`
	Total     float64 `json:"total"`
}

// ComputeInvoiceTotals sums rounded line totals and taxes the taxable ones at
// taxRate percent. Tax is rounded once, on the taxable sum.
func ComputeInvoiceTotals(lines []BillingLine, taxRate float64) InvoiceTotals {
	var subtotal, taxable float64
	for _, l := range lines {
		t := l.Total()
		subtotal += t
		if l.Taxable {
			taxable += t
		}
	}
	if taxRate < 0 {
		taxRate = 0
	}

	subtotal = RoundCents(subtotal)
	tax := RoundCents(taxable * taxRate / 100)
	return InvoiceTotals{
		Subtotal:  subtotal,
		TaxAmount: tax,
		Total:     RoundCents(subtotal + tax),
	}
}

// QuoteTotals prices quote lines with the itemized bundle rule, so a quote
// discount behaves exactly like a bundle discount.
func QuoteTotals(lines []BillingLine, discountPercentage float64) Totals {
	priced := make([]PricedLine, len(lines))
	for i, l := range lines {
		price := l.UnitPrice
		priced[i] = PricedLine{UnitPrice: &price, Quantity: l.Quantity}
	}
	return ComputeBundlePrice(BundlePricing{Mode: tables.PricingItemized, DiscountPercentage: discountPercentage}, priced).Rounded()
}
