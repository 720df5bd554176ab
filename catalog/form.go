package catalog

import (
	"fmt"
	"strings"

	"poolcare_server/structs/tables"
)

// BundleForm is the editable state of a bundle. Pointer fields are optional in the
// request and filled in by WithDefaults.
type BundleForm struct {
	Name               string             `json:"name"`
	Description        string             `json:"description"`
	PricingMode        tables.PricingMode `json:"pricing_mode"`
	DiscountPercentage *float64           `json:"discount_percentage"`
	FlatPrice          *float64           `json:"flat_price"`
	IsActive           *bool              `json:"is_active"`
	IsFeatured         *bool              `json:"is_featured"`
	Products           []Line             `json:"products"`
	Services           []Line             `json:"services"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationResult struct {
	OK     bool         `json:"ok"`
	Errors []FieldError `json:"errors,omitempty"`
}

func (r *ValidationResult) add(field, msg string) {
	r.OK = false
	r.Errors = append(r.Errors, FieldError{Field: field, Message: msg})
}

func (r ValidationResult) Error() string {
	parts := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		parts[i] = e.Field + " " + e.Message
	}
	return "invalid bundle: " + strings.Join(parts, "; ")
}

func ptr[T any](v T) *T { return &v }

// WithDefaults returns a copy with every optional field set and duplicate lines merged.
func (f BundleForm) WithDefaults() BundleForm {
	out := f
	out.Name = strings.TrimSpace(f.Name)
	if out.PricingMode == "" {
		out.PricingMode = tables.PricingItemized
	}
	if out.DiscountPercentage == nil {
		out.DiscountPercentage = ptr(0.0)
	}
	if out.FlatPrice == nil {
		out.FlatPrice = ptr(0.0)
	}
	if out.IsActive == nil {
		out.IsActive = ptr(true)
	}
	if out.IsFeatured == nil {
		out.IsFeatured = ptr(false)
	}
	out.Products = mergeLines(f.Products)
	out.Services = mergeLines(f.Services)
	return out
}

func mergeLines(lines []Line) []Line {
	if len(lines) == 0 {
		return []Line{}
	}
	return NewLineItems(lines...).Lines()
}

// Pricing extracts the aggregator input. Call on a defaulted form.
func (f BundleForm) Pricing() BundlePricing {
	p := BundlePricing{Mode: f.PricingMode}
	if f.DiscountPercentage != nil {
		p.DiscountPercentage = *f.DiscountPercentage
	}
	if f.FlatPrice != nil {
		p.FlatPrice = *f.FlatPrice
	}
	return p
}

// Validate checks the form before anything is written. Quantities are checked
// per submitted line; the remaining rules apply to the defaulted form.
func (f BundleForm) Validate() ValidationResult {
	form := f.WithDefaults()
	res := ValidationResult{OK: true}

	if form.Name == "" {
		res.add("name", "is required")
	}

	switch form.PricingMode {
	case tables.PricingItemized:
		if d := *form.DiscountPercentage; d < 0 || d > 100 {
			res.add("discount_percentage", "must be between 0 and 100")
		}
	case tables.PricingFlatRate:
		if *form.FlatPrice <= 0 {
			res.add("flat_price", "must be greater than 0 for flat rate bundles")
		}
	default:
		res.add("pricing_mode", fmt.Sprintf("must be one of: %s %s", tables.PricingItemized, tables.PricingFlatRate))
	}

	if len(form.Products)+len(form.Services) == 0 {
		res.add("items", "bundle must contain at least one product or service")
	}

	// raw lines, so a negative quantity cannot hide inside a merged duplicate
	checkQuantities(&res, "products", f.Products)
	checkQuantities(&res, "services", f.Services)

	return res
}

func checkQuantities(res *ValidationResult, field string, lines []Line) {
	for i, l := range lines {
		if l.Quantity < 1 {
			res.add(fmt.Sprintf("%s[%d].quantity", field, i), "must be at least 1")
		}
	}
}
