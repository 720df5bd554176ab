package catalog

import (
	"testing"

	"poolcare_server/structs/tables"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fields(res ValidationResult) []string {
	out := make([]string, len(res.Errors))
	for i, e := range res.Errors {
		out[i] = e.Field
	}
	return out
}

func TestWithDefaults(t *testing.T) {
	a := uuid.New()
	form := BundleForm{
		Name:     "  Spring opening  ",
		Products: []Line{{ItemID: a, Quantity: 1}, {ItemID: a, Quantity: 2}},
	}.WithDefaults()

	assert.Equal(t, "Spring opening", form.Name)
	assert.Equal(t, tables.PricingItemized, form.PricingMode)
	assert.Equal(t, 0.0, *form.DiscountPercentage)
	assert.Equal(t, 0.0, *form.FlatPrice)
	assert.True(t, *form.IsActive)
	assert.False(t, *form.IsFeatured)
	require.Len(t, form.Products, 1)
	assert.Equal(t, 3, form.Products[0].Quantity)
	assert.NotNil(t, form.Services)
}

func TestValidate(t *testing.T) {
	item := []Line{{ItemID: uuid.New(), Quantity: 1}}
	dup := uuid.New()

	cases := []struct {
		name   string
		form   BundleForm
		fields []string
	}{
		{
			name: "valid itemized",
			form: BundleForm{Name: "Weekly care", Products: item, DiscountPercentage: price(10)},
		},
		{
			name: "valid flat rate",
			form: BundleForm{Name: "Weekly care", PricingMode: tables.PricingFlatRate, FlatPrice: price(40), Services: item},
		},
		{
			name:   "missing name",
			form:   BundleForm{Name: "   ", Products: item},
			fields: []string{"name"},
		},
		{
			name:   "empty bundle",
			form:   BundleForm{Name: "Empty"},
			fields: []string{"items"},
		},
		{
			name:   "flat rate needs a price",
			form:   BundleForm{Name: "Flat", PricingMode: tables.PricingFlatRate, Products: item},
			fields: []string{"flat_price"},
		},
		{
			name:   "discount above 100",
			form:   BundleForm{Name: "Big", Products: item, DiscountPercentage: price(120)},
			fields: []string{"discount_percentage"},
		},
		{
			name:   "unknown mode",
			form:   BundleForm{Name: "Odd", PricingMode: "tiered", Products: item},
			fields: []string{"pricing_mode"},
		},
		{
			name:   "zero quantity",
			form:   BundleForm{Name: "Zero", Services: []Line{{ItemID: uuid.New(), Quantity: 0}}},
			fields: []string{"services[0].quantity"},
		},
		{
			name: "negative quantity offset by a duplicate line",
			form: BundleForm{Name: "Opening kit", Products: []Line{
				{ItemID: dup, Quantity: -5},
				{ItemID: dup, Quantity: 6},
			}},
			fields: []string{"products[0].quantity"},
		},
		{
			name: "duplicates with positive quantities",
			form: BundleForm{Name: "Opening kit", Products: []Line{
				{ItemID: dup, Quantity: 2},
				{ItemID: dup, Quantity: 3},
			}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := tc.form.Validate()
			assert.Equal(t, len(tc.fields) == 0, res.OK)
			if len(tc.fields) == 0 {
				assert.Empty(t, res.Errors)
				return
			}
			assert.Equal(t, tc.fields, fields(res))
			assert.Contains(t, res.Error(), tc.fields[0])
		})
	}
}

func TestPricingFromForm(t *testing.T) {
	form := BundleForm{PricingMode: tables.PricingFlatRate, FlatPrice: price(40)}.WithDefaults()
	assert.Equal(t, BundlePricing{Mode: tables.PricingFlatRate, FlatPrice: 40}, form.Pricing())
}
