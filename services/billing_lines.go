package services

import (
	"context"
	"fmt"
	"poolcare_server/catalog"
	"poolcare_server/lib"
	"poolcare_server/structs"
	"poolcare_server/structs/tables"
	"strings"

	"github.com/google/uuid"
)

// billedLine is a BillableLine with its price, description and tax flag
// settled.
type billedLine struct {
	ItemType    tables.ItemType
	ItemId      *uuid.UUID
	Description string
	Quantity    int
	UnitPrice   float64
	Taxable     bool
}

func (l billedLine) billing() catalog.BillingLine {
	return catalog.BillingLine{UnitPrice: l.UnitPrice, Quantity: l.Quantity, Taxable: l.Taxable}
}

func billingLines(lines []billedLine) []catalog.BillingLine {
	out := make([]catalog.BillingLine, len(lines))
	for i, l := range lines {
		out[i] = l.billing()
	}
	return out
}

// lineResolver fills in invoice and quote lines from the catalog.
type lineResolver struct {
	products  *ProductService
	offerings *OfferingService
	bundles   *BundleService
}

type catalogEntry struct {
	name    string
	price   float64
	taxable bool
}

func (r *lineResolver) lookup(ctx context.Context, itemType tables.ItemType, id uuid.UUID) (*catalogEntry, error) {
	switch itemType {
	case tables.ItemTypeProduct:
		p, err := r.products.Get(ctx, id, false)
		if err != nil {
			return nil, err
		}
		return &catalogEntry{name: p.Name, price: p.Price, taxable: p.IsTaxable}, nil
	case tables.ItemTypeService:
		s, err := r.offerings.Get(ctx, id, false)
		if err != nil {
			return nil, err
		}
		return &catalogEntry{name: s.Name, price: s.Price, taxable: s.IsTaxable}, nil
	case tables.ItemTypeBundle:
		b, err := r.bundles.Get(ctx, id, false)
		if err != nil {
			return nil, err
		}
		return &catalogEntry{name: b.Name, price: b.Totals.Total}, nil
	}
	return nil, fmt.Errorf("unknown item type %q", itemType)
}

// resolve settles every line. Explicit values on a line win over the
// catalog; a line without an item must carry its own description and price.
func (r *lineResolver) resolve(ctx context.Context, lines []structs.BillableLine) ([]billedLine, error) {
	out := make([]billedLine, 0, len(lines))
	verr := &lib.ValidationError{}

	for i, l := range lines {
		bl := billedLine{
			ItemType:    l.ItemType,
			ItemId:      l.ItemId,
			Description: strings.TrimSpace(l.Description),
			Quantity:    l.Quantity,
		}
		if bl.Quantity < 1 {
			bl.Quantity = 1
		}

		if l.ItemId != nil {
			if !l.ItemType.Valid() {
				verr.Errors = append(verr.Errors, lib.FieldError{Field: fmt.Sprintf("lines[%d].item_type", i), Message: "is required with item_id"})
				continue
			}
			entry, err := r.lookup(ctx, l.ItemType, *l.ItemId)
			if lib.IsNotFound(err) {
				verr.Errors = append(verr.Errors, lib.FieldError{Field: fmt.Sprintf("lines[%d].item_id", i), Message: "does not exist"})
				continue
			}
			if err != nil {
				return nil, err
			}
			if bl.Description == "" {
				bl.Description = entry.name
			}
			bl.UnitPrice = entry.price
			bl.Taxable = entry.taxable
		} else {
			if bl.Description == "" {
				verr.Errors = append(verr.Errors, lib.FieldError{Field: fmt.Sprintf("lines[%d].description", i), Message: "is required for custom lines"})
			}
			if l.UnitPrice == nil {
				verr.Errors = append(verr.Errors, lib.FieldError{Field: fmt.Sprintf("lines[%d].unit_price", i), Message: "is required for custom lines"})
			}
		}

		if l.UnitPrice != nil {
			bl.UnitPrice = *l.UnitPrice
		}
		if l.Taxable != nil {
			bl.Taxable = *l.Taxable
		}
		out = append(out, bl)
	}

	if len(verr.Errors) > 0 {
		return nil, verr
	}
	return out, nil
}
