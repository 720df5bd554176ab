package services

import (
	"context"
	"fmt"
	"poolcare_server/catalog"
	"poolcare_server/database"
	"poolcare_server/lib"
	"poolcare_server/structs"
	"poolcare_server/structs/tables"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BundleView is a bundle with its lines and totals computed from current
// catalog prices.
type BundleView struct {
	tables.Bundle
	Totals      catalog.Totals      `json:"totals"`
	Attachments []tables.Attachment `json:"attachments,omitempty"`
}

// BundlePreview answers the editor while a bundle is being composed.
type BundlePreview struct {
	Totals     catalog.Totals           `json:"totals"`
	Validation catalog.ValidationResult `json:"validation"`
}

type BundleService struct {
	logger      *gecho.Logger
	cfg         *structs.Config
	db          *database.DB
	cache       *CacheService
	products    *ProductService
	offerings   *OfferingService
	attachments *AttachmentService
}

func NewBundleService(logger *gecho.Logger, cfg *structs.Config, db *database.DB, cache *CacheService, products *ProductService, offerings *OfferingService, attachments *AttachmentService) *BundleService {
	return &BundleService{
		logger:      logger,
		cfg:         cfg,
		db:          db,
		cache:       cache,
		products:    products,
		offerings:   offerings,
		attachments: attachments,
	}
}

func bySortOrder(q *bun.SelectQuery) *bun.SelectQuery {
	return q.OrderExpr("?TableAlias.sort_order ASC")
}

func (bs *BundleService) query(db bun.IDB) *database.QueryBuilder[tables.Bundle] {
	return database.Query[tables.Bundle](db).
		Relation("Products", bySortOrder).
		Relation("Products.Product").
		Relation("Services", bySortOrder).
		Relation("Services.Service")
}

// bundleLines prices a loaded bundle. A line whose item failed to load keeps a
// nil price and counts as 0.
func bundleLines(b *tables.Bundle) []catalog.PricedLine {
	lines := make([]catalog.PricedLine, 0, len(b.Products)+len(b.Services))
	for _, l := range b.Products {
		pl := catalog.PricedLine{ItemID: l.ProductId, ItemType: tables.ItemTypeProduct, Quantity: l.Quantity}
		if l.Product != nil {
			pl.UnitPrice = &l.Product.Price
		}
		lines = append(lines, pl)
	}
	for _, l := range b.Services {
		pl := catalog.PricedLine{ItemID: l.ServiceId, ItemType: tables.ItemTypeService, Quantity: l.Quantity}
		if l.Service != nil {
			pl.UnitPrice = &l.Service.Price
		}
		lines = append(lines, pl)
	}
	return lines
}

func viewOf(b tables.Bundle) BundleView {
	pricing := catalog.BundlePricing{Mode: b.PricingMode, DiscountPercentage: b.DiscountPercentage, FlatPrice: b.FlatPrice}
	return BundleView{Bundle: b, Totals: catalog.ComputeBundlePrice(pricing, bundleLines(&b)).Rounded()}
}

// List returns bundles with their lines and totals. Public listings only show
// active bundles and are cached.
func (bs *BundleService) List(ctx context.Context, page, pageSize int, search string, public bool) (*database.PaginationResult[BundleView], error) {
	page, pageSize = database.NormalizePage(page, pageSize)

	load := func() (*database.PaginationResult[BundleView], error) {
		query := bs.query(bs.db).
			Search(search, "b.name", "b.description").
			OrderBy("b.name", database.ASC).
			OrderBy("b.id", database.ASC)
		if public {
			query = query.Where("b.is_active", true)
		}

		result, err := database.Paginate(ctx, query, page, pageSize)
		if err != nil {
			bs.logger.Error("Failed to fetch bundles", gecho.Field("error", err), gecho.Field("page", page))
			return nil, fmt.Errorf("failed to fetch bundles: %w", err)
		}

		views := make([]BundleView, len(result.Data))
		for i, b := range result.Data {
			views[i] = viewOf(b)
		}
		return &database.PaginationResult[BundleView]{Data: views, Pagination: result.Pagination}, nil
	}

	if !public {
		return load()
	}
	key := catalogListKey("bundles", page, pageSize, search)
	return cached(bs.cache, key, bs.cache.ttl(bs.cfg.Cache.CatalogListTTL, 5*time.Minute), load)
}

func (bs *BundleService) Get(ctx context.Context, id uuid.UUID, activeOnly bool) (*BundleView, error) {
	query := bs.query(bs.db).Where("b.id", id)
	if activeOnly {
		query = query.Where("b.is_active", true)
	}

	bundle, err := query.First(ctx)
	if err != nil {
		bs.logger.Error("Failed to fetch bundle", gecho.Field("error", err), gecho.Field("id", id))
		return nil, err
	}
	if bundle == nil {
		return nil, lib.ErrNotFound
	}

	view := viewOf(*bundle)
	view.Attachments, err = bs.attachments.List(ctx, tables.ItemTypeBundle, id)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// price resolves the form's lines against current catalog prices and reports
// lines whose item does not exist.
func (bs *BundleService) price(ctx context.Context, form catalog.BundleForm) ([]catalog.PricedLine, []catalog.FieldError, error) {
	productIDs := make([]uuid.UUID, len(form.Products))
	for i, l := range form.Products {
		productIDs[i] = l.ItemID
	}
	serviceIDs := make([]uuid.UUID, len(form.Services))
	for i, l := range form.Services {
		serviceIDs[i] = l.ItemID
	}

	products, err := bs.products.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, nil, err
	}
	services, err := bs.offerings.FindByIDs(ctx, serviceIDs)
	if err != nil {
		return nil, nil, err
	}

	prices := make(map[uuid.UUID]float64, len(products)+len(services))
	for _, p := range products {
		prices[p.Id] = p.Price
	}
	for _, s := range services {
		prices[s.Id] = s.Price
	}

	var (
		lines   []catalog.PricedLine
		missing []catalog.FieldError
	)
	resolve := func(field string, itemType tables.ItemType, formLines []catalog.Line) {
		for i, l := range formLines {
			pl := catalog.PricedLine{ItemID: l.ItemID, ItemType: itemType, Quantity: l.Quantity}
			if price, ok := prices[l.ItemID]; ok {
				pl.UnitPrice = &price
			} else {
				missing = append(missing, catalog.FieldError{Field: fmt.Sprintf("%s[%d].item_id", field, i), Message: "does not exist"})
			}
			lines = append(lines, pl)
		}
	}
	resolve("products", tables.ItemTypeProduct, form.Products)
	resolve("services", tables.ItemTypeService, form.Services)

	return lines, missing, nil
}

// Preview validates the form and prices it without writing anything.
func (bs *BundleService) Preview(ctx context.Context, form catalog.BundleForm) (*BundlePreview, error) {
	res := form.Validate()
	form = form.WithDefaults()

	lines, missing, err := bs.price(ctx, form)
	if err != nil {
		bs.logger.Error("Failed to price bundle preview", gecho.Field("error", err))
		return nil, err
	}
	if len(missing) > 0 {
		res.OK = false
		res.Errors = append(res.Errors, missing...)
	}

	return &BundlePreview{
		Totals:     catalog.ComputeBundlePrice(form.Pricing(), lines).Rounded(),
		Validation: res,
	}, nil
}

// Save creates the bundle when id is nil and replaces it otherwise. The header
// and all lines are written in one transaction. An invalid form is returned as
// a catalog.ValidationResult error before anything is written.
func (bs *BundleService) Save(ctx context.Context, id *uuid.UUID, form catalog.BundleForm) (*BundleView, error) {
	res := form.Validate()
	form = form.WithDefaults()

	_, missing, err := bs.price(ctx, form)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		res.OK = false
		res.Errors = append(res.Errors, missing...)
	}
	if !res.OK {
		return nil, res
	}

	header := &tables.Bundle{
		Name:               form.Name,
		Description:        form.Description,
		PricingMode:        form.PricingMode,
		DiscountPercentage: *form.DiscountPercentage,
		FlatPrice:          *form.FlatPrice,
		IsActive:           *form.IsActive,
		IsFeatured:         *form.IsFeatured,
	}

	var bundleID uuid.UUID
	err = bs.db.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		if id == nil {
			created, err := database.Create(ctx, tx, header)
			if err != nil {
				return err
			}
			bundleID = created.Id
		} else {
			updated, err := database.UpdateByID[tables.Bundle](ctx, tx, *id, map[string]any{
				"name":                header.Name,
				"description":         header.Description,
				"pricing_mode":        header.PricingMode,
				"discount_percentage": header.DiscountPercentage,
				"flat_price":          header.FlatPrice,
				"is_active":           header.IsActive,
				"is_featured":         header.IsFeatured,
			})
			if err != nil {
				return err
			}
			if updated == nil {
				return lib.ErrNotFound
			}
			bundleID = *id

			if _, err := database.Query[tables.BundleProduct](tx).Where("bundle_id", bundleID).Delete(ctx); err != nil {
				return err
			}
			if _, err := database.Query[tables.BundleService](tx).Where("bundle_id", bundleID).Delete(ctx); err != nil {
				return err
			}
		}

		products := make([]tables.BundleProduct, len(form.Products))
		for i, l := range form.Products {
			products[i] = tables.BundleProduct{BundleId: bundleID, ProductId: l.ItemID, Quantity: l.Quantity, SortOrder: i}
		}
		if _, err := database.Query[tables.BundleProduct](tx).InsertMany(ctx, products); err != nil {
			return err
		}

		services := make([]tables.BundleService, len(form.Services))
		for i, l := range form.Services {
			services[i] = tables.BundleService{BundleId: bundleID, ServiceId: l.ItemID, Quantity: l.Quantity, SortOrder: i}
		}
		_, err := database.Query[tables.BundleService](tx).InsertMany(ctx, services)
		return err
	})
	if err != nil {
		if lib.IsNotFound(err) {
			return nil, err
		}
		bs.logger.Error("Failed to save bundle", gecho.Field("error", err), gecho.Field("name", form.Name))
		return nil, lib.MapPgError(err)
	}

	bs.invalidate()
	return bs.Get(ctx, bundleID, false)
}

// Toggle flips is_active or is_featured.
func (bs *BundleService) Toggle(ctx context.Context, id uuid.UUID, req *structs.ToggleRequest) (*BundleView, error) {
	if req.Field == "is_taxable" {
		return nil, fmt.Errorf("bundles have no %s flag", req.Field)
	}
	updated, err := database.UpdateByID[tables.Bundle](ctx, bs.db, id, map[string]any{req.Field: req.Value})
	if err != nil {
		bs.logger.Error("Failed to toggle bundle flag", gecho.Field("error", err), gecho.Field("id", id))
		return nil, err
	}
	if updated == nil {
		return nil, lib.ErrNotFound
	}

	bs.invalidate()
	return bs.Get(ctx, id, false)
}

// Delete removes a bundle; its lines go with it.
func (bs *BundleService) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := database.DeleteByID[tables.Bundle](ctx, bs.db, id)
	if err != nil {
		bs.logger.Error("Failed to delete bundle", gecho.Field("error", err), gecho.Field("id", id))
		return lib.MapPgError(err)
	}
	if n == 0 {
		return lib.ErrNotFound
	}

	if err := bs.attachments.DeleteForItem(ctx, tables.ItemTypeBundle, id); err != nil {
		bs.logger.Warn("Bundle deleted but attachments remain", gecho.Field("error", err), gecho.Field("id", id))
	}
	bs.invalidate()
	return nil
}

func (bs *BundleService) invalidate() {
	if err := bs.cache.InvalidateCatalog("bundles"); err != nil {
		bs.logger.Warn("Failed to invalidate bundle cache", gecho.Field("error", err))
	}
}
