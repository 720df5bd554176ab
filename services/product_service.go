package services

import (
	"context"
	"errors"
	"fmt"
	"poolcare_server/database"
	"poolcare_server/lib"
	"poolcare_server/structs"
	"poolcare_server/structs/tables"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

// ErrProductInBundle is returned when deleting a product a bundle still uses.
var ErrProductInBundle = fmt.Errorf("product is part of a bundle: %w", lib.ErrInUse)

type ProductService struct {
	logger      *gecho.Logger
	cfg         *structs.Config
	db          *database.DB
	cache       *CacheService
	categories  *CategoryService
	attachments *AttachmentService
}

func NewProductService(logger *gecho.Logger, cfg *structs.Config, db *database.DB, cache *CacheService, categories *CategoryService, attachments *AttachmentService) *ProductService {
	return &ProductService{
		logger:      logger,
		cfg:         cfg,
		db:          db,
		cache:       cache,
		categories:  categories,
		attachments: attachments,
	}
}

// List returns one page of products with their category. Admin listings see
// every product; public listings only active ones and are cached.
func (ps *ProductService) List(ctx context.Context, opts *CatalogListOptions, public bool) (*database.PaginationResult[tables.Product], error) {
	if opts == nil {
		opts = &CatalogListOptions{}
	}
	if public {
		active := true
		opts.IsActive = &active
	}
	if err := opts.normalize(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}

	load := func() (*database.PaginationResult[tables.Product], error) {
		return ps.list(ctx, opts)
	}
	if !public {
		return load()
	}
	key := catalogListKey("products", opts.cacheKey())
	return cached(ps.cache, key, ps.cache.ttl(ps.cfg.Cache.CatalogListTTL, 5*time.Minute), load)
}

func (ps *ProductService) list(ctx context.Context, opts *CatalogListOptions) (*database.PaginationResult[tables.Product], error) {
	startTime := time.Now()

	categoryIDs, err := listCategoryIDs(ctx, ps.categories, opts)
	if err != nil {
		return nil, err
	}

	query := database.Query[tables.Product](ps.db).Relation("Category")
	query = applyCatalogFilters(query, "p", opts, categoryIDs, "name", "description", "sku")

	result, err := database.Paginate(ctx, query, opts.Page, opts.PageSize)
	if err != nil {
		ps.logger.Error("Failed to fetch products",
			gecho.Field("error", err),
			gecho.Field("page", opts.Page),
			gecho.Field("pageSize", opts.PageSize),
			gecho.Field("duration", time.Since(startTime)))
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	if opts.IncludeAttachments {
		if err := ps.attach(ctx, result.Data); err != nil {
			return nil, err
		}
	}

	ps.logger.Debug("Products fetched successfully",
		gecho.Field("count", len(result.Data)),
		gecho.Field("total", result.Pagination.Total),
		gecho.Field("duration", time.Since(startTime)),
	)
	return result, nil
}

func (ps *ProductService) attach(ctx context.Context, products []tables.Product) error {
	ids := make([]uuid.UUID, len(products))
	for i, p := range products {
		ids[i] = p.Id
	}
	byItem, err := ps.attachments.ListFor(ctx, tables.ItemTypeProduct, ids)
	if err != nil {
		return err
	}
	for i := range products {
		products[i].Attachments = byItem[products[i].Id]
	}
	return nil
}

// Get returns a product with its category and attachments. With activeOnly an
// inactive product is reported as not found.
func (ps *ProductService) Get(ctx context.Context, id uuid.UUID, activeOnly bool) (*tables.Product, error) {
	query := database.Query[tables.Product](ps.db).Relation("Category").Where("p.id", id)
	if activeOnly {
		query = query.Where("p.is_active", true)
	}

	product, err := query.First(ctx)
	if err != nil {
		ps.logger.Error("Failed to fetch product", gecho.Field("error", err), gecho.Field("id", id))
		return nil, err
	}
	if product == nil {
		return nil, lib.ErrNotFound
	}

	product.Attachments, err = ps.attachments.List(ctx, tables.ItemTypeProduct, id)
	if err != nil {
		return nil, err
	}
	return product, nil
}

// FindByIDs returns the products with the given ids, in no particular order.
func (ps *ProductService) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]tables.Product, error) {
	if len(ids) == 0 {
		return []tables.Product{}, nil
	}
	return database.FindByIDs[tables.Product](ctx, ps.db, ids)
}

func (ps *ProductService) Create(ctx context.Context, req *structs.CatalogItemRequest) (*tables.Product, error) {
	if err := checkCategory(ctx, ps.db, req.CategoryId); err != nil {
		return nil, err
	}

	sku := strings.ToUpper(strings.TrimSpace(req.SKU))
	if sku == "" {
		var err error
		if sku, err = lib.GenerateSKU(req.Name, 6); err != nil {
			return nil, err
		}
	}

	product, err := database.Create(ctx, ps.db, &tables.Product{
		Name:        strings.TrimSpace(req.Name),
		SKU:         sku,
		Description: strings.TrimSpace(req.Description),
		Price:       *req.Price,
		CategoryId:  req.CategoryId,
		IsActive:    boolOr(req.IsActive, true),
		IsFeatured:  boolOr(req.IsFeatured, false),
		IsTaxable:   boolOr(req.IsTaxable, true),
	})
	if err != nil {
		ps.logger.Error("Failed to create product", gecho.Field("error", err), gecho.Field("name", req.Name))
		return nil, lib.MapPgError(err)
	}

	ps.invalidate()
	return product, nil
}

func (ps *ProductService) Update(ctx context.Context, id uuid.UUID, patch *structs.CatalogItemPatch) (*tables.Product, error) {
	if !patch.ClearCategory {
		if err := checkCategory(ctx, ps.db, patch.CategoryId); err != nil {
			return nil, err
		}
	}

	updates := itemPatch(patch, tables.ItemTypeProduct)
	if len(updates) == 0 {
		return ps.Get(ctx, id, false)
	}

	product, err := database.UpdateByID[tables.Product](ctx, ps.db, id, updates)
	if err != nil {
		ps.logger.Error("Failed to update product", gecho.Field("error", err), gecho.Field("id", id))
		return nil, lib.MapPgError(err)
	}
	if product == nil {
		return nil, lib.ErrNotFound
	}

	ps.invalidate()
	return product, nil
}

// Toggle flips one of the boolean flags without touching anything else.
func (ps *ProductService) Toggle(ctx context.Context, id uuid.UUID, req *structs.ToggleRequest) (*tables.Product, error) {
	product, err := database.UpdateByID[tables.Product](ctx, ps.db, id, map[string]any{req.Field: req.Value})
	if err != nil {
		ps.logger.Error("Failed to toggle product flag", gecho.Field("error", err), gecho.Field("id", id), gecho.Field("field", req.Field))
		return nil, err
	}
	if product == nil {
		return nil, lib.ErrNotFound
	}

	ps.invalidate()
	return product, nil
}

// Delete removes a product and its attachments. Products referenced by a
// bundle cannot be deleted.
func (ps *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := database.DeleteByID[tables.Product](ctx, ps.db, id)
	if err != nil {
		if errors.Is(lib.MapPgError(err), lib.ErrInUse) {
			return ErrProductInBundle
		}
		ps.logger.Error("Failed to delete product", gecho.Field("error", err), gecho.Field("id", id))
		return err
	}
	if n == 0 {
		return lib.ErrNotFound
	}

	if err := ps.attachments.DeleteForItem(ctx, tables.ItemTypeProduct, id); err != nil {
		ps.logger.Warn("Product deleted but attachments remain", gecho.Field("error", err), gecho.Field("id", id))
	}
	ps.invalidate()
	return nil
}

// bundles show product names and prices, so their listings go too
func (ps *ProductService) invalidate() {
	for _, kind := range []string{"products", "bundles"} {
		if err := ps.cache.InvalidateCatalog(kind); err != nil {
			ps.logger.Warn("Failed to invalidate catalog cache", gecho.Field("kind", kind), gecho.Field("error", err))
		}
	}
}
