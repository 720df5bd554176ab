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

var ErrServiceInBundle = fmt.Errorf("service is part of a bundle: %w", lib.ErrInUse)

const defaultServiceDuration = 60

// OfferingService manages the services the business sells. It is not called
// ServiceService for obvious reasons.
type OfferingService struct {
	logger      *gecho.Logger
	cfg         *structs.Config
	db          *database.DB
	cache       *CacheService
	categories  *CategoryService
	attachments *AttachmentService
}

func NewOfferingService(logger *gecho.Logger, cfg *structs.Config, db *database.DB, cache *CacheService, categories *CategoryService, attachments *AttachmentService) *OfferingService {
	return &OfferingService{
		logger:      logger,
		cfg:         cfg,
		db:          db,
		cache:       cache,
		categories:  categories,
		attachments: attachments,
	}
}

// List mirrors ProductService.List.
func (ofs *OfferingService) List(ctx context.Context, opts *CatalogListOptions, public bool) (*database.PaginationResult[tables.Service], error) {
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

	load := func() (*database.PaginationResult[tables.Service], error) {
		startTime := time.Now()

		categoryIDs, err := listCategoryIDs(ctx, ofs.categories, opts)
		if err != nil {
			return nil, err
		}

		query := database.Query[tables.Service](ofs.db).Relation("Category")
		query = applyCatalogFilters(query, "s", opts, categoryIDs, "name", "description")

		result, err := database.Paginate(ctx, query, opts.Page, opts.PageSize)
		if err != nil {
			ofs.logger.Error("Failed to fetch services",
				gecho.Field("error", err),
				gecho.Field("page", opts.Page),
				gecho.Field("duration", time.Since(startTime)))
			return nil, fmt.Errorf("failed to fetch services: %w", err)
		}

		if opts.IncludeAttachments {
			ids := make([]uuid.UUID, len(result.Data))
			for i, s := range result.Data {
				ids[i] = s.Id
			}
			byItem, err := ofs.attachments.ListFor(ctx, tables.ItemTypeService, ids)
			if err != nil {
				return nil, err
			}
			for i := range result.Data {
				result.Data[i].Attachments = byItem[result.Data[i].Id]
			}
		}
		return result, nil
	}

	if !public {
		return load()
	}
	key := catalogListKey("services", opts.cacheKey())
	return cached(ofs.cache, key, ofs.cache.ttl(ofs.cfg.Cache.CatalogListTTL, 5*time.Minute), load)
}

func (ofs *OfferingService) Get(ctx context.Context, id uuid.UUID, activeOnly bool) (*tables.Service, error) {
	query := database.Query[tables.Service](ofs.db).Relation("Category").Where("s.id", id)
	if activeOnly {
		query = query.Where("s.is_active", true)
	}

	service, err := query.First(ctx)
	if err != nil {
		ofs.logger.Error("Failed to fetch service", gecho.Field("error", err), gecho.Field("id", id))
		return nil, err
	}
	if service == nil {
		return nil, lib.ErrNotFound
	}

	service.Attachments, err = ofs.attachments.List(ctx, tables.ItemTypeService, id)
	if err != nil {
		return nil, err
	}
	return service, nil
}

func (ofs *OfferingService) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]tables.Service, error) {
	if len(ids) == 0 {
		return []tables.Service{}, nil
	}
	return database.FindByIDs[tables.Service](ctx, ofs.db, ids)
}

func (ofs *OfferingService) Create(ctx context.Context, req *structs.CatalogItemRequest) (*tables.Service, error) {
	if err := checkCategory(ctx, ofs.db, req.CategoryId); err != nil {
		return nil, err
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = defaultServiceDuration
	}

	service, err := database.Create(ctx, ofs.db, &tables.Service{
		Name:            strings.TrimSpace(req.Name),
		Description:     strings.TrimSpace(req.Description),
		Price:           *req.Price,
		DurationMinutes: duration,
		CategoryId:      req.CategoryId,
		IsActive:        boolOr(req.IsActive, true),
		IsFeatured:      boolOr(req.IsFeatured, false),
		IsTaxable:       boolOr(req.IsTaxable, false),
	})
	if err != nil {
		ofs.logger.Error("Failed to create service", gecho.Field("error", err), gecho.Field("name", req.Name))
		return nil, lib.MapPgError(err)
	}

	ofs.invalidate()
	return service, nil
}

func (ofs *OfferingService) Update(ctx context.Context, id uuid.UUID, patch *structs.CatalogItemPatch) (*tables.Service, error) {
	if !patch.ClearCategory {
		if err := checkCategory(ctx, ofs.db, patch.CategoryId); err != nil {
			return nil, err
		}
	}

	updates := itemPatch(patch, tables.ItemTypeService)
	if len(updates) == 0 {
		return ofs.Get(ctx, id, false)
	}

	service, err := database.UpdateByID[tables.Service](ctx, ofs.db, id, updates)
	if err != nil {
		ofs.logger.Error("Failed to update service", gecho.Field("error", err), gecho.Field("id", id))
		return nil, lib.MapPgError(err)
	}
	if service == nil {
		return nil, lib.ErrNotFound
	}

	ofs.invalidate()
	return service, nil
}

func (ofs *OfferingService) Toggle(ctx context.Context, id uuid.UUID, req *structs.ToggleRequest) (*tables.Service, error) {
	service, err := database.UpdateByID[tables.Service](ctx, ofs.db, id, map[string]any{req.Field: req.Value})
	if err != nil {
		ofs.logger.Error("Failed to toggle service flag", gecho.Field("error", err), gecho.Field("id", id), gecho.Field("field", req.Field))
		return nil, err
	}
	if service == nil {
		return nil, lib.ErrNotFound
	}

	ofs.invalidate()
	return service, nil
}

// Delete removes a service unless a bundle includes it. Schedules and jobs
// that referenced it keep their history with the link cleared.
func (ofs *OfferingService) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := database.DeleteByID[tables.Service](ctx, ofs.db, id)
	if err != nil {
		if errors.Is(lib.MapPgError(err), lib.ErrInUse) {
			return ErrServiceInBundle
		}
		ofs.logger.Error("Failed to delete service", gecho.Field("error", err), gecho.Field("id", id))
		return err
	}
	if n == 0 {
		return lib.ErrNotFound
	}

	if err := ofs.attachments.DeleteForItem(ctx, tables.ItemTypeService, id); err != nil {
		ofs.logger.Warn("Service deleted but attachments remain", gecho.Field("error", err), gecho.Field("id", id))
	}
	ofs.invalidate()
	return nil
}

func (ofs *OfferingService) invalidate() {
	for _, kind := range []string{"services", "bundles"} {
		if err := ofs.cache.InvalidateCatalog(kind); err != nil {
			ofs.logger.Warn("Failed to invalidate catalog cache", gecho.Field("kind", kind), gecho.Field("error", err))
		}
	}
}
