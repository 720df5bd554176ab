package services

import (
	"context"
	"errors"
	"fmt"
	"poolcare_server/catalog"
	"poolcare_server/database"
	"poolcare_server/lib"
	"poolcare_server/structs"
	"poolcare_server/structs/tables"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

// CategoryListing is the cached shape of the whole category forest.
type CategoryListing struct {
	Categories []tables.Category      `json:"categories"`
	Tree       []*catalog.TreeNode    `json:"tree"`
	Options    []catalog.FlatCategory `json:"options"`
}

// CategoryDetail is a single category plus what the editor needs to know.
type CategoryDetail struct {
	tables.Category
	HasChildren bool `json:"has_children"`
	Deletable   bool `json:"deletable"`
}

type CategoryService struct {
	logger *gecho.Logger
	cfg    *structs.Config
	db     *database.DB
	cache  *CacheService
}

func NewCategoryService(logger *gecho.Logger, cfg *structs.Config, db *database.DB, cache *CacheService) *CategoryService {
	return &CategoryService{logger: logger, cfg: cfg, db: db, cache: cache}
}

func (cs *CategoryService) loadAll(ctx context.Context) ([]tables.Category, error) {
	return database.Query[tables.Category](cs.db).
		OrderBy("sort_order", database.ASC).
		OrderBy("name", database.ASC).
		All(ctx)
}

func buildForest(categories []tables.Category) *catalog.Forest {
	nodes := make([]catalog.CategoryNode, len(categories))
	for i, c := range categories {
		nodes[i] = catalog.CategoryNode{ID: c.Id, ParentID: c.ParentId, Name: c.Name, SortOrder: c.SortOrder}
	}
	return catalog.BuildForest(nodes)
}

// Forest returns the current category forest straight from the database.
func (cs *CategoryService) Forest(ctx context.Context) (*catalog.Forest, error) {
	categories, err := cs.loadAll(ctx)
	if err != nil {
		cs.logger.Error("Failed to load categories", gecho.Field("error", err))
		return nil, err
	}
	return buildForest(categories), nil
}

// List returns every category as a flat table, a nested tree and the indented
// option list used by select inputs. The result is cached until a category
// changes.
func (cs *CategoryService) List(ctx context.Context) (*CategoryListing, error) {
	return cached(cs.cache, categoryListingKey, cs.cache.ttl(cs.cfg.Cache.CategoryTreeTTL, time.Hour), func() (*CategoryListing, error) {
		categories, err := cs.loadAll(ctx)
		if err != nil {
			cs.logger.Error("Failed to load categories", gecho.Field("error", err))
			return nil, err
		}

		forest := buildForest(categories)
		options, err := forest.Flatten(nil)
		if errors.Is(err, catalog.ErrCycle) {
			// the partial list is still usable; the cycle needs fixing by hand
			cs.logger.Warn("Category hierarchy contains a cycle", gecho.Field("emitted", len(options)), gecho.Field("total", forest.Len()))
		}

		return &CategoryListing{
			Categories: categories,
			Tree:       forest.Tree(),
			Options:    options,
		}, nil
	})
}

// Options returns the flattened forest for a parent picker. When editing a
// category, exclude drops it and its subtree so it cannot become its own
// ancestor.
func (cs *CategoryService) Options(ctx context.Context, exclude *uuid.UUID) ([]catalog.FlatCategory, error) {
	if exclude == nil {
		listing, err := cs.List(ctx)
		if err != nil {
			return nil, err
		}
		return listing.Options, nil
	}

	forest, err := cs.Forest(ctx)
	if err != nil {
		return nil, err
	}
	options, err := forest.Flatten(exclude)
	if errors.Is(err, catalog.ErrCycle) {
		cs.logger.Warn("Category hierarchy contains a cycle", gecho.Field("exclude", exclude))
	}
	return options, nil
}

func (cs *CategoryService) Get(ctx context.Context, id uuid.UUID) (*CategoryDetail, error) {
	category, err := database.FindByID[tables.Category](ctx, cs.db, id)
	if err != nil {
		cs.logger.Error("Failed to fetch category", gecho.Field("error", err), gecho.Field("id", id))
		return nil, err
	}
	if category == nil {
		return nil, lib.ErrNotFound
	}

	hasChildren, err := database.Query[tables.Category](cs.db).Where("parent_id", id).Exists(ctx)
	if err != nil {
		cs.logger.Error("Failed to check subcategories", gecho.Field("error", err), gecho.Field("id", id))
		return nil, err
	}

	return &CategoryDetail{Category: *category, HasChildren: hasChildren, Deletable: !hasChildren}, nil
}

func (cs *CategoryService) Create(ctx context.Context, req *structs.CategoryRequest) (*tables.Category, error) {
	if req.ParentId != nil {
		parent, err := database.FindByID[tables.Category](ctx, cs.db, *req.ParentId)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, fmt.Errorf("parent category: %w", lib.ErrNotFound)
		}
	}

	category, err := database.Create(ctx, cs.db, &tables.Category{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		ParentId:    req.ParentId,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		cs.logger.Error("Failed to create category", gecho.Field("error", err), gecho.Field("name", req.Name))
		return nil, lib.MapPgError(err)
	}

	cs.invalidate()
	return category, nil
}

// Update rewrites a category. Moving it under itself or one of its
// descendants is rejected with lib.ErrCategoryCycle.
func (cs *CategoryService) Update(ctx context.Context, id uuid.UUID, req *structs.CategoryRequest) (*tables.Category, error) {
	forest, err := cs.Forest(ctx)
	if err != nil {
		return nil, err
	}
	if !forest.Has(id) {
		return nil, lib.ErrNotFound
	}
	if req.ParentId != nil && *req.ParentId != id && !forest.Has(*req.ParentId) {
		return nil, fmt.Errorf("parent category: %w", lib.ErrNotFound)
	}
	if !forest.CanBeParent(id, req.ParentId) {
		cs.logger.Warn("Rejected category move", gecho.Field("id", id), gecho.Field("parent_id", req.ParentId))
		return nil, lib.ErrCategoryCycle
	}

	category, err := database.UpdateByID[tables.Category](ctx, cs.db, id, map[string]any{
		"name":        strings.TrimSpace(req.Name),
		"description": req.Description,
		"parent_id":   req.ParentId,
		"sort_order":  req.SortOrder,
	})
	if err != nil {
		cs.logger.Error("Failed to update category", gecho.Field("error", err), gecho.Field("id", id))
		return nil, lib.MapPgError(err)
	}
	if category == nil {
		return nil, lib.ErrNotFound
	}

	cs.invalidate()
	return category, nil
}

// Delete removes a leaf category. A category that still has subcategories is
// rejected before any write is issued. Products and services in the category
// become uncategorised.
func (cs *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	detail, err := cs.Get(ctx, id)
	if err != nil {
		return err
	}
	if detail.HasChildren {
		return lib.ErrHasChildren
	}

	n, err := database.DeleteByID[tables.Category](ctx, cs.db, id)
	if err != nil {
		cs.logger.Error("Failed to delete category", gecho.Field("error", err), gecho.Field("id", id))
		// a child inserted since the check trips the RESTRICT foreign key
		if errors.Is(lib.MapPgError(err), lib.ErrInUse) {
			return lib.ErrHasChildren
		}
		return err
	}
	if n == 0 {
		return lib.ErrNotFound
	}

	cs.invalidate()
	return nil
}

func (cs *CategoryService) invalidate() {
	if err := cs.cache.InvalidateCategories(); err != nil {
		cs.logger.Warn("Failed to invalidate category cache", gecho.Field("error", err))
	}
}

// subtreeIDs returns id plus all its descendants, for category filters.
func (cs *CategoryService) subtreeIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	forest, err := cs.Forest(ctx)
	if err != nil {
		return nil, err
	}
	if !forest.Has(id) {
		return []uuid.UUID{id}, nil
	}
	return append([]uuid.UUID{id}, forest.Descendants(id)...), nil
}
