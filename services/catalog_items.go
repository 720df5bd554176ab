package services

import (
	"context"
	"fmt"
	"poolcare_server/database"
	"poolcare_server/lib"
	"poolcare_server/structs"
	"poolcare_server/structs/tables"
	"strings"

	"github.com/google/uuid"
)

// itemPatch turns a partial update into the column map handed to UpdateByID.
// sku only exists on products and duration_minutes only on services.
func itemPatch(patch *structs.CatalogItemPatch, itemType tables.ItemType) map[string]any {
	updates := map[string]any{}
	if patch.Name != nil {
		updates["name"] = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		updates["description"] = strings.TrimSpace(*patch.Description)
	}
	if patch.Price != nil {
		updates["price"] = *patch.Price
	}
	if patch.ClearCategory {
		updates["category_id"] = nil
	} else if patch.CategoryId != nil {
		updates["category_id"] = *patch.CategoryId
	}
	if patch.IsActive != nil {
		updates["is_active"] = *patch.IsActive
	}
	if patch.IsFeatured != nil {
		updates["is_featured"] = *patch.IsFeatured
	}
	if patch.IsTaxable != nil {
		updates["is_taxable"] = *patch.IsTaxable
	}

	switch itemType {
	case tables.ItemTypeProduct:
		if patch.SKU != nil {
			updates["sku"] = strings.ToUpper(strings.TrimSpace(*patch.SKU))
		}
	case tables.ItemTypeService:
		if patch.DurationMinutes != nil {
			updates["duration_minutes"] = *patch.DurationMinutes
		}
	}
	return updates
}

// checkCategory fails with ErrNotFound when id names no category.
func checkCategory(ctx context.Context, db *database.DB, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	exists, err := database.Query[tables.Category](db).Where("id", *id).Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("category: %w", lib.ErrNotFound)
	}
	return nil
}

// listCategoryIDs expands the requested category into its subtree.
func listCategoryIDs(ctx context.Context, categories *CategoryService, opts *CatalogListOptions) ([]uuid.UUID, error) {
	if opts.CategoryID == nil {
		return nil, nil
	}
	return categories.subtreeIDs(ctx, *opts.CategoryID)
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
