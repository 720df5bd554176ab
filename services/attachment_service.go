package services

import (
	"context"
	"fmt"
	"io"
	"poolcare_server/database"
	"poolcare_server/lib"
	"poolcare_server/storage"
	"poolcare_server/structs"
	"poolcare_server/structs/tables"
	"strings"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var ErrFileTooLarge = fmt.Errorf("file exceeds the upload limit")

// Upload describes one incoming file.
type Upload struct {
	ItemType    tables.ItemType
	ItemID      uuid.UUID
	FileName    string
	ContentType string
	Size        int64
	Body        io.ReadSeeker
	AltText     string
}

type AttachmentService struct {
	logger *gecho.Logger
	cfg    *structs.Config
	db     *database.DB
	store  storage.ObjectStore
}

func NewAttachmentService(logger *gecho.Logger, cfg *structs.Config, db *database.DB, store storage.ObjectStore) *AttachmentService {
	return &AttachmentService{logger: logger, cfg: cfg, db: db, store: store}
}

func (as *AttachmentService) itemExists(ctx context.Context, itemType tables.ItemType, id uuid.UUID) (bool, error) {
	switch itemType {
	case tables.ItemTypeProduct:
		return database.Query[tables.Product](as.db).Where("id", id).Exists(ctx)
	case tables.ItemTypeService:
		return database.Query[tables.Service](as.db).Where("id", id).Exists(ctx)
	case tables.ItemTypeBundle:
		return database.Query[tables.Bundle](as.db).Where("id", id).Exists(ctx)
	}
	return false, nil
}

// Upload stores the file and records its metadata. The object is removed
// again when the metadata insert fails, so storage never holds files the
// database does not know about.
func (as *AttachmentService) Upload(ctx context.Context, up *Upload) (*tables.Attachment, error) {
	if !up.ItemType.Valid() {
		return nil, fmt.Errorf("unknown item type %q: %w", up.ItemType, lib.ErrNotFound)
	}
	if max := as.cfg.Storage.MaxUploadSize; max > 0 && up.Size > max {
		return nil, ErrFileTooLarge
	}

	exists, err := as.itemExists(ctx, up.ItemType, up.ItemID)
	if err != nil {
		as.logger.Error("Failed to check attachment owner", gecho.Field("error", err), gecho.Field("item_id", up.ItemID))
		return nil, err
	}
	if !exists {
		return nil, lib.ErrNotFound
	}

	next, err := database.Query[tables.Attachment](as.db).
		Where("item_type", up.ItemType).
		Where("item_id", up.ItemID).
		Count(ctx)
	if err != nil {
		return nil, err
	}

	key := storage.ObjectKey(up.ItemType, up.ItemID, up.FileName)
	if err := as.store.Upload(ctx, key, up.Body, up.Size, up.ContentType); err != nil {
		as.logger.Error("Failed to upload attachment", gecho.Field("error", err), gecho.Field("key", key))
		return nil, err
	}

	attachment, err := database.Create(ctx, as.db, &tables.Attachment{
		ItemType:    up.ItemType,
		ItemId:      up.ItemID,
		ObjectKey:   key,
		URL:         as.store.PublicURL(key),
		FileName:    up.FileName,
		ContentType: up.ContentType,
		MediaType:   storage.MediaTypeFor(up.ContentType),
		Size:        up.Size,
		AltText:     strings.TrimSpace(up.AltText),
		SortOrder:   next,
	})
	if err != nil {
		as.logger.Error("Failed to record attachment, removing upload", gecho.Field("error", err), gecho.Field("key", key))
		// the request may have been cancelled; cleanup must still run
		if delErr := as.store.Delete(context.WithoutCancel(ctx), key); delErr != nil {
			as.logger.Error("Failed to remove orphaned upload", gecho.Field("error", delErr), gecho.Field("key", key))
		}
		return nil, lib.MapPgError(err)
	}

	return attachment, nil
}

func (as *AttachmentService) List(ctx context.Context, itemType tables.ItemType, itemID uuid.UUID) ([]tables.Attachment, error) {
	return database.Query[tables.Attachment](as.db).
		Where("item_type", itemType).
		Where("item_id", itemID).
		OrderBy("sort_order", database.ASC).
		OrderBy("created_at", database.ASC).
		All(ctx)
}

// ListFor loads the attachments of many items at once, grouped by item.
func (as *AttachmentService) ListFor(ctx context.Context, itemType tables.ItemType, itemIDs []uuid.UUID) (map[uuid.UUID][]tables.Attachment, error) {
	out := make(map[uuid.UUID][]tables.Attachment, len(itemIDs))
	if len(itemIDs) == 0 {
		return out, nil
	}

	rows, err := database.Query[tables.Attachment](as.db).
		Where("item_type", itemType).
		WhereIn("item_id", itemIDs).
		OrderBy("sort_order", database.ASC).
		OrderBy("created_at", database.ASC).
		All(ctx)
	if err != nil {
		as.logger.Error("Failed to load attachments", gecho.Field("error", err), gecho.Field("item_type", itemType))
		return nil, err
	}

	for _, a := range rows {
		out[a.ItemId] = append(out[a.ItemId], a)
	}
	return out, nil
}

func (as *AttachmentService) Update(ctx context.Context, id uuid.UUID, patch *structs.AttachmentPatch) (*tables.Attachment, error) {
	updates := map[string]any{}
	if patch.AltText != nil {
		updates["alt_text"] = strings.TrimSpace(*patch.AltText)
	}
	if patch.SortOrder != nil {
		updates["sort_order"] = *patch.SortOrder
	}
	if len(updates) == 0 {
		attachment, err := database.FindByID[tables.Attachment](ctx, as.db, id)
		if err == nil && attachment == nil {
			err = lib.ErrNotFound
		}
		return attachment, err
	}

	rows, err := database.Query[tables.Attachment](as.db).Where("id", id).UpdateReturning(ctx, updates)
	if err != nil {
		as.logger.Error("Failed to update attachment", gecho.Field("error", err), gecho.Field("id", id))
		return nil, err
	}
	if len(rows) == 0 {
		return nil, lib.ErrNotFound
	}
	return &rows[0], nil
}

// Reorder assigns sort orders following ids. Ids that do not belong to the
// item are ignored.
func (as *AttachmentService) Reorder(ctx context.Context, itemType tables.ItemType, itemID uuid.UUID, ids []uuid.UUID) ([]tables.Attachment, error) {
	err := as.db.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		for i, id := range ids {
			_, err := database.Query[tables.Attachment](tx).
				Where("id", id).
				Where("item_type", itemType).
				Where("item_id", itemID).
				Update(ctx, map[string]any{"sort_order": i})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		as.logger.Error("Failed to reorder attachments", gecho.Field("error", err), gecho.Field("item_id", itemID))
		return nil, err
	}
	return as.List(ctx, itemType, itemID)
}

// Delete removes the metadata row, then the stored object. A failed object
// delete only leaves an unreferenced file behind and is logged.
func (as *AttachmentService) Delete(ctx context.Context, id uuid.UUID) error {
	rows, err := database.Query[tables.Attachment](as.db).Where("id", id).DeleteReturning(ctx)
	if err != nil {
		as.logger.Error("Failed to delete attachment", gecho.Field("error", err), gecho.Field("id", id))
		return err
	}
	if len(rows) == 0 {
		return lib.ErrNotFound
	}
	as.removeObjects(ctx, rows)
	return nil
}

// DeleteForItem removes every attachment of an item, used when the item goes.
func (as *AttachmentService) DeleteForItem(ctx context.Context, itemType tables.ItemType, itemID uuid.UUID) error {
	rows, err := database.Query[tables.Attachment](as.db).
		Where("item_type", itemType).
		Where("item_id", itemID).
		DeleteReturning(ctx)
	if err != nil {
		as.logger.Error("Failed to delete item attachments", gecho.Field("error", err), gecho.Field("item_id", itemID))
		return err
	}
	as.removeObjects(ctx, rows)
	return nil
}

func (as *AttachmentService) removeObjects(ctx context.Context, rows []tables.Attachment) {
	ctx = context.WithoutCancel(ctx)
	for _, a := range rows {
		if err := as.store.Delete(ctx, a.ObjectKey); err != nil {
			as.logger.Warn("Failed to delete stored object", gecho.Field("error", err), gecho.Field("key", a.ObjectKey))
		}
	}
}
