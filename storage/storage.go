package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"poolcare_server/structs/tables"
	"strings"

	"github.com/google/uuid"
)

// ObjectStore is the subset of object storage the attachment flow needs.
type ObjectStore interface {
	Upload(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

// ObjectKey builds "{type}s/{id}/{random}{ext}". The random name avoids
// collisions between uploads of files with the same name.
func ObjectKey(itemType tables.ItemType, itemID uuid.UUID, filename string) string {
	ext := strings.ToLower(path.Ext(path.Base(strings.ReplaceAll(filename, "\\", "/"))))
	return fmt.Sprintf("%ss/%s/%s%s", itemType, itemID, uuid.New(), ext)
}

// MediaTypeFor classifies an upload by its content type.
func MediaTypeFor(contentType string) tables.MediaType {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return tables.MediaTypeImage
	case strings.HasPrefix(contentType, "video/"):
		return tables.MediaTypeVideo
	default:
		return tables.MediaTypeDocument
	}
}
