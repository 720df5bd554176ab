package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Category struct {
	bun.BaseModel `bun:"table:categories,alias:c"`
	Id            uuid.UUID  `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	Name          string     `bun:"name,notnull" json:"name"`
	Description   string     `bun:"description" json:"description,omitempty"`
	ParentId      *uuid.UUID `bun:"parent_id,type:uuid" json:"parent_id,omitempty"`
	SortOrder     int        `bun:"sort_order,notnull,default:0" json:"sort_order"`
	CreatedAt     time.Time  `bun:"created_at,notnull,default:now()" json:"created_at"`
	UpdatedAt     time.Time  `bun:"updated_at,notnull,default:now()" json:"updated_at"`
}

// Product is a physical item sold or installed (chemicals, pumps, filters).
type Product struct {
	bun.BaseModel `bun:"table:products,alias:p"`
	Id            uuid.UUID    `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	Name          string       `bun:"name,notnull" json:"name"`
	SKU           string       `bun:"sku" json:"sku,omitempty"`
	Description   string       `bun:"description" json:"description,omitempty"`
	Price         float64      `bun:"price,type:numeric(12,2),notnull" json:"price"`
	CategoryId    *uuid.UUID   `bun:"category_id,type:uuid" json:"category_id,omitempty"`
	IsActive      bool         `bun:"is_active,notnull,default:true" json:"is_active"`
	IsFeatured    bool         `bun:"is_featured,notnull,default:false" json:"is_featured"`
	IsTaxable     bool         `bun:"is_taxable,notnull,default:true" json:"is_taxable"`
	CreatedAt     time.Time    `bun:"created_at,notnull,default:now()" json:"created_at"`
	UpdatedAt     time.Time    `bun:"updated_at,notnull,default:now()" json:"updated_at"`
	Category      *Category    `bun:"rel:belongs-to,join:category_id=id" json:"category,omitempty"`
	Attachments   []Attachment `bun:"-" json:"attachments,omitempty"`
}

// Service is labour sold by the business (weekly cleaning, opening, repair).
type Service struct {
	bun.BaseModel   `bun:"table:services,alias:s"`
	Id              uuid.UUID    `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	Name            string       `bun:"name,notnull" json:"name"`
	Description     string       `bun:"description" json:"description,omitempty"`
	Price           float64      `bun:"price,type:numeric(12,2),notnull" json:"price"`
	DurationMinutes int          `bun:"duration_minutes,notnull,default:60" json:"duration_minutes"`
	CategoryId      *uuid.UUID   `bun:"category_id,type:uuid" json:"category_id,omitempty"`
	IsActive        bool         `bun:"is_active,notnull,default:true" json:"is_active"`
	IsFeatured      bool         `bun:"is_featured,notnull,default:false" json:"is_featured"`
	IsTaxable       bool         `bun:"is_taxable,notnull,default:false" json:"is_taxable"`
	CreatedAt       time.Time    `bun:"created_at,notnull,default:now()" json:"created_at"`
	UpdatedAt       time.Time    `bun:"updated_at,notnull,default:now()" json:"updated_at"`
	Category        *Category    `bun:"rel:belongs-to,join:category_id=id" json:"category,omitempty"`
	Attachments     []Attachment `bun:"-" json:"attachments,omitempty"`
}

type ItemType string

const (
	ItemTypeProduct ItemType = "product"
	ItemTypeService ItemType = "service"
	ItemTypeBundle  ItemType = "bundle"
)

func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeProduct, ItemTypeService, ItemTypeBundle:
		return true
	}
	return false
}

type MediaType string

const (
	MediaTypeImage    MediaType = "image"
	MediaTypeVideo    MediaType = "video"
	MediaTypeDocument MediaType = "document"
)

// Attachment is a media file stored in object storage and linked to a catalog item.
type Attachment struct {
	bun.BaseModel `bun:"table:attachments,alias:at"`
	Id            uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	ItemType      ItemType  `bun:"item_type,notnull" json:"item_type"`
	ItemId        uuid.UUID `bun:"item_id,type:uuid,notnull" json:"item_id"`
	ObjectKey     string    `bun:"object_key,notnull,unique" json:"object_key"`
	URL           string    `bun:"url,notnull" json:"url"`
	FileName      string    `bun:"file_name,notnull" json:"file_name"`
	ContentType   string    `bun:"content_type,notnull" json:"content_type"`
	MediaType     MediaType `bun:"media_type,notnull" json:"media_type"`
	Size          int64     `bun:"size,notnull" json:"size"`
	AltText       string    `bun:"alt_text" json:"alt_text,omitempty"`
	SortOrder     int       `bun:"sort_order,notnull,default:0" json:"sort_order"`
	CreatedAt     time.Time `bun:"created_at,notnull,default:now()" json:"created_at"`
}
