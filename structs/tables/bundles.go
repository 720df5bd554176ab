package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type PricingMode string

const (
	PricingItemized PricingMode = "itemized"
	PricingFlatRate PricingMode = "flat_rate"
)

type Bundle struct {
	bun.BaseModel      `bun:"table:bundles,alias:b"`
	Id                 uuid.UUID       `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	Name               string          `bun:"name,notnull" json:"name"`
	Description        string          `bun:"description" json:"description,omitempty"`
	PricingMode        PricingMode     `bun:"pricing_mode,notnull,default:'itemized'" json:"pricing_mode"`
	DiscountPercentage float64         `bun:"discount_percentage,type:numeric(5,2),notnull,default:0" json:"discount_percentage"`
	FlatPrice          float64         `bun:"flat_price,type:numeric(12,2),notnull,default:0" json:"flat_price"`
	IsActive           bool            `bun:"is_active,notnull,default:true" json:"is_active"`
	IsFeatured         bool            `bun:"is_featured,notnull,default:false" json:"is_featured"`
	CreatedAt          time.Time       `bun:"created_at,notnull,default:now()" json:"created_at"`
	UpdatedAt          time.Time       `bun:"updated_at,notnull,default:now()" json:"updated_at"`
	Products           []BundleProduct `bun:"rel:has-many,join:id=bundle_id" json:"products"`
	Services           []BundleService `bun:"rel:has-many,join:id=bundle_id" json:"services"`
}

type BundleProduct struct {
	bun.BaseModel `bun:"table:bundle_products,alias:bp"`
	Id            uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	BundleId      uuid.UUID `bun:"bundle_id,type:uuid,notnull,unique:bundle_product" json:"bundle_id"`
	ProductId     uuid.UUID `bun:"product_id,type:uuid,notnull,unique:bundle_product" json:"product_id"`
	Quantity      int       `bun:"quantity,notnull,default:1" json:"quantity"`
	SortOrder     int       `bun:"sort_order,notnull,default:0" json:"sort_order"`
	Product       *Product  `bun:"rel:belongs-to,join:product_id=id" json:"product,omitempty"`
}

type BundleService struct {
	bun.BaseModel `bun:"table:bundle_services,alias:bs"`
	Id            uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	BundleId      uuid.UUID `bun:"bundle_id,type:uuid,notnull,unique:bundle_service" json:"bundle_id"`
	ServiceId     uuid.UUID `bun:"service_id,type:uuid,notnull,unique:bundle_service" json:"service_id"`
	Quantity      int       `bun:"quantity,notnull,default:1" json:"quantity"`
	SortOrder     int       `bun:"sort_order,notnull,default:0" json:"sort_order"`
	Service       *Service  `bun:"rel:belongs-to,join:service_id=id" json:"service,omitempty"`
}
