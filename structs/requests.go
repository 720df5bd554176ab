package structs

import (
	"poolcare_server/structs/tables"
	"time"

	"github.com/google/uuid"
)

// ============================================================================
// Catalog
// ============================================================================

type CategoryRequest struct {
	Name        string     `json:"name" validate:"required,max=100"`
	Description string     `json:"description" validate:"max=1000"`
	ParentId    *uuid.UUID `json:"parent_id"`
	SortOrder   int        `json:"sort_order" validate:"gte=0"`
}

// CatalogItemRequest creates a product or a service. SKU and DurationMinutes
// only apply to one of the two and are ignored by the other.
type CatalogItemRequest struct {
	Name            string     `json:"name" validate:"required,max=200"`
	SKU             string     `json:"sku" validate:"max=64"`
	Description     string     `json:"description" validate:"max=5000"`
	Price           *float64   `json:"price" validate:"required,gte=0"`
	DurationMinutes int        `json:"duration_minutes" validate:"gte=0,lte=1440"`
	CategoryId      *uuid.UUID `json:"category_id"`
	IsActive        *bool      `json:"is_active"`
	IsFeatured      *bool      `json:"is_featured"`
	IsTaxable       *bool      `json:"is_taxable"`
}

// CatalogItemPatch is a partial update; nil fields are left unchanged.
type CatalogItemPatch struct {
	Name            *string    `json:"name" validate:"omitempty,min=1,max=200"`
	SKU             *string    `json:"sku" validate:"omitempty,max=64"`
	Description     *string    `json:"description" validate:"omitempty,max=5000"`
	Price           *float64   `json:"price" validate:"omitempty,gte=0"`
	DurationMinutes *int       `json:"duration_minutes" validate:"omitempty,gte=0,lte=1440"`
	CategoryId      *uuid.UUID `json:"category_id"`
	ClearCategory   bool       `json:"clear_category"`
	IsActive        *bool      `json:"is_active"`
	IsFeatured      *bool      `json:"is_featured"`
	IsTaxable       *bool      `json:"is_taxable"`
}

type ToggleRequest struct {
	Field string `json:"field" validate:"required,oneof=is_active is_featured is_taxable"`
	Value bool   `json:"value"`
}

type AttachmentPatch struct {
	AltText   *string `json:"alt_text" validate:"omitempty,max=300"`
	SortOrder *int    `json:"sort_order" validate:"omitempty,gte=0"`
}

type ReorderRequest struct {
	Ids []uuid.UUID `json:"ids" validate:"required,min=1"`
}

// ============================================================================
// Operations
// ============================================================================

type ScheduleRequest struct {
	CustomerId      uuid.UUID             `json:"customer_id" validate:"required"`
	AddressId       *uuid.UUID            `json:"address_id"`
	ServiceId       *uuid.UUID            `json:"service_id"`
	ScheduledAt     time.Time             `json:"scheduled_at" validate:"required"`
	DurationMinutes int                   `json:"duration_minutes" validate:"gte=0,lte=1440"`
	Status          tables.ScheduleStatus `json:"status" validate:"omitempty,oneof=scheduled confirmed completed cancelled"`
	Technician      string                `json:"technician" validate:"max=100"`
	Notes           string                `json:"notes" validate:"max=5000"`
}

type SchedulePatch struct {
	AddressId       *uuid.UUID             `json:"address_id"`
	ServiceId       *uuid.UUID             `json:"service_id"`
	ScheduledAt     *time.Time             `json:"scheduled_at"`
	DurationMinutes *int                   `json:"duration_minutes" validate:"omitempty,gte=0,lte=1440"`
	Status          *tables.ScheduleStatus `json:"status" validate:"omitempty,oneof=scheduled confirmed completed cancelled"`
	Technician      *string                `json:"technician" validate:"omitempty,max=100"`
	Notes           *string                `json:"notes" validate:"omitempty,max=5000"`
}

type JobRequest struct {
	ScheduleId  *uuid.UUID `json:"schedule_id"`
	CustomerId  uuid.UUID  `json:"customer_id" validate:"required"`
	ServiceId   *uuid.UUID `json:"service_id"`
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description" validate:"max=5000"`
}

type JobStatusRequest struct {
	Status tables.JobStatus `json:"status" validate:"required,oneof=pending in_progress completed cancelled"`
}

type AddressRequest struct {
	Street     string `json:"street" validate:"required,max=200"`
	City       string `json:"city" validate:"required,max=100"`
	State      string `json:"state" validate:"max=100"`
	PostalCode string `json:"postal_code" validate:"required,max=20"`
	GateCode   string `json:"gate_code" validate:"max=50"`
}

// ============================================================================
// Billing
// ============================================================================

// BillableLine is an invoice or quote line. When ItemId is set and UnitPrice
// or Description are missing they are filled in from the catalog.
type BillableLine struct {
	ItemType    tables.ItemType `json:"item_type" validate:"omitempty,oneof=product service bundle"`
	ItemId      *uuid.UUID      `json:"item_id"`
	Description string          `json:"description" validate:"max=500"`
	Quantity    int             `json:"quantity" validate:"gte=1"`
	UnitPrice   *float64        `json:"unit_price" validate:"omitempty,gte=0"`
	Taxable     *bool           `json:"taxable"`
}

type InvoiceRequest struct {
	CustomerId uuid.UUID      `json:"customer_id" validate:"required"`
	ScheduleId *uuid.UUID     `json:"schedule_id"`
	DueAt      *time.Time     `json:"due_at"`
	TaxRate    *float64       `json:"tax_rate" validate:"omitempty,gte=0,lte=100"`
	Notes      string         `json:"notes" validate:"max=5000"`
	Lines      []BillableLine `json:"lines" validate:"required,min=1,dive"`
}

type PaymentRequest struct {
	Amount    float64              `json:"amount" validate:"gt=0"`
	Method    tables.PaymentMethod `json:"method" validate:"required,oneof=card cash check transfer"`
	Reference string               `json:"reference" validate:"max=100"`
	PaidAt    *time.Time           `json:"paid_at"`
}

type QuoteItem struct {
	ItemType tables.ItemType `json:"item_type" validate:"required,oneof=product service bundle"`
	ItemId   uuid.UUID       `json:"item_id" validate:"required"`
	Quantity int             `json:"quantity" validate:"gte=1"`
}

// QuoteRequest is the public quote form.
type QuoteRequest struct {
	Name    string      `json:"name" validate:"required,max=100"`
	Email   string      `json:"email" validate:"required,email"`
	Phone   string      `json:"phone" validate:"max=20"`
	Address string      `json:"address" validate:"max=300"`
	Message string      `json:"message" validate:"max=5000"`
	Items   []QuoteItem `json:"items" validate:"max=50,dive"`
}

// QuotePricingRequest is an admin pricing a quote.
type QuotePricingRequest struct {
	Lines              []BillableLine `json:"lines" validate:"required,min=1,dive"`
	DiscountPercentage float64        `json:"discount_percentage" validate:"gte=0,lte=100"`
	ValidUntil         *time.Time     `json:"valid_until"`
}

// ============================================================================
// Customers
// ============================================================================

type PoolDNARequest struct {
	PoolType      string `json:"pool_type" validate:"omitempty,oneof=inground above_ground spa"`
	SurfaceType   string `json:"surface_type" validate:"omitempty,oneof=plaster vinyl fiberglass pebble tile"`
	VolumeGallons int    `json:"volume_gallons" validate:"gte=0"`
	Sanitizer     string `json:"sanitizer" validate:"omitempty,oneof=chlorine salt bromine mineral"`
	FilterType    string `json:"filter_type" validate:"omitempty,oneof=sand cartridge de"`
	PumpModel     string `json:"pump_model" validate:"max=100"`
	HeaterType    string `json:"heater_type" validate:"max=100"`
	HasSpa        bool   `json:"has_spa"`
	AccessNotes   string `json:"access_notes" validate:"max=2000"`
	Notes         string `json:"notes" validate:"max=5000"`
}

type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"max=20"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}
