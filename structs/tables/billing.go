package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft InvoiceStatus = "draft"
	InvoiceStatusSent  InvoiceStatus = "sent"
	InvoiceStatusPaid  InvoiceStatus = "paid"
	InvoiceStatusVoid  InvoiceStatus = "void"
)

type Invoice struct {
	bun.BaseModel   `bun:"table:invoices,alias:i"`
	Id              uuid.UUID     `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	InvoiceNumber   string        `bun:"invoice_number,notnull,unique" json:"invoice_number"`
	CustomerId      uuid.UUID     `bun:"customer_id,type:uuid,notnull" json:"customer_id"`
	ScheduleId      *uuid.UUID    `bun:"schedule_id,type:uuid" json:"schedule_id,omitempty"`
	Status          InvoiceStatus `bun:"status,notnull,default:'draft'" json:"status"`
	IssuedAt        time.Time     `bun:"issued_at,notnull,default:now()" json:"issued_at"`
	DueAt           *time.Time    `bun:"due_at,nullzero" json:"due_at,omitempty"`
	TaxRate         float64       `bun:"tax_rate,type:numeric(5,2),notnull,default:0" json:"tax_rate"`
	Subtotal        float64       `bun:"subtotal,type:numeric(12,2),notnull,default:0" json:"subtotal"`
	TaxAmount       float64       `bun:"tax_amount,type:numeric(12,2),notnull,default:0" json:"tax_amount"`
	Total           float64       `bun:"total,type:numeric(12,2),notnull,default:0" json:"total"`
	Notes           string        `bun:"notes" json:"notes,omitempty"`
	PaymentIntentId string        `bun:"payment_intent_id" json:"-"`
	PaidAt          *time.Time    `bun:"paid_at,nullzero" json:"paid_at,omitempty"`
	CreatedAt       time.Time     `bun:"created_at,notnull,default:now()" json:"created_at"`
	UpdatedAt       time.Time     `bun:"updated_at,notnull,default:now()" json:"updated_at"`
	Lines           []InvoiceLine `bun:"rel:has-many,join:id=invoice_id" json:"lines"`
}

type InvoiceLine struct {
	bun.BaseModel `bun:"table:invoice_lines,alias:il"`
	Id            uuid.UUID  `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	InvoiceId     uuid.UUID  `bun:"invoice_id,type:uuid,notnull" json:"invoice_id"`
	ItemType      ItemType   `bun:"item_type" json:"item_type,omitempty"`
	ItemId        *uuid.UUID `bun:"item_id,type:uuid" json:"item_id,omitempty"`
	Description   string     `bun:"description,notnull" json:"description"`
	Quantity      int        `bun:"quantity,notnull,default:1" json:"quantity"`
	UnitPrice     float64    `bun:"unit_price,type:numeric(12,2),notnull" json:"unit_price"`
	Taxable       bool       `bun:"taxable,notnull,default:false" json:"taxable"`
	LineTotal     float64    `bun:"line_total,type:numeric(12,2),notnull" json:"line_total"`
	SortOrder     int        `bun:"sort_order,notnull,default:0" json:"sort_order"`
}

type PaymentMethod string

const (
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodCheck    PaymentMethod = "check"
	PaymentMethodTransfer PaymentMethod = "transfer"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
)

type Payment struct {
	bun.BaseModel `bun:"table:payments,alias:pay"`
	Id            uuid.UUID     `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	InvoiceId     uuid.UUID     `bun:"invoice_id,type:uuid,notnull" json:"invoice_id"`
	CustomerId    uuid.UUID     `bun:"customer_id,type:uuid,notnull" json:"customer_id"`
	Amount        float64       `bun:"amount,type:numeric(12,2),notnull" json:"amount"`
	Method        PaymentMethod `bun:"method,notnull" json:"method"`
	Status        PaymentStatus `bun:"status,notnull,default:'pending'" json:"status"`
	Reference     string        `bun:"reference,unique,nullzero" json:"reference,omitempty"`
	PaidAt        *time.Time    `bun:"paid_at,nullzero" json:"paid_at,omitempty"`
	CreatedAt     time.Time     `bun:"created_at,notnull,default:now()" json:"created_at"`
}

type QuoteStatus string

const (
	QuoteStatusRequested QuoteStatus = "requested"
	QuoteStatusPriced    QuoteStatus = "priced"
	QuoteStatusAccepted  QuoteStatus = "accepted"
	QuoteStatusDeclined  QuoteStatus = "declined"
)

type Quote struct {
	bun.BaseModel      `bun:"table:quotes,alias:q"`
	Id                 uuid.UUID   `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	CustomerId         *uuid.UUID  `bun:"customer_id,type:uuid" json:"customer_id,omitempty"`
	Name               string      `bun:"name,notnull" json:"name"`
	Email              string      `bun:"email,notnull" json:"email"`
	Phone              string      `bun:"phone" json:"phone,omitempty"`
	Address            string      `bun:"address" json:"address,omitempty"`
	Message            string      `bun:"message" json:"message,omitempty"`
	Status             QuoteStatus `bun:"status,notnull,default:'requested'" json:"status"`
	DiscountPercentage float64     `bun:"discount_percentage,type:numeric(5,2),notnull,default:0" json:"discount_percentage"`
	Subtotal           float64     `bun:"subtotal,type:numeric(12,2),notnull,default:0" json:"subtotal"`
	DiscountAmount     float64     `bun:"discount_amount,type:numeric(12,2),notnull,default:0" json:"discount_amount"`
	Total              float64     `bun:"total,type:numeric(12,2),notnull,default:0" json:"total"`
	ValidUntil         *time.Time  `bun:"valid_until,nullzero" json:"valid_until,omitempty"`
	RespondedAt        *time.Time  `bun:"responded_at,nullzero" json:"responded_at,omitempty"`
	CreatedAt          time.Time   `bun:"created_at,notnull,default:now()" json:"created_at"`
	UpdatedAt          time.Time   `bun:"updated_at,notnull,default:now()" json:"updated_at"`
	Lines              []QuoteLine `bun:"rel:has-many,join:id=quote_id" json:"lines,omitempty"`
}

type QuoteLine struct {
	bun.BaseModel `bun:"table:quote_lines,alias:ql"`
	Id            uuid.UUID  `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	QuoteId       uuid.UUID  `bun:"quote_id,type:uuid,notnull" json:"quote_id"`
	ItemType      ItemType   `bun:"item_type" json:"item_type,omitempty"`
	ItemId        *uuid.UUID `bun:"item_id,type:uuid" json:"item_id,omitempty"`
	Description   string     `bun:"description,notnull" json:"description"`
	Quantity      int        `bun:"quantity,notnull,default:1" json:"quantity"`
	UnitPrice     float64    `bun:"unit_price,type:numeric(12,2),notnull" json:"unit_price"`
	LineTotal     float64    `bun:"line_total,type:numeric(12,2),notnull" json:"line_total"`
	SortOrder     int        `bun:"sort_order,notnull,default:0" json:"sort_order"`
}
