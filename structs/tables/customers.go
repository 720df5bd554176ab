package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// PoolDNA is the technical profile of a customer's pool.
type PoolDNA struct {
	bun.BaseModel `bun:"table:pool_dna,alias:pd"`
	Id            uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	CustomerId    uuid.UUID `bun:"customer_id,type:uuid,notnull,unique" json:"customer_id"`
	PoolType      string    `bun:"pool_type" json:"pool_type,omitempty"`       // inground, above_ground, spa
	SurfaceType   string    `bun:"surface_type" json:"surface_type,omitempty"` // plaster, vinyl, fiberglass, pebble
	VolumeGallons int       `bun:"volume_gallons,notnull,default:0" json:"volume_gallons"`
	Sanitizer     string    `bun:"sanitizer" json:"sanitizer,omitempty"` // chlorine, salt, bromine
	FilterType    string    `bun:"filter_type" json:"filter_type,omitempty"`
	PumpModel     string    `bun:"pump_model" json:"pump_model,omitempty"`
	HeaterType    string    `bun:"heater_type" json:"heater_type,omitempty"`
	HasSpa        bool      `bun:"has_spa,notnull,default:false" json:"has_spa"`
	AccessNotes   string    `bun:"access_notes" json:"access_notes,omitempty"` // encrypted at rest
	Notes         string    `bun:"notes" json:"notes,omitempty"`
	CreatedAt     time.Time `bun:"created_at,notnull,default:now()" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at,notnull,default:now()" json:"updated_at"`
}
