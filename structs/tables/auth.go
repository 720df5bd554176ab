package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`
	Id            uuid.UUID `json:"id" bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Name          string    `json:"name" bun:"name,notnull"`
	Email         string    `json:"email" bun:"email,unique,notnull"`
	Phone         string    `json:"phone,omitempty" bun:"phone"`
	PasswordHash  string    `json:"-" bun:"password_hash,notnull"`
	Role          Role      `json:"role" bun:"role,notnull,default:'customer'"`
	LastLogin     time.Time `json:"last_login" bun:"last_login,nullzero,default:now()"`
	CreatedAt     time.Time `json:"created_at" bun:"created_at,notnull,default:now()"`
	UpdatedAt     time.Time `json:"updated_at" bun:"updated_at,notnull,default:now()"`
}

// Address is a service location; a customer may have several pools at different addresses.
type Address struct {
	bun.BaseModel `bun:"table:addresses,alias:a"`
	Id            uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	UserId        uuid.UUID `bun:"user_id,type:uuid,notnull" json:"user_id"`
	Street        string    `bun:"street,notnull" json:"street"`
	City          string    `bun:"city,notnull" json:"city"`
	State         string    `bun:"state" json:"state,omitempty"`
	PostalCode    string    `bun:"postal_code,notnull" json:"postal_code"`
	GateCode      string    `bun:"gate_code" json:"gate_code,omitempty"`
	CreatedAt     time.Time `bun:"created_at,notnull,default:now()" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at,notnull,default:now()" json:"updated_at"`
}
