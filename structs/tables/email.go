package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ContactMessage is a message left through the public contact form.
type ContactMessage struct {
	bun.BaseModel `bun:"table:contact_messages,alias:cm"`
	Id            uuid.UUID  `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	Name          string     `bun:"name,notnull" json:"name"`
	Email         string     `bun:"email,notnull" json:"email"`
	Phone         string     `bun:"phone" json:"phone,omitempty"`
	Subject       string     `bun:"subject" json:"subject,omitempty"`
	Message       string     `bun:"message,notnull" json:"message"`
	Handled       bool       `bun:"handled,notnull,default:false" json:"handled"`
	HandledAt     *time.Time `bun:"handled_at,nullzero" json:"handled_at,omitempty"`
	CreatedAt     time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}
