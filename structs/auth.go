package structs

import (
	"poolcare_server/structs/tables"
	"time"

	"github.com/google/uuid"
)

type ArgonParams struct {
	Memory  uint32
	Time    uint32
	Threads uint8
	KeyLen  uint32
	SaltLen uint32
}

type AuthClaims struct {
	Sub   uuid.UUID   `json:"sub"`
	Email string      `json:"email"`
	Role  tables.Role `json:"role"`
	Iat   time.Time   `json:"iat"`
	Exp   time.Time   `json:"exp"`
	Jti   uuid.UUID   `json:"jti"`
}

type AuthRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type CustomerRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,min=7,max=20"`
	Password string `json:"password" validate:"required,min=8,max=100"`
}

// Session is what /auth/me and /auth/login answer with.
type Session struct {
	User *tables.User `json:"user"`
	Role tables.Role  `json:"role"`
	Home string       `json:"home"`
}
