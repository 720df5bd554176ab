package middleware

import (
	"context"
	"poolcare_server/structs"
	"poolcare_server/structs/tables"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

// Authenticator validates an access token.
type Authenticator interface {
	Authenticate(accessToken string) (*structs.AuthClaims, error)
}

// RoleResolver looks up the current role of a user.
type RoleResolver interface {
	GetUserRole(ctx context.Context, userID uuid.UUID) (tables.Role, error)
}

// RateCounter counts requests per client and endpoint.
type RateCounter interface {
	IncrementRateLimit(ip, endpoint string, ttl time.Duration) (int, error)
}

type Middleware struct {
	cfg     *structs.Config
	logger  *gecho.Logger
	auth    Authenticator
	roles   RoleResolver
	limiter RateCounter
}

func NewMiddleware(cfg *structs.Config, logger *gecho.Logger, auth Authenticator, roles RoleResolver, limiter RateCounter) *Middleware {
	return &Middleware{
		cfg:     cfg,
		logger:  logger,
		auth:    auth,
		roles:   roles,
		limiter: limiter,
	}
}
