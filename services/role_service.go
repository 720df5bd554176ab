package services

import (
	"context"
	"database/sql"
	"poolcare_server/database"
	"poolcare_server/lib"
	"poolcare_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

// RoleService resolves a user's role through the get_user_role SQL function.
// Roles are looked up per request rather than trusted from the token, so a
// demotion takes effect once the cache entry expires.
type RoleService struct {
	logger *gecho.Logger
	db     *database.DB
	cache  *CacheService
}

func NewRoleService(logger *gecho.Logger, db *database.DB, cache *CacheService) *RoleService {
	return &RoleService{logger: logger, db: db, cache: cache}
}

// GetUserRole returns the user's role, or lib.ErrNotFound when the user is gone.
func (rs *RoleService) GetUserRole(ctx context.Context, userID uuid.UUID) (tables.Role, error) {
	if role, err := rs.cache.GetCachedRole(userID); err != nil {
		rs.logger.Warn("Failed to read cached role", gecho.Field("error", err), gecho.Field("user_id", userID))
	} else if role != "" {
		return role, nil
	}

	var role sql.NullString
	if err := database.RawScan(ctx, rs.db, &role, "SELECT get_user_role(?)", userID); err != nil {
		rs.logger.Error("Failed to look up user role", gecho.Field("error", err), gecho.Field("user_id", userID))
		return "", lib.MapPgError(err)
	}
	if !role.Valid {
		return "", lib.ErrNotFound
	}

	if err := rs.cache.SetCachedRole(userID, tables.Role(role.String)); err != nil {
		rs.logger.Warn("Failed to cache role", gecho.Field("error", err), gecho.Field("user_id", userID))
	}
	return tables.Role(role.String), nil
}
