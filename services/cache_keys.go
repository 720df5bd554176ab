package services

import (
	"errors"
	"fmt"
	"poolcare_server/structs/tables"
	"strconv"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	categoryListingKey = "catalog:categories"
	catalogListPrefix  = "catalog:list:"
)

func blacklistKey(jti uuid.UUID) string { return "blacklist:" + jti.String() }
func userKey(id uuid.UUID) string       { return "user:" + id.String() }
func roleKey(id uuid.UUID) string       { return "role:" + id.String() }

func rateLimitKey(ip, endpoint string) string {
	return "ratelimit:" + ip + ":" + endpoint
}

// catalogListKey builds the cache key for one page of a public catalog listing.
func catalogListKey(kind string, parts ...any) string {
	var b strings.Builder
	b.WriteString(catalogListPrefix)
	b.WriteString(kind)
	for _, p := range parts {
		b.WriteString(":")
		fmt.Fprint(&b, p)
	}
	return b.String()
}

// BlacklistToken revokes a token id until the token would have expired anyway.
func (cs *CacheService) BlacklistToken(jti uuid.UUID, exp time.Time) error {
	ttl := cs.config.Auth.BlacklistCacheTTL
	if exp.After(time.Now()) {
		ttl = time.Until(exp)
	}
	return cs.Set(blacklistKey(jti), "1", ttl)
}

func (cs *CacheService) IsTokenBlacklisted(jti uuid.UUID) (bool, error) {
	return cs.Exists(blacklistKey(jti))
}

// GetUserFromCache returns nil on a miss.
func (cs *CacheService) GetUserFromCache(userID uuid.UUID) (*tables.User, error) {
	return getJSON[tables.User](cs, userKey(userID))
}

func (cs *CacheService) SetUserInCache(user *tables.User) error {
	if user == nil {
		return nil
	}
	return setJSON(cs, userKey(user.Id), user, cs.ttl(cs.config.Cache.UserTTL, 15*time.Minute))
}

// GetCachedRole returns "" on a miss.
func (cs *CacheService) GetCachedRole(userID uuid.UUID) (tables.Role, error) {
	val, err := cs.Get(roleKey(userID))
	return tables.Role(val), err
}

func (cs *CacheService) SetCachedRole(userID uuid.UUID, role tables.Role) error {
	return cs.Set(roleKey(userID), string(role), cs.ttl(cs.config.Cache.RoleTTL, 5*time.Minute))
}

// IncrementRateLimit counts one request in the current window. INCR and the
// first EXPIRE go out in one transaction so a counter can never be left
// without a TTL.
func (cs *CacheService) IncrementRateLimit(ip, endpoint string, ttl time.Duration) (int, error) {
	key := rateLimitKey(ip, endpoint)

	var count *redis.IntCmd
	err := cs.withRetry(func() error {
		_, err := cs.client.TxPipelined(redisCtx, func(pipe redis.Pipeliner) error {
			count = pipe.Incr(redisCtx, key)
			pipe.ExpireNX(redisCtx, key, ttl)
			return nil
		})
		return err
	})
	if err != nil {
		return 0, err
	}
	return int(count.Val()), nil
}

// GetRateLimitStatus reports the counter and seconds left for one client and endpoint.
func (cs *CacheService) GetRateLimitStatus(ip, endpoint string) (map[string]any, error) {
	key := rateLimitKey(ip, endpoint)

	var (
		get *redis.StringCmd
		ttl *redis.DurationCmd
	)
	err := cs.withRetry(func() error {
		_, err := cs.client.Pipelined(redisCtx, func(pipe redis.Pipeliner) error {
			get = pipe.Get(redisCtx, key)
			ttl = pipe.TTL(redisCtx, key)
			return nil
		})
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	count := 0
	if raw, err := get.Result(); err == nil {
		if count, err = strconv.Atoi(raw); err != nil {
			return nil, fmt.Errorf("invalid rate limit value: %w", err)
		}
	}
	seconds := 0
	if count > 0 && ttl.Val() > 0 {
		seconds = int(ttl.Val().Seconds())
	}
	return map[string]any{"count": count, "ttl": seconds}, nil
}

// InvalidateCategories drops the cached category listing. Product and service
// listings embed category names, so those go too.
func (cs *CacheService) InvalidateCategories() error {
	if err := cs.Delete(categoryListingKey); err != nil {
		cs.logger.Warn("Failed to delete category cache", gecho.Field("error", err))
		return err
	}
	return cs.InvalidateCatalog("")
}

// InvalidateCatalog removes cached public listings of one kind (products,
// services, bundles), or all of them when kind is empty.
func (cs *CacheService) InvalidateCatalog(kind string) error {
	pattern := catalogListPrefix + "*"
	if kind != "" {
		pattern = catalogListPrefix + kind + ":*"
	}
	if err := cs.DeletePattern(pattern); err != nil {
		cs.logger.Warn("Failed to delete catalog cache", gecho.Field("pattern", pattern), gecho.Field("error", err))
		return err
	}
	return nil
}
