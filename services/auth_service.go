package services

import (
	"context"
	"poolcare_server/database"
	"poolcare_server/lib"
	"poolcare_server/structs"
	"poolcare_server/structs/tables"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

type AuthService struct {
	logger       *gecho.Logger
	cfg          *structs.Config
	db           *database.DB
	cacheService *CacheService
}

// AuthTokens is a freshly issued access/refresh pair.
type AuthTokens struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

func NewAuthService(cfg *structs.Config, logger *gecho.Logger, db *database.DB, cacheService *CacheService) *AuthService {
	return &AuthService{
		logger:       logger,
		cfg:          cfg,
		db:           db,
		cacheService: cacheService,
	}
}

func (as *AuthService) Login(ctx context.Context, authRequest *structs.AuthRequest) (*tables.User, error) {
	startTime := time.Now()
	email := strings.ToLower(strings.TrimSpace(authRequest.Email))

	user, err := database.Query[tables.User](as.db).Where("email", email).First(ctx)
	if err != nil {
		as.logger.Error("Unexpected database error during login", gecho.Field("error", err))
		// don't leak user existence
		return nil, lib.ErrInvalidCredentials
	}
	if user == nil {
		as.logger.Debug("User not found during login attempt", gecho.Field("identifier", email))
		lib.BurnPasswordCheck(authRequest.Password)
		return nil, lib.ErrInvalidCredentials
	}

	valid, err := lib.VerifyPassword(authRequest.Password, user.PasswordHash)
	if err != nil {
		as.logger.Error("Failed to verify password hash",
			gecho.Field("error", err),
			gecho.Field("user_id", user.Id),
		)
		return nil, err
	}
	if !valid {
		as.logger.Debug("Invalid password attempt",
			gecho.Field("identifier", email),
			gecho.Field("user_id", user.Id),
		)
		return nil, lib.ErrInvalidCredentials
	}

	if lib.NeedsRehash(user.PasswordHash, lib.DefaultArgonParams) {
		as.rehash(ctx, user.Id, authRequest.Password)
	}

	as.logger.Debug("User logged in successfully", gecho.Field("user_id", user.Id), gecho.Field("elapsed_time_ms", time.Since(startTime).Milliseconds()))

	user.PasswordHash = ""

	if err := as.cacheService.SetUserInCache(user); err != nil {
		as.logger.Warn("Failed to set user in cache after login", gecho.Field("error", err), gecho.Field("user_id", user.Id))
	}
	if err := as.UpdateLastLogin(ctx, user.Id); err != nil {
		as.logger.Warn("Failed to update last login", gecho.Field("error", err), gecho.Field("user_id", user.Id))
	}

	return user, nil
}

// CreateCustomer creates a customer account. Accounts are provisioned by
// staff; there is no public sign-up.
func (as *AuthService) CreateCustomer(ctx context.Context, req *structs.CustomerRequest) (*tables.User, error) {
	passwordHash, err := lib.HashPassword(req.Password, lib.DefaultArgonParams)
	if err != nil {
		as.logger.Error("Failed to hash password", gecho.Field("error", err))
		return nil, err
	}

	user := &tables.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:        req.Phone,
		PasswordHash: passwordHash,
		Role:         tables.RoleCustomer,
	}
	user, err = database.Create(ctx, as.db, user)
	if err != nil {
		mappedErr := lib.MapPgError(err)
		if lib.IsConflict(mappedErr) {
			as.logger.Warn("Customer creation failed - duplicate email", gecho.Field("email", req.Email))
		} else {
			as.logger.Error("Database error creating customer", gecho.Field("error", err))
		}
		return nil, mappedErr
	}

	user.PasswordHash = ""
	return user, nil
}

func (as *AuthService) ListCustomers(ctx context.Context, search string, page, pageSize int) (*database.PaginationResult[tables.User], error) {
	q := database.Query[tables.User](as.db).
		Where("role", tables.RoleCustomer).
		Search(search, "name", "email", "phone").
		OrderBy("name", database.ASC)
	return database.Paginate(ctx, q, page, pageSize)
}

// IssueTokens signs a new access/refresh pair for user.
func (as *AuthService) IssueTokens(user *tables.User) (*AuthTokens, error) {
	now := time.Now()
	tokens := &AuthTokens{
		AccessExpiresAt:  now.Add(as.cfg.Auth.AccessTokenExpiry),
		RefreshExpiresAt: now.Add(as.cfg.Auth.RefreshTokenExpiry),
	}

	var err error
	if tokens.AccessToken, _, err = lib.SignToken(user, as.cfg.Auth.AccessTokenSecret, tokens.AccessExpiresAt); err != nil {
		as.logger.Error("Failed to generate access token", gecho.Field("error", err), gecho.Field("user_id", user.Id))
		return nil, err
	}
	if tokens.RefreshToken, _, err = lib.SignToken(user, as.cfg.Auth.RefreshTokenSecret, tokens.RefreshExpiresAt); err != nil {
		as.logger.Error("Failed to generate refresh token", gecho.Field("error", err), gecho.Field("user_id", user.Id))
		return nil, err
	}
	return tokens, nil
}

// Authenticate validates an access token and rejects revoked ones.
func (as *AuthService) Authenticate(accessToken string) (*structs.AuthClaims, error) {
	return as.verify(accessToken, as.cfg.Auth.AccessTokenSecret)
}

func (as *AuthService) verify(token, secret string) (*structs.AuthClaims, error) {
	claims, err := lib.ParseToken(token, secret)
	if err != nil {
		return nil, err
	}

	blacklisted, err := as.cacheService.IsTokenBlacklisted(claims.Jti)
	if err != nil {
		as.logger.Error("Failed to check if token is blacklisted", gecho.Field("error", err), gecho.Field("jti", claims.Jti))
		return nil, err
	}
	if blacklisted {
		as.logger.Warn("Token is blacklisted", gecho.Field("jti", claims.Jti))
		return nil, lib.ErrInvalidToken
	}
	return claims, nil
}

// Refresh rotates the token pair: the old refresh token is revoked.
func (as *AuthService) Refresh(ctx context.Context, refreshToken string) (*tables.User, *AuthTokens, error) {
	claims, err := as.verify(refreshToken, as.cfg.Auth.RefreshTokenSecret)
	if err != nil {
		return nil, nil, err
	}

	user, err := as.GetUserByID(ctx, claims.Sub)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, lib.ErrInvalidToken
	}

	if err := as.cacheService.BlacklistToken(claims.Jti, claims.Exp); err != nil {
		as.logger.Error("Failed to revoke refresh token", gecho.Field("error", err), gecho.Field("jti", claims.Jti))
		return nil, nil, err
	}

	tokens, err := as.IssueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// Logout revokes whichever of the two tokens still parse.
func (as *AuthService) Logout(accessToken, refreshToken string) error {
	for _, t := range []struct{ token, secret string }{
		{accessToken, as.cfg.Auth.AccessTokenSecret},
		{refreshToken, as.cfg.Auth.RefreshTokenSecret},
	} {
		if t.token == "" {
			continue
		}
		claims, err := lib.ParseToken(t.token, t.secret)
		if err != nil {
			continue
		}
		if err := as.cacheService.BlacklistToken(claims.Jti, claims.Exp); err != nil {
			as.logger.Error("Failed to blacklist token", gecho.Field("error", err), gecho.Field("jti", claims.Jti))
			return err
		}
	}
	return nil
}

func (as *AuthService) GetUserByID(ctx context.Context, userId uuid.UUID) (*tables.User, error) {
	cachedUser, err := as.cacheService.GetUserFromCache(userId)
	if err != nil {
		as.logger.Warn("Failed to get user from cache", gecho.Field("error", err), gecho.Field("user_id", userId))
	} else if cachedUser != nil {
		return cachedUser, nil
	}

	user, err := database.FindByID[tables.User](ctx, as.db, userId)
	if err != nil {
		as.logger.Error("Failed to find user by ID", gecho.Field("error", err), gecho.Field("user_id", userId))
		return nil, lib.MapPgError(err)
	}
	if user == nil {
		return nil, nil
	}
	user.PasswordHash = ""

	if err := as.cacheService.SetUserInCache(user); err != nil {
		as.logger.Warn("Failed to cache user after DB fetch", gecho.Field("error", err), gecho.Field("user_id", userId))
	}
	return user, nil
}

func (as *AuthService) UpdateLastLogin(ctx context.Context, userId uuid.UUID) error {
	_, err := database.Query[tables.User](as.db).Where("id", userId).Update(ctx, map[string]any{"last_login": time.Now()})
	if err != nil {
		return lib.MapPgError(err)
	}
	return nil
}

// rehash upgrades a stored hash to the current parameters. Failure only costs
// another attempt on the next login.
func (as *AuthService) rehash(ctx context.Context, userID uuid.UUID, password string) {
	hash, err := lib.HashPassword(password, lib.DefaultArgonParams)
	if err != nil {
		as.logger.Warn("Failed to rehash password", gecho.Field("error", err), gecho.Field("user_id", userID))
		return
	}
	if _, err := database.Query[tables.User](as.db).Where("id", userID).Update(ctx, map[string]any{"password_hash": hash}); err != nil {
		as.logger.Warn("Failed to store rehashed password", gecho.Field("error", err), gecho.Field("user_id", userID))
	}
}
