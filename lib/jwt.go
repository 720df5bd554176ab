package lib

import (
	"errors"
	"fmt"
	"net/http"
	"poolcare_server/structs"
	"poolcare_server/structs/tables"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type tokenClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// SignToken issues an HS256 token for user that expires at exp.
func SignToken(user *tables.User, secret string, exp time.Time) (string, *structs.AuthClaims, error) {
	now := time.Now()
	jti := uuid.New()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Email: user.Email,
		Role:  string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Id.String(),
			ID:        jti.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", nil, err
	}

	return signed, &structs.AuthClaims{
		Sub:   user.Id,
		Email: user.Email,
		Role:  user.Role,
		Iat:   now,
		Exp:   exp,
		Jti:   jti,
	}, nil
}

// ParseToken verifies signature and expiry and maps the claims back onto
// AuthClaims. Expired tokens report ErrExpiredToken, everything else ErrInvalidToken.
func ParseToken(tokenStr string, secret string) (*structs.AuthClaims, error) {
	var tc tokenClaims
	_, err := jwt.ParseWithClaims(tokenStr, &tc,
		func(*jwt.Token) (any, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	sub, err := uuid.Parse(tc.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	jti, err := uuid.Parse(tc.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad token id", ErrInvalidToken)
	}
	if tc.Email == "" || tc.Role == "" || tc.IssuedAt == nil {
		return nil, fmt.Errorf("%w: missing claims", ErrInvalidToken)
	}

	return &structs.AuthClaims{
		Sub:   sub,
		Email: tc.Email,
		Role:  tables.Role(tc.Role),
		Iat:   tc.IssuedAt.Time,
		Exp:   tc.ExpiresAt.Time,
		Jti:   jti,
	}, nil
}

// ExtractClaims reads and validates the access token cookie.
func ExtractClaims(r *http.Request, secret string) (*structs.AuthClaims, error) {
	accessToken, err := GetCookieValue(AccessCookieName, r)
	if err != nil {
		return nil, err
	}
	return ParseToken(accessToken, secret)
}
