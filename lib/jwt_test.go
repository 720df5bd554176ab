package lib

import (
	"poolcare_server/structs/tables"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParseToken(t *testing.T) {
	user := &tables.User{Id: uuid.New(), Email: "owner@example.com", Role: tables.RoleAdmin}

	signed, claims, err := SignToken(user, "secret", time.Now().Add(time.Hour))
	require.NoError(t, err)

	parsed, err := ParseToken(signed, "secret")
	require.NoError(t, err)
	assert.Equal(t, user.Id, parsed.Sub)
	assert.Equal(t, "owner@example.com", parsed.Email)
	assert.Equal(t, tables.RoleAdmin, parsed.Role)
	assert.Equal(t, claims.Jti, parsed.Jti)
}

func TestParseTokenErrors(t *testing.T) {
	user := &tables.User{Id: uuid.New(), Email: "c@example.com", Role: tables.RoleCustomer}

	expired, _, err := SignToken(user, "secret", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	_, err = ParseToken(expired, "secret")
	assert.ErrorIs(t, err, ErrExpiredToken)

	valid, _, err := SignToken(user, "secret", time.Now().Add(time.Hour))
	require.NoError(t, err)
	_, err = ParseToken(valid, "other-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseToken("not-a-token", "secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsOtherAlgorithms(t *testing.T) {
	user := &tables.User{Id: uuid.New(), Email: "c@example.com", Role: tables.RoleCustomer}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, tokenClaims{
		Email: user.Email,
		Role:  string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Id.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = ParseToken(signed, "secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
