package lib

import (
	"poolcare_server/structs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cheap parameters keep the tests fast
var testParams = &structs.ArgonParams{Memory: 1024, Time: 1, Threads: 1, KeyLen: 32, SaltLen: 16}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery", testParams)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=1024,t=1,p=1$"))

	ok, err := VerifyPassword("correct horse battery", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong horse battery", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordUsesFreshSalt(t *testing.T) {
	a, err := HashPassword("secret-password", testParams)
	require.NoError(t, err)
	b, err := HashPassword("secret-password", testParams)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDecodeArgon2HashRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "plain", "$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA", "$argon2id$v=18$m=1,t=1,p=1$c2FsdA$aGFzaA"} {
		_, err := DecodeArgon2Hash(in)
		assert.Error(t, err, in)
	}
}

func TestNeedsRehash(t *testing.T) {
	hash, err := HashPassword("secret-password", testParams)
	require.NoError(t, err)

	stronger := *testParams
	stronger.Memory = 2048

	tests := []struct {
		name   string
		hash   string
		params *structs.ArgonParams
		want   bool
	}{
		{name: "same params", hash: hash, params: testParams, want: false},
		{name: "memory raised", hash: hash, params: &stronger, want: true},
		{name: "unreadable hash", hash: "legacy", params: testParams, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NeedsRehash(tt.hash, tt.params))
		})
	}
}

func TestDecodeArgon2HashParams(t *testing.T) {
	hash, err := HashPassword("secret-password", testParams)
	require.NoError(t, err)

	parts, err := DecodeArgon2Hash(hash)
	require.NoError(t, err)
	assert.Equal(t, uint32(1024), parts.Memory)
	assert.Equal(t, uint8(1), parts.Threads)
	assert.Len(t, parts.Salt, 16)
	assert.Len(t, parts.Hash, 32)
}
