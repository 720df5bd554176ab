package lib

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestSealNoteRoundTrip(t *testing.T) {
	owner := uuid.New()

	sealed, err := SealNote("gate code 4471, dog in yard", testKey, owner)
	require.NoError(t, err)
	assert.NotContains(t, sealed, "4471")

	plain, err := OpenNote(sealed, testKey, owner)
	require.NoError(t, err)
	assert.Equal(t, "gate code 4471, dog in yard", plain)
}

func TestSealNoteFailures(t *testing.T) {
	owner := uuid.New()
	sealed, err := SealNote("x", testKey, owner)
	require.NoError(t, err)

	tests := []struct {
		name   string
		sealed string
		key    string
		owner  uuid.UUID
		want   error
	}{
		{name: "wrong key", sealed: sealed, key: "fedcba9876543210fedcba9876543210", owner: owner},
		{name: "other customer", sealed: sealed, key: testKey, owner: uuid.New()},
		{name: "too short", sealed: "AAAA", key: testKey, owner: owner, want: ErrSealedShort},
		{name: "short key", sealed: sealed, key: "short", owner: owner, want: ErrInvalidKey},
		{name: "not base64", sealed: "%%%", key: testKey, owner: owner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := OpenNote(tt.sealed, tt.key, tt.owner)
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestSealNoteEmpty(t *testing.T) {
	sealed, err := SealNote("", testKey, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, sealed)

	_, err = SealNote("x", "short", uuid.New())
	assert.ErrorIs(t, err, ErrInvalidKey)
}
