package lib

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"poolcare_server/structs"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
)

var DefaultArgonParams = &structs.ArgonParams{
	Memory:  64 * 1024, // 64 MB
	Time:    1,
	Threads: 4,
	KeyLen:  32,
	SaltLen: 16,
}

var (
	ErrInvalidHash         = errors.New("invalid hash format")
	ErrIncompatibleVersion = errors.New("incompatible version of argon2")
)

// Argon2HashParts contains the decoded parts of an Argon2 hash
type Argon2HashParts struct {
	structs.ArgonParams
	Salt []byte
	Hash []byte
}

// DecodeArgon2Hash splits $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>.
func DecodeArgon2Hash(encodedHash string) (*Argon2HashParts, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHash, err)
	}
	if version != argon2.Version {
		return nil, ErrIncompatibleVersion
	}

	out := &Argon2HashParts{}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &out.Memory, &out.Time, &out.Threads); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHash, err)
	}

	var err error
	if out.Salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHash, err)
	}
	if out.Hash, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHash, err)
	}
	out.KeyLen = uint32(len(out.Hash))
	out.SaltLen = uint32(len(out.Salt))
	return out, nil
}

// HashPassword hashes a plain-text password with argon2id
func HashPassword(password string, p *structs.ArgonParams) (string, error) {
	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, p.KeyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Time, p.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// VerifyPassword verifies a plain-text password against an encoded hash
func VerifyPassword(password, encodedHash string) (bool, error) {
	parts, err := DecodeArgon2Hash(encodedHash)
	if err != nil {
		return false, err
	}
	hash := argon2.IDKey([]byte(password), parts.Salt, parts.Time, parts.Memory, parts.Threads, parts.KeyLen)
	return subtle.ConstantTimeCompare(hash, parts.Hash) == 1, nil
}

// NeedsRehash reports whether a stored hash was made with weaker or different
// parameters than p, so it can be upgraded after a successful login.
func NeedsRehash(encodedHash string, p *structs.ArgonParams) bool {
	parts, err := DecodeArgon2Hash(encodedHash)
	if err != nil {
		return true
	}
	return parts.Memory != p.Memory || parts.Time != p.Time || parts.Threads != p.Threads || parts.KeyLen != p.KeyLen
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// BurnPasswordCheck spends the same work as a real verification. Login calls
// it for unknown accounts so response time does not reveal which emails exist.
func BurnPasswordCheck(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = HashPassword("poolcare-dummy-password", DefaultArgonParams)
	})
	_, _ = VerifyPassword(password, dummyHash)
}
