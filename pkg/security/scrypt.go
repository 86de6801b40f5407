// Package security contains everything related to the security of user data
package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/scrypt"
)

var ErrMalformedHash = errors.New("malformed password hash")

type ScryptHash struct {
	N          int
	R          int
	P          int
	SaltLength int
	KeyLength  int
}

func New() *ScryptHash {
	return &ScryptHash{
		N:          16384,
		R:          8,
		P:          1,
		SaltLength: 32,
		KeyLength:  64,
	}
}

// GenerateFromPassword derives a key from p with a fresh random salt and
// returns it encoded as hex(salt):hex(key). The only possible failure is the
// entropy source, which callers should treat as fatal.
func (s *ScryptHash) GenerateFromPassword(p string) (encoded string, err error) {
	salt := make([]byte, s.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	key, err := scrypt.Key([]byte(p), salt, s.N, s.R, s.P, s.KeyLength)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(key), nil
}

// VerifyPasswd compares a password p with the stored salt:key encoding e.
// A malformed encoding is reported through err so callers can audit it, but
// it always comes with ok=false and must map to the same uniform login
// failure as a plain mismatch.
func (s *ScryptHash) VerifyPasswd(p, e string) (ok bool, err error) {
	parts := strings.Split(e, ":")
	if len(parts) != 2 {
		return false, ErrMalformedHash
	}

	salt, err := hex.DecodeString(parts[0])
	if err != nil {
		return false, ErrMalformedHash
	}

	key, err := hex.DecodeString(parts[1])
	if err != nil {
		return false, ErrMalformedHash
	}

	// Re-derive with the fixed parameters, not with len(key). A truncated
	// stored key must mismatch, never shrink the comparison.
	calcKey, err := scrypt.Key([]byte(p), salt, s.N, s.R, s.P, s.KeyLength)
	if err != nil {
		return false, err
	}

	return subtle.ConstantTimeCompare(key, calcKey) == 1, nil
}
