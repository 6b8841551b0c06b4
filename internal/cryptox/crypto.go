// Package cryptox holds the password hashing used for locally stored accounts.
package cryptox

import (
	"crypto/subtle"

	"github.com/dmitrijs2005/licai/internal/common"
	"golang.org/x/crypto/argon2"
)

// SaltSize is the length of the random salt stored next to each password hash.
const SaltSize = 32

// HashPassword derives an argon2id hash of password with the given salt.
func HashPassword(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// NewPasswordHash generates a fresh salt and returns it together with the hash.
func NewPasswordHash(password []byte) (hash, salt []byte) {
	salt = common.GenerateRandByteArray(SaltSize)
	return HashPassword(password, salt), salt
}

// VerifyPassword recomputes the hash of candidate and compares it with stored
// in constant time.
func VerifyPassword(candidate, salt, stored []byte) bool {
	if len(stored) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare(HashPassword(candidate, salt), stored) == 1
}
