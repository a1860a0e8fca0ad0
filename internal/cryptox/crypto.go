// Package cryptox contains the password hashing primitives used for
// administrator credentials.
package cryptox

import (
	"crypto/subtle"

	"github.com/dmitrijs2005/boathouse/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	// SaltSize is the length in bytes of every credential salt.
	SaltSize = 16
	// HashSize is the length in bytes of every credential digest.
	HashSize = 32

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

// NewSalt returns a fresh cryptographically random salt of SaltSize bytes.
func NewSalt() []byte {
	return common.GenerateRandByteArray(SaltSize)
}

// HashPassword derives the credential digest for password under salt using
// argon2id.
func HashPassword(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, HashSize)
}

// CheckPassword recomputes the digest of candidate under salt and compares it
// to hash in constant time.
func CheckPassword(candidate, salt, hash []byte) bool {
	computed := HashPassword(candidate, salt)
	defer common.WipeByteArray(computed)
	return subtle.ConstantTimeCompare(computed, hash) == 1
}
