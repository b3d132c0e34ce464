// Package password hashes and checks user passwords with bcrypt.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Cost is the bcrypt work factor applied to every new hash.
const Cost = 10

// Hasher produces salted one-way hashes. bcrypt embeds the salt and cost
// in the hash string, so Verify needs nothing but the stored value.
type Hasher struct{}

func NewHasher() *Hasher { return &Hasher{} }

// Hash generates a fresh random salt and returns the bcrypt hash and its cost.
func (h *Hasher) Hash(plaintext string) (string, int, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), Cost)
	if err != nil {
		return "", 0, fmt.Errorf("hash password: %w", err)
	}
	return string(b), Cost, nil
}

// Verify reports whether plaintext matches hash.
func (h *Hasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
