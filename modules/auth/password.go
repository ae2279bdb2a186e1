package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the default cost for bcrypt hashing. A cost of
// 12 keeps hashing time reasonable while staying well above the bcrypt
// minimum.
const DefaultBcryptCost = 12

// PasswordHasher provides password hashing and verification.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a PasswordHasher with the default cost.
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{cost: DefaultBcryptCost}
}

// Hash generates a bcrypt hash of the given password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify checks whether the password matches the hash.
func (h *PasswordHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
