// internal/pkg/auth/password.go
package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// VerifyPassword verifies a password against its bcrypt hash
func VerifyPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// HashPassword hashes a password using bcrypt. Used by the password
// generation script and by tests.
func HashPassword(password string, cost int) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}
