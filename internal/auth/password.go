package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrEmptyPassword rejects hashing of empty input.
var ErrEmptyPassword = errors.New("password must not be empty")

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value. A mismatch
// returns an error, never a panic; the comparison is constant time.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
