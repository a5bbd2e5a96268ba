package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// hashCost is lowered in tests.
var hashCost = bcrypt.DefaultCost

// HashPassword hashes a plain password string
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a plain password with a hash
func CheckPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
