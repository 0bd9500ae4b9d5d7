package security

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPassword derives a salted one-way hash of the plaintext password.
// bcrypt salts internally, so hashing the same input twice yields
// different stored values.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
