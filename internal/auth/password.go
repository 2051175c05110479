// Package auth provides password hashing and signed session tokens.
package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is deliberately high so that verification takes tens of
// milliseconds, slowing down brute-force attempts.
const bcryptCost = 12

// HashPassword returns the salted bcrypt hash of the given plaintext password.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether plain matches the stored bcrypt hash.
func CheckPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
