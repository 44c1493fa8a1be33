package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost trades roughly 100ms of CPU per login attempt for
// resistance against offline brute force of a leaked credential file.
const bcryptCost = 10

// HashPassword derives a salted one-way hash from plain. The salt is
// embedded in the returned string.
func HashPassword(plain string) (string, error) {
	buf, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("unable to hash password, cause %w", err)
	}
	return string(buf), nil
}

// VerifyPassword reports whether plain matches the given hash using
// the salt and cost embedded in it.
func VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
