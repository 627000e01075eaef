// Package utils holds small helpers shared across handlers and
// repositories.
package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a bcrypt digest of plain at the given cost.  The
// cost comes from configuration so tests can run at bcrypt.MinCost.
func HashPassword(plain string, cost int) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// VerifyPassword reports whether plain matches the stored bcrypt digest.
// A malformed digest reads the same as a mismatch.
func VerifyPassword(digest, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
