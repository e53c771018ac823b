package showroom

import (
	"github.com/goliatone/go-errors"
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost keeps interactive login latency acceptable.
const DefaultBcryptCost = 10

// DefaultPasswords are the provisioning credentials the system knows in
// advance: the bootstrap superadmin password and the password every
// superadmin-created account starts with.
var DefaultPasswords = []string{"admin123", "12345"}

// HashPassword will generate a password hash at the default cost
func HashPassword(password string) (string, error) {
	return HashPasswordCost(password, DefaultBcryptCost)
}

// HashPasswordCost will generate a password hash at the given cost
func HashPasswordCost(password string, cost int) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	if cost <= 0 {
		cost = DefaultBcryptCost
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext
// password matches the hashed password
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return err
	}
	return nil
}

// IsKnownDefaultHash reports whether hash stores one of the provisioning
// passwords. Every default is compared; the loop never short-circuits on the
// first match, so which default matched is not timing observable beyond the
// compare primitive itself.
func IsKnownDefaultHash(hash string) bool {
	matched := false
	for _, pwd := range DefaultPasswords {
		if ComparePasswordAndHash(pwd, hash) == nil {
			matched = true
		}
	}
	return matched
}
