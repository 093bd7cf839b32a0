package auth

import (
	"golang.org/x/crypto/bcrypt"

	"studenthub-server-go/internal/platform/errors"
)

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = bcrypt.DefaultCost

// PasswordHasher wraps bcrypt hashing with a fixed cost.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher clamps out-of-range costs to the default.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash produces a salted digest of the password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", errors.Wrap(errors.KindAuth, "hasher.hash", "failed to hash password", err)
	}
	return string(digest), nil
}

// Verify reports whether the password matches the digest. A malformed digest
// counts as a mismatch, never an error: login failures must stay uniform.
func (h *PasswordHasher) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
