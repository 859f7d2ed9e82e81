package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes credentials with a salted adaptive function and
// verifies plaintexts against stored blobs. The blob is self-describing
// (algorithm, cost, salt), so the cost can be raised without invalidating
// hashes created under the old cost.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// BcryptHasher implements PasswordHasher using bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a hasher with the given work factor. Costs outside
// bcrypt's supported range fall back to the library default.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	blob, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(blob), nil
}

// Verify reports whether password matches the stored hash. A corrupt or
// unparseable hash verifies false; it never panics or returns an error that
// could bypass the caller's denial path.
func (h *BcryptHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
