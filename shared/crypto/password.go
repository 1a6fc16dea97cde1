package crypto

import (
	"errors"

	"github.com/samber/oops"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt only reads the first 72 bytes of its input.
const bcryptMaxInput = 72

// BcryptHasher hashes passwords with a fresh salt per call and verifies them
// with bcrypt's own comparison, which is constant time over the digest.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns a digest that embeds salt and cost.
func (h *BcryptHasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword(truncate(password), h.cost)
	if err != nil {
		return "", oops.Code("HASH_FAILED").With("cost", h.cost).Wrap(err)
	}
	return string(digest), nil
}

// Compare reports whether password matches digest. A mismatch is (false, nil);
// a digest that cannot be parsed is an error.
func (h *BcryptHasher) Compare(password, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), truncate(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, oops.Code("HASH_COMPARE_FAILED").Wrap(err)
}

// truncate keeps multibyte passwords hashable: 32 characters can exceed
// bcrypt's input limit, and newer x/crypto rejects rather than truncates.
func truncate(password string) []byte {
	b := []byte(password)
	if len(b) > bcryptMaxInput {
		b = b[:bcryptMaxInput]
	}
	return b
}
