package credentials

import (
	"context"

	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher is the one-way credential-hashing collaborator consumed
// by the identity service through its CredentialHasher port.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) cost() int {
	if h.Cost < bcrypt.MinCost {
		return bcrypt.DefaultCost
	}
	return h.Cost
}

func (h BcryptHasher) Hash(_ context.Context, secret string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost())
	return string(b), err
}

func (h BcryptHasher) Verify(_ context.Context, hash, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
