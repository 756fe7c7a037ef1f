// Package credential hashes and verifies account passwords with bcrypt.
package credential

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"katb.in/katbin"
)

const DefaultCost = 10

type Verifier struct {
	// Cost is the bcrypt work factor; zero means DefaultCost.
	Cost int
}

func (v Verifier) cost() int {
	if v.Cost == 0 {
		return DefaultCost
	}
	return v.Cost
}

func (v Verifier) Hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), v.cost())
	if err != nil {
		return "", &katbin.HashingError{Err: err}
	}
	return string(h), nil
}

// Verify reports whether password matches hash. A malformed hash is an
// error, not a mismatch.
func (v Verifier) Verify(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, &katbin.VerificationError{Err: err}
	}
}
