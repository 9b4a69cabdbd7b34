package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrHashingFailed = errors.New("password hashing failed")
	ErrPasswordShort = errors.New("password too short")
	ErrMalformedHash = errors.New("malformed password hash")
	ErrWeakHash      = errors.New("password hash cost below policy")
)

// DefaultMinLength applies when a policy leaves MinLength unset.
const DefaultMinLength = 8

// HashPolicy controls how staff passwords are hashed. Zero values fall back
// to bcrypt.DefaultCost and DefaultMinLength.
type HashPolicy struct {
	Cost      int
	MinLength int
}

// PasswordHasher hashes and checks staff passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hashedPassword, password string) error
	// CheckHash reports whether a stored hash can be used under the policy.
	CheckHash(hashedPassword string) error
}

type bcryptHasher struct {
	policy HashPolicy
}

// NewBcryptHasher creates a password hasher using bcrypt.
func NewBcryptHasher(policy HashPolicy) PasswordHasher {
	if policy.Cost < bcrypt.MinCost || policy.Cost > bcrypt.MaxCost {
		policy.Cost = bcrypt.DefaultCost
	}
	if policy.MinLength <= 0 {
		policy.MinLength = DefaultMinLength
	}
	return &bcryptHasher{policy: policy}
}

func (b *bcryptHasher) Hash(password string) (string, error) {
	if len([]rune(password)) < b.policy.MinLength {
		return "", fmt.Errorf("%w: need at least %d characters", ErrPasswordShort, b.policy.MinLength)
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), b.policy.Cost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHashingFailed, err)
	}
	return string(bytes), nil
}

func (b *bcryptHasher) Compare(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func (b *bcryptHasher) CheckHash(hashedPassword string) error {
	cost, err := bcrypt.Cost([]byte(hashedPassword))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
	if cost < b.policy.Cost {
		return fmt.Errorf("%w: cost %d, want %d", ErrWeakHash, cost, b.policy.Cost)
	}
	return nil
}
