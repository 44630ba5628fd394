package service

import (
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the cost factor for bcrypt hashing
const BcryptCost = 10

// CredentialVerifier isolates password hashing and comparison so the scheme
// can be swapped without touching the user service.
type CredentialVerifier interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) error
}

type bcryptVerifier struct{}

// NewBcryptVerifier returns the default bcrypt-backed CredentialVerifier
func NewBcryptVerifier() CredentialVerifier {
	return bcryptVerifier{}
}

func (bcryptVerifier) Hash(plain string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plain), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (bcryptVerifier) Verify(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}
