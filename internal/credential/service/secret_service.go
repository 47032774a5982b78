package service

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/allisson/go-pwdhash"

	"github.com/paygate/credentials/internal/credential/domain"
	apperrors "github.com/paygate/credentials/internal/errors"
)

// secretService implements SecretService using Argon2id for secret hashing.
type secretService struct {
	hasher *pwdhash.PasswordHasher
}

// GenerateSecret creates a new cryptographically secure 32-byte random secret.
// The plain secret is base64-encoded and handed over inside a scoped buffer;
// the caller owns it and must Release it after the single exposure.
func (s *secretService) GenerateSecret() (*domain.Secret, string, error) {
	// 32 random bytes (256 bits)
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return nil, "", apperrors.Wrap(err, "failed to generate random secret")
	}

	encoded := make([]byte, base64.URLEncoding.EncodedLen(len(randomBytes)))
	base64.URLEncoding.Encode(encoded, randomBytes)
	domain.Zero(randomBytes)

	plainSecret := domain.NewSecret(encoded)

	hashedSecret, err := s.hashSecret(plainSecret)
	if err != nil {
		plainSecret.Release()
		return nil, "", err
	}

	return plainSecret, hashedSecret, nil
}

// HashSecret hashes the plain secret using Argon2id.
func (s *secretService) HashSecret(plainSecret *domain.Secret) (string, error) {
	return s.hashSecret(plainSecret)
}

func (s *secretService) hashSecret(plainSecret *domain.Secret) (string, error) {
	var hashedSecret string
	err := plainSecret.WithBytes(func(b []byte) error {
		h, err := s.hasher.Hash(b)
		if err != nil {
			return apperrors.Wrap(err, "failed to hash secret")
		}
		hashedSecret = h
		return nil
	})
	if err != nil {
		return "", err
	}
	return hashedSecret, nil
}

// CompareSecret performs a constant-time comparison between a presented plain
// secret and a stored hash. Any hashing or parsing error counts as a mismatch.
func (s *secretService) CompareSecret(plainSecret []byte, hashedSecret string) bool {
	ok, err := s.hasher.Verify(plainSecret, hashedSecret)
	if err != nil {
		return false
	}
	return ok
}

// NewSecretService creates a new SecretService instance using Argon2id hashing.
// Uses the Moderate policy for a balance between security and performance.
func NewSecretService() SecretService {
	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyModerate),
	)
	if err != nil {
		// This should never happen with valid policy
		panic(err)
	}

	return &secretService{
		hasher: hasher,
	}
}
