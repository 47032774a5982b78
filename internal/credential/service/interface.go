// Package service provides technical services for credential management.
//
// This package implements secret generation and hashing, vault access,
// deterministic secret naming, and the replay-protection nonce ledger. It is
// free of business rules; the usecase layer orchestrates these services.
package service

import (
	"context"
	"time"

	"github.com/paygate/credentials/internal/credential/domain"
)

// SecretService defines operations for credential secret generation and validation.
// Implementations must use cryptographically secure random generation and
// industry-standard hashing algorithms (e.g., bcrypt, argon2).
type SecretService interface {
	// GenerateSecret creates a new cryptographically secure random secret.
	// Returns the plain secret inside a scoped buffer (to be exposed to the
	// caller exactly once, then released) and the hashed version (to be
	// stored in the vault).
	GenerateSecret() (plainSecret *domain.Secret, hashedSecret string, err error)

	// HashSecret hashes a plain secret using a secure hashing algorithm.
	HashSecret(plainSecret *domain.Secret) (hashedSecret string, err error)

	// CompareSecret compares a presented plain secret against a stored hash.
	// Returns true if the plain secret matches the hash, false otherwise.
	// This is constant-time to prevent timing attacks.
	CompareSecret(plainSecret []byte, hashedSecret string) bool
}

// SecretVault defines storage operations for hashed secret material, addressed
// by the deterministic names produced by SecretNameFormatter. Implementations
// never see plaintext secrets; callers store argon2id hashes.
type SecretVault interface {
	// Put stores the hashed secret under the given name, replacing any
	// previous value. The replaced value is unrecoverable.
	Put(ctx context.Context, name string, hashedSecret string) error

	// Get retrieves the hashed secret stored under the given name.
	// Returns domain.ErrSecretNotFound when no value exists.
	Get(ctx context.Context, name string) (string, error)

	// Delete removes the secret stored under the given name. Deleting a
	// missing name is not an error.
	Delete(ctx context.Context, name string) error
}

// NonceLedger records consumed nonces for the duration of the replay window.
// Implementations must be safe for concurrent use.
type NonceLedger interface {
	// CheckAndInsert atomically records the nonce. Returns false if the nonce
	// was already present within the replay window, true if it was inserted.
	CheckAndInsert(nonce string, now time.Time) bool

	// Close releases background resources such as the expiry sweeper.
	Close()
}
