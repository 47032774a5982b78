package domain

import (
	"github.com/paygate/credentials/internal/errors"
)

// Credential lifecycle and authentication errors.
var (
	// ErrCredentialNotFound indicates a credential with the specified ID was not found.
	ErrCredentialNotFound = errors.Wrap(errors.ErrNotFound, "credential not found")

	// ErrSecretNotFound indicates no secret is stored under the formatted vault name.
	ErrSecretNotFound = errors.Wrap(errors.ErrNotFound, "secret not found")

	// ErrCredentialRevoked indicates a mutation against the terminal revoked state.
	ErrCredentialRevoked = errors.Wrap(errors.ErrConflict, "credential is revoked")

	// ErrDuplicateCredential indicates a credential with the same ID already exists.
	ErrDuplicateCredential = errors.Wrap(errors.ErrConflict, "credential already exists")

	// ErrConcurrentModification indicates the optimistic version check failed
	// because another mutation committed first.
	ErrConcurrentModification = errors.Wrap(errors.ErrConflict, "credential was modified concurrently")

	// ErrInvalidCredentials indicates the presented identity or secret did not
	// match. Deliberately generic to prevent enumeration.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrMissingAuthHeaders indicates a mandatory authentication header is absent.
	ErrMissingAuthHeaders = errors.Wrap(errors.ErrInvalidInput, "missing required authentication headers")

	// ErrStaleTimestamp indicates the request timestamp is outside the replay window.
	ErrStaleTimestamp = errors.Wrap(errors.ErrInvalidInput, "request timestamp outside replay window")

	// ErrNonceReplayed indicates the nonce was already consumed within the replay window.
	ErrNonceReplayed = errors.Wrap(errors.ErrInvalidInput, "nonce already used")

	// ErrInvalidServiceName indicates a service name failing the identifier pattern.
	ErrInvalidServiceName = errors.Wrap(errors.ErrInvalidInput, "invalid service name")

	// ErrScopeViolation indicates the principal's trust class does not permit the mutation.
	ErrScopeViolation = errors.Wrap(errors.ErrForbidden, "scope does not permit this operation")

	// ErrNotOwner indicates a merchant principal acting on another merchant's credential.
	ErrNotOwner = errors.Wrap(errors.ErrForbidden, "credential belongs to another merchant")
)
