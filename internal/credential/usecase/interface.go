// Package usecase implements the credential lifecycle manager, the replay
// protected authentication gate, the scope authorizer and the audit trail.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	credentialDomain "github.com/paygate/credentials/internal/credential/domain"
)

// CredentialRepository defines persistence operations for credential records.
// Implementations must support transaction-aware operations via context
// propagation and must never store secret material.
type CredentialRepository interface {
	// Create stores a new credential. Returns ErrDuplicateCredential when a
	// credential with the same ID already exists.
	Create(ctx context.Context, credential *credentialDomain.Credential) error

	// Get retrieves a credential by ID. Returns ErrCredentialNotFound if not found.
	Get(ctx context.Context, credentialID uuid.UUID) (*credentialDomain.Credential, error)

	// GetActiveByServiceName retrieves the active admin credential for a service.
	// Returns ErrCredentialNotFound if none exists.
	GetActiveByServiceName(ctx context.Context, serviceName string) (*credentialDomain.Credential, error)

	// List retrieves credentials matching the filter, newest first.
	List(ctx context.Context, filter *credentialDomain.ListFilter) ([]*credentialDomain.Credential, error)

	// Count returns the number of credentials matching the filter.
	Count(ctx context.Context, filter *credentialDomain.ListFilter) (int64, error)

	// Update modifies a credential guarded by an optimistic check on the
	// previous updated_at value. Returns ErrConcurrentModification when the
	// check fails, ErrCredentialNotFound when the row is gone.
	Update(ctx context.Context, credential *credentialDomain.Credential, expectedUpdatedAt time.Time) error
}

// AuditRepository defines persistence operations for the append-only audit trail.
type AuditRepository interface {
	// Create stores a new audit entry.
	Create(ctx context.Context, entry *credentialDomain.AuditEntry) error

	// ListByEntity retrieves audit entries for a credential, newest first.
	ListByEntity(ctx context.Context, entityID uuid.UUID, offset, limit int) ([]*credentialDomain.AuditEntry, error)

	// DeleteOlderThan removes audit entries created before the cutoff and
	// returns the number deleted.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// MerchantDirectory exposes the merchant existence check consumed at issuance.
type MerchantDirectory interface {
	// Exists reports whether a merchant with the given ID is registered.
	Exists(ctx context.Context, merchantID uuid.UUID) (bool, error)
}

// LifecycleUseCase orchestrates credential issuance, rotation, revocation and
// metadata updates against the registry and the secret vault, enforcing the
// state machine and scope invariants.
type LifecycleUseCase interface {
	// Generate issues a new credential. The plaintext secret is returned
	// exactly once inside the output's scoped buffer and is never
	// retrievable again; the vault stores only its hash.
	//
	// Merchant scope requires the owning merchant to exist and the principal
	// to own it. Admin scope requires an admin principal; an admin request
	// with no explicit endpoint list receives the conservative default.
	// The first credential issued for an identity is audited as
	// INITIAL_GENERATED, later ones as GENERATED.
	Generate(ctx context.Context, principal *credentialDomain.Principal, input *credentialDomain.GenerateInput) (*credentialDomain.GenerateOutput, error)

	// Rotate replaces the credential's secret, invalidating the previous one
	// immediately. Fails with a conflict before any vault write when the
	// credential is revoked. The new secret is returned exactly once.
	Rotate(ctx context.Context, principal *credentialDomain.Principal, credentialID uuid.UUID) (*credentialDomain.RotateOutput, error)

	// Revoke transitions the credential to its terminal state and removes the
	// vault entry. Revoking an already revoked credential is an idempotent
	// no-op and produces no audit entry.
	Revoke(ctx context.Context, principal *credentialDomain.Principal, credentialID uuid.UUID) error

	// Update mutates non-secret metadata. Rejected when the credential is revoked.
	Update(ctx context.Context, principal *credentialDomain.Principal, credentialID uuid.UUID, input *credentialDomain.UpdateInput) (*credentialDomain.Credential, error)

	// Get retrieves a credential. Merchant principals only see their own;
	// foreign credentials surface as not found.
	Get(ctx context.Context, principal *credentialDomain.Principal, credentialID uuid.UUID) (*credentialDomain.Credential, error)

	// List retrieves credentials. Merchant principals are pinned to their own
	// owner regardless of the requested filter.
	List(ctx context.Context, principal *credentialDomain.Principal, filter *credentialDomain.ListFilter) ([]*credentialDomain.Credential, error)

	// RotateAdmin rotates the active admin credential for a service.
	RotateAdmin(ctx context.Context, principal *credentialDomain.Principal, serviceName string) (*credentialDomain.RotateOutput, error)

	// RevokeAdmin revokes the active admin credential for a service.
	RevokeAdmin(ctx context.Context, principal *credentialDomain.Principal, serviceName string) error
}

// AuthenticatorUseCase validates inbound signed requests and produces a typed
// Principal from the matched credential record, never from caller claims.
type AuthenticatorUseCase interface {
	// Authenticate runs the ordered hard gates: header presence, timestamp
	// freshness, nonce uniqueness, constant-time secret match. No vault or
	// registry call happens past the first failing gate.
	Authenticate(ctx context.Context, request *credentialDomain.AuthRequest) (*credentialDomain.Principal, error)
}

// AuditUseCase exposes the audit trail: recording is internal to the lifecycle
// manager; listing and retention cleanup are exposed operations.
type AuditUseCase interface {
	// Record appends an audit entry. Snapshots must be secret-redacted by the
	// caller; credential snapshots are secret-free by construction.
	Record(ctx context.Context, entityID uuid.UUID, action credentialDomain.AuditAction, before, after map[string]any, actor string) error

	// ListByCredential retrieves the audit history of a credential the
	// principal may read.
	ListByCredential(ctx context.Context, principal *credentialDomain.Principal, credentialID uuid.UUID, offset, limit int) ([]*credentialDomain.AuditEntry, error)

	// PurgeOlderThan removes audit entries older than the retention cutoff.
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
