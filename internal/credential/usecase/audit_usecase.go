package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	credentialDomain "github.com/paygate/credentials/internal/credential/domain"
)

// auditUseCase implements AuditUseCase over the append-only audit repository.
type auditUseCase struct {
	auditRepo      AuditRepository
	credentialRepo CredentialRepository
	authorizer     *ScopeAuthorizer
}

// NewAuditUseCase creates a new AuditUseCase with the provided dependencies.
func NewAuditUseCase(
	auditRepo AuditRepository,
	credentialRepo CredentialRepository,
	authorizer *ScopeAuthorizer,
) AuditUseCase {
	return &auditUseCase{
		auditRepo:      auditRepo,
		credentialRepo: credentialRepo,
		authorizer:     authorizer,
	}
}

// Record appends an audit entry. Snapshots are secret-redacted by caller
// contract; the lifecycle manager only passes Credential.Snapshot() values,
// which carry no secret material by construction.
func (a *auditUseCase) Record(
	ctx context.Context,
	entityID uuid.UUID,
	action credentialDomain.AuditAction,
	before, after map[string]any,
	actor string,
) error {
	if actor == "" {
		actor = credentialDomain.SystemActor
	}

	entry := &credentialDomain.AuditEntry{
		ID:        uuid.Must(uuid.NewV7()),
		EntityID:  entityID,
		Action:    action,
		Before:    before,
		After:     after,
		Actor:     actor,
		CreatedAt: time.Now().UTC(),
	}
	return a.auditRepo.Create(ctx, entry)
}

// ListByCredential retrieves the audit history of a credential the principal
// may read.
func (a *auditUseCase) ListByCredential(
	ctx context.Context,
	principal *credentialDomain.Principal,
	credentialID uuid.UUID,
	offset, limit int,
) ([]*credentialDomain.AuditEntry, error) {
	credential, err := a.credentialRepo.Get(ctx, credentialID)
	if err != nil {
		return nil, err
	}
	if err := a.authorizer.AuthorizeRead(principal, credential); err != nil {
		return nil, err
	}
	return a.auditRepo.ListByEntity(ctx, credentialID, offset, limit)
}

// PurgeOlderThan removes audit entries older than the retention cutoff.
func (a *auditUseCase) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return a.auditRepo.DeleteOlderThan(ctx, cutoff)
}
