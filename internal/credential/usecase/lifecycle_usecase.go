package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	credentialDomain "github.com/paygate/credentials/internal/credential/domain"
	credentialService "github.com/paygate/credentials/internal/credential/service"
	"github.com/paygate/credentials/internal/database"
	merchantDomain "github.com/paygate/credentials/internal/merchant/domain"
	"github.com/paygate/credentials/internal/validation"
)

// lifecycleUseCase implements LifecycleUseCase.
//
// Mutations follow a write-vault-then-commit-registry ordering: the registry
// never references a secret that failed to persist, and a failed registry
// commit on Generate triggers a compensating vault delete. Mutations on the
// same credential are serialized through a keyed mutex in-process and an
// optimistic updated_at check in the repository.
type lifecycleUseCase struct {
	txManager      database.TxManager
	credentialRepo CredentialRepository
	merchantDir    MerchantDirectory
	secretService  credentialService.SecretService
	vault          credentialService.SecretVault
	nameFormatter  *credentialService.SecretNameFormatter
	authorizer     *ScopeAuthorizer
	audit          AuditUseCase
	locks          keyedMutex
	logger         *slog.Logger
}

// NewLifecycleUseCase creates a new LifecycleUseCase with the provided dependencies.
func NewLifecycleUseCase(
	txManager database.TxManager,
	credentialRepo CredentialRepository,
	merchantDir MerchantDirectory,
	secretService credentialService.SecretService,
	vault credentialService.SecretVault,
	nameFormatter *credentialService.SecretNameFormatter,
	authorizer *ScopeAuthorizer,
	audit AuditUseCase,
	logger *slog.Logger,
) LifecycleUseCase {
	return &lifecycleUseCase{
		txManager:      txManager,
		credentialRepo: credentialRepo,
		merchantDir:    merchantDir,
		secretService:  secretService,
		vault:          vault,
		nameFormatter:  nameFormatter,
		authorizer:     authorizer,
		audit:          audit,
		logger:         logger,
	}
}

// Generate issues a new credential and returns the plaintext secret exactly once.
func (u *lifecycleUseCase) Generate(
	ctx context.Context,
	principal *credentialDomain.Principal,
	input *credentialDomain.GenerateInput,
) (*credentialDomain.GenerateOutput, error) {
	if err := u.authorizer.AuthorizeGenerate(principal, input); err != nil {
		return nil, err
	}

	endpoints := append([]string(nil), input.AllowedEndpoints...)
	if input.Scope == credentialDomain.ScopeAdmin {
		if !validation.IsServiceName(input.ServiceName) {
			return nil, credentialDomain.ErrInvalidServiceName
		}
		if len(endpoints) == 0 {
			endpoints = append([]string(nil), credentialDomain.DefaultAdminAllowedEndpoints...)
		}
	} else {
		exists, err := u.merchantDir.Exists(ctx, *input.OwnerID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, merchantDomain.ErrMerchantNotFound
		}
	}

	now := time.Now().UTC()
	credential := &credentialDomain.Credential{
		ID:               uuid.Must(uuid.NewV7()),
		Scope:            input.Scope,
		OwnerID:          input.OwnerID,
		ServiceName:      input.ServiceName,
		Status:           credentialDomain.StatusActive,
		RateLimit:        input.RateLimit,
		AllowedEndpoints: endpoints,
		Description:      input.Description,
		Purpose:          input.Purpose,
		CreatedAt:        now,
		UpdatedAt:        now,
		ExpiresAt:        input.ExpiresAt,
	}

	// The first credential for an identity is audited differently.
	count, err := u.credentialRepo.Count(ctx, identityFilter(credential))
	if err != nil {
		return nil, err
	}
	action := credentialDomain.ActionGenerated
	if count == 0 {
		action = credentialDomain.ActionInitialGenerated
	}

	plainSecret, hashedSecret, err := u.secretService.GenerateSecret()
	if err != nil {
		return nil, err
	}

	name := u.nameFormatter.NameFor(credential)
	if err := u.vault.Put(ctx, name, hashedSecret); err != nil {
		plainSecret.Release()
		return nil, err
	}

	err = u.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := u.credentialRepo.Create(ctx, credential); err != nil {
			return err
		}
		return u.audit.Record(ctx, credential.ID, action, nil, credential.Snapshot(), principal.Actor)
	})
	if err != nil {
		plainSecret.Release()
		// Compensating delete so the vault holds no secret the registry
		// never committed.
		if delErr := u.vault.Delete(ctx, name); delErr != nil {
			u.logger.Error("compensating vault delete failed",
				"credential_id", credential.ID.String(), "error", delErr)
		}
		return nil, err
	}

	return &credentialDomain.GenerateOutput{Credential: credential, Secret: plainSecret}, nil
}

// Rotate replaces the credential's secret, invalidating the previous one.
func (u *lifecycleUseCase) Rotate(
	ctx context.Context,
	principal *credentialDomain.Principal,
	credentialID uuid.UUID,
) (*credentialDomain.RotateOutput, error) {
	unlock := u.locks.Lock(credentialID)
	defer unlock()
	return u.rotateLocked(ctx, principal, credentialID)
}

// RotateAdmin rotates the active admin credential for a service.
func (u *lifecycleUseCase) RotateAdmin(
	ctx context.Context,
	principal *credentialDomain.Principal,
	serviceName string,
) (*credentialDomain.RotateOutput, error) {
	if !validation.IsServiceName(serviceName) {
		return nil, credentialDomain.ErrInvalidServiceName
	}
	credential, err := u.credentialRepo.GetActiveByServiceName(ctx, serviceName)
	if err != nil {
		return nil, err
	}

	unlock := u.locks.Lock(credential.ID)
	defer unlock()
	return u.rotateLocked(ctx, principal, credential.ID)
}

func (u *lifecycleUseCase) rotateLocked(
	ctx context.Context,
	principal *credentialDomain.Principal,
	credentialID uuid.UUID,
) (*credentialDomain.RotateOutput, error) {
	credential, err := u.credentialRepo.Get(ctx, credentialID)
	if err != nil {
		return nil, err
	}
	if err := u.authorizer.AuthorizeMutation(principal, credential); err != nil {
		return nil, err
	}
	// Rejected before any vault write.
	if credential.IsRevoked() {
		return nil, credentialDomain.ErrCredentialRevoked
	}

	before := credential.Snapshot()
	expectedUpdatedAt := credential.UpdatedAt

	plainSecret, hashedSecret, err := u.secretService.GenerateSecret()
	if err != nil {
		return nil, err
	}

	name := u.nameFormatter.NameFor(credential)
	if err := u.vault.Put(ctx, name, hashedSecret); err != nil {
		plainSecret.Release()
		return nil, err
	}

	now := time.Now().UTC()
	credential.LastRotatedAt = &now
	credential.UpdatedAt = now

	err = u.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := u.credentialRepo.Update(ctx, credential, expectedUpdatedAt); err != nil {
			return err
		}
		return u.audit.Record(ctx, credential.ID, credentialDomain.ActionRotated, before, credential.Snapshot(), principal.Actor)
	})
	if err != nil {
		plainSecret.Release()
		return nil, err
	}

	return &credentialDomain.RotateOutput{Credential: credential, Secret: plainSecret}, nil
}

// Revoke transitions the credential to its terminal state.
func (u *lifecycleUseCase) Revoke(
	ctx context.Context,
	principal *credentialDomain.Principal,
	credentialID uuid.UUID,
) error {
	unlock := u.locks.Lock(credentialID)
	defer unlock()
	return u.revokeLocked(ctx, principal, credentialID)
}

// RevokeAdmin revokes the active admin credential for a service.
func (u *lifecycleUseCase) RevokeAdmin(
	ctx context.Context,
	principal *credentialDomain.Principal,
	serviceName string,
) error {
	if !validation.IsServiceName(serviceName) {
		return credentialDomain.ErrInvalidServiceName
	}
	credential, err := u.credentialRepo.GetActiveByServiceName(ctx, serviceName)
	if err != nil {
		return err
	}

	unlock := u.locks.Lock(credential.ID)
	defer unlock()
	return u.revokeLocked(ctx, principal, credential.ID)
}

func (u *lifecycleUseCase) revokeLocked(
	ctx context.Context,
	principal *credentialDomain.Principal,
	credentialID uuid.UUID,
) error {
	credential, err := u.credentialRepo.Get(ctx, credentialID)
	if err != nil {
		return err
	}
	if err := u.authorizer.AuthorizeMutation(principal, credential); err != nil {
		return err
	}
	// Idempotent: revoking again changes nothing and writes no audit entry.
	if credential.IsRevoked() {
		return nil
	}

	before := credential.Snapshot()
	expectedUpdatedAt := credential.UpdatedAt

	now := time.Now().UTC()
	credential.Status = credentialDomain.StatusRevoked
	credential.RevokedAt = &now
	credential.UpdatedAt = now

	err = u.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := u.credentialRepo.Update(ctx, credential, expectedUpdatedAt); err != nil {
			return err
		}
		return u.audit.Record(ctx, credential.ID, credentialDomain.ActionRevoked, before, credential.Snapshot(), principal.Actor)
	})
	if err != nil {
		return err
	}

	// Registry first, vault second: once revoked in the registry the
	// credential cannot authenticate even if the vault delete fails.
	name := u.nameFormatter.NameFor(credential)
	if err := u.vault.Delete(ctx, name); err != nil {
		u.logger.Error("vault delete after revoke failed",
			"credential_id", credential.ID.String(), "error", err)
	}
	return nil
}

// Update mutates non-secret metadata.
func (u *lifecycleUseCase) Update(
	ctx context.Context,
	principal *credentialDomain.Principal,
	credentialID uuid.UUID,
	input *credentialDomain.UpdateInput,
) (*credentialDomain.Credential, error) {
	unlock := u.locks.Lock(credentialID)
	defer unlock()

	credential, err := u.credentialRepo.Get(ctx, credentialID)
	if err != nil {
		return nil, err
	}
	if err := u.authorizer.AuthorizeMutation(principal, credential); err != nil {
		return nil, err
	}
	if credential.IsRevoked() {
		return nil, credentialDomain.ErrCredentialRevoked
	}

	before := credential.Snapshot()
	expectedUpdatedAt := credential.UpdatedAt

	if input.Description != nil {
		credential.Description = *input.Description
	}
	if input.RateLimit != nil {
		credential.RateLimit = *input.RateLimit
	}
	if input.AllowedEndpoints != nil {
		credential.AllowedEndpoints = append([]string(nil), input.AllowedEndpoints...)
	}
	credential.UpdatedAt = time.Now().UTC()

	err = u.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := u.credentialRepo.Update(ctx, credential, expectedUpdatedAt); err != nil {
			return err
		}
		return u.audit.Record(ctx, credential.ID, credentialDomain.ActionUpdated, before, credential.Snapshot(), principal.Actor)
	})
	if err != nil {
		return nil, err
	}
	return credential, nil
}

// Get retrieves a credential visible to the principal.
func (u *lifecycleUseCase) Get(
	ctx context.Context,
	principal *credentialDomain.Principal,
	credentialID uuid.UUID,
) (*credentialDomain.Credential, error) {
	credential, err := u.credentialRepo.Get(ctx, credentialID)
	if err != nil {
		return nil, err
	}
	if err := u.authorizer.AuthorizeRead(principal, credential); err != nil {
		return nil, err
	}
	return credential, nil
}

// List retrieves credentials visible to the principal.
func (u *lifecycleUseCase) List(
	ctx context.Context,
	principal *credentialDomain.Principal,
	filter *credentialDomain.ListFilter,
) ([]*credentialDomain.Credential, error) {
	if !principal.IsAdmin() {
		// Merchant principals are pinned to their own credentials.
		filter.OwnerID = principal.OwnerID
		scope := credentialDomain.ScopeMerchant
		filter.Scope = &scope
	}
	return u.credentialRepo.List(ctx, filter)
}

// identityFilter selects all credentials ever issued for the same identity.
func identityFilter(credential *credentialDomain.Credential) *credentialDomain.ListFilter {
	scope := credential.Scope
	if scope == credentialDomain.ScopeAdmin {
		serviceName := credential.ServiceName
		return &credentialDomain.ListFilter{Scope: &scope, ServiceName: &serviceName}
	}
	return &credentialDomain.ListFilter{Scope: &scope, OwnerID: credential.OwnerID}
}
