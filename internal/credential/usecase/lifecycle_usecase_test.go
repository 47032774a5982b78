package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	credentialDomain "github.com/paygate/credentials/internal/credential/domain"
	credentialService "github.com/paygate/credentials/internal/credential/service"
	apperrors "github.com/paygate/credentials/internal/errors"
	merchantDomain "github.com/paygate/credentials/internal/merchant/domain"
)

type lifecycleFixture struct {
	txManager     *MockTxManager
	repo          *MockCredentialRepository
	merchants     *MockMerchantDirectory
	secretService *MockSecretService
	vault         *MockSecretVault
	audit         *MockAuditUseCase
	useCase       LifecycleUseCase
}

func newLifecycleFixture(t *testing.T) *lifecycleFixture {
	t.Helper()

	formatter, err := credentialService.NewSecretNameFormatter(
		"admin/{serviceName}-admin-secret",
		"merchants/{ownerId}/apikeys/{credentialId}",
	)
	require.NoError(t, err)

	f := &lifecycleFixture{
		txManager:     new(MockTxManager),
		repo:          new(MockCredentialRepository),
		merchants:     new(MockMerchantDirectory),
		secretService: new(MockSecretService),
		vault:         new(MockSecretVault),
		audit:         new(MockAuditUseCase),
	}
	f.useCase = NewLifecycleUseCase(
		f.txManager,
		f.repo,
		f.merchants,
		f.secretService,
		f.vault,
		formatter,
		NewScopeAuthorizer(),
		f.audit,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return f
}

func merchantPrincipal(ownerID uuid.UUID) *credentialDomain.Principal {
	return &credentialDomain.Principal{
		Scope:        credentialDomain.ScopeMerchant,
		OwnerID:      &ownerID,
		CredentialID: uuid.Must(uuid.NewV7()),
		Actor:        "SYSTEM",
	}
}

func adminPrincipal() *credentialDomain.Principal {
	return &credentialDomain.Principal{
		Scope:        credentialDomain.ScopeAdmin,
		CredentialID: uuid.Nil,
		Actor:        "SYSTEM",
	}
}

func activeMerchantCredential(ownerID uuid.UUID) *credentialDomain.Credential {
	now := time.Now().UTC().Add(-time.Hour)
	return &credentialDomain.Credential{
		ID:               uuid.Must(uuid.NewV7()),
		Scope:            credentialDomain.ScopeMerchant,
		OwnerID:          &ownerID,
		Status:           credentialDomain.StatusActive,
		RateLimit:        10,
		AllowedEndpoints: []string{"/v1/payments/*"},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func TestLifecycleUseCase_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_FirstMerchantCredential", func(t *testing.T) {
		f := newLifecycleFixture(t)
		ownerID := uuid.Must(uuid.NewV7())
		principal := merchantPrincipal(ownerID)

		f.merchants.On("Exists", ctx, ownerID).Return(true, nil)
		f.repo.On("Count", ctx, mock.Anything).Return(int64(0), nil)
		f.secretService.On("GenerateSecret").
			Return(credentialDomain.NewSecretFromString("plain-secret"), "$argon2id$hash", nil)
		f.vault.On("Put", mock.Anything, mock.Anything, "$argon2id$hash").Return(nil)
		f.txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		f.repo.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.audit.On("Record", mock.Anything, mock.Anything,
			credentialDomain.ActionInitialGenerated, map[string]any(nil), mock.Anything, "SYSTEM").Return(nil)

		output, err := f.useCase.Generate(ctx, principal, &credentialDomain.GenerateInput{
			Scope:            credentialDomain.ScopeMerchant,
			OwnerID:          &ownerID,
			RateLimit:        10,
			AllowedEndpoints: []string{"/v1/payments/*"},
		})
		require.NoError(t, err)
		require.NotNil(t, output.Secret)
		assert.Equal(t, credentialDomain.StatusActive, output.Credential.Status)
		assert.Equal(t, ownerID, *output.Credential.OwnerID)

		// The vault name embeds owner and credential id.
		f.vault.AssertCalled(t, "Put", mock.Anything,
			"merchants/"+ownerID.String()+"/apikeys/"+output.Credential.ID.String(),
			"$argon2id$hash")
		f.audit.AssertExpectations(t)
	})

	t.Run("Success_SubsequentCredentialAuditedAsGenerated", func(t *testing.T) {
		f := newLifecycleFixture(t)
		ownerID := uuid.Must(uuid.NewV7())
		principal := merchantPrincipal(ownerID)

		f.merchants.On("Exists", ctx, ownerID).Return(true, nil)
		f.repo.On("Count", ctx, mock.Anything).Return(int64(2), nil)
		f.secretService.On("GenerateSecret").
			Return(credentialDomain.NewSecretFromString("plain-secret"), "$argon2id$hash", nil)
		f.vault.On("Put", mock.Anything, mock.Anything, mock.Anything).Return(nil)
		f.txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		f.repo.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.audit.On("Record", mock.Anything, mock.Anything,
			credentialDomain.ActionGenerated, map[string]any(nil), mock.Anything, "SYSTEM").Return(nil)

		_, err := f.useCase.Generate(ctx, principal, &credentialDomain.GenerateInput{
			Scope:   credentialDomain.ScopeMerchant,
			OwnerID: &ownerID,
		})
		require.NoError(t, err)
		f.audit.AssertExpectations(t)
	})

	t.Run("Success_AdminDefaultEndpoints", func(t *testing.T) {
		f := newLifecycleFixture(t)
		principal := adminPrincipal()

		f.repo.On("Count", ctx, mock.Anything).Return(int64(0), nil)
		f.secretService.On("GenerateSecret").
			Return(credentialDomain.NewSecretFromString("plain-secret"), "$argon2id$hash", nil)
		f.vault.On("Put", mock.Anything, "admin/billing-admin-secret", mock.Anything).Return(nil)
		f.txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		f.repo.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.audit.On("Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		// Empty endpoint list gets the conservative default, not an empty set.
		output, err := f.useCase.Generate(ctx, principal, &credentialDomain.GenerateInput{
			Scope:       credentialDomain.ScopeAdmin,
			ServiceName: "billing",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"/bulk-sale-complete"}, output.Credential.AllowedEndpoints)
	})

	t.Run("Error_MerchantDoesNotExist", func(t *testing.T) {
		f := newLifecycleFixture(t)
		ownerID := uuid.Must(uuid.NewV7())
		principal := merchantPrincipal(ownerID)

		f.merchants.On("Exists", ctx, ownerID).Return(false, nil)

		_, err := f.useCase.Generate(ctx, principal, &credentialDomain.GenerateInput{
			Scope:   credentialDomain.ScopeMerchant,
			OwnerID: &ownerID,
		})
		assert.ErrorIs(t, err, merchantDomain.ErrMerchantNotFound)
		f.vault.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error_MerchantPrincipalCannotRequestAdminScope", func(t *testing.T) {
		f := newLifecycleFixture(t)
		principal := merchantPrincipal(uuid.Must(uuid.NewV7()))

		_, err := f.useCase.Generate(ctx, principal, &credentialDomain.GenerateInput{
			Scope:       credentialDomain.ScopeAdmin,
			ServiceName: "billing",
		})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("Error_CrossOwnerGenerateForbidden", func(t *testing.T) {
		f := newLifecycleFixture(t)
		principal := merchantPrincipal(uuid.Must(uuid.NewV7()))
		otherOwner := uuid.Must(uuid.NewV7())

		_, err := f.useCase.Generate(ctx, principal, &credentialDomain.GenerateInput{
			Scope:   credentialDomain.ScopeMerchant,
			OwnerID: &otherOwner,
		})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("Error_InvalidServiceName", func(t *testing.T) {
		f := newLifecycleFixture(t)
		principal := adminPrincipal()

		_, err := f.useCase.Generate(ctx, principal, &credentialDomain.GenerateInput{
			Scope:       credentialDomain.ScopeAdmin,
			ServiceName: "billing/../../etc",
		})
		assert.ErrorIs(t, err, credentialDomain.ErrInvalidServiceName)
		f.vault.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error_RegistryFailureTriggersCompensatingVaultDelete", func(t *testing.T) {
		f := newLifecycleFixture(t)
		ownerID := uuid.Must(uuid.NewV7())
		principal := merchantPrincipal(ownerID)

		f.merchants.On("Exists", ctx, ownerID).Return(true, nil)
		f.repo.On("Count", ctx, mock.Anything).Return(int64(0), nil)
		f.secretService.On("GenerateSecret").
			Return(credentialDomain.NewSecretFromString("plain-secret"), "$argon2id$hash", nil)
		f.vault.On("Put", mock.Anything, mock.Anything, mock.Anything).Return(nil)
		f.txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		f.repo.On("Create", mock.Anything, mock.Anything).Return(apperrors.New("insert failed"))
		f.vault.On("Delete", mock.Anything, mock.Anything).Return(nil)

		_, err := f.useCase.Generate(ctx, principal, &credentialDomain.GenerateInput{
			Scope:   credentialDomain.ScopeMerchant,
			OwnerID: &ownerID,
		})
		require.Error(t, err)
		f.vault.AssertCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("Error_VaultPutFailurePropagates", func(t *testing.T) {
		f := newLifecycleFixture(t)
		ownerID := uuid.Must(uuid.NewV7())
		principal := merchantPrincipal(ownerID)

		f.merchants.On("Exists", ctx, ownerID).Return(true, nil)
		f.repo.On("Count", ctx, mock.Anything).Return(int64(0), nil)
		f.secretService.On("GenerateSecret").
			Return(credentialDomain.NewSecretFromString("plain-secret"), "$argon2id$hash", nil)
		f.vault.On("Put", mock.Anything, mock.Anything, mock.Anything).
			Return(apperrors.Wrap(apperrors.ErrUpstream, "vault timeout"))

		_, err := f.useCase.Generate(ctx, principal, &credentialDomain.GenerateInput{
			Scope:   credentialDomain.ScopeMerchant,
			OwnerID: &ownerID,
		})
		assert.ErrorIs(t, err, apperrors.ErrUpstream)
		// No credential row exists for a secret that failed to persist.
		f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestLifecycleUseCase_Rotate(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newLifecycleFixture(t)
		ownerID := uuid.Must(uuid.NewV7())
		principal := merchantPrincipal(ownerID)
		credential := activeMerchantCredential(ownerID)
		previousUpdatedAt := credential.UpdatedAt

		f.repo.On("Get", mock.Anything, credential.ID).Return(credential, nil)
		f.secretService.On("GenerateSecret").
			Return(credentialDomain.NewSecretFromString("new-secret"), "$argon2id$newhash", nil)
		f.vault.On("Put", mock.Anything,
			"merchants/"+ownerID.String()+"/apikeys/"+credential.ID.String(),
			"$argon2id$newhash").Return(nil)
		f.txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		f.repo.On("Update", mock.Anything, credential, previousUpdatedAt).Return(nil)
		f.audit.On("Record", mock.Anything, credential.ID,
			credentialDomain.ActionRotated, mock.Anything, mock.Anything, "SYSTEM").Return(nil)

		output, err := f.useCase.Rotate(ctx, principal, credential.ID)
		require.NoError(t, err)
		require.NotNil(t, output.Secret)
		require.NotNil(t, output.Credential.LastRotatedAt)
		f.audit.AssertExpectations(t)
	})

	t.Run("Error_RevokedCredentialConflictBeforeVaultWrite", func(t *testing.T) {
		f := newLifecycleFixture(t)
		ownerID := uuid.Must(uuid.NewV7())
		principal := merchantPrincipal(ownerID)
		credential := activeMerchantCredential(ownerID)
		credential.Status = credentialDomain.StatusRevoked

		f.repo.On("Get", mock.Anything, credential.ID).Return(credential, nil)

		output, err := f.useCase.Rotate(ctx, principal, credential.ID)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
		assert.Nil(t, output)
		f.vault.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything)
		f.secretService.AssertNotCalled(t, "GenerateSecret")
	})

	t.Run("Error_CrossOwnerForbidden", func(t *testing.T) {
		f := newLifecycleFixture(t)
		principal := merchantPrincipal(uuid.Must(uuid.NewV7()))
		credential := activeMerchantCredential(uuid.Must(uuid.NewV7()))

		f.repo.On("Get", mock.Anything, credential.ID).Return(credential, nil)

		_, err := f.useCase.Rotate(ctx, principal, credential.ID)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		f.vault.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		f := newLifecycleFixture(t)
		principal := adminPrincipal()
		credentialID := uuid.Must(uuid.NewV7())

		f.repo.On("Get", mock.Anything, credentialID).
			Return(nil, credentialDomain.ErrCredentialNotFound)

		_, err := f.useCase.Rotate(ctx, principal, credentialID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("Error_ConcurrentModification", func(t *testing.T) {
		f := newLifecycleFixture(t)
		ownerID := uuid.Must(uuid.NewV7())
		principal := merchantPrincipal(ownerID)
		credential := activeMerchantCredential(ownerID)

		f.repo.On("Get", mock.Anything, credential.ID).Return(credential, nil)
		f.secretService.On("GenerateSecret").
			Return(credentialDomain.NewSecretFromString("new-secret"), "$argon2id$newhash", nil)
		f.vault.On("Put", mock.Anything, mock.Anything, mock.Anything).Return(nil)
		f.txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		f.repo.On("Update", mock.Anything, mock.Anything, mock.Anything).
			Return(credentialDomain.ErrConcurrentModification)

		_, err := f.useCase.Rotate(ctx, principal, credential.ID)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})
}

func TestLifecycleUseCase_Revoke(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newLifecycleFixture(t)
		ownerID := uuid.Must(uuid.NewV7())
		principal := merchantPrincipal(ownerID)
		credential := activeMerchantCredential(ownerID)
		previousUpdatedAt := credential.UpdatedAt

		f.repo.On("Get", mock.Anything, credential.ID).Return(credential, nil)
		f.txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		f.repo.On("Update", mock.Anything, credential, previousUpdatedAt).Return(nil)
		f.audit.On("Record", mock.Anything, credential.ID,
			credentialDomain.ActionRevoked, mock.Anything, mock.Anything, "SYSTEM").Return(nil)
		f.vault.On("Delete", mock.Anything, mock.Anything).Return(nil)

		err := f.useCase.Revoke(ctx, principal, credential.ID)
		require.NoError(t, err)
		assert.Equal(t, credentialDomain.StatusRevoked, credential.Status)
		assert.NotNil(t, credential.RevokedAt)
		f.vault.AssertCalled(t, "Delete", mock.Anything,
			"merchants/"+ownerID.String()+"/apikeys/"+credential.ID.String())
	})

	t.Run("Success_AlreadyRevokedIsIdempotent", func(t *testing.T) {
		f := newLifecycleFixture(t)
		ownerID := uuid.Must(uuid.NewV7())
		principal := merchantPrincipal(ownerID)
		credential := activeMerchantCredential(ownerID)
		credential.Status = credentialDomain.StatusRevoked

		f.repo.On("Get", mock.Anything, credential.ID).Return(credential, nil)

		err := f.useCase.Revoke(ctx, principal, credential.ID)
		require.NoError(t, err)
		f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
		f.audit.AssertNotCalled(t, "Record",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Success_VaultDeleteFailureDoesNotUndoRevocation", func(t *testing.T) {
		f := newLifecycleFixture(t)
		ownerID := uuid.Must(uuid.NewV7())
		principal := merchantPrincipal(ownerID)
		credential := activeMerchantCredential(ownerID)

		f.repo.On("Get", mock.Anything, credential.ID).Return(credential, nil)
		f.txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		f.repo.On("Update", mock.Anything, mock.Anything, mock.Anything).Return(nil)
		f.audit.On("Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		f.vault.On("Delete", mock.Anything, mock.Anything).
			Return(apperrors.Wrap(apperrors.ErrUpstream, "vault unreachable"))

		err := f.useCase.Revoke(ctx, principal, credential.ID)
		require.NoError(t, err)
		assert.Equal(t, credentialDomain.StatusRevoked, credential.Status)
	})

	t.Run("Error_AdminCannotRevokeMerchantCredential", func(t *testing.T) {
		f := newLifecycleFixture(t)
		principal := adminPrincipal()
		credential := activeMerchantCredential(uuid.Must(uuid.NewV7()))

		f.repo.On("Get", mock.Anything, credential.ID).Return(credential, nil)

		err := f.useCase.Revoke(ctx, principal, credential.ID)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})
}

func TestLifecycleUseCase_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_PartialUpdate", func(t *testing.T) {
		f := newLifecycleFixture(t)
		ownerID := uuid.Must(uuid.NewV7())
		principal := merchantPrincipal(ownerID)
		credential := activeMerchantCredential(ownerID)

		f.repo.On("Get", mock.Anything, credential.ID).Return(credential, nil)
		f.txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		f.repo.On("Update", mock.Anything, credential, mock.Anything).Return(nil)
		f.audit.On("Record", mock.Anything, credential.ID,
			credentialDomain.ActionUpdated, mock.Anything, mock.Anything, "SYSTEM").Return(nil)

		description := "updated description"
		rateLimit := 25
		updated, err := f.useCase.Update(ctx, principal, credential.ID, &credentialDomain.UpdateInput{
			Description: &description,
			RateLimit:   &rateLimit,
		})
		require.NoError(t, err)
		assert.Equal(t, "updated description", updated.Description)
		assert.Equal(t, 25, updated.RateLimit)
		// Untouched fields keep their values.
		assert.Equal(t, []string{"/v1/payments/*"}, updated.AllowedEndpoints)
	})

	t.Run("Error_RevokedCredential", func(t *testing.T) {
		f := newLifecycleFixture(t)
		ownerID := uuid.Must(uuid.NewV7())
		principal := merchantPrincipal(ownerID)
		credential := activeMerchantCredential(ownerID)
		credential.Status = credentialDomain.StatusRevoked

		f.repo.On("Get", mock.Anything, credential.ID).Return(credential, nil)

		description := "nope"
		_, err := f.useCase.Update(ctx, principal, credential.ID, &credentialDomain.UpdateInput{
			Description: &description,
		})
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("Error_CrossOwnerForbiddenRegardlessOfBody", func(t *testing.T) {
		f := newLifecycleFixture(t)
		principal := merchantPrincipal(uuid.Must(uuid.NewV7()))
		credential := activeMerchantCredential(uuid.Must(uuid.NewV7()))

		f.repo.On("Get", mock.Anything, credential.ID).Return(credential, nil)

		description := "attempted takeover"
		_, err := f.useCase.Update(ctx, principal, credential.ID, &credentialDomain.UpdateInput{
			Description: &description,
		})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestLifecycleUseCase_GetAndList(t *testing.T) {
	ctx := context.Background()

	t.Run("Get_CrossOwnerSurfacesAsNotFound", func(t *testing.T) {
		f := newLifecycleFixture(t)
		principal := merchantPrincipal(uuid.Must(uuid.NewV7()))
		credential := activeMerchantCredential(uuid.Must(uuid.NewV7()))

		f.repo.On("Get", mock.Anything, credential.ID).Return(credential, nil)

		_, err := f.useCase.Get(ctx, principal, credential.ID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("Get_AdminReadsAnyCredential", func(t *testing.T) {
		f := newLifecycleFixture(t)
		principal := adminPrincipal()
		credential := activeMerchantCredential(uuid.Must(uuid.NewV7()))

		f.repo.On("Get", mock.Anything, credential.ID).Return(credential, nil)

		retrieved, err := f.useCase.Get(ctx, principal, credential.ID)
		require.NoError(t, err)
		assert.Equal(t, credential.ID, retrieved.ID)
	})

	t.Run("List_MerchantPinnedToOwnOwner", func(t *testing.T) {
		f := newLifecycleFixture(t)
		ownerID := uuid.Must(uuid.NewV7())
		principal := merchantPrincipal(ownerID)
		otherOwner := uuid.Must(uuid.NewV7())

		f.repo.On("List", mock.Anything, mock.MatchedBy(func(filter *credentialDomain.ListFilter) bool {
			return filter.OwnerID != nil && *filter.OwnerID == ownerID
		})).Return([]*credentialDomain.Credential{}, nil)

		// The requested foreign owner filter is overridden.
		_, err := f.useCase.List(ctx, principal, &credentialDomain.ListFilter{OwnerID: &otherOwner, Limit: 50})
		require.NoError(t, err)
		f.repo.AssertExpectations(t)
	})
}

func TestLifecycleUseCase_AdminByServiceName(t *testing.T) {
	ctx := context.Background()

	t.Run("RotateAdmin_Success", func(t *testing.T) {
		f := newLifecycleFixture(t)
		principal := adminPrincipal()

		now := time.Now().UTC().Add(-time.Hour)
		credential := &credentialDomain.Credential{
			ID:               uuid.Must(uuid.NewV7()),
			Scope:            credentialDomain.ScopeAdmin,
			ServiceName:      "billing",
			Status:           credentialDomain.StatusActive,
			AllowedEndpoints: []string{"/bulk-sale-complete"},
			CreatedAt:        now,
			UpdatedAt:        now,
		}

		f.repo.On("GetActiveByServiceName", ctx, "billing").Return(credential, nil)
		f.repo.On("Get", mock.Anything, credential.ID).Return(credential, nil)
		f.secretService.On("GenerateSecret").
			Return(credentialDomain.NewSecretFromString("new-secret"), "$argon2id$newhash", nil)
		f.vault.On("Put", mock.Anything, "admin/billing-admin-secret", "$argon2id$newhash").Return(nil)
		f.txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		f.repo.On("Update", mock.Anything, mock.Anything, mock.Anything).Return(nil)
		f.audit.On("Record", mock.Anything, credential.ID,
			credentialDomain.ActionRotated, mock.Anything, mock.Anything, "SYSTEM").Return(nil)

		output, err := f.useCase.RotateAdmin(ctx, principal, "billing")
		require.NoError(t, err)
		require.NotNil(t, output.Secret)
	})

	t.Run("RotateAdmin_InvalidServiceName", func(t *testing.T) {
		f := newLifecycleFixture(t)
		principal := adminPrincipal()

		_, err := f.useCase.RotateAdmin(ctx, principal, "billing/../admin")
		assert.ErrorIs(t, err, credentialDomain.ErrInvalidServiceName)
	})

	t.Run("RevokeAdmin_Success", func(t *testing.T) {
		f := newLifecycleFixture(t)
		principal := adminPrincipal()

		now := time.Now().UTC().Add(-time.Hour)
		credential := &credentialDomain.Credential{
			ID:          uuid.Must(uuid.NewV7()),
			Scope:       credentialDomain.ScopeAdmin,
			ServiceName: "billing",
			Status:      credentialDomain.StatusActive,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		f.repo.On("GetActiveByServiceName", ctx, "billing").Return(credential, nil)
		f.repo.On("Get", mock.Anything, credential.ID).Return(credential, nil)
		f.txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		f.repo.On("Update", mock.Anything, mock.Anything, mock.Anything).Return(nil)
		f.audit.On("Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		f.vault.On("Delete", mock.Anything, "admin/billing-admin-secret").Return(nil)

		err := f.useCase.RevokeAdmin(ctx, principal, "billing")
		require.NoError(t, err)
		assert.Equal(t, credentialDomain.StatusRevoked, credential.Status)
	})
}
