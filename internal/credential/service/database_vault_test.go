package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gocloud.dev/secrets"

	"github.com/paygate/credentials/internal/credential/domain"
	apperrors "github.com/paygate/credentials/internal/errors"
)

// MockSecretBlobRepository is a mock implementation of SecretBlobRepository
type MockSecretBlobRepository struct {
	mock.Mock
}

func (m *MockSecretBlobRepository) Upsert(ctx context.Context, blob *SecretBlob) error {
	args := m.Called(ctx, blob)
	return args.Error(0)
}

func (m *MockSecretBlobRepository) Get(ctx context.Context, name string) (*SecretBlob, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SecretBlob), args.Error(1)
}

func (m *MockSecretBlobRepository) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

// generateLocalSecretsURI generates a base64key:// URI for testing.
func generateLocalSecretsURI(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return "base64key://" + base64.URLEncoding.EncodeToString(key)
}

func openTestKeeper(t *testing.T) *secrets.Keeper {
	t.Helper()
	keeper, err := OpenKeeper(context.Background(), generateLocalSecretsURI(t))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, keeper.Close())
	})
	return keeper
}

func TestOpenKeeper(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_LocalSecrets", func(t *testing.T) {
		keeper, err := OpenKeeper(ctx, generateLocalSecretsURI(t))
		require.NoError(t, err)
		require.NotNil(t, keeper)
		assert.NoError(t, keeper.Close())
	})

	t.Run("Error_InvalidURI", func(t *testing.T) {
		keeper, err := OpenKeeper(ctx, "invalid://uri")
		assert.Error(t, err)
		assert.Nil(t, keeper)
		assert.Contains(t, err.Error(), "failed to open KMS keeper")
	})
}

func TestDatabaseVault_Put(t *testing.T) {
	ctx := context.Background()
	keeper := openTestKeeper(t)

	t.Run("Success_StoresEncryptedBlob", func(t *testing.T) {
		mockRepo := new(MockSecretBlobRepository)
		vault := NewDatabaseVault(keeper, mockRepo)

		mockRepo.On("Upsert", ctx, mock.MatchedBy(func(blob *SecretBlob) bool {
			// Ciphertext must not carry the hash in the clear.
			return blob.Name == "merchants/abc/apikeys/def" &&
				len(blob.Ciphertext) > 0 &&
				string(blob.Ciphertext) != "$argon2id$hash"
		})).Return(nil)

		err := vault.Put(ctx, "merchants/abc/apikeys/def", "$argon2id$hash")
		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Error_RepositoryFailure", func(t *testing.T) {
		mockRepo := new(MockSecretBlobRepository)
		vault := NewDatabaseVault(keeper, mockRepo)

		mockRepo.On("Upsert", ctx, mock.Anything).Return(apperrors.New("insert failed"))

		err := vault.Put(ctx, "merchants/abc/apikeys/def", "$argon2id$hash")
		assert.Error(t, err)
	})
}

func TestDatabaseVault_Get(t *testing.T) {
	ctx := context.Background()
	keeper := openTestKeeper(t)

	t.Run("Success_RoundTrip", func(t *testing.T) {
		mockRepo := new(MockSecretBlobRepository)
		vault := NewDatabaseVault(keeper, mockRepo)

		var stored *SecretBlob
		mockRepo.On("Upsert", ctx, mock.Anything).Run(func(args mock.Arguments) {
			stored = args.Get(1).(*SecretBlob)
		}).Return(nil)

		require.NoError(t, vault.Put(ctx, "admin/billing-admin-secret", "$argon2id$hash"))
		require.NotNil(t, stored)

		mockRepo.On("Get", ctx, "admin/billing-admin-secret").Return(stored, nil)

		hashedSecret, err := vault.Get(ctx, "admin/billing-admin-secret")
		require.NoError(t, err)
		assert.Equal(t, "$argon2id$hash", hashedSecret)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		mockRepo := new(MockSecretBlobRepository)
		vault := NewDatabaseVault(keeper, mockRepo)

		mockRepo.On("Get", ctx, "admin/unknown-admin-secret").Return(nil, domain.ErrSecretNotFound)

		_, err := vault.Get(ctx, "admin/unknown-admin-secret")
		assert.ErrorIs(t, err, domain.ErrSecretNotFound)
	})

	t.Run("Error_CorruptCiphertext", func(t *testing.T) {
		mockRepo := new(MockSecretBlobRepository)
		vault := NewDatabaseVault(keeper, mockRepo)

		blob := &SecretBlob{Name: "admin/billing-admin-secret", Ciphertext: []byte("garbage")}
		mockRepo.On("Get", ctx, "admin/billing-admin-secret").Return(blob, nil)

		_, err := vault.Get(ctx, "admin/billing-admin-secret")
		assert.ErrorIs(t, err, apperrors.ErrUpstream)
	})
}

func TestDatabaseVault_Delete(t *testing.T) {
	ctx := context.Background()
	keeper := openTestKeeper(t)

	mockRepo := new(MockSecretBlobRepository)
	vault := NewDatabaseVault(keeper, mockRepo)

	mockRepo.On("Delete", ctx, "merchants/abc/apikeys/def").Return(nil)

	err := vault.Delete(ctx, "merchants/abc/apikeys/def")
	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}
