package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	credentialDomain "github.com/paygate/credentials/internal/credential/domain"
)

// MockTxManager is a mock implementation of database.TxManager
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Get(0) != nil {
		return args.Error(0)
	}
	// Execute the function to test the logic inside
	return fn(ctx)
}

// MockCredentialRepository is a mock implementation of CredentialRepository
type MockCredentialRepository struct {
	mock.Mock
}

func (m *MockCredentialRepository) Create(ctx context.Context, credential *credentialDomain.Credential) error {
	args := m.Called(ctx, credential)
	return args.Error(0)
}

func (m *MockCredentialRepository) Get(ctx context.Context, credentialID uuid.UUID) (*credentialDomain.Credential, error) {
	args := m.Called(ctx, credentialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credentialDomain.Credential), args.Error(1)
}

func (m *MockCredentialRepository) GetActiveByServiceName(ctx context.Context, serviceName string) (*credentialDomain.Credential, error) {
	args := m.Called(ctx, serviceName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credentialDomain.Credential), args.Error(1)
}

func (m *MockCredentialRepository) List(ctx context.Context, filter *credentialDomain.ListFilter) ([]*credentialDomain.Credential, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*credentialDomain.Credential), args.Error(1)
}

func (m *MockCredentialRepository) Count(ctx context.Context, filter *credentialDomain.ListFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCredentialRepository) Update(ctx context.Context, credential *credentialDomain.Credential, expectedUpdatedAt time.Time) error {
	args := m.Called(ctx, credential, expectedUpdatedAt)
	return args.Error(0)
}

// MockAuditRepository is a mock implementation of AuditRepository
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Create(ctx context.Context, entry *credentialDomain.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) ListByEntity(ctx context.Context, entityID uuid.UUID, offset, limit int) ([]*credentialDomain.AuditEntry, error) {
	args := m.Called(ctx, entityID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*credentialDomain.AuditEntry), args.Error(1)
}

func (m *MockAuditRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockMerchantDirectory is a mock implementation of MerchantDirectory
type MockMerchantDirectory struct {
	mock.Mock
}

func (m *MockMerchantDirectory) Exists(ctx context.Context, merchantID uuid.UUID) (bool, error) {
	args := m.Called(ctx, merchantID)
	return args.Bool(0), args.Error(1)
}

// MockSecretService is a mock implementation of service.SecretService
type MockSecretService struct {
	mock.Mock
}

func (m *MockSecretService) GenerateSecret() (*credentialDomain.Secret, string, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*credentialDomain.Secret), args.String(1), args.Error(2)
}

func (m *MockSecretService) HashSecret(plainSecret *credentialDomain.Secret) (string, error) {
	args := m.Called(plainSecret)
	return args.String(0), args.Error(1)
}

func (m *MockSecretService) CompareSecret(plainSecret []byte, hashedSecret string) bool {
	args := m.Called(plainSecret, hashedSecret)
	return args.Bool(0)
}

// MockSecretVault is a mock implementation of service.SecretVault
type MockSecretVault struct {
	mock.Mock
}

func (m *MockSecretVault) Put(ctx context.Context, name string, hashedSecret string) error {
	args := m.Called(ctx, name, hashedSecret)
	return args.Error(0)
}

func (m *MockSecretVault) Get(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

func (m *MockSecretVault) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

// MockNonceLedger is a mock implementation of service.NonceLedger
type MockNonceLedger struct {
	mock.Mock
}

func (m *MockNonceLedger) CheckAndInsert(nonce string, now time.Time) bool {
	args := m.Called(nonce, now)
	return args.Bool(0)
}

func (m *MockNonceLedger) Close() {
	m.Called()
}

// MockAuditUseCase is a mock implementation of AuditUseCase
type MockAuditUseCase struct {
	mock.Mock
}

func (m *MockAuditUseCase) Record(ctx context.Context, entityID uuid.UUID, action credentialDomain.AuditAction, before, after map[string]any, actor string) error {
	args := m.Called(ctx, entityID, action, before, after, actor)
	return args.Error(0)
}

func (m *MockAuditUseCase) ListByCredential(ctx context.Context, principal *credentialDomain.Principal, credentialID uuid.UUID, offset, limit int) ([]*credentialDomain.AuditEntry, error) {
	args := m.Called(ctx, principal, credentialID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*credentialDomain.AuditEntry), args.Error(1)
}

func (m *MockAuditUseCase) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}
