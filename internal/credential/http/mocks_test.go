package http

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	credentialDomain "github.com/paygate/credentials/internal/credential/domain"
)

// MockLifecycleUseCase is a mock implementation of usecase.LifecycleUseCase
type MockLifecycleUseCase struct {
	mock.Mock
}

func (m *MockLifecycleUseCase) Generate(ctx context.Context, principal *credentialDomain.Principal, input *credentialDomain.GenerateInput) (*credentialDomain.GenerateOutput, error) {
	args := m.Called(ctx, principal, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credentialDomain.GenerateOutput), args.Error(1)
}

func (m *MockLifecycleUseCase) Rotate(ctx context.Context, principal *credentialDomain.Principal, credentialID uuid.UUID) (*credentialDomain.RotateOutput, error) {
	args := m.Called(ctx, principal, credentialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credentialDomain.RotateOutput), args.Error(1)
}

func (m *MockLifecycleUseCase) Revoke(ctx context.Context, principal *credentialDomain.Principal, credentialID uuid.UUID) error {
	args := m.Called(ctx, principal, credentialID)
	return args.Error(0)
}

func (m *MockLifecycleUseCase) Update(ctx context.Context, principal *credentialDomain.Principal, credentialID uuid.UUID, input *credentialDomain.UpdateInput) (*credentialDomain.Credential, error) {
	args := m.Called(ctx, principal, credentialID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credentialDomain.Credential), args.Error(1)
}

func (m *MockLifecycleUseCase) Get(ctx context.Context, principal *credentialDomain.Principal, credentialID uuid.UUID) (*credentialDomain.Credential, error) {
	args := m.Called(ctx, principal, credentialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credentialDomain.Credential), args.Error(1)
}

func (m *MockLifecycleUseCase) List(ctx context.Context, principal *credentialDomain.Principal, filter *credentialDomain.ListFilter) ([]*credentialDomain.Credential, error) {
	args := m.Called(ctx, principal, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*credentialDomain.Credential), args.Error(1)
}

func (m *MockLifecycleUseCase) RotateAdmin(ctx context.Context, principal *credentialDomain.Principal, serviceName string) (*credentialDomain.RotateOutput, error) {
	args := m.Called(ctx, principal, serviceName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credentialDomain.RotateOutput), args.Error(1)
}

func (m *MockLifecycleUseCase) RevokeAdmin(ctx context.Context, principal *credentialDomain.Principal, serviceName string) error {
	args := m.Called(ctx, principal, serviceName)
	return args.Error(0)
}

// MockAuthenticatorUseCase is a mock implementation of usecase.AuthenticatorUseCase
type MockAuthenticatorUseCase struct {
	mock.Mock
}

func (m *MockAuthenticatorUseCase) Authenticate(ctx context.Context, request *credentialDomain.AuthRequest) (*credentialDomain.Principal, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credentialDomain.Principal), args.Error(1)
}

// MockAuditUseCase is a mock implementation of usecase.AuditUseCase
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
