package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	credentialDomain "github.com/paygate/credentials/internal/credential/domain"
	"github.com/paygate/credentials/internal/metrics"
)

// lifecycleUseCaseWithMetrics decorates LifecycleUseCase with metrics instrumentation.
type lifecycleUseCaseWithMetrics struct {
	next    LifecycleUseCase
	metrics metrics.BusinessMetrics
}

// NewLifecycleUseCaseWithMetrics wraps a LifecycleUseCase with metrics recording.
func NewLifecycleUseCaseWithMetrics(useCase LifecycleUseCase, m metrics.BusinessMetrics) LifecycleUseCase {
	return &lifecycleUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (l *lifecycleUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	l.metrics.RecordOperation(ctx, "credential", operation, status)
	l.metrics.RecordDuration(ctx, "credential", operation, time.Since(start), status)
}

// Generate records metrics for credential issuance.
func (l *lifecycleUseCaseWithMetrics) Generate(
	ctx context.Context,
	principal *credentialDomain.Principal,
	input *credentialDomain.GenerateInput,
) (*credentialDomain.GenerateOutput, error) {
	start := time.Now()
	output, err := l.next.Generate(ctx, principal, input)
	l.record(ctx, "generate", start, err)
	return output, err
}

// Rotate records metrics for secret rotation.
func (l *lifecycleUseCaseWithMetrics) Rotate(
	ctx context.Context,
	principal *credentialDomain.Principal,
	credentialID uuid.UUID,
) (*credentialDomain.RotateOutput, error) {
	start := time.Now()
	output, err := l.next.Rotate(ctx, principal, credentialID)
	l.record(ctx, "rotate", start, err)
	return output, err
}

// Revoke records metrics for credential revocation.
func (l *lifecycleUseCaseWithMetrics) Revoke(
	ctx context.Context,
	principal *credentialDomain.Principal,
	credentialID uuid.UUID,
) error {
	start := time.Now()
	err := l.next.Revoke(ctx, principal, credentialID)
	l.record(ctx, "revoke", start, err)
	return err
}

// Update records metrics for metadata updates.
func (l *lifecycleUseCaseWithMetrics) Update(
	ctx context.Context,
	principal *credentialDomain.Principal,
	credentialID uuid.UUID,
	input *credentialDomain.UpdateInput,
) (*credentialDomain.Credential, error) {
	start := time.Now()
	credential, err := l.next.Update(ctx, principal, credentialID, input)
	l.record(ctx, "update", start, err)
	return credential, err
}

// Get records metrics for credential retrieval.
func (l *lifecycleUseCaseWithMetrics) Get(
	ctx context.Context,
	principal *credentialDomain.Principal,
	credentialID uuid.UUID,
) (*credentialDomain.Credential, error) {
	start := time.Now()
	credential, err := l.next.Get(ctx, principal, credentialID)
	l.record(ctx, "get", start, err)
	return credential, err
}

// List records metrics for credential listing.
func (l *lifecycleUseCaseWithMetrics) List(
	ctx context.Context,
	principal *credentialDomain.Principal,
	filter *credentialDomain.ListFilter,
) ([]*credentialDomain.Credential, error) {
	start := time.Now()
	credentials, err := l.next.List(ctx, principal, filter)
	l.record(ctx, "list", start, err)
	return credentials, err
}

// RotateAdmin records metrics for admin credential rotation.
func (l *lifecycleUseCaseWithMetrics) RotateAdmin(
	ctx context.Context,
	principal *credentialDomain.Principal,
	serviceName string,
) (*credentialDomain.RotateOutput, error) {
	start := time.Now()
	output, err := l.next.RotateAdmin(ctx, principal, serviceName)
	l.record(ctx, "rotate_admin", start, err)
	return output, err
}

// RevokeAdmin records metrics for admin credential revocation.
func (l *lifecycleUseCaseWithMetrics) RevokeAdmin(
	ctx context.Context,
	principal *credentialDomain.Principal,
	serviceName string,
) error {
	start := time.Now()
	err := l.next.RevokeAdmin(ctx, principal, serviceName)
	l.record(ctx, "revoke_admin", start, err)
	return err
}

// authenticatorUseCaseWithMetrics decorates AuthenticatorUseCase with metrics
// instrumentation.
type authenticatorUseCaseWithMetrics struct {
	next    AuthenticatorUseCase
	metrics metrics.BusinessMetrics
}

// NewAuthenticatorUseCaseWithMetrics wraps an AuthenticatorUseCase with
// metrics recording.
func NewAuthenticatorUseCaseWithMetrics(useCase AuthenticatorUseCase, m metrics.BusinessMetrics) AuthenticatorUseCase {
	return &authenticatorUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Authenticate records metrics for authentication attempts.
func (a *authenticatorUseCaseWithMetrics) Authenticate(
	ctx context.Context,
	request *credentialDomain.AuthRequest,
) (*credentialDomain.Principal, error) {
	start := time.Now()
	principal, err := a.next.Authenticate(ctx, request)

	status := "success"
	if err != nil {
		status = "error"
	}
	a.metrics.RecordOperation(ctx, "auth", "authenticate", status)
	a.metrics.RecordDuration(ctx, "auth", "authenticate", time.Since(start), status)

	return principal, err
}
