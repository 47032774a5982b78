package usecase

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"

	credentialDomain "github.com/paygate/credentials/internal/credential/domain"
	credentialService "github.com/paygate/credentials/internal/credential/service"
	apperrors "github.com/paygate/credentials/internal/errors"
	"github.com/paygate/credentials/internal/validation"
)

// authenticatorUseCase implements AuthenticatorUseCase.
//
// The gates run in a fixed order and each one is hard: header presence,
// timestamp freshness, nonce uniqueness, then the constant-time secret match.
// No vault or registry call happens past the first failing gate, so malformed
// or replayed requests never reach remote backends.
type authenticatorUseCase struct {
	credentialRepo CredentialRepository
	vault          credentialService.SecretVault
	nameFormatter  *credentialService.SecretNameFormatter
	nonceLedger    credentialService.NonceLedger
	secretService  credentialService.SecretService
	replayWindow   time.Duration
}

// NewAuthenticatorUseCase creates a new AuthenticatorUseCase with the provided
// dependencies.
func NewAuthenticatorUseCase(
	credentialRepo CredentialRepository,
	vault credentialService.SecretVault,
	nameFormatter *credentialService.SecretNameFormatter,
	nonceLedger credentialService.NonceLedger,
	secretService credentialService.SecretService,
	replayWindow time.Duration,
) AuthenticatorUseCase {
	return &authenticatorUseCase{
		credentialRepo: credentialRepo,
		vault:          vault,
		nameFormatter:  nameFormatter,
		nonceLedger:    nonceLedger,
		secretService:  secretService,
		replayWindow:   replayWindow,
	}
}

// Authenticate validates the signed request and produces a Principal populated
// from the matched credential record, never from caller-supplied claims.
func (u *authenticatorUseCase) Authenticate(
	ctx context.Context,
	request *credentialDomain.AuthRequest,
) (*credentialDomain.Principal, error) {
	now := time.Now().UTC()

	// Gate 1: header presence.
	if request.Timestamp == "" || request.Nonce == "" || request.Secret == nil {
		return nil, credentialDomain.ErrMissingAuthHeaders
	}
	if !request.IsAdminBootstrap() && (request.APIKeyID == "" || request.OwnerID == "") {
		return nil, credentialDomain.ErrMissingAuthHeaders
	}

	// Gate 2: timestamp freshness.
	requestTime, err := parseTimestamp(request.Timestamp)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "malformed timestamp header")
	}
	if drift := now.Sub(requestTime); drift > u.replayWindow || drift < -u.replayWindow {
		return nil, credentialDomain.ErrStaleTimestamp
	}

	// Gate 3: nonce uniqueness, scoped to the presented identity.
	identity := request.APIKeyID
	if request.IsAdminBootstrap() {
		identity = request.ServiceName
	}
	if !u.nonceLedger.CheckAndInsert(identity+":"+request.Nonce, now) {
		return nil, credentialDomain.ErrNonceReplayed
	}

	// Gate 4: secret match and principal construction.
	if request.IsAdminBootstrap() {
		return u.authenticateAdmin(ctx, request, now)
	}
	return u.authenticateMerchant(ctx, request, now)
}

func (u *authenticatorUseCase) authenticateMerchant(
	ctx context.Context,
	request *credentialDomain.AuthRequest,
	now time.Time,
) (*credentialDomain.Principal, error) {
	credentialID, err := uuid.Parse(request.APIKeyID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "malformed api key id")
	}
	ownerID, err := uuid.Parse(request.OwnerID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "malformed owner id")
	}

	name := u.nameFormatter.MerchantName(ownerID, credentialID)
	if err := u.matchSecret(ctx, name, request.Secret); err != nil {
		return nil, err
	}

	credential, err := u.credentialRepo.Get(ctx, credentialID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, credentialDomain.ErrInvalidCredentials
		}
		return nil, err
	}
	// The credential record is authoritative: a stale vault entry for a
	// revoked, expired or foreign credential never authenticates.
	if credential.Scope != credentialDomain.ScopeMerchant ||
		!credential.OwnedBy(ownerID) ||
		credential.IsRevoked() ||
		credential.IsExpired(now) {
		return nil, credentialDomain.ErrInvalidCredentials
	}

	return principalFrom(credential, request.Actor), nil
}

func (u *authenticatorUseCase) authenticateAdmin(
	ctx context.Context,
	request *credentialDomain.AuthRequest,
	now time.Time,
) (*credentialDomain.Principal, error) {
	if !validation.IsServiceName(request.ServiceName) {
		return nil, credentialDomain.ErrInvalidServiceName
	}

	name := u.nameFormatter.AdminName(request.ServiceName)
	if err := u.matchSecret(ctx, name, request.Secret); err != nil {
		return nil, err
	}

	credential, err := u.credentialRepo.GetActiveByServiceName(ctx, request.ServiceName)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			// Bootstrap path: the shared admin secret exists in the vault
			// before any admin credential record does. The resulting
			// principal carries only the conservative defaults.
			return &credentialDomain.Principal{
				Scope:            credentialDomain.ScopeAdmin,
				CredentialID:     uuid.Nil,
				AllowedEndpoints: append([]string(nil), credentialDomain.DefaultAdminAllowedEndpoints...),
				Actor:            actorOrSystem(request.Actor),
			}, nil
		}
		return nil, err
	}
	if credential.IsExpired(now) {
		return nil, credentialDomain.ErrInvalidCredentials
	}

	return principalFrom(credential, request.Actor), nil
}

// matchSecret fetches the stored hash and compares it against the presented
// secret in constant time. A missing vault entry and a mismatching secret are
// indistinguishable to the caller.
func (u *authenticatorUseCase) matchSecret(ctx context.Context, name string, secret *credentialDomain.Secret) error {
	hashedSecret, err := u.vault.Get(ctx, name)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return credentialDomain.ErrInvalidCredentials
		}
		return err
	}

	var matches bool
	err = secret.WithBytes(func(b []byte) error {
		matches = u.secretService.CompareSecret(b, hashedSecret)
		return nil
	})
	if err != nil {
		return err
	}
	if !matches {
		return credentialDomain.ErrInvalidCredentials
	}
	return nil
}

func principalFrom(credential *credentialDomain.Credential, actor string) *credentialDomain.Principal {
	return &credentialDomain.Principal{
		Scope:            credential.Scope,
		OwnerID:          credential.OwnerID,
		CredentialID:     credential.ID,
		AllowedEndpoints: append([]string(nil), credential.AllowedEndpoints...),
		RateLimit:        credential.RateLimit,
		Actor:            actorOrSystem(actor),
	}
}

func actorOrSystem(actor string) string {
	if actor == "" {
		return credentialDomain.SystemActor
	}
	return actor
}

// parseTimestamp accepts RFC 3339 or Unix epoch seconds.
func parseTimestamp(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	seconds, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(seconds, 0).UTC(), nil
}
