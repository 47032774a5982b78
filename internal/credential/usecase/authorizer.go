package usecase

import (
	credentialDomain "github.com/paygate/credentials/internal/credential/domain"
)

// ScopeAuthorizer decides whether a principal may act on a target credential.
//
// Admin principals act only on admin credentials; merchant principals act only
// on credentials of their own merchant. Admin principals may read and list
// across merchants but never mutate a merchant credential.
type ScopeAuthorizer struct{}

// NewScopeAuthorizer creates a new ScopeAuthorizer.
func NewScopeAuthorizer() *ScopeAuthorizer {
	return &ScopeAuthorizer{}
}

// AuthorizeMutation gates Rotate, Revoke and Update calls.
func (a *ScopeAuthorizer) AuthorizeMutation(principal *credentialDomain.Principal, credential *credentialDomain.Credential) error {
	if credential.Scope == credentialDomain.ScopeAdmin {
		if !principal.IsAdmin() {
			return credentialDomain.ErrScopeViolation
		}
		return nil
	}

	if principal.IsAdmin() {
		// Admin scope covers its own administrative credentials and reads only.
		return credentialDomain.ErrScopeViolation
	}
	if credential.OwnerID == nil || !principal.Owns(*credential.OwnerID) {
		return credentialDomain.ErrNotOwner
	}
	return nil
}

// AuthorizeRead gates Get and audit-history calls. A merchant principal
// reading a foreign credential gets not-found rather than forbidden, so the
// existence of other merchants' credentials cannot be probed.
func (a *ScopeAuthorizer) AuthorizeRead(principal *credentialDomain.Principal, credential *credentialDomain.Credential) error {
	if principal.IsAdmin() {
		return nil
	}
	if credential.Scope == credentialDomain.ScopeAdmin {
		return credentialDomain.ErrCredentialNotFound
	}
	if credential.OwnerID == nil || !principal.Owns(*credential.OwnerID) {
		return credentialDomain.ErrCredentialNotFound
	}
	return nil
}

// AuthorizeGenerate gates credential issuance before any vault or registry write.
func (a *ScopeAuthorizer) AuthorizeGenerate(principal *credentialDomain.Principal, input *credentialDomain.GenerateInput) error {
	if input.Scope == credentialDomain.ScopeAdmin {
		if !principal.IsAdmin() {
			return credentialDomain.ErrScopeViolation
		}
		return nil
	}

	if principal.IsAdmin() {
		return credentialDomain.ErrScopeViolation
	}
	if input.OwnerID == nil || !principal.Owns(*input.OwnerID) {
		return credentialDomain.ErrNotOwner
	}
	return nil
}
