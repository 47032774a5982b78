package dto

import (
	"github.com/google/uuid"

	credentialDomain "github.com/paygate/credentials/internal/credential/domain"
)

// ToGenerateInput converts a GenerateCredentialRequest into a merchant-scope
// use case input. The owner comes from the authenticated principal.
func ToGenerateInput(req GenerateCredentialRequest, ownerID uuid.UUID) *credentialDomain.GenerateInput {
	return &credentialDomain.GenerateInput{
		Scope:            credentialDomain.ScopeMerchant,
		OwnerID:          &ownerID,
		RateLimit:        req.RateLimit,
		AllowedEndpoints: req.AllowedEndpoints,
		Description:      req.Description,
		Purpose:          req.Purpose,
		ExpiresAt:        req.ExpiresAt,
	}
}

// ToGenerateAdminInput converts a GenerateAdminCredentialRequest into an
// admin-scope use case input.
func ToGenerateAdminInput(req GenerateAdminCredentialRequest) *credentialDomain.GenerateInput {
	return &credentialDomain.GenerateInput{
		Scope:            credentialDomain.ScopeAdmin,
		ServiceName:      req.ServiceName,
		RateLimit:        req.RateLimit,
		AllowedEndpoints: req.AllowedEndpoints,
		Description:      req.Description,
		ExpiresAt:        req.ExpiresAt,
	}
}

// ToUpdateInput converts an UpdateCredentialRequest into a use case input.
func ToUpdateInput(req UpdateCredentialRequest) *credentialDomain.UpdateInput {
	return &credentialDomain.UpdateInput{
		Description:      req.Description,
		RateLimit:        req.RateLimit,
		AllowedEndpoints: req.AllowedEndpoints,
	}
}

// ToCredentialResponse converts a domain Credential into a response DTO.
func ToCredentialResponse(credential *credentialDomain.Credential) CredentialResponse {
	return CredentialResponse{
		ID:               credential.ID,
		Scope:            string(credential.Scope),
		OwnerID:          credential.OwnerID,
		ServiceName:      credential.ServiceName,
		Status:           string(credential.Status),
		RateLimit:        credential.RateLimit,
		AllowedEndpoints: credential.AllowedEndpoints,
		Description:      credential.Description,
		Purpose:          credential.Purpose,
		CreatedAt:        credential.CreatedAt,
		UpdatedAt:        credential.UpdatedAt,
		LastRotatedAt:    credential.LastRotatedAt,
		RevokedAt:        credential.RevokedAt,
		ExpiresAt:        credential.ExpiresAt,
	}
}

// ToCredentialListResponse converts a credential listing into a response DTO.
func ToCredentialListResponse(credentials []*credentialDomain.Credential, offset, limit int) CredentialListResponse {
	items := make([]CredentialResponse, 0, len(credentials))
	for _, credential := range credentials {
		items = append(items, ToCredentialResponse(credential))
	}
	return CredentialListResponse{Credentials: items, Offset: offset, Limit: limit}
}

// ToAuditEntryResponse converts a domain AuditEntry into a response DTO.
func ToAuditEntryResponse(entry *credentialDomain.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:        entry.ID,
		EntityID:  entry.EntityID,
		Action:    string(entry.Action),
		Before:    entry.Before,
		After:     entry.After,
		Actor:     entry.Actor,
		CreatedAt: entry.CreatedAt,
	}
}

// ToPrincipalResponse converts a domain Principal into a response DTO.
func ToPrincipalResponse(principal *credentialDomain.Principal) PrincipalResponse {
	return PrincipalResponse{
		Scope:            string(principal.Scope),
		OwnerID:          principal.OwnerID,
		CredentialID:     principal.CredentialID,
		AllowedEndpoints: principal.AllowedEndpoints,
		RateLimit:        principal.RateLimit,
		Actor:            principal.Actor,
	}
}

// ToAuditEntryListResponse converts an audit listing into a response DTO.
func ToAuditEntryListResponse(entries []*credentialDomain.AuditEntry, offset, limit int) AuditEntryListResponse {
	items := make([]AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, ToAuditEntryResponse(entry))
	}
	return AuditEntryListResponse{Entries: items, Offset: offset, Limit: limit}
}
