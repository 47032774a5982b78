package dto

import (
	"time"

	"github.com/google/uuid"
)

// CredentialResponse represents the API response for a credential. It never
// carries secret material.
type CredentialResponse struct {
	ID               uuid.UUID  `json:"id"`
	Scope            string     `json:"scope"`
	OwnerID          *uuid.UUID `json:"ownerId,omitempty"`
	ServiceName      string     `json:"serviceName,omitempty"`
	Status           string     `json:"status"`
	RateLimit        int        `json:"rateLimit"`
	AllowedEndpoints []string   `json:"allowedEndpoints"`
	Description      string     `json:"description,omitempty"`
	Purpose          string     `json:"purpose,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
	LastRotatedAt    *time.Time `json:"lastRotatedAt,omitempty"`
	RevokedAt        *time.Time `json:"revokedAt,omitempty"`
	ExpiresAt        *time.Time `json:"expiresAt,omitempty"`
}

// CredentialWithSecretResponse is returned exactly once, from Generate and
// Rotate. The secret is not retrievable through any other response.
type CredentialWithSecretResponse struct {
	Credential CredentialResponse `json:"credential"`
	Secret     string             `json:"secret"`
}

// CredentialListResponse represents a paginated credential listing.
type CredentialListResponse struct {
	Credentials []CredentialResponse `json:"credentials"`
	Offset      int                  `json:"offset"`
	Limit       int                  `json:"limit"`
}

// AuditEntryResponse represents a single audit trail entry.
type AuditEntryResponse struct {
	ID        uuid.UUID      `json:"id"`
	EntityID  uuid.UUID      `json:"entityId"`
	Action    string         `json:"action"`
	Before    map[string]any `json:"before,omitempty"`
	After     map[string]any `json:"after,omitempty"`
	Actor     string         `json:"actor"`
	CreatedAt time.Time      `json:"createdAt"`
}

// AuditEntryListResponse represents a paginated audit trail listing.
type AuditEntryListResponse struct {
	Entries []AuditEntryResponse `json:"entries"`
	Offset  int                  `json:"offset"`
	Limit   int                  `json:"limit"`
}

// PrincipalResponse represents the authenticated identity returned to edge
// proxies on a successful verification. It carries no secret material.
type PrincipalResponse struct {
	Scope            string     `json:"scope"`
	OwnerID          *uuid.UUID `json:"ownerId,omitempty"`
	CredentialID     uuid.UUID  `json:"credentialId"`
	AllowedEndpoints []string   `json:"allowedEndpoints"`
	RateLimit        int        `json:"rateLimit"`
	Actor            string     `json:"actor"`
}
