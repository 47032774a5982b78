package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Credential is the central entity of the lifecycle manager. It carries only
// metadata; the matching secret lives in the vault under a name derived from
// (scope, owner or service name, id).
type Credential struct {
	ID               uuid.UUID  // Unique identifier (UUIDv7), immutable once assigned
	Scope            Scope      // Trust class: admin or merchant
	OwnerID          *uuid.UUID // Owning merchant; nil for admin scope
	ServiceName      string     // Admin service identifier; empty for merchant scope
	Status           Status     // active or revoked (terminal)
	RateLimit        int        // Requests per second; 0 means service default
	AllowedEndpoints []string   // Path patterns the credential may call
	Description      string
	Purpose          string
	CreatedAt        time.Time
	UpdatedAt        time.Time  // Bumped on every mutation, used as optimistic lock
	LastRotatedAt    *time.Time // Nil until first rotation
	RevokedAt        *time.Time // Set on revocation
	ExpiresAt        *time.Time // Nil means no expiry
}

// IsRevoked reports whether the credential reached its terminal state.
func (c *Credential) IsRevoked() bool {
	return c.Status == StatusRevoked
}

// IsExpired reports whether the credential is past its expiry at the given time.
func (c *Credential) IsExpired(now time.Time) bool {
	return c.ExpiresAt != nil && c.ExpiresAt.Before(now)
}

// OwnedBy reports whether the credential belongs to the given merchant.
func (c *Credential) OwnedBy(ownerID uuid.UUID) bool {
	return c.OwnerID != nil && *c.OwnerID == ownerID
}

// EndpointAllowed checks if the request path matches any allowed endpoint pattern.
// Supports three types of wildcards:
//  1. Full wildcard: "*" matches any path
//  2. Trailing wildcard: "prefix/*" matches any path starting with "prefix/" (greedy)
//  3. Mid-path wildcard: "/v1/payments/*/refund" matches paths with * as single segment
func (c *Credential) EndpointAllowed(path string) bool {
	if path == "" {
		return false
	}
	for _, pattern := range c.AllowedEndpoints {
		if matchEndpoint(pattern, path) {
			return true
		}
	}
	return false
}

// matchEndpoint checks if the request path matches the endpoint pattern.
func matchEndpoint(pattern, requestPath string) bool {
	// Special case: full wildcard matches everything
	if pattern == "*" {
		return true
	}

	// No wildcard: exact match required
	if !strings.Contains(pattern, "*") {
		return pattern == requestPath
	}

	// Trailing wildcard (/*): prefix match (greedy - matches remaining path)
	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		return strings.HasPrefix(requestPath, prefix+"/")
	}

	// Mid-path wildcards: segment-by-segment matching, each * matches one segment
	patternParts := strings.Split(pattern, "/")
	requestParts := strings.Split(requestPath, "/")

	if len(patternParts) != len(requestParts) {
		return false
	}

	for i := 0; i < len(patternParts); i++ {
		if patternParts[i] == "*" {
			continue
		}
		if patternParts[i] != requestParts[i] {
			return false
		}
	}

	return true
}

// Snapshot returns a secret-free view of the credential for audit entries.
// Secret material is never a field of Credential, so the snapshot is complete
// by construction.
func (c *Credential) Snapshot() map[string]any {
	snapshot := map[string]any{
		"id":                c.ID.String(),
		"scope":             string(c.Scope),
		"status":            string(c.Status),
		"rate_limit":        c.RateLimit,
		"allowed_endpoints": append([]string(nil), c.AllowedEndpoints...),
		"description":       c.Description,
		"purpose":           c.Purpose,
		"created_at":        c.CreatedAt,
	}
	if c.OwnerID != nil {
		snapshot["owner_id"] = c.OwnerID.String()
	}
	if c.ServiceName != "" {
		snapshot["service_name"] = c.ServiceName
	}
	if c.LastRotatedAt != nil {
		snapshot["last_rotated_at"] = *c.LastRotatedAt
	}
	if c.RevokedAt != nil {
		snapshot["revoked_at"] = *c.RevokedAt
	}
	if c.ExpiresAt != nil {
		snapshot["expires_at"] = *c.ExpiresAt
	}
	return snapshot
}

// GenerateInput contains the parameters for issuing a new credential.
// For merchant scope OwnerID must reference an existing merchant; for admin
// scope ServiceName must be a valid service identifier.
type GenerateInput struct {
	Scope            Scope
	OwnerID          *uuid.UUID
	ServiceName      string
	RateLimit        int
	AllowedEndpoints []string
	Description      string
	Purpose          string
	ExpiresAt        *time.Time
}

// GenerateOutput contains the result of issuing a credential.
// SECURITY: the secret is exposed exactly once through this output and is
// never retrievable in plaintext again.
type GenerateOutput struct {
	Credential *Credential
	Secret     *Secret
}

// RotateOutput contains the replacement secret produced by a rotation.
// The previous secret is invalid as soon as rotation commits.
type RotateOutput struct {
	Credential *Credential
	Secret     *Secret
}

// UpdateInput contains the mutable non-secret fields of a credential.
// Nil pointers leave the corresponding field unchanged.
type UpdateInput struct {
	Description      *string
	RateLimit        *int
	AllowedEndpoints []string
}

// ListFilter narrows credential listings and counts. Nil fields are ignored.
type ListFilter struct {
	Scope       *Scope
	OwnerID     *uuid.UUID
	ServiceName *string
	Status      *Status
	Offset      int
	Limit       int
}
