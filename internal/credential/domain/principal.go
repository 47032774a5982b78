package domain

import (
	"github.com/google/uuid"
)

// Principal is the request-scoped identity produced by the authentication
// gate. Every field is populated from the matched credential record, never
// from caller-supplied claims. It is constructed once and passed immutably
// through the call.
type Principal struct {
	Scope            Scope
	OwnerID          *uuid.UUID // Nil for admin-scope principals
	CredentialID     uuid.UUID  // Nil UUID for the admin bootstrap path
	AllowedEndpoints []string
	RateLimit        int
	Actor            string // Audit attribution, defaults to SYSTEM
}

// IsAdmin reports whether the principal carries the cross-merchant trust class.
func (p *Principal) IsAdmin() bool {
	return p.Scope == ScopeAdmin
}

// Owns reports whether the principal belongs to the given merchant.
func (p *Principal) Owns(ownerID uuid.UUID) bool {
	return p.OwnerID != nil && *p.OwnerID == ownerID
}

// EndpointAllowed checks the request path against the principal's endpoint patterns.
func (p *Principal) EndpointAllowed(path string) bool {
	if path == "" {
		return false
	}
	for _, pattern := range p.AllowedEndpoints {
		if matchEndpoint(pattern, path) {
			return true
		}
	}
	return false
}
