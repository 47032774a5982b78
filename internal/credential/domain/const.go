// Package domain defines the credential lifecycle domain models.
//
// A credential belongs to one of two trust classes: merchant-scoped credentials
// tied to a single owner, and admin-scoped credentials used by internal services
// across merchants. Secret material is never part of these models; it lives in
// an external secret vault addressed by a deterministic name.
package domain

// Scope is the trust class of a credential.
type Scope string

const (
	// ScopeAdmin is the cross-merchant privileged credential class.
	ScopeAdmin Scope = "admin"

	// ScopeMerchant is the per-merchant credential class.
	ScopeMerchant Scope = "merchant"
)

// Status is the lifecycle state of a credential.
type Status string

const (
	// StatusActive means the credential can authenticate and be mutated.
	StatusActive Status = "active"

	// StatusRevoked is terminal: no rotate, update or further revoke succeeds.
	StatusRevoked Status = "revoked"
)

// AuditAction identifies the mutation recorded by an audit entry.
type AuditAction string

const (
	// ActionInitialGenerated marks the first credential issued for an identity.
	ActionInitialGenerated AuditAction = "INITIAL_GENERATED"

	// ActionGenerated marks any subsequent credential issuance.
	ActionGenerated AuditAction = "GENERATED"

	// ActionUpdated marks a metadata-only mutation.
	ActionUpdated AuditAction = "UPDATED"

	// ActionRevoked marks the terminal Active to Revoked transition.
	ActionRevoked AuditAction = "REVOKED"

	// ActionRotated marks a secret replacement for an existing credential.
	ActionRotated AuditAction = "ROTATED"
)

// DefaultAdminAllowedEndpoints is applied when an admin credential is generated
// without an explicit endpoint list. Restricting the default to the bulk
// settlement endpoint keeps a freshly issued admin credential from carrying
// more privilege than requested.
var DefaultAdminAllowedEndpoints = []string{"/bulk-sale-complete"}

// SystemActor is the audit actor recorded when no onboarding metadata is supplied.
const SystemActor = "SYSTEM"
