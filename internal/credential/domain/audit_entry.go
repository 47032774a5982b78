package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditEntry records a single credential mutation for compliance and incident
// investigation. Entries are append-only: they are never updated or deleted
// except by retention cleanup.
//
// Before and After are secret-redacted snapshots supplied by the caller;
// the lifecycle manager builds them from Credential.Snapshot which carries no
// secret material by construction.
type AuditEntry struct {
	ID        uuid.UUID
	EntityID  uuid.UUID // The credential the mutation applies to
	Action    AuditAction
	Before    map[string]any // Nil for issuance
	After     map[string]any
	Actor     string // From onboarding metadata, or SYSTEM
	CreatedAt time.Time
}
