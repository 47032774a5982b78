package usecase

import (
	"hash/fnv"
	"sync"

	"github.com/google/uuid"
)

// stripeCount must be a power of two.
const stripeCount = 64

// keyedMutex serializes mutations per credential identity so two concurrent
// Rotates cannot produce two valid secrets for one identity and a Rotate
// cannot race a Revoke. Lock striping bounds memory; the optimistic
// updated_at check in the repository still guards multi-process deployments.
type keyedMutex struct {
	stripes [stripeCount]sync.Mutex
}

// Lock acquires the stripe for the given credential ID and returns the unlock
// function.
func (m *keyedMutex) Lock(credentialID uuid.UUID) func() {
	h := fnv.New32a()
	_, _ = h.Write(credentialID[:])
	stripe := &m.stripes[h.Sum32()&(stripeCount-1)]
	stripe.Lock()
	return stripe.Unlock
}
