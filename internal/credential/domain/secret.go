package domain

import (
	"sync"

	"github.com/paygate/credentials/internal/errors"
)

// ErrSecretReleased indicates the secret buffer was already wiped.
var ErrSecretReleased = errors.New("secret already released")

// Secret is a scoped-ownership wrapper for plaintext secret material. A single
// owner holds the buffer, content is exposed only through a closure argument,
// and the buffer is zeroed on release. This keeps plaintext from being copied
// around or lingering after use.
type Secret struct {
	mu       sync.Mutex
	buf      []byte
	released bool
}

// NewSecret takes ownership of the given buffer. The caller must not retain
// a reference to b after this call.
func NewSecret(b []byte) *Secret {
	return &Secret{buf: b}
}

// NewSecretFromString copies s into a fresh buffer. Prefer NewSecret where the
// source is already a byte slice; strings cannot be wiped.
func NewSecretFromString(s string) *Secret {
	return &Secret{buf: []byte(s)}
}

// WithBytes exposes the secret content to fn. The slice is only valid for the
// duration of the call and must not escape it. Returns ErrSecretReleased if
// the buffer was already wiped.
func (s *Secret) WithBytes(fn func(b []byte) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return ErrSecretReleased
	}
	return fn(s.buf)
}

// Release zeroes the buffer and marks the secret unusable. Safe to call more
// than once.
func (s *Secret) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return
	}
	Zero(s.buf)
	s.buf = nil
	s.released = true
}

// Zero securely overwrites a byte slice with zeros to clear sensitive data from memory.
func Zero(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}
