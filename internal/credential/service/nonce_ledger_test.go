package service

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func newTestLedger(t *testing.T, maxEntries int, window time.Duration) NonceLedger {
	t.Helper()
	ledger, err := NewNonceLedger(maxEntries, window, time.Minute)
	require.NoError(t, err)
	t.Cleanup(ledger.Close)
	return ledger
}

func TestNonceLedger_CheckAndInsert(t *testing.T) {
	now := time.Now().UTC()

	t.Run("FirstUseAccepted", func(t *testing.T) {
		ledger := newTestLedger(t, 10, 5*time.Minute)
		assert.True(t, ledger.CheckAndInsert("nonce-1", now))
	})

	t.Run("ReuseWithinWindowRejected", func(t *testing.T) {
		ledger := newTestLedger(t, 10, 5*time.Minute)
		assert.True(t, ledger.CheckAndInsert("nonce-1", now))
		assert.False(t, ledger.CheckAndInsert("nonce-1", now.Add(time.Second)))
	})

	t.Run("ReuseAfterWindowAccepted", func(t *testing.T) {
		ledger := newTestLedger(t, 10, 5*time.Minute)
		assert.True(t, ledger.CheckAndInsert("nonce-1", now))
		assert.True(t, ledger.CheckAndInsert("nonce-1", now.Add(6*time.Minute)))
	})

	t.Run("DistinctNoncesAccepted", func(t *testing.T) {
		ledger := newTestLedger(t, 10, 5*time.Minute)
		assert.True(t, ledger.CheckAndInsert("nonce-1", now))
		assert.True(t, ledger.CheckAndInsert("nonce-2", now))
	})

	t.Run("CapacityBoundsMemory", func(t *testing.T) {
		ledger := newTestLedger(t, 3, 5*time.Minute)
		for i := 0; i < 100; i++ {
			assert.True(t, ledger.CheckAndInsert(fmt.Sprintf("nonce-%d", i), now))
		}
		// Oldest entries were evicted, the most recent is still rejected.
		assert.False(t, ledger.CheckAndInsert("nonce-99", now.Add(time.Second)))
	})
}

func TestNonceLedger_ConcurrentInsert(t *testing.T) {
	ledger := newTestLedger(t, 1000, 5*time.Minute)
	now := time.Now().UTC()

	const goroutines = 50
	var accepted int64
	var mu sync.Mutex
	var wg sync.WaitGroup

	// All goroutines race on the same nonce: exactly one insert may win.
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ledger.CheckAndInsert("contested-nonce", now) {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), accepted)
}

func TestNonceLedger_SweeperStopsOnClose(t *testing.T) {
	defer goleak.VerifyNone(t)

	ledger, err := NewNonceLedger(10, time.Minute, 10*time.Millisecond)
	require.NoError(t, err)

	assert.True(t, ledger.CheckAndInsert("nonce-1", time.Now().UTC()))

	ledger.Close()
	// Close is idempotent
	ledger.Close()
}

func TestNonceLedger_SweeperRemovesExpired(t *testing.T) {
	ledger, err := NewNonceLedger(10, 20*time.Millisecond, 10*time.Millisecond)
	require.NoError(t, err)
	defer ledger.Close()

	now := time.Now().UTC()
	require.True(t, ledger.CheckAndInsert("nonce-1", now.Add(-time.Minute)))

	// Give the sweeper a few ticks to evict the expired entry.
	assert.Eventually(t, func() bool {
		return ledger.CheckAndInsert("nonce-1", time.Now().UTC())
	}, time.Second, 10*time.Millisecond)
}
