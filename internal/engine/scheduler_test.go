package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// firedGenerations collects the generations delivered to fire callbacks.
type firedGenerations struct {
	mu   sync.Mutex
	seen []uint64
}

func (that *firedGenerations) record(generation uint64) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.seen = append(that.seen, generation)
}

func (that *firedGenerations) all() []uint64 {
	that.mu.Lock()
	defer that.mu.Unlock()

	seen := make([]uint64, len(that.seen))
	copy(seen, that.seen)

	return seen
}

func TestTurnScheduler(t *testing.T) {
	t.Run("Fires with the armed generation", func(t *testing.T) {
		// Given: an armed scheduler
		var (
			sched turnScheduler
			fired firedGenerations
		)

		sched.arm(5*time.Millisecond, fired.record)
		armed := sched.generation

		// Then: the callback fires with the generation captured at arm time
		require.Eventually(t, func() bool {
			return len(fired.all()) == 1
		}, time.Second, time.Millisecond)

		assert.Equal(t, armed, fired.all()[0])
		assert.True(t, sched.isCurrent(fired.all()[0]))
	})

	t.Run("Cancel invalidates the outstanding generation", func(t *testing.T) {
		// Given: an armed scheduler
		var (
			sched turnScheduler
			fired firedGenerations
		)

		sched.arm(5*time.Millisecond, fired.record)
		armed := sched.generation

		// When: the operation is cancelled before the delay expires
		sched.cancel()

		// Then: even a timer that slipped past Stop would fail the check
		assert.False(t, sched.isCurrent(armed))

		time.Sleep(20 * time.Millisecond)
		assert.Empty(t, fired.all())
	})

	t.Run("Re-arming supersedes the previous operation", func(t *testing.T) {
		// Given: an armed scheduler
		var (
			sched turnScheduler
			fired firedGenerations
		)

		sched.arm(50*time.Millisecond, fired.record)
		first := sched.generation

		// When: a second operation is armed before the first fires
		sched.arm(5*time.Millisecond, fired.record)
		second := sched.generation

		// Then: only the second generation is current
		assert.False(t, sched.isCurrent(first))
		assert.True(t, sched.isCurrent(second))

		// Then: only the second operation ever fires
		time.Sleep(80 * time.Millisecond)
		require.Equal(t, []uint64{second}, fired.all())
	})

	t.Run("Disarm keeps the generation current", func(t *testing.T) {
		var sched turnScheduler

		sched.arm(time.Hour, func(uint64) {})
		generation := sched.generation

		sched.disarm()

		assert.Nil(t, sched.timer)
		assert.True(t, sched.isCurrent(generation))
	})
}
