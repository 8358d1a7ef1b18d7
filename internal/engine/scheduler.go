package engine

import "time"

// turnScheduler sequences the bot's single delayed move. The generation
// counter is the cancellation token: a fired timer only acts when its
// captured generation still matches, so a cancelled operation can never
// apply a late move. Arming always cancels the predecessor first, which
// keeps at most one live timer per engine.
//
// All fields are guarded by the owning Engine's mutex.
type turnScheduler struct {
	generation uint64
	timer      *time.Timer
}

// arm - cancels any pending operation and schedules fire after the delay.
// The callback receives the generation captured at arm time and must verify
// it with isCurrent under the engine mutex before acting.
func (that *turnScheduler) arm(delay time.Duration, fire func(generation uint64)) {
	that.cancel()

	generation := that.generation
	that.timer = time.AfterFunc(delay, func() {
		fire(generation)
	})
}

// cancel - stops the pending timer, if any, and invalidates every
// outstanding generation.
func (that *turnScheduler) cancel() {
	if that.timer != nil {
		that.timer.Stop()
		that.timer = nil
	}

	that.generation++
}

// disarm - forgets the fired timer without invalidating the generation.
func (that *turnScheduler) disarm() {
	that.timer = nil
}

func (that *turnScheduler) isCurrent(generation uint64) bool {
	return generation == that.generation
}
