package avatar

import (
	"log/slog"
	"time"

	"github.com/sinanisler/avatar-buddy/internal/models"
)

// armTimerLocked schedules fn to run after d, on behalf of the given state.
// Arming always invalidates any previously armed timer. When the timer fires
// it re-checks that the controller is still in the state it was armed for and
// that no newer timer has been armed since; a stale fire is a silent no-op.
// fn runs with the controller lock held. Caller holds c.mu.
func (c *Controller) armTimerLocked(state models.BubbleState, d time.Duration, fn func()) {
	c.timerGen++
	gen := c.timerGen
	if c.timer != nil {
		c.timer.Stop()
	}
	slog.Debug("avatar: timer armed", "state", state, "delay", d, "gen", gen)
	c.timer = time.AfterFunc(d, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.timerGen != gen || c.state != state {
			slog.Debug("avatar: stale timer fire ignored",
				"armed_for", state, "current", c.state, "gen", gen, "current_gen", c.timerGen)
			return
		}
		fn()
	})
}

// clearTimerLocked invalidates and, where possible, cancels the pending
// timer. Caller holds c.mu.
func (c *Controller) clearTimerLocked() {
	c.timerGen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
