package avatar

import (
	"log/slog"
	"sync"
	"time"

	"github.com/sinanisler/avatar-buddy/internal/models"
)

// Walker is the purely cosmetic periodic position updater. It runs its own
// tick independent of the dialogue state; when disabled it is simply never
// constructed and no ticking occurs at all.
type Walker struct {
	mu      sync.Mutex
	pos     models.WalkerPosition
	step    int
	minPos  int
	maxPos  int
	period  time.Duration
	onMove  func(models.WalkerPosition)
	done    chan struct{}
	running bool
}

// NewWalker creates a walker bouncing between minPos and maxPos, advancing by
// step every period. onMove is invoked after every tick with the new
// position; it may be nil.
func NewWalker(period time.Duration, step, minPos, maxPos int, onMove func(models.WalkerPosition)) *Walker {
	if maxPos < minPos {
		maxPos = minPos
	}
	return &Walker{
		pos:    models.WalkerPosition{Offset: minPos, Direction: 1},
		step:   step,
		minPos: minPos,
		maxPos: maxPos,
		period: period,
		onMove: onMove,
	}
}

// Start begins ticking. Idempotent.
func (w *Walker) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.done = make(chan struct{})
	done := w.done
	w.mu.Unlock()

	slog.Debug("avatar: walker started", "period", w.period, "min", w.minPos, "max", w.maxPos)
	go func() {
		ticker := time.NewTicker(w.period)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.tick()
			case <-done:
				return
			}
		}
	}()
}

// Stop halts ticking. Idempotent.
func (w *Walker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	w.running = false
	close(w.done)
	slog.Debug("avatar: walker stopped", "offset", w.pos.Offset)
}

// Position returns the current position snapshot.
func (w *Walker) Position() models.WalkerPosition {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pos
}

// tick advances the offset by one signed step and reverses direction at the
// bounds. The facing flip is the renderer's concern; it derives from the
// direction sign and the configured screen side.
func (w *Walker) tick() {
	w.mu.Lock()
	w.pos.Offset += w.pos.Direction * w.step
	if w.pos.Offset >= w.maxPos {
		w.pos.Direction = -1
	} else if w.pos.Offset <= w.minPos {
		w.pos.Direction = 1
	}
	pos := w.pos
	onMove := w.onMove
	w.mu.Unlock()

	if onMove != nil {
		onMove(pos)
	}
}
