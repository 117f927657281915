package avatar

import (
	"testing"
	"time"

	"github.com/sinanisler/avatar-buddy/internal/models"
)

func TestWalkerReversesAtBounds(t *testing.T) {
	w := NewWalker(time.Hour, 10, 0, 30, nil)

	// 0 -> 10 -> 20 -> 30 (reverse) -> 20 -> 10 -> 0 (reverse) -> 10
	wantOffsets := []int{10, 20, 30, 20, 10, 0, 10}
	wantDirs := []int{1, 1, -1, -1, -1, 1, 1}
	for i := range wantOffsets {
		w.tick()
		pos := w.Position()
		if pos.Offset != wantOffsets[i] || pos.Direction != wantDirs[i] {
			t.Fatalf("tick %d: position = %+v, want offset %d direction %d",
				i+1, pos, wantOffsets[i], wantDirs[i])
		}
	}
}

func TestWalkerReportsEveryTick(t *testing.T) {
	var moves []models.WalkerPosition
	w := NewWalker(time.Hour, 5, 0, 100, func(pos models.WalkerPosition) {
		moves = append(moves, pos)
	})

	w.tick()
	w.tick()
	if len(moves) != 2 {
		t.Fatalf("expected 2 move reports, got %d", len(moves))
	}
	if moves[0].Offset != 5 || moves[1].Offset != 10 {
		t.Errorf("move offsets = %d, %d, want 5, 10", moves[0].Offset, moves[1].Offset)
	}
}

func TestWalkerDegenerateBounds(t *testing.T) {
	// A max below min collapses the range; the walker must not escape it.
	w := NewWalker(time.Hour, 5, 40, 10, nil)
	for i := 0; i < 5; i++ {
		w.tick()
	}
	if pos := w.Position(); pos.Offset < 35 || pos.Offset > 45 {
		t.Errorf("walker escaped collapsed bounds, offset = %d", pos.Offset)
	}
}

func TestWalkerStartStopIdempotent(t *testing.T) {
	w := NewWalker(time.Millisecond, 1, 0, 1000, nil)
	w.Start()
	w.Start()
	time.Sleep(10 * time.Millisecond)
	w.Stop()
	w.Stop()

	if pos := w.Position(); pos.Offset == 0 {
		t.Error("walker did not advance while running")
	}
}
