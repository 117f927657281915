// Package avatar implements the dialogue controller for the on-screen
// character: a timer-driven state machine that owns the bubble contents and
// input affordances, orchestrates calls to the chat proxy, and records
// completed exchanges in the history store.
//
// All transitions are serialized behind one mutex; clicks, timer firings and
// request completions never overlap. Timers and request completions carry a
// generation and the state they were armed in, and no-op when either no
// longer matches.
package avatar

import (
	"context"

	"github.com/sinanisler/avatar-buddy/internal/models"
)

// Renderer is the boundary to whatever draws the avatar. The controller
// pushes a full BubbleView on every transition; the renderer holds no
// dialogue state of its own.
type Renderer interface {
	// ShowBubble displays the bubble with the given contents and affordances.
	ShowBubble(view models.BubbleView)

	// HideBubble hides the bubble.
	HideBubble()

	// WalkerMoved reports a new walker position. Called from the walk tick,
	// never from a dialogue transition.
	WalkerMoved(pos models.WalkerPosition)

	// DebugState reports every state change. Only called when debug mode is
	// enabled; purely observational.
	DebugState(state models.BubbleState)
}

// Sender turns a user-intent prompt into one proxy call. Implemented by
// Orchestrator; faked in tests.
type Sender interface {
	Send(ctx context.Context, prompt string, mode models.ChatMode) models.Outcome
}
