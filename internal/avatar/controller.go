package avatar

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/sinanisler/avatar-buddy/internal/config"
	"github.com/sinanisler/avatar-buddy/internal/history"
	"github.com/sinanisler/avatar-buddy/internal/models"
	"github.com/sinanisler/avatar-buddy/internal/util"
)

// clickDebounce is the minimum spacing between two accepted clicks on the
// character body; faster re-clicks are dropped to avoid double-fires.
const clickDebounce = 400 * time.Millisecond

// tokensPerFeed is how much one token feeding adds to the counter.
const tokensPerFeed = 10

// fallbackQuestions is the hardcoded follow-up menu used when option
// generation fails or yields nothing usable.
var fallbackQuestions = [maxGeneratedOptions]string{
	"What can you do?",
	"Tell me something interesting.",
	"What is this website about?",
}

// Controller is the dialogue state machine. One instance per page load; all
// inputs (clicks, option selections, timer firings, request completions) are
// serialized behind mu so exactly one state is ever active.
type Controller struct {
	mu       sync.Mutex
	settings *config.Settings
	renderer Renderer
	sender   Sender
	history  *history.Store

	state    models.BubbleState
	timer    *time.Timer
	timerGen uint64

	// requestGen invalidates in-flight proxy calls the same way timerGen
	// invalidates timers: a completion only applies if its generation still
	// matches and the controller is still in Thinking.
	requestGen uint64

	lastClick     time.Time
	hasInteracted bool
	tokens        int

	walker *Walker

	// pickLine selects a token reaction line; replaced in tests.
	pickLine func([]string) string

	ctx     context.Context
	cancel  context.CancelFunc
	started bool
}

// ControllerOption configures a Controller.
type ControllerOption func(*controllerOpts)

type controllerOpts struct {
	viewportWidth int
}

// WithViewportWidth sets the viewport width used to resolve the walker's far
// bound (width minus the configured max offset). The rendering boundary
// supplies the real value; the default is 1280.
func WithViewportWidth(px int) ControllerOption {
	return func(o *controllerOpts) { o.viewportWidth = px }
}

// NewController builds the controller. Settings must already be validated;
// renderer and sender must be non-nil. The walk animator is constructed only
// when walking is enabled.
func NewController(settings *config.Settings, renderer Renderer, sender Sender, hist *history.Store, opts ...ControllerOption) *Controller {
	cfg := controllerOpts{viewportWidth: 1280}
	for _, opt := range opts {
		opt(&cfg)
	}

	c := &Controller{
		settings: settings,
		renderer: renderer,
		sender:   sender,
		history:  hist,
		state:    models.StateIdle,
		pickLine: util.PickRandomLine,
	}

	if settings.Features.EnableWalking {
		maxPos := cfg.viewportWidth - settings.Timing.WalkMaxOffset
		c.walker = NewWalker(
			settings.Timing.WalkSpeed(),
			settings.Timing.WalkDistancePx,
			settings.Timing.WalkMinPosition,
			maxPos,
			renderer.WalkerMoved,
		)
	}

	slog.Debug("avatar: controller created",
		"walking", settings.Features.EnableWalking,
		"debug", settings.Features.DebugMode,
		"history_loaded", hist.Len())
	return c
}

// Start enters Idle, starts the walk animator when enabled, and arms the
// greeting-delay timer. Idempotent.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return
	}
	c.started = true
	c.ctx, c.cancel = context.WithCancel(ctx)

	c.setStateLocked(models.StateIdle)
	if c.walker != nil {
		c.walker.Start()
	}
	c.armTimerLocked(models.StateIdle, c.settings.Timing.InitialGreetingDelay(), c.showGreetingLocked)
	slog.Info("avatar: controller started")
}

// Stop cancels the pending timer, any in-flight request and the walk
// animator. Idempotent.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return
	}
	c.started = false
	c.clearTimerLocked()
	c.requestGen++
	c.cancel()
	if c.walker != nil {
		c.walker.Stop()
	}
	slog.Info("avatar: controller stopped")
}

// State returns the current dialogue state.
func (c *Controller) State() models.BubbleState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Tokens returns the session token counter.
func (c *Controller) Tokens() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokens
}

// HasInteracted reports whether any exchange has completed this session.
func (c *Controller) HasInteracted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasInteracted
}

// Walker returns the walk animator, or nil when walking is disabled.
func (c *Controller) Walker() *Walker {
	return c.walker
}

// Click handles a click on the character body. Clicks within 400ms of the
// previous accepted click are dropped. Dispatch depends on the active state;
// clicks during Thinking and Options are deliberately ignored.
func (c *Controller) Click() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if now.Sub(c.lastClick) < clickDebounce {
		slog.Debug("avatar: click debounced", "since_last", now.Sub(c.lastClick))
		return
	}
	c.lastClick = now

	switch c.state {
	case models.StateIdle, models.StateGreeting:
		c.showOptionsLocked()
	case models.StateAnswer:
		c.advanceLocked()
	case models.StateTokenResponse:
		c.closeBubbleLocked()
	default:
		// Thinking: a request is in flight, new triggers are ignored.
		// Options: body clicks do nothing while a menu is open.
	}
}

// SayHello triggers the canned hello exchange from the first-time menu.
func (c *Controller) SayHello() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != models.StateOptions {
		return
	}
	c.startExchangeLocked(c.settings.Prompts.SayHello, models.ModeInitial, models.EntryKindGreeting, c.settings.Text.OptionSayHello)
}

// AskWho triggers the canned introduction exchange from the first-time menu.
func (c *Controller) AskWho() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != models.StateOptions {
		return
	}
	c.startExchangeLocked(c.settings.Prompts.WhoAreYou, models.ModeInitial, models.EntryKindButton, c.settings.Text.OptionWhoAreYou)
}

// Ask sends one of the generated follow-up questions.
func (c *Controller) Ask(question string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != models.StateOptions || question == "" {
		return
	}
	c.startExchangeLocked(question, models.ModeContinue, models.EntryKindButton, question)
}

// SendCustom sends free-form visitor text. Blank input is a no-op.
func (c *Controller) SendCustom(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	text = strings.TrimSpace(text)
	if c.state != models.StateOptions || text == "" {
		return
	}
	c.startExchangeLocked(text, models.ModeContinue, models.EntryKindCustom, text)
}

// Continue advances from a displayed answer (the manual continue affordance)
// or from the returning menu's continue-chatting entry.
func (c *Controller) Continue() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != models.StateAnswer && c.state != models.StateOptions {
		return
	}
	c.advanceLocked()
}

// FeedTokens runs the token-feed action from an open menu.
func (c *Controller) FeedTokens() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != models.StateOptions {
		return
	}
	c.clearTimerLocked()
	c.setStateLocked(models.StateTokenResponse)

	c.tokens += tokensPerFeed
	line := c.pickLine(c.settings.Text.TokenResponses)
	text := fmt.Sprintf("%s Total: %d", line, c.tokens)

	c.renderer.ShowBubble(models.BubbleView{
		State:      models.StateTokenResponse,
		Text:       text,
		ShowClose:  true,
		CloseLabel: c.settings.Text.OptionClose,
	})
	c.armTimerLocked(models.StateTokenResponse, c.settings.Timing.TokenDisplayTime(), c.closeBubbleLocked)

	c.history.Append(models.ConversationEntry{
		Timestamp:      time.Now(),
		Kind:           models.EntryKindToken,
		UserMessage:    c.settings.Text.OptionFeedTokens,
		AvatarResponse: text,
	})
}

// CloseBubble is the explicit close affordance, valid from any state.
func (c *Controller) CloseBubble() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeBubbleLocked()
}

// setStateLocked records the new state and mirrors it to the debug indicator.
func (c *Controller) setStateLocked(state models.BubbleState) {
	if c.state != state {
		slog.Debug("avatar: state transition", "from", c.state, "to", state)
	}
	c.state = state
	if c.settings.Features.DebugMode {
		c.renderer.DebugState(state)
	}
}

// closeBubbleLocked hides the bubble and returns to Idle, invalidating any
// pending timer.
func (c *Controller) closeBubbleLocked() {
	c.clearTimerLocked()
	c.renderer.HideBubble()
	c.setStateLocked(models.StateIdle)
}

// showGreetingLocked runs when the greeting-delay timer fires while still in
// Idle.
func (c *Controller) showGreetingLocked() {
	c.setStateLocked(models.StateGreeting)
	c.renderer.ShowBubble(models.BubbleView{
		State: models.StateGreeting,
		Text:  c.settings.Text.GreetingMessage,
	})
	if c.settings.Features.AutoHideGreeting {
		c.armTimerLocked(models.StateGreeting, c.settings.Timing.GreetingDisplayTime(), c.closeBubbleLocked)
	}
}

// showOptionsLocked renders the first-time or returning menu.
func (c *Controller) showOptionsLocked() {
	c.clearTimerLocked()
	c.setStateLocked(models.StateOptions)

	txt := c.settings.Text
	view := models.BubbleView{
		State:      models.StateOptions,
		ShowClose:  true,
		CloseLabel: txt.OptionClose,
	}
	if !c.hasInteracted {
		view.Text = txt.FirstPromptMessage
		view.Options = []models.Option{
			{Action: models.ActionSayHello, Label: txt.OptionSayHello},
			{Action: models.ActionWhoAreYou, Label: txt.OptionWhoAreYou},
			{Action: models.ActionFeedTokens, Label: txt.OptionFeedTokens},
		}
	} else {
		view.Text = txt.ReturnPromptMessage
		view.Options = []models.Option{
			{Action: models.ActionContinue, Label: txt.OptionContinueChatting},
			{Action: models.ActionFeedTokens, Label: txt.OptionFeedTokens},
		}
		if c.settings.Features.EnableCustomInput {
			view.CustomInput = true
			view.CustomInputLabel = txt.CustomInputLabel
		}
	}
	c.renderer.ShowBubble(view)
}

// startExchangeLocked enters Thinking and launches the proxy call. The
// completion applies only if its generation still matches and the controller
// is still in Thinking; the user closing the bubble in between discards it.
func (c *Controller) startExchangeLocked(prompt string, mode models.ChatMode, kind models.EntryKind, userMessage string) {
	c.clearTimerLocked()
	c.setStateLocked(models.StateThinking)
	c.renderer.ShowBubble(models.BubbleView{
		State:   models.StateThinking,
		Text:    c.settings.Text.ThinkingMessage,
		Loading: true,
	})

	c.requestGen++
	gen := c.requestGen
	ctx := c.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	go func() {
		outcome := c.sender.Send(ctx, prompt, mode)

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.requestGen != gen || c.state != models.StateThinking {
			slog.Debug("avatar: stale request completion dropped", "gen", gen, "state", c.state)
			return
		}
		if !outcome.Success {
			c.showFailureLocked()
			return
		}

		c.hasInteracted = true
		c.history.Append(models.ConversationEntry{
			Timestamp:      time.Now(),
			Kind:           kind,
			UserMessage:    userMessage,
			AvatarResponse: outcome.Answer,
		})
		c.showAnswerLocked(outcome.Answer)
	}()
}

// showFailureLocked lands in Options with the fixed apology and no menu
// entries, only the close affordance. The user must re-trigger; no retry.
func (c *Controller) showFailureLocked() {
	c.setStateLocked(models.StateOptions)
	c.renderer.ShowBubble(models.BubbleView{
		State:      models.StateOptions,
		Text:       c.settings.Text.FailureMessage,
		ShowClose:  true,
		CloseLabel: c.settings.Text.OptionClose,
	})
}

// showAnswerLocked displays a generated answer. With auto-advance the display
// timer is sized by answer length, clamped to the configured window;
// otherwise a manual continue affordance is rendered.
func (c *Controller) showAnswerLocked(answer string) {
	c.setStateLocked(models.StateAnswer)

	view := models.BubbleView{
		State:      models.StateAnswer,
		Text:       answer,
		ShowClose:  true,
		CloseLabel: c.settings.Text.OptionClose,
	}
	if c.settings.Features.AutoAdvanceEnabled {
		c.armTimerLocked(models.StateAnswer, c.answerDisplayTime(answer), c.advanceLocked)
	} else {
		view.ShowContinue = true
		view.ContinueLabel = c.settings.Text.OptionContinueChatting
	}
	c.renderer.ShowBubble(view)
}

// answerDisplayTime sizes the answer display window:
// clamp(len(answer)*perChar, min, max). Holds for all lengths including the
// empty string, which clamps to the minimum.
func (c *Controller) answerDisplayTime(answer string) time.Duration {
	t := c.settings.Timing
	d := time.Duration(utf8.RuneCountInString(answer)) * t.AnswerTimePerChar()
	if d < t.AnswerMinDisplayTime() {
		d = t.AnswerMinDisplayTime()
	}
	if d > t.AnswerMaxDisplayTime() {
		d = t.AnswerMaxDisplayTime()
	}
	return d
}

// advanceLocked leaves a displayed answer (or the returning menu's continue
// entry). Before the first completed exchange it renders the fixed menu;
// afterwards it asks the backend for follow-up options.
func (c *Controller) advanceLocked() {
	c.clearTimerLocked()
	if !c.hasInteracted {
		c.showOptionsLocked()
		return
	}
	c.generateOptionsLocked()
}

// generateOptionsLocked enters the Thinking-equivalent loading state and asks
// the backend for a follow-up menu. Failure or unusable output falls back to
// the hardcoded three-option menu; this path never fails visibly.
func (c *Controller) generateOptionsLocked() {
	c.setStateLocked(models.StateThinking)
	c.renderer.ShowBubble(models.BubbleView{
		State:   models.StateThinking,
		Text:    c.settings.Text.GeneratingOptionsMessage,
		Loading: true,
	})

	c.requestGen++
	gen := c.requestGen
	ctx := c.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	go func() {
		outcome := c.sender.Send(ctx, c.settings.Prompts.GenerateOptions, models.ModeContinue)

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.requestGen != gen || c.state != models.StateThinking {
			slog.Debug("avatar: stale option generation dropped", "gen", gen, "state", c.state)
			return
		}

		questions := fallbackQuestions[:]
		if outcome.Success {
			if parsed := ParseGeneratedOptions(outcome.Answer, maxGeneratedOptions); len(parsed) > 0 {
				questions = parsed
			} else {
				slog.Warn("avatar: generated options unusable, using fallback menu")
			}
		} else {
			slog.Warn("avatar: option generation failed, using fallback menu")
		}
		c.showFollowUpMenuLocked(questions)
	}()
}

// showFollowUpMenuLocked renders the post-interaction menu from the given
// questions plus the standing affordances.
func (c *Controller) showFollowUpMenuLocked(questions []string) {
	c.setStateLocked(models.StateOptions)

	txt := c.settings.Text
	view := models.BubbleView{
		State:      models.StateOptions,
		Text:       txt.ReturnPromptMessage,
		ShowClose:  true,
		CloseLabel: txt.OptionClose,
	}
	for _, q := range questions {
		view.Options = append(view.Options, models.Option{Action: models.ActionAsk, Label: q})
	}
	view.Options = append(view.Options, models.Option{Action: models.ActionFeedTokens, Label: txt.OptionFeedTokens})
	if c.settings.Features.EnableCustomInput {
		view.CustomInput = true
		view.CustomInputLabel = txt.CustomInputLabel
	}
	c.renderer.ShowBubble(view)
}
