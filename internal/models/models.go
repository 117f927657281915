// Package models defines the core data types shared across avatar-buddy
// components: bubble states, conversation entries, the proxy wire contract,
// and API response envelopes.
package models

import "time"

// BubbleState identifies the single active display state of the avatar's
// speech bubble. Exactly one state is active at any time.
type BubbleState string

const (
	// StateIdle means the bubble is hidden and the avatar is just walking around.
	StateIdle BubbleState = "IDLE"
	// StateGreeting shows the one-shot greeting text after the initial delay.
	StateGreeting BubbleState = "GREETING"
	// StateOptions shows a menu of selectable actions.
	StateOptions BubbleState = "OPTIONS"
	// StateThinking shows a loading indicator while a backend call is in flight.
	StateThinking BubbleState = "THINKING"
	// StateAnswer shows a generated answer.
	StateAnswer BubbleState = "ANSWER"
	// StateTokenResponse shows the reaction to a token feeding.
	StateTokenResponse BubbleState = "TOKEN_RESPONSE"
)

// EntryKind classifies how an exchange was initiated.
type EntryKind string

const (
	EntryKindGreeting EntryKind = "greeting"
	EntryKindButton   EntryKind = "button"
	EntryKindCustom   EntryKind = "custom"
	EntryKindToken    EntryKind = "token"
)

// ConversationEntry is one completed exchange. Entries are created only when an
// exchange completes successfully; a failed request never produces one.
type ConversationEntry struct {
	Timestamp      time.Time `json:"timestamp"`
	Kind           EntryKind `json:"kind"`
	UserMessage    string    `json:"user_message"`
	AvatarResponse string    `json:"avatar_response"`
}

// ChatMode distinguishes the two request types the backend proxy accepts.
type ChatMode string

const (
	ModeInitial  ChatMode = "initial"
	ModeContinue ChatMode = "continue"
)

// ChatRequest is the JSON body sent to the backend proxy.
type ChatRequest struct {
	Prompt string `json:"prompt"`
	Type   string `json:"type"`
}

// ChatResponse is the JSON body returned by the backend proxy on success.
type ChatResponse struct {
	Success bool   `json:"success"`
	Answer  string `json:"answer,omitempty"`
}

// Outcome is the typed result of one orchestrated proxy call. Transport
// failures, non-2xx statuses and unrecognized payloads all fold into
// Success=false; callers do not distinguish further.
type Outcome struct {
	Success bool
	Answer  string
}

// WalkerPosition is the avatar's horizontal offset and travel direction,
// mutated only by the walk animator's tick.
type WalkerPosition struct {
	Offset    int `json:"offset"`
	Direction int `json:"direction"` // +1 or -1
}

// OptionAction identifies what selecting a rendered option should trigger.
type OptionAction string

const (
	ActionSayHello   OptionAction = "say_hello"
	ActionWhoAreYou  OptionAction = "who_are_you"
	ActionFeedTokens OptionAction = "feed_tokens"
	ActionContinue   OptionAction = "continue"
	ActionAsk        OptionAction = "ask"
)

// Option is one selectable menu entry in the bubble.
type Option struct {
	Action OptionAction `json:"action"`
	Label  string       `json:"label"`
}

// BubbleView is what the rendering boundary receives on every transition. It
// fully describes the bubble; the renderer holds no state of its own.
type BubbleView struct {
	State            BubbleState `json:"state"`
	Text             string      `json:"text"`
	Loading          bool        `json:"loading"`
	Options          []Option    `json:"options,omitempty"`
	CustomInput      bool        `json:"custom_input"`
	CustomInputLabel string      `json:"custom_input_label,omitempty"`
	ShowContinue     bool        `json:"show_continue"`
	ContinueLabel    string      `json:"continue_label,omitempty"`
	ShowClose        bool        `json:"show_close"`
	CloseLabel       string      `json:"close_label,omitempty"`
}

// API response status constants.
const (
	APIStatusOK    = "ok"
	APIStatusError = "error"
)

// APIResponse is the uniform JSON envelope for non-wire-contract endpoints.
type APIResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Result  interface{} `json:"result,omitempty"`
}

// Success creates a successful API response with optional result data.
func Success(result interface{}) APIResponse {
	return APIResponse{Status: APIStatusOK, Result: result}
}

// Error creates an error API response with a message.
func Error(message string) APIResponse {
	return APIResponse{Status: APIStatusError, Message: message}
}
