package config

// ClientSnapshot is the subset of settings the page embedding needs to drive
// the avatar. It deliberately excludes the upstream API credentials and model
// selection; those stay server-side.
type ClientSnapshot struct {
	WalkSpeedMs            int  `json:"walkSpeedMs"`
	WalkDistancePx         int  `json:"walkDistancePx"`
	WalkMinPosition        int  `json:"walkMinPosition"`
	WalkMaxOffset          int  `json:"walkMaxOffset"`
	InitialGreetingDelayMs int  `json:"initialGreetingDelay"`
	GreetingDisplayTimeMs  int  `json:"greetingDisplayTime"`
	AnswerMinDisplayTimeMs int  `json:"answerMinDisplayTime"`
	AnswerTimePerCharMs    int  `json:"answerTimePerChar"`
	AnswerMaxDisplayTimeMs int  `json:"answerMaxDisplayTime"`
	TokenDisplayTimeMs     int  `json:"tokenDisplayTime"`
	AutoAdvanceEnabled     bool `json:"autoAdvanceEnabled"`
	AutoHideGreeting       bool `json:"autoHideGreeting"`
	DebugMode              bool `json:"debugMode"`

	GreetingMessage          string `json:"greetingMessage"`
	FirstPromptMessage       string `json:"firstPromptMessage"`
	ReturnPromptMessage      string `json:"returnPromptMessage"`
	ThinkingMessage          string `json:"thinkingMessage"`
	GeneratingOptionsMessage string `json:"generatingOptionsMessage"`

	OptionSayHello         string `json:"optionSayHello"`
	OptionWhoAreYou        string `json:"optionWhoAreYou"`
	OptionFeedTokens       string `json:"optionFeedTokens"`
	OptionContinueChatting string `json:"optionContinueChatting"`
	OptionClose            string `json:"optionClose"`

	TokenResponses []string `json:"tokenResponses"`

	EnableCustomInput bool   `json:"enableCustomInput"`
	EnableWalking     bool   `json:"enableWalking"`
	CustomInputLabel  string `json:"customInputLabel"`
	PositionSide      string `json:"positionSide"`
}

// Client builds the client-facing snapshot from the validated settings.
func (s *Settings) Client() ClientSnapshot {
	return ClientSnapshot{
		WalkSpeedMs:            s.Timing.WalkSpeedMs,
		WalkDistancePx:         s.Timing.WalkDistancePx,
		WalkMinPosition:        s.Timing.WalkMinPosition,
		WalkMaxOffset:          s.Timing.WalkMaxOffset,
		InitialGreetingDelayMs: s.Timing.InitialGreetingDelayMs,
		GreetingDisplayTimeMs:  s.Timing.GreetingDisplayTimeMs,
		AnswerMinDisplayTimeMs: s.Timing.AnswerMinDisplayTimeMs,
		AnswerTimePerCharMs:    s.Timing.AnswerTimePerCharMs,
		AnswerMaxDisplayTimeMs: s.Timing.AnswerMaxDisplayTimeMs,
		TokenDisplayTimeMs:     s.Timing.TokenDisplayTimeMs,
		AutoAdvanceEnabled:     s.Features.AutoAdvanceEnabled,
		AutoHideGreeting:       s.Features.AutoHideGreeting,
		DebugMode:              s.Features.DebugMode,

		GreetingMessage:          s.Text.GreetingMessage,
		FirstPromptMessage:       s.Text.FirstPromptMessage,
		ReturnPromptMessage:      s.Text.ReturnPromptMessage,
		ThinkingMessage:          s.Text.ThinkingMessage,
		GeneratingOptionsMessage: s.Text.GeneratingOptionsMessage,

		OptionSayHello:         s.Text.OptionSayHello,
		OptionWhoAreYou:        s.Text.OptionWhoAreYou,
		OptionFeedTokens:       s.Text.OptionFeedTokens,
		OptionContinueChatting: s.Text.OptionContinueChatting,
		OptionClose:            s.Text.OptionClose,

		TokenResponses: s.Text.TokenResponses,

		EnableCustomInput: s.Features.EnableCustomInput,
		EnableWalking:     s.Features.EnableWalking,
		CustomInputLabel:  s.Text.CustomInputLabel,
		PositionSide:      s.Side,
	}
}
