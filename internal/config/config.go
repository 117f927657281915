// Package config holds the immutable settings snapshot for the avatar.
//
// Settings are loaded once at start-up: defaults first, then an optional YAML
// file, then environment overrides, then validation. The dialogue controller
// never sees a partial or mutated configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// PositionSide values.
const (
	SideLeft  = "left"
	SideRight = "right"
)

// APISettings configure the upstream chat-completion call made by the proxy.
type APISettings struct {
	Key         string  `yaml:"key"`
	URL         string  `yaml:"url"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// PersonalitySettings select the system prompt sent with every upstream call.
type PersonalitySettings struct {
	Preset       string `yaml:"preset"`
	CustomPrompt string `yaml:"custom_prompt"`
}

// TimingSettings are all durations, in milliseconds as in the client config.
type TimingSettings struct {
	InitialGreetingDelayMs int `yaml:"initial_greeting_delay_ms"`
	GreetingDisplayTimeMs  int `yaml:"greeting_display_time_ms"`
	AnswerMinDisplayTimeMs int `yaml:"answer_min_display_time_ms"`
	AnswerTimePerCharMs    int `yaml:"answer_time_per_char_ms"`
	AnswerMaxDisplayTimeMs int `yaml:"answer_max_display_time_ms"`
	TokenDisplayTimeMs     int `yaml:"token_display_time_ms"`
	WalkSpeedMs            int `yaml:"walk_speed_ms"`
	WalkDistancePx         int `yaml:"walk_distance_px"`
	WalkMinPosition        int `yaml:"walk_min_position"`
	WalkMaxOffset          int `yaml:"walk_max_offset"`
}

// FeatureSettings are the behavior toggles.
type FeatureSettings struct {
	AutoAdvanceEnabled bool `yaml:"auto_advance_enabled"`
	AutoHideGreeting   bool `yaml:"auto_hide_greeting"`
	EnableCustomInput  bool `yaml:"enable_custom_input"`
	EnableWalking      bool `yaml:"enable_walking"`
	DebugMode          bool `yaml:"debug_mode"`
}

// TextSettings are every user-visible string the bubble can show.
type TextSettings struct {
	GreetingMessage          string   `yaml:"greeting_message"`
	FirstPromptMessage       string   `yaml:"first_prompt_message"`
	ReturnPromptMessage      string   `yaml:"return_prompt_message"`
	ThinkingMessage          string   `yaml:"thinking_message"`
	GeneratingOptionsMessage string   `yaml:"generating_options_message"`
	FailureMessage           string   `yaml:"failure_message"`
	OptionSayHello           string   `yaml:"option_say_hello"`
	OptionWhoAreYou          string   `yaml:"option_who_are_you"`
	OptionFeedTokens         string   `yaml:"option_feed_tokens"`
	OptionContinueChatting   string   `yaml:"option_continue_chatting"`
	OptionClose              string   `yaml:"option_close"`
	CustomInputLabel         string   `yaml:"custom_input_label"`
	TokenResponses           []string `yaml:"token_responses"`
}

// HistorySettings bound the conversation log and its context view.
type HistorySettings struct {
	ExchangesLimit int `yaml:"exchanges_limit"`
	MaxStorage     int `yaml:"max_storage"`
}

// PromptSettings are the fixed prompts behind the canned actions.
type PromptSettings struct {
	SayHello        string `yaml:"say_hello"`
	WhoAreYou       string `yaml:"who_are_you"`
	GenerateOptions string `yaml:"generate_options"`
}

// Settings is the full immutable configuration snapshot.
type Settings struct {
	API         APISettings         `yaml:"api"`
	Personality PersonalitySettings `yaml:"personality"`
	Timing      TimingSettings      `yaml:"timing"`
	Features    FeatureSettings     `yaml:"features"`
	Text        TextSettings        `yaml:"text"`
	History     HistorySettings     `yaml:"history"`
	Prompts     PromptSettings      `yaml:"prompts"`
	Side        string              `yaml:"position_side"`
}

// Default returns the built-in settings.
func Default() *Settings {
	return &Settings{
		API: APISettings{
			URL:         "https://openrouter.ai/api/v1/chat/completions",
			Model:       "anthropic/claude-3.5-haiku",
			Temperature: 0.9,
			MaxTokens:   180,
		},
		Personality: PersonalitySettings{Preset: PresetLaidBack},
		Timing: TimingSettings{
			InitialGreetingDelayMs: 1500,
			GreetingDisplayTimeMs:  4000,
			AnswerMinDisplayTimeMs: 3000,
			AnswerTimePerCharMs:    50,
			AnswerMaxDisplayTimeMs: 15000,
			TokenDisplayTimeMs:     3500,
			WalkSpeedMs:            50,
			WalkDistancePx:         2,
			WalkMinPosition:        50,
			WalkMaxOffset:          150,
		},
		Features: FeatureSettings{
			AutoAdvanceEnabled: false,
			AutoHideGreeting:   true,
			EnableCustomInput:  true,
			EnableWalking:      true,
			DebugMode:          false,
		},
		Text: TextSettings{
			GreetingMessage:          "...I'm here if you need me.",
			FirstPromptMessage:       "What do you want?",
			ReturnPromptMessage:      "Still here. What else?",
			ThinkingMessage:          "thinking",
			GeneratingOptionsMessage: "thinking of questions",
			FailureMessage:           "...Something broke. Try again?",
			OptionSayHello:           "Say Hello",
			OptionWhoAreYou:          "Who are you?",
			OptionFeedTokens:         "Feed Tokens",
			OptionContinueChatting:   "Continue chatting",
			OptionClose:              "Close",
			CustomInputLabel:         "Ask anything...",
			TokenResponses: []string{
				"...Thanks, I guess.",
				"Tokens. Cool.",
				"I suppose that helps.",
				"...Whatever keeps me running.",
				"Not bad.",
				"...Appreciated.",
				"Fuel received.",
				"Alright then.",
			},
		},
		History: HistorySettings{
			ExchangesLimit: 10,
			MaxStorage:     50,
		},
		Prompts: PromptSettings{
			SayHello:  "Say hello to me in a casual way. Be brief.",
			WhoAreYou: "Introduce yourself as a pixel art character on a website. Keep it short.",
			GenerateOptions: "Suggest exactly 3 short follow-up questions a visitor might ask you next, " +
				"one per line, no numbering, no extra text.",
		},
		Side: SideLeft,
	}
}

// Load reads the YAML settings file at path on top of s. Unknown fields are
// rejected so typos in the file surface at start-up instead of silently
// falling back to defaults.
func (s *Settings) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	if err := s.LoadFromReader(f); err != nil {
		return fmt.Errorf("config: parse %q: %w", path, err)
	}
	return nil
}

// LoadFromReader decodes YAML settings from r on top of s. Useful in tests
// where configs are constructed from string literals.
func (s *Settings) LoadFromReader(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil {
		return fmt.Errorf("config: decode yaml: %w", err)
	}
	return nil
}

// ApplyEnv layers recognized environment variables over s. Only the values
// that change between deployments are exposed this way; everything else lives
// in the YAML file.
func (s *Settings) ApplyEnv() {
	if v := os.Getenv("AVATAR_API_KEY"); v != "" {
		s.API.Key = v
	}
	if v := os.Getenv("AVATAR_API_URL"); v != "" {
		s.API.URL = v
	}
	if v := os.Getenv("AVATAR_API_MODEL"); v != "" {
		s.API.Model = v
	}
	if v := os.Getenv("AVATAR_PERSONALITY"); v != "" {
		s.Personality.Preset = v
	}
	slog.Debug("config: environment overrides applied",
		"api_key_set", s.API.Key != "",
		"api_url", s.API.URL,
		"api_model", s.API.Model,
		"personality", s.Personality.Preset)
}

// Validate checks coherence, applies clamping, and returns a joined error
// listing every failure found. After Validate returns nil the snapshot is
// final.
func (s *Settings) Validate() error {
	var errs []error

	if s.Side != SideLeft && s.Side != SideRight {
		errs = append(errs, fmt.Errorf("config: position_side must be %q or %q, got %q", SideLeft, SideRight, s.Side))
	}
	if _, ok := presets[s.Personality.Preset]; !ok {
		errs = append(errs, fmt.Errorf("config: unknown personality preset %q, valid presets: %s",
			s.Personality.Preset, strings.Join(PresetNames(), ", ")))
	}
	if s.Personality.Preset == PresetCustom && s.Personality.CustomPrompt == "" {
		errs = append(errs, errors.New("config: personality preset is custom but custom_prompt is empty"))
	}
	if s.API.Temperature < 0 || s.API.Temperature > 2 {
		errs = append(errs, fmt.Errorf("config: api temperature %v outside [0, 2]", s.API.Temperature))
	}
	if len(s.Text.TokenResponses) == 0 {
		errs = append(errs, errors.New("config: token_responses must contain at least one line"))
	}

	// Negative or zero timings fall back to defaults rather than erroring;
	// a misconfigured timing must never freeze the bubble.
	def := Default()
	clampTiming(&s.Timing.InitialGreetingDelayMs, def.Timing.InitialGreetingDelayMs)
	clampTiming(&s.Timing.GreetingDisplayTimeMs, def.Timing.GreetingDisplayTimeMs)
	clampTiming(&s.Timing.AnswerMinDisplayTimeMs, def.Timing.AnswerMinDisplayTimeMs)
	clampTiming(&s.Timing.AnswerTimePerCharMs, def.Timing.AnswerTimePerCharMs)
	clampTiming(&s.Timing.AnswerMaxDisplayTimeMs, def.Timing.AnswerMaxDisplayTimeMs)
	clampTiming(&s.Timing.TokenDisplayTimeMs, def.Timing.TokenDisplayTimeMs)
	clampTiming(&s.Timing.WalkSpeedMs, def.Timing.WalkSpeedMs)
	clampTiming(&s.Timing.WalkDistancePx, def.Timing.WalkDistancePx)

	if s.Timing.AnswerMaxDisplayTimeMs < s.Timing.AnswerMinDisplayTimeMs {
		s.Timing.AnswerMaxDisplayTimeMs = s.Timing.AnswerMinDisplayTimeMs
	}
	if s.History.MaxStorage <= 0 {
		s.History.MaxStorage = def.History.MaxStorage
	}
	if s.History.ExchangesLimit <= 0 {
		s.History.ExchangesLimit = def.History.ExchangesLimit
	}
	// The context sub-limit must never exceed the storage limit.
	if s.History.ExchangesLimit > s.History.MaxStorage {
		slog.Warn("config: history exchanges_limit exceeds max_storage, clamping",
			"exchanges_limit", s.History.ExchangesLimit, "max_storage", s.History.MaxStorage)
		s.History.ExchangesLimit = s.History.MaxStorage
	}

	return errors.Join(errs...)
}

func clampTiming(v *int, def int) {
	if *v <= 0 {
		*v = def
	}
}

// Duration helpers convert the millisecond fields once, at call sites.

func (t TimingSettings) InitialGreetingDelay() time.Duration {
	return time.Duration(t.InitialGreetingDelayMs) * time.Millisecond
}

func (t TimingSettings) GreetingDisplayTime() time.Duration {
	return time.Duration(t.GreetingDisplayTimeMs) * time.Millisecond
}

func (t TimingSettings) AnswerMinDisplayTime() time.Duration {
	return time.Duration(t.AnswerMinDisplayTimeMs) * time.Millisecond
}

func (t TimingSettings) AnswerTimePerChar() time.Duration {
	return time.Duration(t.AnswerTimePerCharMs) * time.Millisecond
}

func (t TimingSettings) AnswerMaxDisplayTime() time.Duration {
	return time.Duration(t.AnswerMaxDisplayTimeMs) * time.Millisecond
}

func (t TimingSettings) TokenDisplayTime() time.Duration {
	return time.Duration(t.TokenDisplayTimeMs) * time.Millisecond
}

func (t TimingSettings) WalkSpeed() time.Duration {
	return time.Duration(t.WalkSpeedMs) * time.Millisecond
}
