// avatar-buddy runs the backend for the animated site avatar: the chat proxy
// and client-config API, plus an optional interactive terminal demo of the
// dialogue controller.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/sinanisler/avatar-buddy/internal/api"
	"github.com/sinanisler/avatar-buddy/internal/avatar"
	"github.com/sinanisler/avatar-buddy/internal/config"
	"github.com/sinanisler/avatar-buddy/internal/genai"
	"github.com/sinanisler/avatar-buddy/internal/history"
	"github.com/sinanisler/avatar-buddy/internal/models"
	"github.com/sinanisler/avatar-buddy/internal/util"
)

// Config holds process-level settings taken from the environment before flags
// are applied on top.
type Config struct {
	Addr       string
	ConfigPath string
	StateDSN   string
	Debug      bool
}

func initializeLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func main() {
	// Load .env first so the environment defaults below see it.
	if err := godotenv.Load(); err != nil {
		slog.Debug("main: no .env file loaded", "error", err)
	}

	cfg := Config{
		Addr:       os.Getenv("AVATAR_ADDR"),
		ConfigPath: os.Getenv("AVATAR_CONFIG"),
		StateDSN:   os.Getenv("AVATAR_STATE_DSN"),
		Debug:      util.ParseBoolEnv("AVATAR_DEBUG", false),
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.StateDSN == "" {
		cfg.StateDSN = "avatar-state.json"
	}

	addr := flag.String("addr", cfg.Addr, "HTTP listen address")
	configPath := flag.String("config", cfg.ConfigPath, "path to YAML settings file")
	stateDSN := flag.String("state-dsn", cfg.StateDSN, "conversation state DSN (file path, sqlite file, or postgres DSN)")
	debug := flag.Bool("debug", cfg.Debug, "enable debug logging")
	demo := flag.Bool("demo", false, "run the interactive terminal demo instead of serving only")
	flag.Parse()

	initializeLogger(*debug)

	settings := config.Default()
	if *configPath != "" {
		if err := settings.Load(*configPath); err != nil {
			slog.Error("main: failed to load settings file", "path", *configPath, "error", err)
			os.Exit(1)
		}
	}
	settings.ApplyEnv()
	if *debug {
		settings.Features.DebugMode = true
	}
	if err := settings.Validate(); err != nil {
		slog.Error("main: invalid settings", "error", err)
		os.Exit(1)
	}

	backend, err := openBackend(*stateDSN)
	if err != nil {
		slog.Error("main: failed to open state backend", "dsn", *stateDSN, "error", err)
		os.Exit(1)
	}
	hist := history.New(settings.History.MaxStorage, backend)

	var generator api.Generator
	if settings.API.Key != "" {
		timeout := util.ParseIntEnv("AVATAR_HTTP_TIMEOUT_SECONDS", 30)
		client, err := genai.NewClient(
			genai.WithAPIKey(settings.API.Key),
			genai.WithBaseURL(settings.API.URL),
			genai.WithModel(settings.API.Model),
			genai.WithTemperature(settings.API.Temperature),
			genai.WithMaxTokens(settings.API.MaxTokens),
			genai.WithHTTPTimeout(time.Duration(timeout)*time.Second),
		)
		if err != nil {
			slog.Error("main: failed to create generation client", "error", err)
			os.Exit(1)
		}
		generator = client
	} else {
		slog.Warn("main: no API key configured, chat endpoint will reject requests")
	}

	server := api.NewServer(settings, generator, api.WithAddr(*addr))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *demo {
		go func() {
			if err := server.Run(ctx); err != nil {
				slog.Error("main: server failed", "error", err)
				stop()
			}
		}()
		runDemo(ctx, settings, hist, *addr)
		return
	}

	if err := server.Run(ctx); err != nil {
		slog.Error("main: server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("main: shutdown complete")
}

// openBackend resolves the DSN to a concrete state backend.
func openBackend(dsn string) (history.Backend, error) {
	switch history.DetectDSNType(dsn) {
	case "postgres":
		return history.NewBackend(history.WithPostgresDSN(dsn))
	case "sqlite":
		return history.NewBackend(history.WithSQLiteDSN(dsn))
	default:
		return history.NewBackend(history.WithFilePath(dsn))
	}
}

// runDemo drives the dialogue controller from stdin, rendering bubble views to
// stdout. It exercises the same code paths the page would.
func runDemo(ctx context.Context, settings *config.Settings, hist *history.Store, addr string) {
	endpoint := "http://localhost" + addr + "/api/chat"
	if !strings.HasPrefix(addr, ":") {
		endpoint = "http://" + addr + "/api/chat"
	}
	sender := avatar.NewOrchestrator(endpoint, hist, settings.History.ExchangesLimit)
	ctrl := avatar.NewController(settings, &terminalRenderer{}, sender, hist)
	ctrl.Start(ctx)
	defer ctrl.Stop()

	fmt.Println("commands: click, hello, who, ask <question>, say <text>, continue, feed, close, state, quit")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		cmd, rest, _ := strings.Cut(line, " ")
		switch cmd {
		case "click":
			ctrl.Click()
		case "hello":
			ctrl.SayHello()
		case "who":
			ctrl.AskWho()
		case "ask":
			ctrl.Ask(rest)
		case "say":
			ctrl.SendCustom(rest)
		case "continue":
			ctrl.Continue()
		case "feed":
			ctrl.FeedTokens()
		case "close":
			ctrl.CloseBubble()
		case "state":
			fmt.Printf("state=%s tokens=%d interacted=%v history=%d\n",
				ctrl.State(), ctrl.Tokens(), ctrl.HasInteracted(), hist.Len())
		case "quit":
			return
		case "":
		default:
			fmt.Println("unknown command:", cmd)
		}
		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

// terminalRenderer prints bubble views to stdout for the demo.
type terminalRenderer struct{}

func (terminalRenderer) ShowBubble(view models.BubbleView) {
	fmt.Printf("\n[%s] %s", view.State, view.Text)
	if view.Loading {
		fmt.Print(" ...")
	}
	fmt.Println()
	for _, opt := range view.Options {
		fmt.Printf("  (%s) %s\n", opt.Action, opt.Label)
	}
	if view.CustomInput {
		fmt.Printf("  [input] %s\n", view.CustomInputLabel)
	}
	if view.ShowContinue {
		fmt.Printf("  [continue] %s\n", view.ContinueLabel)
	}
	if view.ShowClose {
		fmt.Printf("  [close] %s\n", view.CloseLabel)
	}
}

func (terminalRenderer) HideBubble() {
	fmt.Println("\n[bubble hidden]")
}

func (terminalRenderer) WalkerMoved(models.WalkerPosition) {}

func (terminalRenderer) DebugState(state models.BubbleState) {
	fmt.Printf("[debug] state=%s\n", state)
}
