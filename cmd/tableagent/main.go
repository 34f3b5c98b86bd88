// Command tableagent is a conversational agent for tabular data: it
// loads CSV files into an embedded DuckDB database and answers natural
// language questions about them by generating and executing SQL.
//
// Usage:
//
//	OPENAI_API_KEY=sk-...    tableagent [flags]
//	ANTHROPIC_API_KEY=sk-... tableagent [flags]
//	GEMINI_API_KEY=gk-...    tableagent [flags]
//
// Flags:
//
//	-provider string  Provider: openai, anthropic, gemini (auto-detected from env vars if omitted)
//	-model string     Model ID (default: provider default)
//	-api-key string   API key (overrides provider's env var)
//	-session string   Path to session file to resume
//	-config string    Path to config file (default: tableagent.yaml)
//	-format string    Result format: table, json, csv, markdown
//	-plain            Use the plain line-oriented REPL instead of the TUI
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/tableagent/tableagent"
	"github.com/tableagent/tableagent/agent"
	bt "github.com/tableagent/tableagent/bubbletea"
	"github.com/tableagent/tableagent/config"
	"github.com/tableagent/tableagent/duck"
	tajson "github.com/tableagent/tableagent/json"
	"github.com/tableagent/tableagent/repl"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "tableagent: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		providerFlag = flag.String("provider", "", "Provider: openai, anthropic, gemini (auto-detected from env vars if omitted)")
		modelFlag    = flag.String("model", "", "Model ID (provider-specific)")
		apiKeyFlag   = flag.String("api-key", "", "API key (overrides provider's env var)")
		sessionPath  = flag.String("session", "", "Path to session file to resume")
		configPath   = flag.String("config", "", "Path to config file")
		formatFlag   = flag.String("format", "", "Result format: table, json, csv, markdown")
		plainFlag    = flag.Bool("plain", false, "Use the plain line-oriented REPL instead of the TUI")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	applyFlags(cfg, *providerFlag, *modelFlag, *apiKeyFlag, *formatFlag, *plainFlag)

	// Resolve provider. Env vars are read here and passed as values.
	provider, err := resolveProvider(ctx, cfg.Provider, cfg.APIKey,
		os.Getenv("OPENAI_API_KEY"), os.Getenv("ANTHROPIC_API_KEY"), os.Getenv("GEMINI_API_KEY"))
	if err != nil {
		return err
	}

	session, err := loadOrCreateSession(*sessionPath)
	if err != nil {
		return err
	}

	store, err := duck.Open(ctx, duck.WithRowLimit(cfg.RowLimit))
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	// A resumed session's tables live only in its metadata; the in-memory
	// database starts empty, so reload them before accepting questions.
	for _, tbl := range session.Tables {
		if _, err := store.Load(ctx, tableagent.LoadRequest{DataPath: tbl.Path, Description: tbl.Description}); err != nil {
			fmt.Fprintf(os.Stderr, "tableagent: reload table %q: %v\n", tbl.Name, err)
		}
	}

	a := agent.New(provider, store,
		agent.WithModel(cfg.Model),
		agent.WithMaxRetries(cfg.MaxRetries),
		agent.WithRowLimit(cfg.RowLimit),
	)
	agentFn := func(ctx context.Context, s *tableagent.Session, input string, onEvent func(tableagent.Event)) (bool, error) {
		return a.Handle(ctx, s, input, agent.WithEventHandler(onEvent))
	}

	theme := tableagent.DefaultTheme()
	if cfg.Plain {
		r := repl.New(agentFn, &session, theme, repl.WithFormat(cfg.Format))
		fmt.Println(agent.Welcome)
		if err := r.Run(ctx); err != nil {
			return fmt.Errorf("repl: %w", err)
		}
	} else {
		if err := bt.Run(ctx, bt.New(agentFn, &session, theme)); err != nil {
			return fmt.Errorf("TUI: %w", err)
		}
	}

	// Save session on exit.
	if *sessionPath != "" {
		if err := tajson.Save(*sessionPath, session); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
	} else if len(session.Messages) > 0 {
		savePath := defaultSessionPath(session.ID)
		if err := tajson.Save(savePath, session); err != nil {
			return fmt.Errorf("auto-save session: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Session saved to %s\n", savePath)
	}

	return nil
}

// applyFlags overlays explicitly set flags on the loaded config.
func applyFlags(cfg *config.Config, provider, model, apiKey, format string, plain bool) {
	if provider != "" {
		cfg.Provider = provider
	}
	if model != "" {
		cfg.Model = model
	}
	if apiKey != "" {
		cfg.APIKey = apiKey
	}
	if format != "" {
		cfg.Format = format
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "plain" {
			cfg.Plain = plain
		}
	})
}

func loadOrCreateSession(sessionPath string) (tableagent.Session, error) {
	if sessionPath != "" {
		s, err := tajson.Load(sessionPath)
		if err != nil {
			return tableagent.Session{}, fmt.Errorf("load session: %w", err)
		}
		return s, nil
	}

	now := time.Now()
	return tableagent.Session{
		ID:        fmt.Sprintf("%d", now.UnixNano()),
		CreatedAt: now,
		UpdatedAt: now,
		Messages: []tableagent.Message{
			tableagent.SystemMessage{Content: agent.Welcome, Timestamp: now},
		},
	}, nil
}

func defaultSessionPath(id string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".tableagent", "sessions", id+".json")
}
