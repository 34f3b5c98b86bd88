package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/tableagent/tableagent"
	"github.com/tableagent/tableagent/anthropic"
	"github.com/tableagent/tableagent/gemini"
	"github.com/tableagent/tableagent/openai"
)

// resolveProvider picks and constructs the LLM provider.
//
// When name is empty the provider is auto-detected from which API key
// env vars are set; exactly one must be set or the choice is ambiguous.
// An explicit -api-key overrides the provider's env var.
func resolveProvider(ctx context.Context, name, apiKeyFlag, openaiKey, anthropicKey, geminiKey string) (tableagent.Provider, error) {
	if name == "" {
		var detected []string
		if openaiKey != "" {
			detected = append(detected, "openai")
		}
		if anthropicKey != "" {
			detected = append(detected, "anthropic")
		}
		if geminiKey != "" {
			detected = append(detected, "gemini")
		}
		switch len(detected) {
		case 0:
			return nil, fmt.Errorf("no provider configured: set OPENAI_API_KEY, ANTHROPIC_API_KEY, or GEMINI_API_KEY, or pass -provider")
		case 1:
			name = detected[0]
		default:
			return nil, fmt.Errorf("multiple API keys found (%s): pass -provider to choose one", strings.Join(detected, ", "))
		}
	}

	switch name {
	case "openai":
		key := apiKeyFlag
		if key == "" {
			key = openaiKey
		}
		if key == "" {
			return nil, fmt.Errorf("openai: API key required (set OPENAI_API_KEY or pass -api-key)")
		}
		return openai.New(key), nil
	case "anthropic":
		key := apiKeyFlag
		if key == "" {
			key = anthropicKey
		}
		if key == "" {
			return nil, fmt.Errorf("anthropic: API key required (set ANTHROPIC_API_KEY or pass -api-key)")
		}
		return anthropic.New(key), nil
	case "gemini":
		key := apiKeyFlag
		if key == "" {
			key = geminiKey
		}
		if key == "" {
			return nil, fmt.Errorf("gemini: API key required (set GEMINI_API_KEY or pass -api-key)")
		}
		return gemini.New(ctx, key)
	default:
		return nil, fmt.Errorf("unknown provider %q (expected openai, anthropic, or gemini)", name)
	}
}
