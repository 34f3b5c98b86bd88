package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveProvider_ExplicitOpenAI(t *testing.T) {
	t.Parallel()
	p, err := resolveProvider(context.Background(), "openai", "sk-test", "", "", "")
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestResolveProvider_ExplicitAnthropic(t *testing.T) {
	t.Parallel()
	p, err := resolveProvider(context.Background(), "anthropic", "sk-test", "", "", "")
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestResolveProvider_ExplicitGemini(t *testing.T) {
	t.Parallel()
	p, err := resolveProvider(context.Background(), "gemini", "gk-test", "", "", "")
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestResolveProvider_UnknownProvider(t *testing.T) {
	t.Parallel()
	_, err := resolveProvider(context.Background(), "cohere", "key", "", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestResolveProvider_NoKeysNoFlag(t *testing.T) {
	t.Parallel()
	_, err := resolveProvider(context.Background(), "", "", "", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no provider configured")
}

func TestResolveProvider_MultipleKeysNoFlag(t *testing.T) {
	t.Parallel()
	_, err := resolveProvider(context.Background(), "", "", "sk-oai", "sk-ant", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple API keys")
	assert.Contains(t, err.Error(), "openai")
	assert.Contains(t, err.Error(), "anthropic")
}

func TestResolveProvider_AutoDetectOpenAI(t *testing.T) {
	t.Parallel()
	p, err := resolveProvider(context.Background(), "", "", "sk-oai", "", "")
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestResolveProvider_AutoDetectGemini(t *testing.T) {
	t.Parallel()
	p, err := resolveProvider(context.Background(), "", "", "", "", "gk-gem")
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestResolveProvider_FlagKeyOverridesEnv(t *testing.T) {
	t.Parallel()
	p, err := resolveProvider(context.Background(), "anthropic", "sk-flag", "", "sk-env", "")
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestResolveProvider_ExplicitProviderMissingKey(t *testing.T) {
	t.Parallel()
	_, err := resolveProvider(context.Background(), "anthropic", "", "", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")
}
