package providers

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider is a scriptable provider for chain tests.
type fakeProvider struct {
	name      string
	available bool
	result    Result
	calls     int
}

func (f *fakeProvider) Name() string                 { return f.name }
func (f *fakeProvider) DisplayName() string          { return f.name }
func (f *fakeProvider) Available() bool              { return f.available }
func (f *fakeProvider) SupportsImageReference() bool { return false }
func (f *fakeProvider) ModelID(logical string) string {
	return logical
}

func (f *fakeProvider) Generate(ctx context.Context, req Request) Result {
	f.calls++

	return f.result
}

func testChain(fakes ...*fakeProvider) *Chain {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	chain := NewChain(logger)

	for _, fake := range fakes {
		chain.Register(fake)
	}

	return chain
}

func TestChainFallsThroughToFirstSuccess(t *testing.T) {
	unavailable := &fakeProvider{name: "fal", available: false}
	failing := &fakeProvider{
		name: "openrouter", available: true,
		result: Result{Success: false, Provider: "openrouter", Error: "quota exceeded"},
	}
	working := &fakeProvider{
		name: "replicate", available: true,
		result: Result{Success: true, Provider: "replicate", LocalPath: "/tmp/out.png"},
	}

	chain := testChain(unavailable, failing, working)

	result := chain.GenerateWithFallback(context.Background(),
		Request{Prompt: "logo", Model: "flux-2-pro"},
		[]string{"fal", "openrouter", "replicate"})

	require.True(t, result.Success)
	assert.Equal(t, "replicate", result.Provider)
	assert.Equal(t, 0, unavailable.calls)
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, working.calls)
}

func TestChainAggregatesAllFailures(t *testing.T) {
	unavailable := &fakeProvider{name: "fal", available: false}
	failing := &fakeProvider{
		name: "openrouter", available: true,
		result: Result{Success: false, Provider: "openrouter", Error: "quota exceeded"},
	}

	chain := testChain(unavailable, failing)

	result := chain.GenerateWithFallback(context.Background(),
		Request{Prompt: "logo", Model: "flux-2-pro"},
		[]string{"fal", "openrouter"})

	require.False(t, result.Success)
	assert.Equal(t, "fallback", result.Provider)
	assert.Contains(t, result.Error, "all providers failed")
	assert.Contains(t, result.Error, "fal")
	assert.Contains(t, result.Error, "FAL_KEY")
	assert.Contains(t, result.Error, "quota exceeded")
}

func TestChainUnknownProvider(t *testing.T) {
	chain := testChain()

	_, err := chain.Provider("midjourney")
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestChainProviderRequiresCredentials(t *testing.T) {
	chain := testChain(&fakeProvider{name: "openai", available: false})

	_, err := chain.Provider("openai")
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestChainAvailableFollowsDefaultOrder(t *testing.T) {
	chain := testChain(
		&fakeProvider{name: "fal", available: false},
		&fakeProvider{name: "openrouter", available: true},
		&fakeProvider{name: "openai", available: true},
		&fakeProvider{name: "replicate", available: false},
	)

	assert.Equal(t, []string{"openrouter", "openai"}, chain.Available())
}
