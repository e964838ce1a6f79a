package providers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Static error variables for linter compliance.
var (
	ErrUnknownProvider = errors.New("unknown provider")
	ErrUnavailable     = errors.New("provider credentials not set")
)

// DefaultChain is the priority order providers are tried in when the
// caller does not supply one.
var DefaultChain = []string{"fal", "openrouter", "replicate", "openai"}

// Chain holds registered providers and drives fallback generation.
type Chain struct {
	logger    *slog.Logger
	providers map[string]Provider
}

func NewChain(logger *slog.Logger) *Chain {
	return &Chain{
		logger: logger,
		providers: map[string]Provider{
			"fal":        &Fal{},
			"openrouter": &OpenRouter{},
			"openai":     &OpenAI{},
			"replicate":  &Replicate{},
		},
	}
}

// Register replaces or adds a provider. Tests use this to install fakes.
func (c *Chain) Register(p Provider) {
	c.providers[p.Name()] = p
}

// Provider returns a provider by name, requiring its credentials to be
// present.
func (c *Chain) Provider(name string) (Provider, error) {
	p, ok := c.providers[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}

	if !p.Available() {
		envVar := CredentialEnvVars[p.Name()]
		if envVar == "" {
			envVar = "API_KEY"
		}

		return nil, fmt.Errorf("%w: %s requires %s", ErrUnavailable, p.Name(), envVar)
	}

	return p, nil
}

// Available returns the names of providers whose credentials are set.
func (c *Chain) Available() []string {
	var available []string

	for _, name := range DefaultChain {
		if p, ok := c.providers[name]; ok && p.Available() {
			available = append(available, name)
		}
	}

	return available
}

// GenerateWithFallback tries each provider in order and returns the
// first success. Unavailable providers are skipped. When every provider
// fails the single returned result aggregates all their errors, so
// callers never inspect partial failures themselves.
func (c *Chain) GenerateWithFallback(ctx context.Context, req Request, chain []string) Result {
	if len(chain) == 0 {
		chain = DefaultChain
	}

	var errors []string

	for _, name := range chain {
		p, err := c.Provider(name)
		if err != nil {
			c.logger.Debug("Skipping provider", "provider", name, "reason", err)
			errors = append(errors, fmt.Sprintf("%s: %s", name, err))

			continue
		}

		result := p.Generate(ctx, req)
		if result.Success {
			return result
		}

		c.logger.Warn("Provider generation failed",
			"provider", name, "model", req.Model, "error", result.Error)
		errors = append(errors, fmt.Sprintf("%s: %s", name, result.Error))
	}

	return Result{
		Success:   false,
		Provider:  "fallback",
		ModelUsed: req.Model,
		Error:     "all providers failed: " + strings.Join(errors, "; "),
	}
}
