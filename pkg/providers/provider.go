// Package providers is the multi-provider abstraction for image
// generation. Each adapter exposes the same Generate contract; the
// Chain tries providers in priority order until one succeeds.
package providers

import "context"

// Request describes one image generation call. Model is the logical
// model name; adapters map it to their own model IDs.
type Request struct {
	Prompt            string
	Model             string
	OutputPath        string
	Width             int
	Height            int
	ReferenceImageURL string
	NegativePrompt    string
	GuidanceScale     float64
	Steps             int
}

// Result is the outcome of a generation call. It is ephemeral: the
// executor folds it into a TaskExecution and discards it.
type Result struct {
	Success   bool
	ImageURL  string
	LocalPath string
	ModelUsed string
	Provider  string
	Error     string
	Metadata  map[string]any
}

// Provider is the uniform interface over image generation backends.
// Adapters that cannot honor a reference image must ignore it silently
// rather than fail, so callers never branch per provider.
type Provider interface {
	Name() string
	DisplayName() string

	// Available reports whether the provider's credential env var is set.
	Available() bool

	SupportsImageReference() bool

	// ModelID maps a logical model name to this provider's model ID.
	ModelID(logicalModel string) string

	Generate(ctx context.Context, req Request) Result
}

// CredentialEnvVars names the environment variable each provider needs.
var CredentialEnvVars = map[string]string{
	"fal":        "FAL_KEY",
	"openrouter": "OPENROUTER_API_KEY",
	"openai":     "OPENAI_API_KEY",
	"replicate":  "REPLICATE_API_TOKEN",
}

func failure(provider, model string, err error) Result {
	return Result{
		Success:   false,
		Provider:  provider,
		ModelUsed: model,
		Error:     err.Error(),
	}
}
