package providers

import (
	"context"
	"fmt"
	"os"
)

const openRouterAPIBase = "https://openrouter.ai/api/v1"

// OpenRouter routes generation through OpenRouter's unified API. It has
// no image-reference support; a supplied reference is ignored.
type OpenRouter struct{}

func (o *OpenRouter) Name() string        { return "openrouter" }
func (o *OpenRouter) DisplayName() string { return "OpenRouter" }

func (o *OpenRouter) Available() bool {
	return os.Getenv("OPENROUTER_API_KEY") != ""
}

func (o *OpenRouter) SupportsImageReference() bool {
	return imageReferenceSupport["openrouter"]
}

func (o *OpenRouter) ModelID(logicalModel string) string {
	return mappedModelID("openrouter", logicalModel)
}

type openRouterResponse struct {
	Choices []struct {
		Message struct {
			Images []struct {
				ImageURL struct {
					URL string `json:"url"`
				} `json:"image_url"`
			} `json:"images"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (o *OpenRouter) Generate(ctx context.Context, req Request) Result {
	key := os.Getenv("OPENROUTER_API_KEY")
	if key == "" {
		return failure("openrouter", req.Model, fmt.Errorf("OPENROUTER_API_KEY environment variable not set"))
	}

	modelID := o.ModelID(req.Model)

	prompt := req.Prompt
	if req.NegativePrompt != "" {
		prompt += "\n\nAvoid: " + req.NegativePrompt
	}

	payload := map[string]any{
		"model": modelID,
		"messages": []map[string]any{
			{"role": "user", "content": prompt},
		},
		"modalities": []string{"image"},
	}

	var response openRouterResponse

	err := postJSON(ctx, openRouterAPIBase+"/chat/completions", map[string]string{
		"Authorization": "Bearer " + key,
	}, payload, &response)
	if err != nil {
		return failure("openrouter", modelID, err)
	}

	if response.Error != nil {
		return failure("openrouter", modelID, fmt.Errorf("API error: %s", response.Error.Message))
	}

	if len(response.Choices) == 0 || len(response.Choices[0].Message.Images) == 0 {
		return failure("openrouter", modelID, fmt.Errorf("no image in response"))
	}

	// Images come back as data: URLs with base64 payloads.
	imageURL := response.Choices[0].Message.Images[0].ImageURL.URL
	if err := writeBase64(imageURL, req.OutputPath); err != nil {
		return failure("openrouter", modelID, err)
	}

	return Result{
		Success:   true,
		LocalPath: req.OutputPath,
		ModelUsed: modelID,
		Provider:  "openrouter",
	}
}
