package providers

import (
	"context"
	"fmt"
	"os"
)

const openAIAPIBase = "https://api.openai.com/v1"

// OpenAI generates through the Images API (DALL-E 3 / GPT-Image-1).
// DALL-E models only accept fixed sizes, so requested dimensions snap
// to the nearest supported aspect.
type OpenAI struct{}

func (o *OpenAI) Name() string        { return "openai" }
func (o *OpenAI) DisplayName() string { return "OpenAI" }

func (o *OpenAI) Available() bool {
	return os.Getenv("OPENAI_API_KEY") != ""
}

func (o *OpenAI) SupportsImageReference() bool {
	return imageReferenceSupport["openai"]
}

func (o *OpenAI) ModelID(logicalModel string) string {
	return mappedModelID("openai", logicalModel)
}

type openAIResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
		URL     string `json:"url"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (o *OpenAI) Generate(ctx context.Context, req Request) Result {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		return failure("openai", req.Model, fmt.Errorf("OPENAI_API_KEY environment variable not set"))
	}

	modelID := o.ModelID(req.Model)

	payload := map[string]any{
		"model":           modelID,
		"prompt":          req.Prompt,
		"n":               1,
		"size":            snapSize(req.Width, req.Height),
		"response_format": "b64_json",
	}

	var response openAIResponse

	err := postJSON(ctx, openAIAPIBase+"/images/generations", map[string]string{
		"Authorization": "Bearer " + key,
	}, payload, &response)
	if err != nil {
		return failure("openai", modelID, err)
	}

	if response.Error != nil {
		return failure("openai", modelID, fmt.Errorf("API error: %s", response.Error.Message))
	}

	if len(response.Data) == 0 {
		return failure("openai", modelID, fmt.Errorf("no image in response"))
	}

	data := response.Data[0]

	switch {
	case data.B64JSON != "":
		if err := writeBase64(data.B64JSON, req.OutputPath); err != nil {
			return failure("openai", modelID, err)
		}
	case data.URL != "":
		if err := downloadFile(ctx, data.URL, req.OutputPath); err != nil {
			return failure("openai", modelID, err)
		}
	default:
		return failure("openai", modelID, fmt.Errorf("empty image payload"))
	}

	return Result{
		Success:   true,
		ImageURL:  data.URL,
		LocalPath: req.OutputPath,
		ModelUsed: modelID,
		Provider:  "openai",
	}
}

// snapSize maps arbitrary dimensions to the fixed DALL-E size options.
func snapSize(width, height int) string {
	switch {
	case width > height:
		return "1792x1024"
	case height > width:
		return "1024x1792"
	default:
		return "1024x1024"
	}
}
