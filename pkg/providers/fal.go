package providers

import (
	"context"
	"fmt"
	"os"
	"time"
)

const falAPIBase = "https://queue.fal.run"

// Fal is the FAL.AI adapter, the default provider. Nano Banana Pro on
// FAL accepts reference images, which drives the style anchor cascade.
type Fal struct{}

func (f *Fal) Name() string        { return "fal" }
func (f *Fal) DisplayName() string { return "FAL.AI" }

func (f *Fal) Available() bool {
	return os.Getenv("FAL_KEY") != ""
}

func (f *Fal) SupportsImageReference() bool {
	return imageReferenceSupport["fal"]
}

func (f *Fal) ModelID(logicalModel string) string {
	return mappedModelID("fal", logicalModel)
}

type falQueueStatus struct {
	RequestID   string `json:"request_id"`
	Status      string `json:"status"`
	StatusURL   string `json:"status_url"`
	ResponseURL string `json:"response_url"`
}

type falResponse struct {
	Images []struct {
		URL string `json:"url"`
	} `json:"images"`
}

func (f *Fal) Generate(ctx context.Context, req Request) Result {
	key := os.Getenv("FAL_KEY")
	if key == "" {
		return failure("fal", req.Model, fmt.Errorf("FAL_KEY environment variable not set"))
	}

	modelID := f.ModelID(req.Model)
	headers := map[string]string{"Authorization": "Key " + key}

	arguments := map[string]any{
		"prompt":     req.Prompt,
		"image_size": map[string]int{"width": req.Width, "height": req.Height},
	}

	if req.NegativePrompt != "" {
		arguments["negative_prompt"] = req.NegativePrompt
	}

	if req.GuidanceScale > 0 {
		arguments["guidance_scale"] = req.GuidanceScale
	}

	if req.ReferenceImageURL != "" {
		arguments["image_url"] = req.ReferenceImageURL
	}

	var queued falQueueStatus
	if err := postJSON(ctx, falAPIBase+"/"+modelID, headers, arguments, &queued); err != nil {
		return failure("fal", modelID, fmt.Errorf("submit failed: %w", err))
	}

	statusURL := queued.StatusURL
	if statusURL == "" {
		statusURL = fmt.Sprintf("%s/%s/requests/%s/status", falAPIBase, modelID, queued.RequestID)
	}

	responseURL := queued.ResponseURL
	if responseURL == "" {
		responseURL = fmt.Sprintf("%s/%s/requests/%s", falAPIBase, modelID, queued.RequestID)
	}

	deadline := time.Now().Add(5 * time.Minute)

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return failure("fal", modelID, ctx.Err())
		case <-time.After(5 * time.Second):
		}

		var status falQueueStatus
		if err := getJSON(ctx, statusURL, headers, &status); err != nil {
			continue
		}

		if status.Status != "COMPLETED" {
			continue
		}

		var response falResponse
		if err := getJSON(ctx, responseURL, headers, &response); err != nil {
			return failure("fal", modelID, fmt.Errorf("result fetch failed: %w", err))
		}

		if len(response.Images) == 0 {
			return failure("fal", modelID, fmt.Errorf("no images in response"))
		}

		imageURL := response.Images[0].URL
		if err := downloadFile(ctx, imageURL, req.OutputPath); err != nil {
			return failure("fal", modelID, err)
		}

		return Result{
			Success:   true,
			ImageURL:  imageURL,
			LocalPath: req.OutputPath,
			ModelUsed: modelID,
			Provider:  "fal",
			Metadata:  map[string]any{"request_id": queued.RequestID},
		}
	}

	return failure("fal", modelID, fmt.Errorf("generation timed out after 5m"))
}
