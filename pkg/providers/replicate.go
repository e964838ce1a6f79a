package providers

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"
)

const replicateAPIBase = "https://api.replicate.com/v1"

// Replicate runs predictions through Replicate's async API: create a
// prediction, poll until it leaves the running states, download output.
type Replicate struct{}

func (r *Replicate) Name() string        { return "replicate" }
func (r *Replicate) DisplayName() string { return "Replicate" }

func (r *Replicate) Available() bool {
	return os.Getenv("REPLICATE_API_TOKEN") != ""
}

func (r *Replicate) SupportsImageReference() bool {
	return imageReferenceSupport["replicate"]
}

func (r *Replicate) ModelID(logicalModel string) string {
	return mappedModelID("replicate", logicalModel)
}

type replicatePrediction struct {
	ID     string   `json:"id"`
	Status string   `json:"status"`
	Output []string `json:"output"`
	Error  string   `json:"error"`
	URLs   struct {
		Get string `json:"get"`
	} `json:"urls"`
}

func (r *Replicate) Generate(ctx context.Context, req Request) Result {
	token := os.Getenv("REPLICATE_API_TOKEN")
	if token == "" {
		return failure("replicate", req.Model, fmt.Errorf("REPLICATE_API_TOKEN environment variable not set"))
	}

	modelID := r.ModelID(req.Model)
	headers := map[string]string{"Authorization": "Token " + token}

	input := map[string]any{
		"prompt": req.Prompt,
		"width":  req.Width,
		"height": req.Height,
	}

	if req.NegativePrompt != "" {
		input["negative_prompt"] = req.NegativePrompt
	}

	if req.ReferenceImageURL != "" {
		input["image"] = req.ReferenceImageURL
	}

	// Pinned versions use the predictions endpoint; bare model paths
	// use the model-scoped endpoint.
	url := replicateAPIBase + "/predictions"
	payload := map[string]any{"input": input}

	if _, version, ok := strings.Cut(modelID, ":"); ok {
		payload["version"] = version
	} else {
		url = fmt.Sprintf("%s/models/%s/predictions", replicateAPIBase, modelID)
	}

	var prediction replicatePrediction
	if err := postJSON(ctx, url, headers, payload, &prediction); err != nil {
		return failure("replicate", modelID, fmt.Errorf("prediction create failed: %w", err))
	}

	getURL := prediction.URLs.Get
	if getURL == "" {
		getURL = replicateAPIBase + "/predictions/" + prediction.ID
	}

	deadline := time.Now().Add(5 * time.Minute)

	for prediction.Status == "starting" || prediction.Status == "processing" {
		if time.Now().After(deadline) {
			return failure("replicate", modelID, fmt.Errorf("prediction timed out after 5m"))
		}

		select {
		case <-ctx.Done():
			return failure("replicate", modelID, ctx.Err())
		case <-time.After(3 * time.Second):
		}

		if err := getJSON(ctx, getURL, headers, &prediction); err != nil {
			return failure("replicate", modelID, fmt.Errorf("prediction poll failed: %w", err))
		}
	}

	if prediction.Status != "succeeded" {
		reason := prediction.Error
		if reason == "" {
			reason = prediction.Status
		}

		return failure("replicate", modelID, fmt.Errorf("prediction failed: %s", reason))
	}

	if len(prediction.Output) == 0 {
		return failure("replicate", modelID, fmt.Errorf("no output in prediction"))
	}

	imageURL := prediction.Output[0]
	if err := downloadFile(ctx, imageURL, req.OutputPath); err != nil {
		return failure("replicate", modelID, err)
	}

	return Result{
		Success:   true,
		ImageURL:  imageURL,
		LocalPath: req.OutputPath,
		ModelUsed: modelID,
		Provider:  "replicate",
		Metadata:  map[string]any{"prediction_id": prediction.ID},
	}
}
