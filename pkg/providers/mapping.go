package providers

// Logical model names used by the asset catalog:
//
//	nano-banana-pro  style anchor, image-reference capable
//	flux-2-pro       high quality general purpose
//	flux-dev         fast drafts
//	recraft-v3       vector/illustration focused
//
// modelMapping maps logical names to provider-specific model IDs.
// Unknown logical names fall back to the provider's flux-2-pro entry.
var modelMapping = map[string]map[string]string{
	"fal": {
		"nano-banana-pro": "fal-ai/nano-banana",
		"flux-2-pro":      "fal-ai/flux-pro/v1.1",
		"flux-dev":        "fal-ai/flux/dev",
		"recraft-v3":      "fal-ai/recraft-v3",
	},
	"openrouter": {
		"nano-banana-pro": "black-forest-labs/flux-1.1-pro",
		"flux-2-pro":      "black-forest-labs/flux-1.1-pro",
		"flux-dev":        "black-forest-labs/flux-dev",
		"recraft-v3":      "stabilityai/stable-diffusion-xl-base-1.0",
	},
	"openai": {
		"nano-banana-pro": "gpt-image-1",
		"flux-2-pro":      "dall-e-3",
		"flux-dev":        "dall-e-3",
		"recraft-v3":      "dall-e-3",
	},
	"replicate": {
		"nano-banana-pro": "black-forest-labs/flux-1.1-pro",
		"flux-2-pro":      "black-forest-labs/flux-1.1-pro",
		"flux-dev":        "black-forest-labs/flux-dev",
		"recraft-v3":      "stability-ai/sdxl:39ed52f2a78e934b3ba6e2a89f5b1c712de7dfea535525255b1aa35c5565e08b",
	},
}

var imageReferenceSupport = map[string]bool{
	"fal":        true,
	"openrouter": false,
	"openai":     true,
	"replicate":  true,
}

// costEstimates is the per-image USD cost per provider and logical model.
var costEstimates = map[string]map[string]float64{
	"fal": {
		"nano-banana-pro": 0.08,
		"flux-2-pro":      0.05,
		"flux-dev":        0.03,
		"recraft-v3":      0.04,
	},
	"openrouter": {
		"nano-banana-pro": 0.05,
		"flux-2-pro":      0.05,
		"flux-dev":        0.03,
		"recraft-v3":      0.04,
	},
	"openai": {
		"nano-banana-pro": 0.08,
		"flux-2-pro":      0.04,
		"flux-dev":        0.04,
		"recraft-v3":      0.04,
	},
	"replicate": {
		"nano-banana-pro": 0.05,
		"flux-2-pro":      0.05,
		"flux-dev":        0.03,
		"recraft-v3":      0.04,
	},
}

// defaultImageCost covers provider/model combinations outside the table.
const defaultImageCost = 0.05

func mappedModelID(provider, logicalModel string) string {
	models, ok := modelMapping[provider]
	if !ok {
		return logicalModel
	}

	if id, ok := models[logicalModel]; ok {
		return id
	}

	if id, ok := models["flux-2-pro"]; ok {
		return id
	}

	return logicalModel
}

// CostEstimate returns the per-image USD cost for a provider/model pair.
func CostEstimate(provider, logicalModel string) float64 {
	models, ok := costEstimates[provider]
	if !ok {
		return defaultImageCost
	}

	cost, ok := models[logicalModel]
	if !ok {
		return defaultImageCost
	}

	return cost
}

// ProviderImageCost returns the flat per-image cost used for batch
// accounting when the logical model is not known per task.
func ProviderImageCost(provider string) float64 {
	switch provider {
	case "fal":
		return 0.08
	case "openrouter":
		return 0.05
	case "openai":
		return 0.08
	case "replicate":
		return 0.06
	default:
		return 0.08
	}
}
