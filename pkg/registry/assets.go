package registry

// defaultAssets is the built-in asset registry, used when no override
// file is supplied. Tags gate assets by brand domain; "*" is universal.
func defaultAssets() map[string]Asset {
	assets := map[string]Asset{
		"2A": {Name: "Style Anchor", Tags: []string{"*"}},
		"2B": {Name: "Brand Seal", Tags: []string{"*"}},
		"2C": {Name: "Wordmark Logo", Tags: []string{"*"}},
		"3A": {Name: "Product Hero Shot", Tags: []string{"*"}},
		"3B": {Name: "Product Detail Shots", Tags: []string{"*"}},
		"3C": {Name: "Product In Context", Tags: []string{"*"}},
		"4A": {Name: "Lifestyle Photography", Tags: []string{"dtc", "crowdfunding", "organic"}},
		"4B": {Name: "Founder Portrait", Tags: []string{"crowdfunding", "press"}},
		"5A": {Name: "Feature Illustrations", Tags: []string{"*"}},
		"5B": {Name: "Process Diagram Art", Tags: []string{"dtc", "saas"}},
		"5C": {Name: "Icon Set", Tags: []string{"*"}},
		"7A": {Name: "Brand Narrative Visual", Tags: []string{"dtc", "crowdfunding"}},
		"8A": {Name: "Campaign Poster", Tags: []string{"crowdfunding", "events"}},

		"APP-ICON":       {Name: "App Icon", Tags: []string{"app", "saas"}},
		"APP-SCREENSHOT": {Name: "App Screenshot Frames", Tags: []string{"app", "saas"}},
		"OG-IMAGE":       {Name: "Open Graph Image", Tags: []string{"*"}},
		"IG-STORY":       {Name: "Instagram Story Template", Tags: []string{"dtc", "organic", "social"}},
		"PITCH-HERO":     {Name: "Pitch Deck Hero", Tags: []string{"crowdfunding", "enterprise"}},
		"TWITTER-HEADER": {Name: "Twitter Header", Tags: []string{"dtc", "organic", "social"}},
		"EMAIL-HERO":     {Name: "Email Hero Banner", Tags: []string{"dtc", "crowdfunding"}},
	}

	for id, asset := range assets {
		asset.ID = id
		assets[id] = asset
	}

	return assets
}
