// Package scenario holds the launch scenario catalog. A scenario
// narrows each wave's text skills to its allow-list; the recommendation
// scoring that picks one lives outside this module.
package scenario

import (
	"fmt"
	"sort"
)

// Scenario is a named launch strategy with the skills it allows.
type Scenario struct {
	ID          string
	Name        string
	Description string
	SkillIDs    []string
}

// AllowsSkill reports whether a skill ID is in this scenario's
// allow-list. An empty list (custom scenarios) allows everything.
func (s *Scenario) AllowsSkill(id string) bool {
	if len(s.SkillIDs) == 0 {
		return true
	}

	for _, allowed := range s.SkillIDs {
		if allowed == id {
			return true
		}
	}

	return false
}

var catalog = map[string]*Scenario{
	"brand-genesis": {
		ID:          "brand-genesis",
		Name:        "Brand Genesis",
		Description: "Full-stack brand creation from scratch",
		SkillIDs: []string{
			"niche-validator",
			"buyer-persona",
			"competitor-analysis",
			"detailed-product-description",
			"product-positioning-summary",
			"mds-messaging-direction-summary",
			"voice-and-tone",
			"visual-identity-core",
			"campaign-page-copy",
			"welcome-email-sequence",
			"pre-launch-email-sequence",
			"launch-email-sequence",
			"pre-launch-ads",
			"press-release-copy",
		},
	},
	"crowdfunding-lean": {
		ID:          "crowdfunding-lean",
		Name:        "Crowdfunding Lean",
		Description: "Budget-optimized Kickstarter/Indiegogo campaign",
		SkillIDs: []string{
			"buyer-persona",
			"competitor-analysis",
			"detailed-product-description",
			"product-positioning-summary",
			"mds-messaging-direction-summary",
			"voice-and-tone",
			"campaign-page-copy",
			"pre-launch-ads",
			"campaign-video-script",
			"pre-launch-email-sequence",
			"live-campaign-ads",
			"press-release-copy",
		},
	},
	"crowdfunding-full": {
		ID:          "crowdfunding-full",
		Name:        "Crowdfunding Full",
		Description: "Complete crowdfunding campaign with all assets",
		SkillIDs: []string{
			"niche-validator",
			"buyer-persona",
			"competitor-analysis",
			"detailed-product-description",
			"product-positioning-summary",
			"mds-messaging-direction-summary",
			"voice-and-tone",
			"visual-identity-core",
			"campaign-page-copy",
			"campaign-video-script",
			"pre-launch-ads",
			"welcome-email-sequence",
			"pre-launch-email-sequence",
			"launch-email-sequence",
			"live-campaign-ads",
			"press-release-copy",
			"social-content-engine",
			"short-form-hook-generator",
			"influencer-outreach-pro",
		},
	},
	"bootstrapped-dtc": {
		ID:          "bootstrapped-dtc",
		Name:        "Bootstrapped DTC",
		Description: "Self-funded direct-to-consumer launch",
		SkillIDs: []string{
			"buyer-persona",
			"competitor-analysis",
			"product-positioning-summary",
			"mds-messaging-direction-summary",
			"voice-and-tone",
			"campaign-page-copy",
			"social-content-engine",
			"short-form-hook-generator",
			"welcome-email-sequence",
		},
	},
	"enterprise-gtm": {
		ID:          "enterprise-gtm",
		Name:        "Enterprise GTM",
		Description: "B2B SaaS go-to-market with enterprise positioning",
		SkillIDs: []string{
			"buyer-persona",
			"competitor-analysis",
			"product-positioning-summary",
			"mds-messaging-direction-summary",
			"voice-and-tone",
			"campaign-page-copy",
			"press-release-copy",
			"welcome-email-sequence",
			"launch-email-sequence",
			"social-content-engine",
			"influencer-outreach-pro",
		},
	},
	"custom-hybrid": {
		ID:          "custom-hybrid",
		Name:        "Custom Hybrid",
		Description: "User-selected skill mix",
		SkillIDs:    nil,
	},
}

// Get returns a scenario by ID. Unknown IDs are a configuration error.
func Get(id string) (*Scenario, error) {
	s, ok := catalog[id]
	if !ok {
		return nil, fmt.Errorf("unknown scenario %q, valid options: %v", id, IDs())
	}

	return s, nil
}

// IDs returns the catalog's scenario IDs.
func IDs() []string {
	ids := make([]string, 0, len(catalog))
	for id := range catalog {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}
