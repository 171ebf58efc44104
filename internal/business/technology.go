package business

import (
	"fmt"
	"strings"
)

func init() {
	register("technology", func() Profile { return &technologyProfile{} })
}

// technologyProfile answers subscription and integration questions for
// the voice-assistant platform.
type technologyProfile struct{}

var subscriptionTiers = map[string]struct {
	Name     string
	Price    string
	Summary  string
	IdealFor string
}{
	"starter": {
		Name:     "Starter Plan",
		Price:    "$299/month",
		Summary:  "a single voice assistant, standard templates and up to 1,000 minutes per month",
		IdealFor: "small businesses and startups",
	},
	"professional": {
		Name:     "Professional Plan",
		Price:    "$999/month",
		Summary:  "up to 5 assistants, industry templates, priority support and 5,000 minutes per month",
		IdealFor: "growing businesses with multiple locations",
	},
	"enterprise": {
		Name:     "Enterprise Plan",
		Price:    "starting at $2,999/month",
		Summary:  "unlimited assistants, full customization, a dedicated account manager and 24/7 support",
		IdealFor: "large organizations with complex needs",
	},
	"custom": {
		Name:     "Custom Solutions",
		Price:    "custom pricing",
		Summary:  "tailored development, white-label options and on-premises deployment",
		IdealFor: "organizations with unique compliance or process requirements",
	},
}

var integrationOptions = map[string]string{
	"web":    "embedded chat widgets and full-page assistants for HTTPS websites, typically live in 1-3 days",
	"phone":  "SIP and PSTN connections for IVR replacement, typically live in 3-7 days",
	"mobile": "iOS and Android SDKs plus React Native and Flutter components, typically 5-10 days",
	"api":    "REST, WebSocket and streaming APIs for custom implementations",
	"crm":    "Salesforce, HubSpot, Dynamics and Zoho integrations with record lookup and activity logging",
}

// tierAliases maps spoken variants to canonical tier keys.
var tierAliases = map[string]string{
	"starter": "starter", "basic": "starter",
	"professional": "professional", "pro": "professional",
	"enterprise": "enterprise", "business plan": "enterprise",
	"custom": "custom", "tailored": "custom",
}

func (p *technologyProfile) Domain() string { return "technology" }

func (p *technologyProfile) Answer(utterance string) (string, bool) {
	lower := strings.ToLower(utterance)

	if strings.Contains(lower, "plan") || strings.Contains(lower, "subscription") ||
		strings.Contains(lower, "tier") || strings.Contains(lower, "price") {
		for alias, key := range tierAliases {
			if strings.Contains(lower, alias) {
				t := subscriptionTiers[key]
				return fmt.Sprintf("The %s is %s and includes %s. Ideal for %s.",
					t.Name, t.Price, t.Summary, t.IdealFor), true
			}
		}
		return "We offer Starter, Professional, Enterprise and Custom Solutions plans. " +
			"Which one would you like to hear about?", true
	}

	if strings.Contains(lower, "integrat") || strings.Contains(lower, "connect") {
		for key, desc := range integrationOptions {
			if strings.Contains(lower, key) {
				return fmt.Sprintf("For %s integration we support %s.", key, desc), true
			}
		}
	}

	return "", false
}
