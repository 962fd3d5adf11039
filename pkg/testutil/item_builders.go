package testutil

import "github.com/quercle/operion-quercle/pkg/models"

// CreateTestItems creates one item per JSON object, in order.
func CreateTestItems(objects ...map[string]any) []models.Item {
	items := make([]models.Item, 0, len(objects))
	for _, obj := range objects {
		items = append(items, models.Item{JSON: obj})
	}

	return items
}

// QueryItems creates items carrying a "topic" field, for configs that use "{{.item.topic}}".
func QueryItems(topics ...string) []models.Item {
	items := make([]models.Item, 0, len(topics))
	for _, topic := range topics {
		items = append(items, models.Item{JSON: map[string]any{"topic": topic}})
	}

	return items
}

// CreateTestConfig creates a search node configuration that can be overridden.
func CreateTestConfig(overrides ...func(map[string]any)) map[string]any {
	config := map[string]any{
		"operation": "search",
		"query":     "{{.item.topic}}",
	}

	for _, override := range overrides {
		override(config)
	}

	return config
}

// WithFetch switches the configuration to the fetch operation.
func WithFetch(url, prompt string) func(map[string]any) {
	return func(c map[string]any) {
		c["operation"] = "fetch"
		c["url"] = url
		c["prompt"] = prompt
		delete(c, "query")
	}
}

// WithDomainFilter sets the domain filter and the raw domain list.
func WithDomainFilter(filter, domains string) func(map[string]any) {
	return func(c map[string]any) {
		c["domainFilter"] = filter
		c["domains"] = domains
	}
}

// WithContinueOnFail enables continue-on-failure mode.
func WithContinueOnFail() func(map[string]any) {
	return func(c map[string]any) {
		c["continueOnFail"] = true
	}
}
