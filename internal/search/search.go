package search

import (
	"context"
)

// Result is a single search hit. Excerpt holds the provider's snippet text,
// which may still contain inline markup.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Excerpt string `json:"excerpt"`
	Source  string `json:"source,omitempty"` // provider name for observability
}

// Provider is a minimal interface for search providers.
type Provider interface {
	Search(ctx context.Context, query string, limit int) ([]Result, error)
	Name() string
}
