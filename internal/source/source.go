// Package source defines the uniform contract every listing provider
// adapter implements, plus shared request/response plumbing.
package source

import (
	"context"

	"jobscout-engine/internal/domain"
)

// Query is the provider-agnostic search request handed to adapters.
// Term is the normalized search term; an empty Term means "return your
// general catalog, unfiltered" (the aggregator's fallback broadening).
type Query struct {
	Term     string
	Skills   []string
	Location string
	Region   string // detected geo bucket, "" when none matched
}

// Source fetches listings from exactly one external provider. Fetch errors
// are absorbed (and logged) by the aggregator; a failing source never fails
// a request.
type Source interface {
	Name() string
	Fetch(ctx context.Context, q Query) ([]domain.Listing, error)
}
