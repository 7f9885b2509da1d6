// Package jobs defines the job listing search collaborator.
package jobs

import (
	"context"
	"errors"
)

// DefaultLocation is used when a search names no location.
const DefaultLocation = "India"

// ErrNotConfigured is returned when no job searcher is available.
var ErrNotConfigured = errors.New("job search not configured")

type Listing struct {
	Title   string `json:"title"`
	Company string `json:"company"`
	Link    string `json:"link"`
}

// Searcher finds open positions for a role.
type Searcher interface {
	Search(ctx context.Context, role, location string) ([]Listing, error)
}

// Func adapts a function to Searcher.
type Func func(ctx context.Context, role, location string) ([]Listing, error)

func (f Func) Search(ctx context.Context, role, location string) ([]Listing, error) {
	return f(ctx, role, location)
}
