// Package source holds the adapter contract and the shared machinery every
// adapter runs behind: response cache, sliding-window rate limiter, retry
// executor and the fan-out aggregator.
package source

import (
	"context"

	"github.com/jobscout/jobscout/internal/jobs"
)

// Adapter translates one external provider's raw payloads into canonical
// jobs. Each adapter owns its cache, its limiter and its provider quirks.
type Adapter interface {
	Name() string
	Search(ctx context.Context, query jobs.SearchQuery) ([]jobs.Job, error)
}
