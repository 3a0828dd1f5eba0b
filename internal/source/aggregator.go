package source

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jobscout/jobscout/internal/jobs"
)

// Result is the merged outcome of a fan-out search: the union of successful
// sources' jobs plus per-source errors kept for diagnostics.
type Result struct {
	Jobs   []jobs.Job
	Errors []SourceFailure
}

// Aggregator dispatches one concurrent search per enabled adapter and waits
// for every one of them. A slow or failing source never blocks or aborts the
// others.
type Aggregator struct {
	adapters []Adapter
	logger   *zap.Logger
}

// NewAggregator creates an aggregator over the given adapters. Adapter order
// is merge order.
func NewAggregator(adapters []Adapter, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		adapters: adapters,
		logger:   logger,
	}
}

type dispatch struct {
	jobs     []jobs.Job
	err      error
	duration time.Duration
}

// SearchAll fans the query out to every adapter enabled by the query and
// merges the results. If at least one source succeeds, partial success is the
// success path and per-source errors ride along in the Result. Only when
// every enabled source fails does the call itself fail, with AllFailedError
// naming each source and its reason.
func (a *Aggregator) SearchAll(ctx context.Context, query jobs.SearchQuery) (*Result, error) {
	enabled := make([]Adapter, 0, len(a.adapters))
	for _, adapter := range a.adapters {
		if query.SourceEnabled(adapter.Name()) {
			enabled = append(enabled, adapter)
		}
	}

	if len(enabled) == 0 {
		a.logger.Warn("no enabled sources match the query", zap.Strings("requested", query.Sources))
		return &Result{}, nil
	}

	dispatches := make([]dispatch, len(enabled))
	var wg sync.WaitGroup

	for i, adapter := range enabled {
		wg.Add(1)
		go func(i int, adapter Adapter) {
			defer wg.Done()
			// One panicking adapter must not take its siblings down.
			defer func() {
				if rec := recover(); rec != nil {
					dispatches[i].err = Fatal(adapter.Name(), fmt.Sprintf("adapter panicked: %v", rec), nil)
				}
			}()

			start := time.Now()
			found, err := adapter.Search(ctx, query)
			dispatches[i] = dispatch{jobs: found, err: err, duration: time.Since(start)}
		}(i, adapter)
	}

	wg.Wait()

	result := &Result{}
	for i, adapter := range enabled {
		d := dispatches[i]
		if d.err != nil {
			a.logger.Warn("source failed",
				zap.String("source", adapter.Name()),
				zap.Duration("duration", d.duration),
				zap.Error(d.err),
			)
			result.Errors = append(result.Errors, SourceFailure{Source: adapter.Name(), Err: d.err})
			continue
		}

		a.logger.Info("source succeeded",
			zap.String("source", adapter.Name()),
			zap.Int("jobs", len(d.jobs)),
			zap.Duration("duration", d.duration),
		)
		result.Jobs = append(result.Jobs, d.jobs...)
	}

	if len(result.Errors) == len(enabled) {
		return nil, &AllFailedError{Failures: result.Errors}
	}

	return result, nil
}
