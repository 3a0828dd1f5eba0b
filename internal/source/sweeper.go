package source

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeper periodically evicts expired cache entries so that rarely-queried
// keys do not linger past their TTL waiting for a lazy purge.
type Sweeper struct {
	cron   *cron.Cron
	logger *zap.Logger
}

// NewSweeper creates a stopped sweeper. Register caches, then Start.
func NewSweeper(logger *zap.Logger) *Sweeper {
	return &Sweeper{
		cron:   cron.New(),
		logger: logger,
	}
}

// Register schedules an hourly sweep for the given adapter cache.
func (s *Sweeper) Register(src string, cache Cache) error {
	_, err := s.cron.AddFunc("@hourly", func() {
		cache.Sweep(context.Background())
		s.logger.Debug("cache sweep completed", zap.String("source", src))
	})
	return err
}

// Start launches the sweep schedule in the background.
func (s *Sweeper) Start() {
	s.cron.Start()
}

// Stop halts the schedule; running sweeps complete before it returns.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}
