package source

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jobscout/jobscout/internal/jobs"
	"github.com/jobscout/jobscout/internal/utils"
)

// RetryExecutor wraps a single live provider call with a bounded retry
// policy. Transient failures are repeated with a delay growing linearly per
// attempt; fatal and rate-limit failures propagate immediately.
type RetryExecutor struct {
	attempts  int
	baseDelay time.Duration
	logger    *zap.Logger
}

// NewRetryExecutor creates an executor making up to attempts calls with
// attempt x baseDelay between them.
func NewRetryExecutor(attempts int, baseDelay time.Duration, logger *zap.Logger) *RetryExecutor {
	if attempts < 1 {
		attempts = 1
	}
	return &RetryExecutor{
		attempts:  attempts,
		baseDelay: baseDelay,
		logger:    logger,
	}
}

// Execute runs call until it succeeds, fails fatally, or the budget runs
// out. Budget exhaustion wraps the last error with the attempt count.
func (r *RetryExecutor) Execute(ctx context.Context, src string, call func(context.Context) ([]jobs.Job, error)) ([]jobs.Job, error) {
	var lastErr error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		results, err := call(ctx)
		if err == nil {
			return results, nil
		}
		lastErr = err

		if !IsTransient(err) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, lastErr
		}

		if attempt < r.attempts {
			delay := time.Duration(attempt) * r.baseDelay
			r.logger.Warn("retrying provider call",
				zap.String("source", src),
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", r.attempts),
				zap.Duration("delay", delay),
				zap.Error(err),
			)
			if err := utils.WaitFor(ctx, delay); err != nil {
				return nil, lastErr
			}
		}
	}

	return nil, Transient(src, fmt.Sprintf("giving up after %d attempts", r.attempts), lastErr)
}
