package pipeline

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/finsight-ai/finsight/internal/domain"
)

const summaryAttempts = 3

// SummarizeCharts asks the model for the standard overview charts of a
// freshly built index. Rate-limit errors are retried with exponential
// backoff; any other failure, or running out of attempts, degrades to an
// empty chart list rather than an error.
func (a *Answerer) SummarizeCharts(ctx context.Context, ret Retriever) []domain.Chart {
	delay := a.summaryBaseDelay
	for attempt := 1; attempt <= summaryAttempts; attempt++ {
		ans, err := a.Answer(ctx, ret, summaryPrompt)
		if err == nil {
			return ans.Charts
		}

		var pe *domain.ProviderError
		if !errors.As(err, &pe) || !pe.RateLimited {
			a.logger.Warn("skipping summary charts", zap.Error(err))
			return nil
		}
		if attempt == summaryAttempts {
			a.logger.Warn("skipping summary charts after repeated rate limits",
				zap.Int("attempts", summaryAttempts), zap.Error(err))
			return nil
		}

		a.logger.Info("rate limited while summarizing, backing off",
			zap.Int("attempt", attempt), zap.Duration("delay", delay))
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}
		delay *= 2
	}
	return nil
}
