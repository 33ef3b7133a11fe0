package listing

import (
	"context"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/job-scout/internal/logger"
	"github.com/spigell/job-scout/internal/utils"
)

const (
	DefaultMinDelay = 5 * time.Second
	DefaultMaxDelay = 10 * time.Second
)

type CollectorConfig struct {
	MinDelay time.Duration
	MaxDelay time.Duration
}

// Collector runs search queries against every configured source, pausing a
// random delay before each query.
type Collector struct {
	sources  []Source
	minDelay time.Duration
	maxDelay time.Duration
	logger   *zap.Logger

	wait  func(context.Context, time.Duration) error
	randN func(time.Duration) time.Duration
}

func NewCollector(cfg CollectorConfig, l *zap.Logger, sources ...Source) *Collector {
	minDelay, maxDelay := cfg.MinDelay, cfg.MaxDelay
	if minDelay < 0 {
		minDelay = 0
	}
	if maxDelay < minDelay {
		maxDelay = minDelay
	}

	return &Collector{
		sources:  sources,
		minDelay: minDelay,
		maxDelay: maxDelay,
		logger:   logger.OrNop(l),
		wait:     utils.WaitFor,
		randN:    rand.N[time.Duration],
	}
}

// Collect searches every source with every query and returns the deduplicated
// union of the results. Failed searches are logged and skipped; an error is
// returned only when ctx is cancelled.
func (c *Collector) Collect(ctx context.Context, queries []string) (*Listings, error) {
	result := New()

	for _, query := range queries {
		if err := c.wait(ctx, c.delay()); err != nil {
			return result, err
		}

		for _, source := range c.sources {
			log := c.logger.With(logger.SearchFields(source.Name(), query)...)
			log.Info("searching")

			records, err := source.Search(ctx, query)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return result, ctxErr
				}
				log.Warn("search failed", zap.Error(err))
				continue
			}

			log.Info("search finished", zap.Int("found", len(records)))
			result.Append(records...)
		}
	}

	if dropped := result.Dedupe(); len(dropped) > 0 {
		c.logger.Debug("duplicates removed", zap.Int("count", len(dropped)))
	}

	return result, nil
}

func (c *Collector) delay() time.Duration {
	spread := c.maxDelay - c.minDelay
	if spread <= 0 {
		return c.minDelay
	}
	return c.minDelay + c.randN(spread+1)
}
