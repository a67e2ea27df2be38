package scrape

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Paginator drives the load-more/check-count/check-stall convergence loop
// against a paginated listing source. It is the system's only
// termination-detection algorithm: the stall branch guarantees the loop
// cannot spin forever, and the count>0 guard keeps an empty first read from
// being mistaken for exhaustion.
type Paginator struct {
	Gate        *Gate
	InitialWait time.Duration
	Settle      time.Duration
	Logger      *zap.Logger
}

// Collect keeps loading more items until count reaches target or the source
// stalls, then returns at most target handles. If the source never shows a
// first item within InitialWait, Collect returns an empty slice and no
// error; the caller treats that as "no list, try the single-result page".
func (p *Paginator) Collect(ctx context.Context, src ListingSource, target int) ([]ListingHandle, error) {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if target <= 0 {
		target = 1
	}

	start := time.Now()
	previous := -1
	for {
		if p.Gate != nil {
			if err := p.Gate.AwaitOpen(ctx); err != nil {
				return nil, err
			}
		}

		count, err := src.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("count listings: %w", err)
		}

		switch {
		case count >= target:
			logger.Debug("pagination reached target", zap.Int("count", count), zap.Int("target", target))
			return src.Handles(ctx, target)
		case count == previous && count > 0:
			// Unchanged non-empty count means the source is exhausted.
			logger.Debug("pagination stalled", zap.Int("count", count))
			return src.Handles(ctx, target)
		case count == 0 && time.Since(start) >= p.InitialWait:
			logger.Debug("no listings appeared within initial wait")
			return nil, nil
		}

		previous = count
		if err := src.LoadMore(ctx); err != nil {
			return nil, fmt.Errorf("load more listings: %w", err)
		}
		if p.Settle > 0 {
			select {
			case <-time.After(p.Settle):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
}
