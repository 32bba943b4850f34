package media

import (
	"context"
	"log/slog"
	"sync/atomic"

	dErrors "dojoroll/pkg/domain-errors"
	"dojoroll/pkg/platform/circuit"
)

// BreakerCleaner wraps a Cleaner with a circuit breaker. When the media
// service misbehaves repeatedly the breaker opens and Remove fails fast,
// keeping deprovision latency flat while the service is down. Cleanup is
// best-effort anyway, so skipped calls only mean stale assets.
type BreakerCleaner struct {
	inner   Cleaner
	breaker *circuit.Breaker
	logger  *slog.Logger
	skipped atomic.Int64
}

// probeEvery is how many skipped calls pass between probes of an open
// circuit.
const probeEvery = 10

func NewBreakerCleaner(inner Cleaner, logger *slog.Logger) *BreakerCleaner {
	return &BreakerCleaner{
		inner:   inner,
		breaker: circuit.New("media", circuit.WithFailureThreshold(5), circuit.WithSuccessThreshold(2)),
		logger:  logger,
	}
}

func (c *BreakerCleaner) Remove(ctx context.Context, ref string) error {
	if c.breaker.IsOpen() {
		if c.skipped.Add(1)%probeEvery != 0 {
			return dErrors.Newf(dErrors.CodeUnavailable, "media service unavailable, cleanup of %q skipped", ref)
		}
		// Probe so the breaker can close again.
		if err := c.inner.Remove(ctx, ref); err != nil {
			c.breaker.RecordFailure()
			return err
		}
		if _, change := c.breaker.RecordSuccess(); change.Closed {
			c.logger.InfoContext(ctx, "media circuit closed")
		}
		return nil
	}

	if err := c.inner.Remove(ctx, ref); err != nil {
		if _, change := c.breaker.RecordFailure(); change.Opened {
			c.logger.WarnContext(ctx, "media circuit opened", "error", err)
		}
		return err
	}
	c.breaker.RecordSuccess()
	return nil
}
