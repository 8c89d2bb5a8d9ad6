package temporalx

import (
	"context"
	"fmt"
	"time"

	temporalsdkclient "go.temporal.io/sdk/client"

	"github.com/mevlabs/engagement-backend/internal/config"
	"github.com/mevlabs/engagement-backend/internal/pkg/logger"
)

// NewClient dials the Temporal frontend with a bounded retry loop so the
// process survives the usual compose race where Temporal comes up after us.
func NewClient(cfg config.TemporalConfig, log *logger.Logger) (temporalsdkclient.Client, error) {
	if cfg.Address == "" {
		if log != nil {
			log.Warn("TEMPORAL_ADDRESS not set; Temporal disabled")
		}
		return nil, nil
	}

	opts := temporalsdkclient.Options{
		HostPort:  cfg.Address,
		Namespace: cfg.Namespace,
		Logger:    log,
	}

	const (
		dialTimeout = 5 * time.Second
		maxWait     = 60 * time.Second
		backoff     = 250 * time.Millisecond
		backoffMax  = 5 * time.Second
	)

	deadline := time.Now().Add(maxWait)
	for attempt := 1; ; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
		c, err := temporalsdkclient.DialContext(ctx, opts)
		cancel()
		if err == nil {
			if log != nil && attempt > 1 {
				log.Info("Connected to Temporal", "address", cfg.Address, "namespace", cfg.Namespace, "attempts", attempt)
			}
			return c, nil
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("temporal dial failed (address=%s namespace=%s): %w", cfg.Address, cfg.Namespace, err)
		}
		if log != nil {
			log.Warn("Temporal not reachable; retrying", "address", cfg.Address, "attempt", attempt, "error", err)
		}
		time.Sleep(clampBackoff(backoff, backoffMax, attempt))
	}
}

func clampBackoff(base, max time.Duration, attempt int) time.Duration {
	sleep := base
	for i := 1; i < attempt; i++ {
		sleep *= 2
		if sleep >= max {
			return max
		}
	}
	return sleep
}
