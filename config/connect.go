package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

const maxConnectDelay = 10 * time.Second

var ErrConnectFailed = errors.New("could not connect")

// ConnectWithRetry calls connect until it succeeds, at most attempts times.
// The delay starts at baseDelay and doubles after every failure, capped at 10 seconds.
func ConnectWithRetry(
	ctx context.Context,
	logger *slog.Logger,
	attempts int,
	baseDelay time.Duration,
	connect func(ctx context.Context) error,
) error {

	var lastErr error

	delay := baseDelay

	for attempt := 1; attempt <= attempts; attempt++ {
		if lastErr = connect(ctx); lastErr == nil {
			return nil
		}

		if attempt == attempts {
			break
		}

		logger.WarnContext(ctx, "connection attempt failed",
			"attempt", attempt,
			"max_attempts", attempts,
			"retry_in", delay.String(),
			"error", lastErr.Error(),
		)

		select {
		case <-ctx.Done():
			return errors.Join(ErrConnectFailed, ctx.Err(), lastErr)
		case <-time.After(delay):
		}

		delay = min(delay*2, maxConnectDelay)
	}

	return errors.Join(ErrConnectFailed, fmt.Errorf("giving up after %d attempts: %w", attempts, lastErr))
}
