package db

import (
	"context"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

// lockedRetryOptions returns retry options for transient lock errors raised
// while another process (typically the mount) holds the catalog.
func lockedRetryOptions(ctx context.Context) []retry.Option {
	return []retry.Option{
		retry.Attempts(3),
		retry.Delay(100 * time.Millisecond),
		retry.MaxDelay(300 * time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(isDatabaseLocked),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	}
}

func withLockRetry(ctx context.Context, fn func() error) error {
	return retry.Do(fn, lockedRetryOptions(ctx)...)
}

func isDatabaseLocked(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}
