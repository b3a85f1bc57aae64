package pipeline

import (
	"context"
	"time"
)

const retryBackoff = 500 * time.Millisecond

// callWithRetry retries a model call once after a short backoff. The retry
// never crosses a persistence point: it only wraps read-only model calls made
// before the outcome persister runs.
func callWithRetry[T any](ctx context.Context, call func(context.Context) (T, error)) (T, error) {
	out, err := call(ctx)
	if err == nil {
		return out, nil
	}
	if ctx.Err() != nil {
		return out, err
	}
	select {
	case <-ctx.Done():
		return out, err
	case <-time.After(retryBackoff):
	}
	return call(ctx)
}
