package fanout

import (
	"context"
	"log/slog"
	"time"

	"github.com/avast/retry-go"
)

// Rotator changes the egress the fetchers go out through (VPN server,
// proxy, credentials) after an upstream block.
type Rotator interface {
	Rotate(ctx context.Context) error
}

// RetryPolicy decides how a failed retrieval is retried. Only
// *RetrievalError failures are retried; anything else is returned as-is.
type RetryPolicy struct {
	// Attempts is the total number of tries, including the first.
	// Zero means 2: the first call plus one retry after rotation.
	Attempts uint
	// Delay is the base backoff between tries. Zero keeps retry-go's default.
	Delay time.Duration
	// Rotator runs before every retry. Nil skips rotation.
	Rotator Rotator
}

func (p RetryPolicy) attempts() uint {
	if p.Attempts == 0 {
		return 2
	}
	return p.Attempts
}

// do runs op under the policy and reports how many retries it took.
func (p RetryPolicy) do(ctx context.Context, logger *slog.Logger, op func() error) (int, error) {
	var retries int
	var rotateErr error

	opts := []retry.Option{
		retry.Context(ctx),
		retry.Attempts(p.attempts()),
		retry.LastErrorOnly(true),
		retry.RetryIf(IsRetrieval),
		retry.OnRetry(func(n uint, err error) {
			// retry-go also reports the final failed attempt here.
			if n+1 >= p.attempts() {
				return
			}
			retries++
			logger.Warn("retrieval failed, retrying", "attempt", n+1, "error", err)
			if p.Rotator == nil {
				return
			}
			if err := p.Rotator.Rotate(ctx); err != nil {
				rotateErr = err
			}
		}),
	}
	if p.Delay > 0 {
		opts = append(opts, retry.Delay(p.Delay))
	}

	err := retry.Do(func() error {
		if rotateErr != nil {
			// Not a RetrievalError, so retry-go stops here.
			return &rotationError{err: rotateErr}
		}
		return op()
	}, opts...)
	return retries, err
}

type rotationError struct {
	err error
}

func (e *rotationError) Error() string {
	return "rotating egress: " + e.err.Error()
}

func (e *rotationError) Unwrap() error {
	return e.err
}
