package responder

import (
	"context"
	"errors"
	"time"

	"github.com/aescanero/dago-node-classifier/internal/tree"
	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

// Retry re-asks the next responder after a backend failure with exponential
// backoff. Nothing is retried once the caller's context is done.
type Retry struct {
	next       tree.Responder
	maxRetries uint
	interval   time.Duration
	logger     *zap.Logger
}

// NewRetry wraps next. maxRetries is the number of attempts after the first.
func NewRetry(next tree.Responder, maxRetries int, logger *zap.Logger) *Retry {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Retry{
		next:       next,
		maxRetries: uint(maxRetries),
		interval:   500 * time.Millisecond,
		logger:     logger,
	}
}

// WithInterval sets the initial backoff interval.
func (r *Retry) WithInterval(d time.Duration) *Retry {
	r.interval = d
	return r
}

// Respond implements tree.Responder.
func (r *Retry) Respond(ctx context.Context, prompt string, options []string) (string, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.interval
	b.MaxInterval = 10 * r.interval

	attempt := 0
	answer, err := backoff.Retry(ctx, func() (string, error) {
		attempt++
		answer, err := r.next.Respond(ctx, prompt, options)
		if err == nil {
			return answer, nil
		}
		if ctx.Err() != nil {
			return "", backoff.Permanent(err)
		}

		r.logger.Warn("responder failed",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		return "", err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(r.maxRetries+1))

	if err != nil {
		var backendErr *tree.BackendError
		if !errors.As(err, &backendErr) {
			err = &tree.BackendError{Responder: "retry", Err: err}
		}
		return "", err
	}

	return answer, nil
}
