package mail

import (
	"context"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
)

// Retrying wraps a Mail and retries temporary failures with capped
// exponential backoff and jitter.
type Retrying struct {
	next       Mail
	maxRetries uint64
	base       time.Duration
	retryable  func(error) bool
}

// NewRetrying retries up to maxRetries extra times starting from base delay.
// retryable defaults to IsTemporary.
func NewRetrying(next Mail, maxRetries uint64, base time.Duration, retryable func(error) bool) *Retrying {
	if base <= 0 {
		base = 200 * time.Millisecond
	}
	if retryable == nil {
		retryable = IsTemporary
	}

	return &Retrying{next: next, maxRetries: maxRetries, base: base, retryable: retryable}
}

func (r *Retrying) Send(ctx context.Context, msg Message) error {
	b := retry.NewExponential(r.base)
	b = retry.WithCappedDuration(5*time.Second, b)
	b = retry.WithJitterPercent(10, b)
	b = retry.WithMaxRetries(r.maxRetries, b)

	attempt := 0
	return retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		err := r.next.Send(ctx, msg)
		if err == nil {
			return nil
		}
		if r.retryable(err) {
			slog.WarnContext(ctx, "mail send failed, retrying", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return err
	})
}

func (r *Retrying) Close() error {
	return r.next.Close()
}
