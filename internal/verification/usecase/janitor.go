package usecase

import (
	"context"
	"log/slog"
	"time"
)

// PurgeExpired removes challenges that expired more than one code TTL ago.
// The grace period keeps "expired" answers meaningful for a while.
func (s *Usecase) PurgeExpired(ctx context.Context) (int64, error) {
	ctx, span := s.startSpan(ctx, "PurgeExpired")
	defer span.End()

	before := s.clock.Now().Add(-s.settings.CodeTTL)

	n, err := s.repoDB.PurgeExpired(ctx, before)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo purge expired challenges", "before", before, "error", err)
		return 0, err
	}
	if n > 0 {
		slog.InfoContext(ctx, "purged expired challenges", "count", n)
	}

	return n, nil
}

// RunJanitor purges on every tick until ctx is done.
func (s *Usecase) RunJanitor(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			_, _ = s.PurgeExpired(ctx)
		}
	}
}
