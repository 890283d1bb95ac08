package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/trimly/internal/pkg/authz"
	"github.com/shandysiswandi/trimly/internal/pkg/goerror"
	"github.com/shandysiswandi/trimly/internal/pkg/session"
)

// ListFeeds returns the configured feeds the caller may subscribe to.
func (s *Usecase) ListFeeds(ctx context.Context) ([]string, error) {
	ctx, span := s.startSpan(ctx, "ListFeeds")
	defer span.End()

	sess := session.FromContext(ctx)
	if sess == nil {
		return nil, ErrUnauthenticated
	}

	feeds, err := s.authz.Allowed(sess.Role, authz.ActionSubscribe, s.feeds)
	if err != nil {
		slog.ErrorContext(ctx, "failed to check feed permissions", "role", sess.Role, "error", err)
		return nil, goerror.NewServer(err)
	}

	return feeds, nil
}
