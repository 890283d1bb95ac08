package usecase

import (
	"context"
	"log/slog"
	"slices"

	"github.com/shandysiswandi/trimly/internal/pkg/authz"
	"github.com/shandysiswandi/trimly/internal/pkg/changefeed"
	"github.com/shandysiswandi/trimly/internal/pkg/goerror"
	"github.com/shandysiswandi/trimly/internal/pkg/session"
)

type StreamInput struct {
	Feed string
}

// Stream subscribes the caller to a feed. The returned channel is closed once
// ctx is done and the subscription has been released.
func (s *Usecase) Stream(ctx context.Context, in StreamInput) (<-chan changefeed.Event, error) {
	spanCtx, span := s.startSpan(ctx, "Stream")
	defer span.End()

	sess := session.FromContext(ctx)
	if sess == nil {
		return nil, ErrUnauthenticated
	}

	if !slices.Contains(s.feeds, in.Feed) {
		slog.WarnContext(spanCtx, "stream requested for unknown feed", "feed", in.Feed)
		return nil, ErrFeedNotFound
	}

	ok, err := s.authz.Can(sess.Role, in.Feed, authz.ActionSubscribe)
	if err != nil {
		slog.ErrorContext(spanCtx, "failed to check feed permission", "feed", in.Feed, "role", sess.Role, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !ok {
		slog.WarnContext(spanCtx, "feed subscription denied", "feed", in.Feed, "role", sess.Role)
		return nil, ErrFeedForbidden
	}

	ch := make(chan changefeed.Event, s.buffer)
	sub, err := s.feed.Subscribe(in.Feed, func(e changefeed.Event) {
		select {
		case ch <- e:
		default:
		}
	})
	if err != nil {
		slog.ErrorContext(spanCtx, "failed to subscribe to feed", "feed", in.Feed, "error", err)
		return nil, goerror.NewServer(err)
	}

	go func() {
		<-ctx.Done()
		// no callback runs after Unsubscribe returns
		sub.Unsubscribe()
		close(ch)
	}()

	return ch, nil
}
