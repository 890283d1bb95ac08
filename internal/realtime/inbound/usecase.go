package inbound

import (
	"context"

	"github.com/shandysiswandi/trimly/internal/pkg/changefeed"
	"github.com/shandysiswandi/trimly/internal/realtime/usecase"
)

type ucConsumer interface {
	ConsumeChallengeChanged(ctx context.Context, in usecase.ConsumeChallengeChangedInput) error
}

type ucStream interface {
	Stream(ctx context.Context, in usecase.StreamInput) (<-chan changefeed.Event, error)
	ListFeeds(ctx context.Context) ([]string, error)
}

type uc interface {
	ucConsumer
	ucStream
}
