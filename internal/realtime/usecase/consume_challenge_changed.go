package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/shandysiswandi/trimly/internal/pkg/changefeed"
	"github.com/shandysiswandi/trimly/internal/pkg/goerror"
	"github.com/shandysiswandi/trimly/internal/shared/event"
)

type ConsumeChallengeChangedInput struct {
	ID         int64
	Type       string
	Email      string
	Attempts   int
	Remaining  int
	ExpiresAt  time.Time
	OccurredAt time.Time
}

type challengeData struct {
	Email     string    `json:"email"`
	Attempts  int       `json:"attempts"`
	Remaining int       `json:"remaining"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

// ConsumeChallengeChanged republishes a verification event on the challenge feed.
func (s *Usecase) ConsumeChallengeChanged(ctx context.Context, in ConsumeChallengeChangedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeChallengeChanged")
	defer span.End()

	data, err := json.Marshal(challengeData{
		Email:     in.Email,
		Attempts:  in.Attempts,
		Remaining: in.Remaining,
		ExpiresAt: in.ExpiresAt,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to marshal challenge data", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	occurredAt := in.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = s.now()
	}

	if err := s.feed.Publish(ctx, changefeed.Event{
		ID:         in.ID,
		Feed:       event.ChallengeFeed,
		Type:       in.Type,
		Key:        in.Email,
		Data:       data,
		OccurredAt: occurredAt,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish challenge event to feed", "email", in.Email, "type", in.Type, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
