package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/trimly/internal/pkg/goerror"
	"github.com/shandysiswandi/trimly/internal/pkg/session"
	"github.com/shandysiswandi/trimly/internal/shared/event"
	"github.com/shandysiswandi/trimly/internal/verification/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type VerifyInput struct {
	Email string
	Code  string
}

type VerifyOutput struct {
	Verified     bool
	Session      *session.Session
	SessionToken string
}

// Verify checks a code against the active challenge. The checks run in a
// fixed order: missing fields, no challenge, locked, expired, then the code.
func (s *Usecase) Verify(ctx context.Context, in VerifyInput) (*VerifyOutput, error) {
	ctx, span := s.startSpan(ctx, "Verify")
	defer span.End()

	in.Email = normalizeEmail(in.Email)
	in.Code = strings.TrimSpace(in.Code)

	if in.Email == "" || in.Code == "" {
		return nil, ErrMissingFields
	}

	ch, err := s.repoDB.GetChallenge(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "no active challenge", "email", in.Email)
		s.rejected(ctx, "not_found")
		return nil, ErrNoActiveChallenge
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get challenge", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if ch.IsLocked(s.settings.MaxAttempts) {
		slog.WarnContext(ctx, "challenge is locked", "email", in.Email, "attempts", ch.Attempts)
		s.rejected(ctx, "locked")
		return nil, ErrAttemptsExceeded
	}

	if ch.IsExpired(s.clock.Now()) {
		slog.WarnContext(ctx, "challenge is expired", "email", in.Email, "expires_at", ch.ExpiresAt)
		s.rejected(ctx, "expired")
		return nil, ErrChallengeExpired
	}

	if !s.codeHash.Verify(ch.CodeHash, in.Code) {
		return nil, s.wrongCode(ctx, ch)
	}

	// The session is minted before the row goes so a signing failure leaves
	// the code usable for a retry.
	out := &VerifyOutput{Verified: true}
	if s.sessions != nil {
		sess, token, err := s.sessions.Issue(in.Email)
		if err != nil {
			slog.ErrorContext(ctx, "failed to issue session", "email", in.Email, "error", err)
			return nil, goerror.NewServer(err)
		}
		out.Session = sess
		out.SessionToken = token
	}

	// Only the caller whose delete removed the row wins; a concurrent winner
	// leaves ErrNotFound here.
	err = s.repoDB.DeleteChallenge(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "challenge consumed concurrently", "email", in.Email)
		s.rejected(ctx, "not_found")
		return nil, ErrNoActiveChallenge
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo delete challenge", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	s.count(ctx, s.verified)
	s.publish(ctx, ChallengeEvent{
		Type:     event.ChallengeVerified,
		Email:    in.Email,
		Attempts: ch.Attempts,
	})

	return out, nil
}

func (s *Usecase) wrongCode(ctx context.Context, ch *entity.Challenge) error {
	n, err := s.repoDB.IncrementAttempts(ctx, ch.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "challenge vanished before increment", "email", ch.Email)
		s.rejected(ctx, "not_found")
		return ErrNoActiveChallenge
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo increment attempts", "email", ch.Email, "error", err)
		return goerror.NewServer(err)
	}

	remaining := entity.Remaining(s.settings.MaxAttempts, n)
	slog.WarnContext(ctx, "incorrect verification code", "email", ch.Email, "attempts", n, "remaining", remaining)

	typ := event.ChallengeFailed
	if remaining == 0 {
		typ = event.ChallengeLocked
	}

	s.rejected(ctx, "incorrect")
	s.publish(ctx, ChallengeEvent{
		Type:      typ,
		Email:     ch.Email,
		Attempts:  n,
		Remaining: remaining,
		ExpiresAt: ch.ExpiresAt,
	})

	return &IncorrectCodeError{Remaining: remaining}
}

func (s *Usecase) rejected(ctx context.Context, reason string) {
	s.count(ctx, s.failed, metric.WithAttributes(attribute.String("reason", reason)))
}
