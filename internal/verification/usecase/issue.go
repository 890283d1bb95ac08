package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/trimly/internal/pkg/goerror"
	"github.com/shandysiswandi/trimly/internal/shared/event"
	"github.com/shandysiswandi/trimly/internal/verification/entity"
)

type IssueInput struct {
	Email string `validate:"required,identity"`
}

type IssueOutput struct {
	Email string
}

func (s *Usecase) Issue(ctx context.Context, in IssueInput) (_ *IssueOutput, err error) {
	ctx, span := s.startSpan(ctx, "Issue")
	defer span.End()

	in.Email = normalizeEmail(in.Email)

	if err := s.validator.Validate(in); err != nil {
		slog.WarnContext(ctx, "invalid identity for issue", "error", err)
		return nil, ErrInvalidIdentity
	}

	release, err := s.throttle(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			release()
		}
	}()

	code, err := s.codes()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate verification code", "error", err)
		return nil, goerror.NewServer(err)
	}

	codeHash, err := s.codeHash.Hash(code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash verification code", "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()
	challenge := entity.Challenge{
		Email:     in.Email,
		CodeHash:  string(codeHash),
		ExpiresAt: now.Add(s.settings.CodeTTL),
		Attempts:  0,
	}

	if err := s.repoDB.UpsertChallenge(ctx, challenge); err != nil {
		slog.ErrorContext(ctx, "failed to repo upsert challenge", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoMail.SendCode(ctx, in.Email, code, challenge.ExpiresAt); err != nil {
		slog.ErrorContext(ctx, "failed to send verification email", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	s.count(ctx, s.issued)
	s.publish(ctx, ChallengeEvent{
		Type:      event.ChallengeIssued,
		Email:     in.Email,
		Remaining: s.settings.MaxAttempts,
		ExpiresAt: challenge.ExpiresAt,
	})

	return &IssueOutput{Email: in.Email}, nil
}

// throttle takes the per-identity cooldown slot and counts the hourly window.
// The returned release gives the cooldown slot back. Redis failures let the
// request through so sign-in keeps working when the cache is down.
func (s *Usecase) throttle(ctx context.Context, email string) (func(), error) {
	noop := func() {}
	if s.cooldown == nil && s.window == nil {
		return noop, nil
	}

	raw, err := s.keyHash.Hash(email)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash throttle key", "error", err)
		return nil, goerror.NewServer(err)
	}
	key := string(raw)
	token := s.uuid.Generate()

	release := noop
	if s.cooldown != nil {
		ok, err := s.cooldown.Acquire(ctx, key, token)
		switch {
		case err != nil:
			slog.WarnContext(ctx, "failed to acquire issue cooldown, allowing", "error", err)
		case !ok:
			slog.WarnContext(ctx, "issue rejected by cooldown", "email", email)
			s.rejected(ctx, "cooldown")
			left, err := s.cooldown.Remaining(ctx, key)
			if err != nil {
				slog.WarnContext(ctx, "failed to read issue cooldown", "error", err)
			}
			return nil, &ThrottledError{RetryAfter: left}
		default:
			release = func() {
				if err := s.cooldown.Release(context.WithoutCancel(ctx), key, token); err != nil {
					slog.WarnContext(ctx, "failed to release issue cooldown", "error", err)
				}
			}
		}
	}

	if s.window != nil {
		ok, n, err := s.window.Allow(ctx, key)
		switch {
		case err != nil:
			slog.WarnContext(ctx, "failed to count issue window, allowing", "error", err)
		case !ok:
			slog.WarnContext(ctx, "issue rejected by hourly limit", "email", email, "count", n)
			s.rejected(ctx, "hourly_limit")
			release()
			return nil, ErrIssueThrottled
		}
	}

	return release, nil
}
