package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/trimly/internal/pkg/clock"
	"github.com/shandysiswandi/trimly/internal/pkg/goroutine"
	"github.com/shandysiswandi/trimly/internal/pkg/hash"
	"github.com/shandysiswandi/trimly/internal/pkg/instrument"
	"github.com/shandysiswandi/trimly/internal/pkg/session"
	"github.com/shandysiswandi/trimly/internal/pkg/uid"
	"github.com/shandysiswandi/trimly/internal/pkg/validator"
	"github.com/shandysiswandi/trimly/internal/verification/entity"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type ChallengeEvent struct {
	ID         int64
	Type       string
	Email      string
	Attempts   int
	Remaining  int
	ExpiresAt  time.Time
	OccurredAt time.Time
}

type repoDB interface {
	UpsertChallenge(ctx context.Context, c entity.Challenge) error
	GetChallenge(ctx context.Context, email string) (*entity.Challenge, error)
	IncrementAttempts(ctx context.Context, email string) (int, error)
	DeleteChallenge(ctx context.Context, email string) error
	PurgeExpired(ctx context.Context, before time.Time) (int64, error)
}

type repoMessaging interface {
	PublishChallengeChanged(ctx context.Context, msg ChallengeEvent) error
}

type repoMail interface {
	SendCode(ctx context.Context, email, code string, expiresAt time.Time) error
}

type cooldown interface {
	Acquire(ctx context.Context, key, token string) (bool, error)
	Release(ctx context.Context, key, token string) error
	Remaining(ctx context.Context, key string) (time.Duration, error)
}

type window interface {
	Allow(ctx context.Context, key string) (bool, int64, error)
}

type sessionIssuer interface {
	Issue(email string) (*session.Session, string, error)
}

// Settings are the tunables read from modules.verification.*.
type Settings struct {
	CodeTTL     time.Duration
	MaxAttempts int
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	repoMail      repoMail
	cooldown      cooldown
	window        window
	sessions      sessionIssuer
	validator     validator.Validator
	codeHash      hash.Hash
	keyHash       hash.Hash
	codes         func() (string, error)
	uid           uid.NumberID
	uuid          uid.StringID
	clock         clock.Clocker
	ins           instrument.Instrumentation
	goroutine     *goroutine.Manager
	settings      Settings

	issued   metric.Int64Counter
	verified metric.Int64Counter
	failed   metric.Int64Counter
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	RepoMail      repoMail
	Cooldown      cooldown
	Window        window
	Sessions      sessionIssuer
	Validator     validator.Validator
	// CodeHash digests codes for storage; KeyHash derives throttle keys so
	// raw emails never reach redis.
	CodeHash hash.Hash
	KeyHash  hash.Hash
	// Codes generates plaintext codes; nil uses GenerateCode.
	Codes      func() (string, error)
	UID        uid.NumberID
	UUID       uid.StringID
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
	Goroutine  *goroutine.Manager
	Settings   Settings
}

func New(dep Dependency) *Usecase {
	st := dep.Settings
	if st.CodeTTL <= 0 {
		st.CodeTTL = 5 * time.Minute
	}
	if st.MaxAttempts <= 0 {
		st.MaxAttempts = entity.MaxAttempts
	}

	codes := dep.Codes
	if codes == nil {
		codes = GenerateCode
	}

	s := &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		repoMail:      dep.RepoMail,
		cooldown:      dep.Cooldown,
		window:        dep.Window,
		sessions:      dep.Sessions,
		validator:     dep.Validator,
		codeHash:      dep.CodeHash,
		keyHash:       dep.KeyHash,
		codes:         codes,
		uid:           dep.UID,
		uuid:          dep.UUID,
		clock:         dep.Clock,
		ins:           dep.Instrument,
		goroutine:     dep.Goroutine,
		settings:      st,
	}

	meter := dep.Instrument.Meter("verification.usecase")
	s.issued, _ = meter.Int64Counter("verification.issued", metric.WithDescription("Verification codes issued"))
	s.verified, _ = meter.Int64Counter("verification.verified", metric.WithDescription("Successful verifications"))
	s.failed, _ = meter.Int64Counter("verification.failed", metric.WithDescription("Rejected verifications"))

	return s
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("verification.usecase").Start(ctx, name)
}

func (s *Usecase) count(ctx context.Context, c metric.Int64Counter, opts ...metric.AddOption) {
	if c != nil {
		c.Add(ctx, 1, opts...)
	}
}

// publish sends a change event off the request path. Failures are logged only.
func (s *Usecase) publish(ctx context.Context, ev ChallengeEvent) {
	ev.ID = s.uid.Generate()
	ev.OccurredAt = s.clock.Now()

	s.goroutine.Go(context.WithoutCancel(ctx), func(ctx context.Context) error {
		if err := s.repoMessaging.PublishChallengeChanged(ctx, ev); err != nil {
			slog.ErrorContext(ctx, "failed to publish challenge changed", "type", ev.Type, "error", err)
		}
		return nil
	})
}
