package verification

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/trimly/internal/pkg/clock"
	"github.com/shandysiswandi/trimly/internal/pkg/config"
	"github.com/shandysiswandi/trimly/internal/pkg/goroutine"
	"github.com/shandysiswandi/trimly/internal/pkg/hash"
	"github.com/shandysiswandi/trimly/internal/pkg/instrument"
	"github.com/shandysiswandi/trimly/internal/pkg/mail"
	"github.com/shandysiswandi/trimly/internal/pkg/messaging"
	"github.com/shandysiswandi/trimly/internal/pkg/ratelimit"
	"github.com/shandysiswandi/trimly/internal/pkg/router"
	"github.com/shandysiswandi/trimly/internal/pkg/session"
	"github.com/shandysiswandi/trimly/internal/pkg/storage"
	"github.com/shandysiswandi/trimly/internal/pkg/uid"
	"github.com/shandysiswandi/trimly/internal/pkg/validator"
	"github.com/shandysiswandi/trimly/internal/verification/inbound"
	"github.com/shandysiswandi/trimly/internal/verification/outbound/db"
	"github.com/shandysiswandi/trimly/internal/verification/outbound/email"
	"github.com/shandysiswandi/trimly/internal/verification/outbound/mq"
	"github.com/shandysiswandi/trimly/internal/verification/usecase"
)

const (
	defaultIssueCooldown    = 60 * time.Second
	defaultIssueHourlyLimit = 10
)

type Dependency struct {
	Ctx        context.Context            `validate:"required"`
	DBConn     *pgxpool.Pool              `validate:"required"`
	CacheConn  *redis.Client              `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Messaging  messaging.Messaging        `validate:"required"`
	Mail       mail.Mail                  `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	UUID       uid.StringID               `validate:"required"`
	HMAC       hash.Hash                  `validate:"required"`
	SHA256     hash.Hash                  `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	Sessions   *session.Manager           `validate:"required"`
	// Storage is optional; without it the embedded email template is used.
	Storage storage.Storage
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	cfg := dep.Config

	tplSrc, err := email.LoadTemplate(dep.Ctx, dep.Storage,
		cfg.GetString("modules.verification.mail.template_bucket"),
		cfg.GetString("modules.verification.mail.template_key"))
	if err != nil {
		slog.WarnContext(dep.Ctx, "failed to load email template, using embedded default", "error", err)
		tplSrc = email.DefaultTemplate
	}

	mailer := mail.NewRetrying(dep.Mail,
		uint64(max(cfg.GetInt("modules.verification.mail.retry_max"), 0)),
		cfg.GetMillisecond("modules.verification.mail.retry_base_millis"),
		mail.IsTemporary)

	repoMail, err := email.New(mailer, dep.Clock, dep.Instrument, email.Options{
		Subject:  cfg.GetString("modules.verification.mail.subject"),
		Template: tplSrc,
	})
	if err != nil {
		return err
	}

	cooldownTTL, hourlyLimit := issueLimits(cfg)

	window, err := ratelimit.NewWindow(dep.CacheConn, "verification:issue:hourly", hourlyLimit, time.Hour)
	if err != nil {
		return err
	}

	uc := usecase.New(usecase.Dependency{
		RepoDB:        db.NewDB(dep.DBConn, dep.Instrument),
		RepoMessaging: mq.NewMessaging(dep.Messaging, dep.Instrument),
		RepoMail:      repoMail,
		Cooldown:      ratelimit.NewCooldown(dep.CacheConn, "verification:issue:cooldown", cooldownTTL),
		Window:        window,
		Sessions:      dep.Sessions,
		Validator:     dep.Validator,
		CodeHash:      dep.SHA256,
		KeyHash:       dep.HMAC,
		UID:           dep.UID,
		UUID:          dep.UUID,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
		Goroutine:     dep.Goroutine,
		Settings: usecase.Settings{
			CodeTTL:     cfg.GetSecond("modules.verification.code_ttl_seconds"),
			MaxAttempts: cfg.GetInt("modules.verification.max_attempts"),
		},
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	if interval := cfg.GetSecond("modules.verification.purge_interval_seconds"); interval > 0 {
		dep.Goroutine.Go(dep.Ctx, func(ctx context.Context) error {
			return uc.RunJanitor(ctx, interval)
		})
	}

	return nil
}

// issueLimits reads the per-identity cooldown and hourly cap, falling back to
// the defaults when unset or not positive.
func issueLimits(cfg config.Config) (time.Duration, int64) {
	cooldownTTL := cfg.GetSecond("modules.verification.issue_cooldown_seconds")
	if cooldownTTL <= 0 {
		cooldownTTL = defaultIssueCooldown
	}
	hourlyLimit := cfg.GetInt64("modules.verification.issue_hourly_limit")
	if hourlyLimit <= 0 {
		hourlyLimit = defaultIssueHourlyLimit
	}
	return cooldownTTL, hourlyLimit
}
