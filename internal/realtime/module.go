package realtime

import (
	"context"

	"github.com/shandysiswandi/trimly/internal/pkg/authz"
	"github.com/shandysiswandi/trimly/internal/pkg/changefeed"
	"github.com/shandysiswandi/trimly/internal/pkg/clock"
	"github.com/shandysiswandi/trimly/internal/pkg/config"
	"github.com/shandysiswandi/trimly/internal/pkg/goroutine"
	"github.com/shandysiswandi/trimly/internal/pkg/instrument"
	"github.com/shandysiswandi/trimly/internal/pkg/messaging"
	"github.com/shandysiswandi/trimly/internal/pkg/router"
	"github.com/shandysiswandi/trimly/internal/pkg/uid"
	"github.com/shandysiswandi/trimly/internal/pkg/validator"
	"github.com/shandysiswandi/trimly/internal/realtime/inbound"
	"github.com/shandysiswandi/trimly/internal/realtime/usecase"
	"github.com/shandysiswandi/trimly/internal/shared/event"
)

type Dependency struct {
	Ctx        context.Context            `validate:"required"`
	Hub        changefeed.Feed            `validate:"required"`
	Authz      *authz.Authorizer          `validate:"required"`
	Messaging  messaging.Messaging        `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UUID       uid.StringID               `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	Router     *router.Router             `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	feeds := dep.Config.GetArray("modules.realtime.feeds")
	if len(feeds) == 0 {
		feeds = []string{event.ChallengeFeed}
	}

	uc := usecase.New(usecase.Dependency{
		Feed:       dep.Hub,
		Authz:      dep.Authz,
		Feeds:      feeds,
		Buffer:     dep.Config.GetInt("modules.realtime.stream_buffer"),
		Clock:      dep.Clock,
		Instrument: dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)
	inbound.RegisterMQConsumer(dep.Ctx, dep.Config, dep.Goroutine, dep.Messaging, dep.UUID, uc, dep.Instrument)

	return nil
}
