package usecase

import (
	"context"
	"time"

	"github.com/shandysiswandi/trimly/internal/pkg/changefeed"
	"github.com/shandysiswandi/trimly/internal/pkg/clock"
	"github.com/shandysiswandi/trimly/internal/pkg/instrument"
	"go.opentelemetry.io/otel/trace"
)

type authorizer interface {
	Can(role, obj, act string) (bool, error)
	Allowed(role, act string, objs []string) ([]string, error)
}

type Usecase struct {
	feed   changefeed.Feed
	authz  authorizer
	feeds  []string
	buffer int
	clock  clock.Clocker
	ins    instrument.Instrumentation
}

type Dependency struct {
	Feed  changefeed.Feed
	Authz authorizer
	// Feeds are the feed names clients may ask for.
	Feeds []string
	// Buffer is the per-stream channel size.
	Buffer     int
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	buffer := dep.Buffer
	if buffer <= 0 {
		buffer = changefeed.DefaultBuffer
	}

	return &Usecase{
		feed:   dep.Feed,
		authz:  dep.Authz,
		feeds:  dep.Feeds,
		buffer: buffer,
		clock:  dep.Clock,
		ins:    dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("realtime.usecase").Start(ctx, name)
}

func (s *Usecase) now() time.Time {
	return s.clock.Now()
}
