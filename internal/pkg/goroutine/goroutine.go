// Package goroutine runs fire-and-forget background work with a concurrency
// cap, panic recovery, and a single Wait used during shutdown.
package goroutine

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/shandysiswandi/trimly/internal/pkg/stacktrace"
	"go.uber.org/atomic"
)

// DefaultMaxGoroutine is multiplied by NumCPU when NewManager gets a non-positive limit.
const DefaultMaxGoroutine int = 100

// Manager schedules tasks. A nil *Manager drops every task.
type Manager struct {
	wg   sync.WaitGroup
	sema chan struct{}

	mu     sync.Mutex
	errs   []error
	closed bool

	// dropped counts tasks refused because the cap was full.
	dropped *atomic.Uint64
}

func NewManager(maxGoroutine int) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = runtime.NumCPU() * DefaultMaxGoroutine
	}

	return &Manager{sema: make(chan struct{}, maxGoroutine), dropped: atomic.NewUint64(0)}
}

// Go runs f in a new goroutine unless the manager is closed or full.
// Tasks never block the caller.
func (g *Manager) Go(ctx context.Context, f func(ctx context.Context) error) {
	if g == nil {
		return
	}

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		slog.WarnContext(ctx, "goroutine manager is closed, task dropped")
		return
	}

	select {
	case g.sema <- struct{}{}:
		g.wg.Add(1)
		g.mu.Unlock()
	default:
		g.mu.Unlock()
		n := g.dropped.Inc()
		slog.WarnContext(ctx, "maximum goroutine limit reached, task dropped", "dropped_total", n)
		return
	}

	go func() {
		defer g.wg.Done()
		defer func() { <-g.sema }()
		defer func() {
			if rvr := recover(); rvr != nil {
				slog.ErrorContext(ctx, "panic occurred in goroutine",
					"panic", rvr, "stack", stacktrace.InternalPaths(debug.Stack()))
			}
		}()

		if err := ctx.Err(); err != nil {
			slog.WarnContext(ctx, "goroutine canceled before start", "error", err)
			return
		}

		if err := f(ctx); err != nil {
			g.mu.Lock()
			g.errs = append(g.errs, err)
			g.mu.Unlock()
		}
	}()
}

// Dropped returns how many tasks were refused because the cap was full.
func (g *Manager) Dropped() uint64 {
	if g == nil {
		return 0
	}
	return g.dropped.Load()
}

// Wait closes the manager to new work, waits for running tasks and returns
// the joined task errors.
func (g *Manager) Wait() error {
	if g == nil {
		return nil
	}

	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()

	g.wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()
	return errors.Join(g.errs...)
}
