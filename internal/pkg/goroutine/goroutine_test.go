package goroutine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_GoAndWait(t *testing.T) {
	g := NewManager(4)

	var ran atomic.Int32
	boom := errors.New("boom")

	for range 3 {
		g.Go(context.Background(), func(context.Context) error {
			ran.Add(1)
			return nil
		})
	}
	g.Go(context.Background(), func(context.Context) error { return boom })
	g.Wait()

	assert.Equal(t, int32(3), ran.Load())

	err := NewManager(1).Wait()
	require.NoError(t, err)
}

func TestManager_CollectsErrors(t *testing.T) {
	g := NewManager(2)
	boom := errors.New("boom")

	g.Go(context.Background(), func(context.Context) error { return boom })

	assert.ErrorIs(t, g.Wait(), boom)
}

func TestManager_RecoversPanic(t *testing.T) {
	g := NewManager(1)
	g.Go(context.Background(), func(context.Context) error { panic("kaboom") })

	assert.NoError(t, g.Wait())
}

func TestManager_ClosedAndLimit(t *testing.T) {
	g := NewManager(1)

	release := make(chan struct{})
	started := make(chan struct{})
	g.Go(context.Background(), func(context.Context) error {
		close(started)
		<-release
		return nil
	})
	<-started

	var dropped atomic.Bool
	g.Go(context.Background(), func(context.Context) error {
		dropped.Store(true)
		return nil
	})

	close(release)
	require.NoError(t, g.Wait())
	assert.False(t, dropped.Load())
	assert.Equal(t, uint64(1), g.Dropped())

	g.Go(context.Background(), func(context.Context) error {
		dropped.Store(true)
		return nil
	})
	assert.False(t, dropped.Load())
}

func TestManager_DroppedTasksAreCountedNotKept(t *testing.T) {
	g := NewManager(1)

	release := make(chan struct{})
	started := make(chan struct{})
	g.Go(context.Background(), func(context.Context) error {
		close(started)
		<-release
		return nil
	})
	<-started

	for range 10000 {
		g.Go(context.Background(), func(context.Context) error { return nil })
	}

	g.mu.Lock()
	kept := len(g.errs)
	g.mu.Unlock()
	assert.Zero(t, kept)
	assert.Equal(t, uint64(10000), g.Dropped())

	close(release)
	assert.NoError(t, g.Wait())
}

func TestManager_CanceledContext(t *testing.T) {
	g := NewManager(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran atomic.Bool
	g.Go(ctx, func(context.Context) error {
		ran.Store(true)
		return nil
	})

	require.NoError(t, g.Wait())
	assert.False(t, ran.Load())
}

func TestManager_Nil(t *testing.T) {
	var g *Manager
	g.Go(context.Background(), func(context.Context) error { return nil })
	assert.NoError(t, g.Wait())
}
