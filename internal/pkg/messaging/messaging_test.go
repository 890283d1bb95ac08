package messaging

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_RespondsOnce(t *testing.T) {
	var acks, nacks int
	msg := &Message{
		ack:  func() error { acks++; return nil },
		nack: func() error { nacks++; return nil },
	}

	require.NoError(t, msg.Ack())
	require.NoError(t, msg.Nack())
	require.NoError(t, msg.Ack())

	assert.Equal(t, 1, acks)
	assert.Equal(t, 0, nacks)
}

func TestMessage_Header(t *testing.T) {
	msg := &Message{Headers: []Header{{Key: "cID", Value: []byte("abc")}, {Key: "cid", Value: []byte("other")}}}

	assert.Equal(t, "abc", msg.Header("CID"))
	assert.Empty(t, msg.Header("missing"))
}

func TestDispatch(t *testing.T) {
	ctx := context.Background()

	t.Run("auto ack on success", func(t *testing.T) {
		var acked bool
		msg := &Message{ack: func() error { acked = true; return nil }}

		err := dispatch(ctx, DriverMemory, func(context.Context, *Message) error { return nil }, msg, true)
		require.NoError(t, err)
		assert.True(t, acked)
	})

	t.Run("auto nack on error", func(t *testing.T) {
		var nacked bool
		msg := &Message{nack: func() error { nacked = true; return nil }}
		want := errors.New("boom")

		err := dispatch(ctx, DriverMemory, func(context.Context, *Message) error { return want }, msg, true)
		require.ErrorIs(t, err, want)
		assert.True(t, nacked)
	})

	t.Run("panic becomes error", func(t *testing.T) {
		var nacked bool
		msg := &Message{Topic: "t", nack: func() error { nacked = true; return nil }}

		err := dispatch(ctx, DriverMemory, func(context.Context, *Message) error { panic("bad") }, msg, true)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad")
		assert.True(t, nacked)
	})

	t.Run("manual ack untouched", func(t *testing.T) {
		var acked bool
		msg := &Message{ack: func() error { acked = true; return nil }}

		require.NoError(t, dispatch(ctx, DriverMemory, func(context.Context, *Message) error { return nil }, msg, false))
		assert.False(t, acked)
	})
}

func TestNewFromDriver(t *testing.T) {
	m, err := NewFromDriver(context.Background(), "", FactoryOptions{})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, m)
	require.NoError(t, m.Close())

	_, err = NewFromDriver(context.Background(), "rabbit", FactoryOptions{})
	require.ErrorIs(t, err, ErrUnknownDriver)

	_, err = NewFromDriver(context.Background(), DriverKafka, FactoryOptions{})
	require.ErrorIs(t, err, ErrKafkaBrokersRequired)
}

func TestMemory_Validation(t *testing.T) {
	m := NewMemory()
	t.Cleanup(func() { _ = m.Close() })
	ctx := context.Background()

	require.ErrorIs(t, m.Publish(ctx, "", Outgoing{}), ErrTopicRequired)
	require.ErrorIs(t, m.Consume(ctx, "", func(context.Context, *Message) error { return nil }), ErrTopicRequired)
	require.ErrorIs(t, m.Consume(ctx, "t", nil), ErrHandlerRequired)
}

func TestMemory_FanOutAndGroups(t *testing.T) {
	m := NewMemory()
	t.Cleanup(func() { _ = m.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	got := map[string][]string{}
	record := func(name string) Handler {
		return func(_ context.Context, msg *Message) error {
			mu.Lock()
			defer mu.Unlock()
			got[name] = append(got[name], string(msg.Body))
			return nil
		}
	}

	var wg sync.WaitGroup
	start := func(name string, opts ...ConsumeOption) {
		wg.Go(func() { _ = m.Consume(ctx, "challenge", record(name), opts...) })
	}
	start("a1", WithGroup("a"))
	start("a2", WithGroup("a"))
	start("b", WithQueueGroup("b"))

	require.Eventually(t, func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		g := m.topics["challenge"]
		return len(g) == 2 && g["a"] != nil && g["a"].refs == 2
	}, time.Second, 5*time.Millisecond)

	for _, body := range []string{"1", "2", "3"} {
		require.NoError(t, m.Publish(ctx, "challenge", Outgoing{Body: []byte(body), Headers: []Header{{Key: "cID", Value: []byte("x")}}}))
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got["a1"])+len(got["a2"]) == 3 && len(got["b"]) == 3
	}, time.Second, 5*time.Millisecond)

	cancel()
	wg.Wait()

	m.mu.Lock()
	assert.Empty(t, m.topics["challenge"])
	m.mu.Unlock()
}

func TestMemory_Close(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	ctx := context.Background()
	require.ErrorIs(t, m.Publish(ctx, "t", Outgoing{}), ErrClosed)
	require.ErrorIs(t, m.Consume(ctx, "t", func(context.Context, *Message) error { return nil }), ErrClosed)
}
