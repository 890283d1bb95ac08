package changefeed

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) callback(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func TestHub_SubscribeValidation(t *testing.T) {
	h := NewHub(0)

	_, err := h.Subscribe("", func(Event) {})
	assert.ErrorIs(t, err, ErrEmptyFeed)

	_, err = h.Subscribe("verification", nil)
	assert.ErrorIs(t, err, ErrNilCallback)

	assert.ErrorIs(t, h.Publish(context.Background(), Event{}), ErrEmptyFeed)
}

func TestHub_PublishFansOutPerFeed(t *testing.T) {
	h := NewHub(8)
	defer h.Close()

	var a, b, other recorder
	subA, err := h.Subscribe("verification", a.callback)
	require.NoError(t, err)
	subB, err := h.Subscribe("verification", b.callback)
	require.NoError(t, err)
	_, err = h.Subscribe("bookings", other.callback)
	require.NoError(t, err)

	assert.NotEqual(t, subA.ID(), subB.ID())
	assert.Equal(t, []string{"bookings", "verification"}, h.Feeds())
	assert.Equal(t, 2, h.Subscribers("verification"))

	ctx := context.Background()
	require.NoError(t, h.Publish(ctx, Event{ID: 1, Feed: "verification", Type: "challenge.issued"}))
	require.NoError(t, h.Publish(ctx, Event{ID: 2, Feed: "verification", Type: "challenge.verified"}))

	assert.Eventually(t, func() bool {
		return len(a.snapshot()) == 2 && len(b.snapshot()) == 2
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, int64(1), a.snapshot()[0].ID)
	assert.Equal(t, int64(2), a.snapshot()[1].ID)
	assert.Empty(t, other.snapshot())
}

func TestHub_Unsubscribe(t *testing.T) {
	h := NewHub(8)
	defer h.Close()

	var r recorder
	sub, err := h.Subscribe("verification", r.callback)
	require.NoError(t, err)

	sub.Unsubscribe()
	sub.Unsubscribe()

	require.NoError(t, h.Publish(context.Background(), Event{Feed: "verification"}))
	assert.Empty(t, r.snapshot())
	assert.Empty(t, h.Feeds())
	assert.Equal(t, 0, h.Subscribers("verification"))
}

func TestHub_SlowSubscriberDrops(t *testing.T) {
	h := NewHub(1)

	block := make(chan struct{})
	entered := make(chan struct{}, 1)
	sub, err := h.Subscribe("verification", func(Event) {
		select {
		case entered <- struct{}{}:
		default:
		}
		<-block
	})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, h.Publish(ctx, Event{Feed: "verification"}))
	<-entered

	require.NoError(t, h.Publish(ctx, Event{Feed: "verification"}))
	require.NoError(t, h.Publish(ctx, Event{Feed: "verification"}))

	assert.Equal(t, uint64(1), sub.Dropped())

	close(block)
	require.NoError(t, h.Close())
}

func TestHub_Close(t *testing.T) {
	h := NewHub(4)

	var r recorder
	sub, err := h.Subscribe("verification", r.callback)
	require.NoError(t, err)

	require.NoError(t, h.Close())
	require.NoError(t, h.Close())
	sub.Unsubscribe()

	_, err = h.Subscribe("verification", r.callback)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, h.Publish(context.Background(), Event{Feed: "verification"}), ErrClosed)
}
