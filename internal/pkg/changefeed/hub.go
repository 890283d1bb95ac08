package changefeed

import (
	"context"
	"sort"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/atomic"
)

// DefaultBuffer is the per-subscription queue size.
const DefaultBuffer = 64

// Hub is the in-process Feed.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[uint64]*subscription
	closed bool

	nextID *atomic.Uint64
	buffer int
}

// NewHub returns a hub with the given per-subscription buffer (DefaultBuffer
// when non-positive).
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}

	return &Hub{
		subs:   make(map[string]map[uint64]*subscription),
		nextID: atomic.NewUint64(0),
		buffer: buffer,
	}
}

type subscription struct {
	id      uint64
	feed    string
	hub     *Hub
	queue   chan Event
	dropped *atomic.Uint64
	once    sync.Once
	done    chan struct{}
}

func (s *subscription) ID() uint64      { return s.id }
func (s *subscription) Feed() string    { return s.feed }
func (s *subscription) Dropped() uint64 { return s.dropped.Load() }

// Unsubscribe stops delivery and waits for the in-flight callback to return.
// It must not be called from inside the subscription's own callback.
func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		s.hub.remove(s)
		<-s.done
	})
}

func (s *subscription) deliver(cb Callback) {
	defer close(s.done)
	for e := range s.queue {
		cb(e)
	}
}

// Subscribe registers cb on feed.
func (h *Hub) Subscribe(feed string, cb Callback) (Subscription, error) {
	if feed == "" {
		return nil, ErrEmptyFeed
	}
	if cb == nil {
		return nil, ErrNilCallback
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrClosed
	}

	s := &subscription{
		id:      h.nextID.Inc(),
		feed:    feed,
		hub:     h,
		queue:   make(chan Event, h.buffer),
		dropped: atomic.NewUint64(0),
		done:    make(chan struct{}),
	}

	if h.subs[feed] == nil {
		h.subs[feed] = make(map[uint64]*subscription)
	}
	h.subs[feed][s.id] = s

	go s.deliver(cb)

	return s, nil
}

// Publish enqueues e for every subscription of e.Feed without blocking.
func (h *Hub) Publish(_ context.Context, e Event) error {
	if e.Feed == "" {
		return ErrEmptyFeed
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return ErrClosed
	}

	for _, s := range h.subs[e.Feed] {
		select {
		case s.queue <- e:
		default:
			s.dropped.Inc()
		}
	}

	return nil
}

func (h *Hub) remove(s *subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	feed, ok := h.subs[s.feed]
	if !ok {
		return
	}
	if _, ok := feed[s.id]; !ok {
		return
	}

	delete(feed, s.id)
	if len(feed) == 0 {
		delete(h.subs, s.feed)
	}
	close(s.queue)
}

// Feeds lists feeds with at least one subscriber, sorted.
func (h *Hub) Feeds() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := lo.Keys(h.subs)
	sort.Strings(names)
	return names
}

// Subscribers returns the number of live subscriptions on feed.
func (h *Hub) Subscribers(feed string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subs[feed])
}

// Close ends every subscription. Later Subscribe/Publish calls fail with ErrClosed.
func (h *Hub) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true

	all := lo.FlatMap(lo.Values(h.subs), func(m map[uint64]*subscription, _ int) []*subscription {
		return lo.Values(m)
	})
	for _, s := range all {
		close(s.queue)
	}
	h.subs = make(map[string]map[uint64]*subscription)
	h.mu.Unlock()

	for _, s := range all {
		s.once.Do(func() {})
		<-s.done
	}

	return nil
}
