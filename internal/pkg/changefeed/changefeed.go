// Package changefeed lets in-process consumers subscribe to named streams of
// state change events.
//
// Producers publish an Event to a feed; every live subscription of that feed
// receives it on its own delivery goroutine. A slow subscriber only loses its
// own events (the buffer drops when full) and never stalls the producer.
package changefeed

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrClosed      = errors.New("changefeed: hub closed")
	ErrEmptyFeed   = errors.New("changefeed: feed name is required")
	ErrNilCallback = errors.New("changefeed: callback is required")
)

// Event is one change on a feed. Data never contains secrets.
type Event struct {
	ID         int64           `json:"id,string"`
	Feed       string          `json:"feed"`
	Type       string          `json:"type"`
	Key        string          `json:"key"`
	Data       json.RawMessage `json:"data,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// Callback receives events in publish order for one subscription.
type Callback func(Event)

// Subscription is a live registration on a feed.
type Subscription interface {
	ID() uint64
	Feed() string
	// Dropped counts events discarded because the buffer was full.
	Dropped() uint64
	Unsubscribe()
}

// Feed is the subscribe/publish contract.
type Feed interface {
	Subscribe(feed string, cb Callback) (Subscription, error)
	Publish(ctx context.Context, e Event) error
}
