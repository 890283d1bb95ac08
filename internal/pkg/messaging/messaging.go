package messaging

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"time"
)

var (
	ErrTopicRequired   = errors.New("messaging: topic is required")
	ErrHandlerRequired = errors.New("messaging: handler is required")
	ErrClosed          = errors.New("messaging: client closed")
)

// Messaging publishes and consumes messages.
type Messaging interface {
	io.Closer
	Publisher
	Consumer
}

type Publisher interface {
	Publish(ctx context.Context, topic string, msg Outgoing) error
}

type Consumer interface {
	// Consume blocks until ctx is canceled or the subscription fails.
	Consume(ctx context.Context, topic string, handler Handler, opts ...ConsumeOption) error
}

// Handler processes one message. With auto-ack, a nil error acks and a
// non-nil error nacks (where the broker supports it).
type Handler func(ctx context.Context, msg *Message) error

// Header is a message header; keys may repeat.
type Header struct {
	Key   string
	Value []byte
}

// Outgoing is a message to publish.
type Outgoing struct {
	// Key drives partitioning (Kafka) and ordering (Pub/Sub).
	Key     []byte
	Body    []byte
	Headers []Header
}

// Message is a received message.
type Message struct {
	ID        string
	Topic     string
	Key       []byte
	Body      []byte
	Headers   []Header
	Timestamp time.Time

	ack       func() error
	nack      func() error
	responded atomic.Bool
}

// Header returns the first value for key (case-insensitive), or "".
func (m *Message) Header(key string) string {
	for _, h := range m.Headers {
		if strings.EqualFold(h.Key, key) {
			return string(h.Value)
		}
	}
	return ""
}

// Ack confirms processing. Only the first Ack/Nack has an effect.
func (m *Message) Ack() error {
	if m.responded.Swap(true) || m.ack == nil {
		return nil
	}
	return m.ack()
}

// Nack asks for redelivery. Only the first Ack/Nack has an effect.
func (m *Message) Nack() error {
	if m.responded.Swap(true) || m.nack == nil {
		return nil
	}
	return m.nack()
}
