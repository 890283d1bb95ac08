package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"cloud.google.com/go/pubsub/v2"
	"google.golang.org/api/option"
)

var ErrPubSubProjectIDRequired = errors.New("messaging: pubsub project id is required")

type PubSubConfig struct {
	ProjectID     string
	ClientOptions []option.ClientOption
}

// PubSub publishes to topics and receives from subscriptions. The topic passed
// to Consume is used as the subscription unless WithSubscription is given.
type PubSub struct {
	client *pubsub.Client

	mu         sync.Mutex
	publishers map[string]*pubsub.Publisher
}

func NewPubSub(ctx context.Context, cfg PubSubConfig) (*PubSub, error) {
	if cfg.ProjectID == "" {
		return nil, ErrPubSubProjectIDRequired
	}

	c, err := pubsub.NewClient(ctx, cfg.ProjectID, cfg.ClientOptions...)
	if err != nil {
		return nil, fmt.Errorf("messaging: pubsub new client: %w", err)
	}

	return &PubSub{client: c, publishers: make(map[string]*pubsub.Publisher)}, nil
}

func (p *PubSub) publisher(topic string) *pubsub.Publisher {
	p.mu.Lock()
	defer p.mu.Unlock()

	pub, ok := p.publishers[topic]
	if !ok {
		pub = p.client.Publisher(topic)
		pub.EnableMessageOrdering = true
		p.publishers[topic] = pub
	}
	return pub
}

func (p *PubSub) Publish(ctx context.Context, topic string, msg Outgoing) error {
	if topic == "" {
		return ErrTopicRequired
	}

	attrs := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		attrs[h.Key] = string(h.Value)
	}

	res := p.publisher(topic).Publish(ctx, &pubsub.Message{
		Data:        msg.Body,
		Attributes:  attrs,
		OrderingKey: string(msg.Key),
	})
	if _, err := res.Get(ctx); err != nil {
		return fmt.Errorf("messaging: pubsub publish: %w", err)
	}
	return nil
}

func (p *PubSub) Consume(ctx context.Context, topic string, handler Handler, opts ...ConsumeOption) error {
	if err := validateConsume(ctx, topic, handler); err != nil {
		return err
	}
	co := newConsumeOptions(opts...)

	name := topic
	if co.subscription != "" {
		name = co.subscription
	}

	sub := p.client.Subscriber(name)
	sub.ReceiveSettings.NumGoroutines = co.concurrency
	if co.maxInFlight > 0 {
		sub.ReceiveSettings.MaxOutstandingMessages = co.maxInFlight
	}

	err := sub.Receive(ctx, func(ctx context.Context, m *pubsub.Message) {
		msg := &Message{
			ID:        m.ID,
			Topic:     topic,
			Key:       []byte(m.OrderingKey),
			Body:      m.Data,
			Timestamp: m.PublishTime,
			ack:       func() error { m.Ack(); return nil },
			nack:      func() error { m.Nack(); return nil },
		}
		for k, v := range m.Attributes {
			msg.Headers = append(msg.Headers, Header{Key: k, Value: []byte(v)})
		}
		_ = dispatch(ctx, DriverGooglePubSub, handler, msg, co.autoAck)
	})
	if err != nil {
		return fmt.Errorf("messaging: pubsub receive: %w", err)
	}
	return ctx.Err()
}

func (p *PubSub) Close() error {
	p.mu.Lock()
	for _, pub := range p.publishers {
		pub.Stop()
	}
	p.publishers = make(map[string]*pubsub.Publisher)
	p.mu.Unlock()

	return p.client.Close()
}
