package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"
)

var ErrNATSURLRequired = errors.New("messaging: nats url is required")

type NATSConfig struct {
	URL     string
	Options []nats.Option
}

// NATS uses core NATS subjects; queue groups give competing consumers.
type NATS struct {
	conn *nats.Conn
}

func NewNATS(cfg NATSConfig) (*NATS, error) {
	if cfg.URL == "" {
		return nil, ErrNATSURLRequired
	}

	conn, err := nats.Connect(cfg.URL, cfg.Options...)
	if err != nil {
		return nil, fmt.Errorf("messaging: nats connect: %w", err)
	}

	return &NATS{conn: conn}, nil
}

func (n *NATS) Publish(ctx context.Context, topic string, msg Outgoing) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if topic == "" {
		return ErrTopicRequired
	}

	nm := nats.NewMsg(topic)
	nm.Data = msg.Body
	for _, h := range msg.Headers {
		if h.Key != "" {
			nm.Header.Add(h.Key, string(h.Value))
		}
	}

	if err := n.conn.PublishMsg(nm); err != nil {
		return fmt.Errorf("messaging: nats publish: %w", err)
	}
	if err := n.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("messaging: nats flush: %w", err)
	}
	return nil
}

func (n *NATS) Consume(ctx context.Context, topic string, handler Handler, opts ...ConsumeOption) error {
	if err := validateConsume(ctx, topic, handler); err != nil {
		return err
	}
	co := newConsumeOptions(opts...)

	queue := make(chan *nats.Msg, max(co.maxInFlight, co.concurrency))
	sub, err := n.conn.QueueSubscribe(topic, co.queueGroup, func(m *nats.Msg) {
		select {
		case queue <- m:
		case <-ctx.Done():
		}
	})
	if err != nil {
		return fmt.Errorf("messaging: nats subscribe: %w", err)
	}

	var wg sync.WaitGroup
	for range co.concurrency {
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case m := <-queue:
					_ = dispatch(ctx, DriverNATS, handler, fromNATS(m), co.autoAck)
				}
			}
		})
	}

	<-ctx.Done()
	drainErr := sub.Drain()
	wg.Wait()

	return errors.Join(ctx.Err(), drainErr)
}

func fromNATS(m *nats.Msg) *Message {
	msg := &Message{
		Topic: m.Subject,
		Body:  m.Data,
		ack:   func() error { return ignoreNoReply(m.Ack()) },
		nack:  func() error { return ignoreNoReply(m.Nak()) },
	}
	for k, values := range m.Header {
		for _, v := range values {
			msg.Headers = append(msg.Headers, Header{Key: k, Value: []byte(v)})
		}
	}
	if md, err := m.Metadata(); err == nil {
		msg.Timestamp = md.Timestamp
	}
	return msg
}

// Core NATS messages have no reply subject; ack/nak only apply to JetStream.
func ignoreNoReply(err error) error {
	if errors.Is(err, nats.ErrMsgNoReply) || errors.Is(err, nats.ErrMsgNotBound) {
		return nil
	}
	return err
}

func (n *NATS) Close() error {
	err := n.conn.Drain()
	n.conn.Close()
	if errors.Is(err, nats.ErrConnectionClosed) {
		return nil
	}
	return err
}
