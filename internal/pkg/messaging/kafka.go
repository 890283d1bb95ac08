package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

var (
	ErrKafkaBrokersRequired = errors.New("messaging: kafka brokers are required")
	ErrKafkaGroupRequired   = errors.New("messaging: kafka consumer group is required")
)

type KafkaConfig struct {
	Brokers []string
	Dialer  *kafka.Dialer
}

// Kafka keeps one writer for all topics and one reader per Consume call.
// Offsets are committed on Ack; Nack leaves the offset uncommitted.
type Kafka struct {
	brokers []string
	dialer  *kafka.Dialer
	writer  *kafka.Writer

	mu     sync.Mutex
	closed bool
}

func NewKafka(cfg KafkaConfig) (*Kafka, error) {
	if len(cfg.Brokers) == 0 {
		return nil, ErrKafkaBrokersRequired
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	if cfg.Dialer != nil {
		w.Transport = &kafka.Transport{TLS: cfg.Dialer.TLS, SASL: cfg.Dialer.SASLMechanism}
	}

	return &Kafka{brokers: cfg.Brokers, dialer: cfg.Dialer, writer: w}, nil
}

func (k *Kafka) Publish(ctx context.Context, topic string, msg Outgoing) error {
	if topic == "" {
		return ErrTopicRequired
	}

	km := kafka.Message{Topic: topic, Key: msg.Key, Value: msg.Body, Time: time.Now()}
	for _, h := range msg.Headers {
		if h.Key != "" {
			km.Headers = append(km.Headers, kafka.Header{Key: h.Key, Value: h.Value})
		}
	}

	if err := k.writer.WriteMessages(ctx, km); err != nil {
		return fmt.Errorf("messaging: kafka publish: %w", err)
	}
	return nil
}

func (k *Kafka) Consume(ctx context.Context, topic string, handler Handler, opts ...ConsumeOption) error {
	if err := validateConsume(ctx, topic, handler); err != nil {
		return err
	}
	co := newConsumeOptions(opts...)
	if co.group == "" {
		return ErrKafkaGroupRequired
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  k.brokers,
		GroupID:  co.group,
		Topic:    topic,
		MaxBytes: 10e6,
		Dialer:   k.dialer,
	})

	fetched := make(chan kafka.Message)
	fetchErr := make(chan error, 1)

	go func() {
		defer close(fetched)
		for {
			m, err := reader.FetchMessage(ctx)
			if err != nil {
				fetchErr <- err
				return
			}
			select {
			case fetched <- m:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for range co.concurrency {
		wg.Go(func() {
			for m := range fetched {
				_ = dispatch(ctx, DriverKafka, handler, fromKafka(ctx, reader, m), co.autoAck)
			}
		})
	}
	wg.Wait()

	err := ctx.Err()
	select {
	case ferr := <-fetchErr:
		if !errors.Is(ferr, context.Canceled) && !errors.Is(ferr, context.DeadlineExceeded) {
			err = fmt.Errorf("messaging: kafka consume: %w", ferr)
		}
	default:
	}

	return errors.Join(err, reader.Close())
}

func fromKafka(ctx context.Context, reader *kafka.Reader, m kafka.Message) *Message {
	msg := &Message{
		ID:        fmt.Sprintf("%d-%d", m.Partition, m.Offset),
		Topic:     m.Topic,
		Key:       m.Key,
		Body:      m.Value,
		Timestamp: m.Time,
		ack:       func() error { return reader.CommitMessages(context.WithoutCancel(ctx), m) },
	}
	for _, h := range m.Headers {
		msg.Headers = append(msg.Headers, Header{Key: h.Key, Value: h.Value})
	}
	return msg
}

func (k *Kafka) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.closed {
		return nil
	}
	k.closed = true
	return k.writer.Close()
}
