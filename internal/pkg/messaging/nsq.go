package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	nsq "github.com/nsqio/go-nsq"
)

var (
	ErrNSQChannelRequired       = errors.New("messaging: nsq channel is required")
	ErrNSQProducerAddrRequired  = errors.New("messaging: nsq producer address is required")
	ErrNSQConsumerAddrsRequired = errors.New("messaging: nsq nsqd or lookupd addresses are required")
)

type NSQConfig struct {
	ProducerAddr         string
	ConsumerNSQDAddrs    []string
	ConsumerLookupdAddrs []string
	// ProducerConfig and ConsumerConfig default to nsq.NewConfig().
	ProducerConfig *nsq.Config
	ConsumerConfig *nsq.Config
}

// nsqEnvelope carries headers, which NSQ frames do not support natively.
type nsqEnvelope struct {
	Key     []byte            `json:"key,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    []byte            `json:"body"`
}

type NSQ struct {
	producer    *nsq.Producer
	nsqd        []string
	lookupd     []string
	consumerCfg *nsq.Config
}

func NewNSQ(cfg NSQConfig) (*NSQ, error) {
	n := &NSQ{nsqd: cfg.ConsumerNSQDAddrs, lookupd: cfg.ConsumerLookupdAddrs, consumerCfg: cfg.ConsumerConfig}

	if cfg.ProducerAddr != "" {
		pcfg := cfg.ProducerConfig
		if pcfg == nil {
			pcfg = nsq.NewConfig()
		}
		p, err := nsq.NewProducer(cfg.ProducerAddr, pcfg)
		if err != nil {
			return nil, fmt.Errorf("messaging: nsq new producer: %w", err)
		}
		p.SetLoggerLevel(nsq.LogLevelError)
		n.producer = p
	}

	return n, nil
}

func (n *NSQ) Publish(ctx context.Context, topic string, msg Outgoing) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if topic == "" {
		return ErrTopicRequired
	}
	if n.producer == nil {
		return ErrNSQProducerAddrRequired
	}

	env := nsqEnvelope{Key: msg.Key, Body: msg.Body}
	if len(msg.Headers) > 0 {
		env.Headers = make(map[string]string, len(msg.Headers))
		for _, h := range msg.Headers {
			env.Headers[h.Key] = string(h.Value)
		}
	}

	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("messaging: nsq encode: %w", err)
	}

	if err := n.producer.Publish(topic, body); err != nil {
		return fmt.Errorf("messaging: nsq publish: %w", err)
	}
	return nil
}

func (n *NSQ) Consume(ctx context.Context, topic string, handler Handler, opts ...ConsumeOption) error {
	if err := validateConsume(ctx, topic, handler); err != nil {
		return err
	}
	co := newConsumeOptions(opts...)
	if co.channel == "" {
		return ErrNSQChannelRequired
	}
	if len(n.nsqd) == 0 && len(n.lookupd) == 0 {
		return ErrNSQConsumerAddrsRequired
	}

	cfg := nsq.NewConfig()
	if n.consumerCfg != nil {
		copied := *n.consumerCfg
		cfg = &copied
	}
	cfg.MaxInFlight = max(co.maxInFlight, co.concurrency, cfg.MaxInFlight)

	consumer, err := nsq.NewConsumer(topic, co.channel, cfg)
	if err != nil {
		return fmt.Errorf("messaging: nsq new consumer: %w", err)
	}
	consumer.SetLoggerLevel(nsq.LogLevelError)

	consumer.AddConcurrentHandlers(nsq.HandlerFunc(func(m *nsq.Message) error {
		m.DisableAutoResponse()
		msg := fromNSQ(topic, m)
		err := dispatch(ctx, DriverNSQ, handler, msg, co.autoAck)
		if !co.autoAck {
			return err
		}
		return nil
	}), co.concurrency)

	if len(n.lookupd) > 0 {
		err = consumer.ConnectToNSQLookupds(n.lookupd)
	} else {
		err = consumer.ConnectToNSQDs(n.nsqd)
	}
	if err != nil {
		consumer.Stop()
		<-consumer.StopChan
		return fmt.Errorf("messaging: nsq connect: %w", err)
	}

	select {
	case <-ctx.Done():
		consumer.Stop()
		<-consumer.StopChan
		return ctx.Err()
	case <-consumer.StopChan:
		return nil
	}
}

func fromNSQ(topic string, m *nsq.Message) *Message {
	msg := &Message{
		ID:        string(m.ID[:]),
		Topic:     topic,
		Body:      m.Body,
		Timestamp: time.Unix(0, m.Timestamp),
		ack:       func() error { m.Finish(); return nil },
		nack:      func() error { m.Requeue(-1); return nil },
	}

	var env nsqEnvelope
	if err := json.Unmarshal(m.Body, &env); err == nil && env.Body != nil {
		msg.Key = env.Key
		msg.Body = env.Body
		for k, v := range env.Headers {
			msg.Headers = append(msg.Headers, Header{Key: k, Value: []byte(v)})
		}
	}

	return msg
}

func (n *NSQ) Close() error {
	if n.producer != nil {
		n.producer.Stop()
	}
	return nil
}
