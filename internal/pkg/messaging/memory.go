package messaging

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.uber.org/atomic"
)

const memoryBuffer = 256

type memoryGroup struct {
	ch   chan *Message
	refs int
}

// Memory is an in-process broker. Each consumer group (the first non-empty
// of group, queue group, channel, subscription) receives every message once;
// consumers without a group get their own copy.
type Memory struct {
	mu     sync.Mutex
	topics map[string]map[string]*memoryGroup
	closed bool
	done   chan struct{}

	seq *atomic.Uint64
}

func NewMemory() *Memory {
	return &Memory{
		topics: make(map[string]map[string]*memoryGroup),
		done:   make(chan struct{}),
		seq:    atomic.NewUint64(0),
	}
}

// Publish delivers to every group on topic, blocking while a group buffer is
// full. Messages to a topic without consumers are discarded.
func (m *Memory) Publish(ctx context.Context, topic string, msg Outgoing) error {
	if topic == "" {
		return ErrTopicRequired
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	targets := make([]chan *Message, 0, len(m.topics[topic]))
	for _, g := range m.topics[topic] {
		targets = append(targets, g.ch)
	}
	m.mu.Unlock()

	id := strconv.FormatUint(m.seq.Inc(), 10)
	now := time.Now()

	for _, ch := range targets {
		select {
		case ch <- &Message{ID: id, Topic: topic, Key: msg.Key, Body: msg.Body, Headers: msg.Headers, Timestamp: now}:
		case <-ctx.Done():
			return ctx.Err()
		case <-m.done:
			return ErrClosed
		}
	}

	return nil
}

func (m *Memory) Consume(ctx context.Context, topic string, handler Handler, opts ...ConsumeOption) error {
	if err := validateConsume(ctx, topic, handler); err != nil {
		return err
	}
	co := newConsumeOptions(opts...)

	name := firstNonEmpty(co.group, co.queueGroup, co.channel, co.subscription)
	if name == "" {
		name = "_" + strconv.FormatUint(m.seq.Inc(), 10)
	}

	ch, err := m.join(topic, name)
	if err != nil {
		return err
	}
	defer m.leave(topic, name)

	var wg sync.WaitGroup
	for range co.concurrency {
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-m.done:
					return
				case msg := <-ch:
					_ = dispatch(ctx, DriverMemory, handler, msg, co.autoAck)
				}
			}
		})
	}
	wg.Wait()

	return ctx.Err()
}

func (m *Memory) join(topic, name string) (chan *Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}
	if m.topics[topic] == nil {
		m.topics[topic] = make(map[string]*memoryGroup)
	}
	g, ok := m.topics[topic][name]
	if !ok {
		g = &memoryGroup{ch: make(chan *Message, memoryBuffer)}
		m.topics[topic][name] = g
	}
	g.refs++

	return g.ch, nil
}

func (m *Memory) leave(topic, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.topics[topic][name]
	if !ok {
		return
	}
	if g.refs--; g.refs == 0 {
		delete(m.topics[topic], name)
	}
}

// Close stops all consumers. Undelivered messages are dropped.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.closed {
		m.closed = true
		close(m.done)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
