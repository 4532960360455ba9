// Package memory provides a channel-backed messaging.Queue. It is the only
// queue flavour the simulator needs: events never have to survive a process
// restart, but publishing must stay cheap so a slow sink cannot stall a tick.
package memory

import (
	"fmt"
	"sync"
	"time"

	"context"

	"github.com/viant/tarmac/internal/idgen"
	"github.com/viant/tarmac/service/messaging"
)

// Config for the in-memory queue.
type Config struct {
	// MaxRedeliveries bounds how many times a nacked message is requeued
	// before it moves to the dead letter list.
	MaxRedeliveries int

	// RedeliveryDelay is the pause before a nacked message is requeued.
	RedeliveryDelay time.Duration

	// Buffer is the channel capacity; publishing beyond it blocks.
	Buffer int
}

// DefaultConfig returns the standard queue configuration.
func DefaultConfig() Config {
	return Config{
		MaxRedeliveries: 3,
		RedeliveryDelay: 100 * time.Millisecond,
		Buffer:          256,
	}
}

// Message implements messaging.Message for the in-memory queue.
type Message[T any] struct {
	id         string
	payload    T
	queue      *Queue[T]
	deliveries int
	mu         sync.Mutex
	settled    bool
}

// T returns the message payload.
func (m *Message[T]) T() *T {
	return &m.payload
}

// Ack marks the message as processed.
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settled {
		return fmt.Errorf("message %v already settled", m.id)
	}
	m.settled = true
	return nil
}

// Nack reports a processing failure. The message is requeued after the
// redelivery delay until the redelivery budget is exhausted, then parked on
// the dead letter list.
func (m *Message[T]) Nack(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settled {
		return fmt.Errorf("message %v already settled", m.id)
	}
	m.settled = true
	m.deliveries++

	if m.deliveries <= m.queue.config.MaxRedeliveries {
		go m.queue.redeliver(m)
		return nil
	}
	m.queue.deadLetter(m)
	return nil
}

// Queue implements an in-memory messaging.Queue.
type Queue[T any] struct {
	config   Config
	messages chan *Message[T]
	dlqMu    sync.Mutex
	dlq      []*Message[T]
}

var _ messaging.Queue[any] = (*Queue[any])(nil)

// NewQueue creates an in-memory queue.
func NewQueue[T any](config Config) *Queue[T] {
	if config.Buffer <= 0 {
		config.Buffer = DefaultConfig().Buffer
	}
	return &Queue[T]{
		config:   config,
		messages: make(chan *Message[T], config.Buffer),
	}
}

// Publish adds a new payload to the queue.
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	msg := &Message[T]{
		id:      idgen.New(),
		payload: *t,
		queue:   q,
	}
	select {
	case q.messages <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume retrieves a single message from the queue.
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	select {
	case msg := <-q.messages:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Size returns the number of undelivered messages.
func (q *Queue[T]) Size() int {
	return len(q.messages)
}

// DLQSize returns the number of dead-lettered messages.
func (q *Queue[T]) DLQSize() int {
	q.dlqMu.Lock()
	defer q.dlqMu.Unlock()
	return len(q.dlq)
}

func (q *Queue[T]) redeliver(m *Message[T]) {
	time.Sleep(q.config.RedeliveryDelay)
	next := &Message[T]{
		id:         m.id,
		payload:    m.payload,
		queue:      q,
		deliveries: m.deliveries,
	}
	q.messages <- next
}

func (q *Queue[T]) deadLetter(m *Message[T]) {
	q.dlqMu.Lock()
	q.dlq = append(q.dlq, m)
	q.dlqMu.Unlock()
}
