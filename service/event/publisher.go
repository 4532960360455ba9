package event

import (
	"context"

	"github.com/viant/tarmac/internal/clock"
	"github.com/viant/tarmac/internal/idgen"
	"github.com/viant/tarmac/service/messaging"
)

// Publisher publishes typed events onto its queue.
type Publisher[T any] struct {
	queue messaging.Queue[Event[T]]
}

// NewPublisher creates a publisher over the supplied queue.
func NewPublisher[T any](queue messaging.Queue[Event[T]]) *Publisher[T] {
	return &Publisher[T]{queue: queue}
}

// Publish stamps the event envelope and enqueues it.
func (p *Publisher[T]) Publish(ctx context.Context, event *Event[T]) error {
	event.ID = idgen.New()
	event.CreatedAt = clock.Now()
	return p.queue.Publish(ctx, event)
}

// Consume retrieves and acknowledges a single event.
func (p *Publisher[T]) Consume(ctx context.Context) (*Event[T], error) {
	msg, err := p.queue.Consume(ctx)
	if err != nil || msg == nil {
		return nil, err
	}
	if err = msg.Ack(); err != nil {
		return nil, err
	}
	return msg.T(), nil
}
