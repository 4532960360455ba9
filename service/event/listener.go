package event

import (
	"context"
	"errors"
)

// Listener drains a publisher's queue on a dedicated goroutine and hands each
// event to the registered handler. Handlers run sequentially, so sinks see
// events in publish order.
type Listener[T any] struct {
	publisher *Publisher[T]
	handler   func(*Event[T])
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewListener creates a listener; call Start to begin consumption.
func NewListener[T any](publisher *Publisher[T], handler func(*Event[T])) *Listener[T] {
	ctx, cancel := context.WithCancel(context.Background())
	return &Listener[T]{
		publisher: publisher,
		handler:   handler,
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
}

// Start launches the consumption loop.
func (l *Listener[T]) Start() {
	go func() {
		defer close(l.done)
		for {
			event, err := l.publisher.Consume(l.ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return
				}
				continue
			}
			if event != nil {
				l.handler(event)
			}
		}
	}()
}

// Stop cancels the loop and waits for it to drain the in-flight event.
func (l *Listener[T]) Stop() {
	l.cancel()
	<-l.done
}
