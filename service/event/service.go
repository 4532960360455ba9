// Package event provides typed publish/subscribe plumbing between the
// scheduler and its sinks. Queues are in-memory and buffered so that
// publishing from inside a tick never blocks on a slow consumer.
package event

import (
	"reflect"
	"sync"

	"github.com/viant/tarmac/service/messaging/memory"
)

// Service manages one publisher and at most one listener per payload type.
type Service struct {
	queueConfig     func(name string) memory.Config
	typedPublishers map[reflect.Type]any
	typedListeners  map[reflect.Type]any
	mux             sync.RWMutex
}

// Option customises the event service.
type Option func(s *Service)

// WithQueueConfig sets the per-queue configuration factory; name is the
// payload type name.
func WithQueueConfig(config func(name string) memory.Config) Option {
	return func(s *Service) {
		s.queueConfig = config
	}
}

// New creates an event service.
func New(opts ...Option) *Service {
	ret := &Service{
		typedPublishers: make(map[reflect.Type]any),
		typedListeners:  make(map[reflect.Type]any),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.queueConfig == nil {
		ret.queueConfig = func(string) memory.Config { return memory.DefaultConfig() }
	}
	return ret
}

// Shutdown stops all registered listeners.
func (s *Service) Shutdown() {
	s.mux.Lock()
	defer s.mux.Unlock()
	for key, l := range s.typedListeners {
		l.(interface{ Stop() }).Stop()
		delete(s.typedListeners, key)
	}
}

func keyOf[T any]() reflect.Type {
	var t T
	rType := reflect.TypeOf(t)
	if rType != nil && rType.Kind() == reflect.Ptr {
		rType = rType.Elem()
	}
	return rType
}

// PublisherOf returns the publisher for the payload type, creating it and its
// queue on first use.
func PublisherOf[T any](s *Service) *Publisher[T] {
	key := keyOf[T]()
	s.mux.RLock()
	ret, ok := s.typedPublishers[key]
	s.mux.RUnlock()
	if ok {
		return ret.(*Publisher[T])
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	if ret, ok = s.typedPublishers[key]; ok {
		return ret.(*Publisher[T])
	}
	queue := memory.NewQueue[Event[T]](s.queueConfig(key.String()))
	publisher := NewPublisher[T](queue)
	s.typedPublishers[key] = publisher
	return publisher
}

// SetListenerOf registers handler for the payload type, replacing and
// stopping any previous listener.
func SetListenerOf[T any](s *Service, handler func(*Event[T])) {
	key := keyOf[T]()
	s.mux.RLock()
	prev, ok := s.typedListeners[key]
	s.mux.RUnlock()
	if ok {
		prev.(*Listener[T]).Stop()
	}
	listener := NewListener[T](PublisherOf[T](s), handler)
	s.mux.Lock()
	s.typedListeners[key] = listener
	s.mux.Unlock()
	listener.Start()
}
