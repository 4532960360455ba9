package scheduler

import (
	"github.com/viant/tarmac/progress"
	"github.com/viant/tarmac/service/event"
	"github.com/viant/tarmac/service/ledger"
	"github.com/viant/tarmac/service/pool"
)

// Option customises the scheduler.
type Option func(s *Service)

// WithConfig sets the scheduler configuration.
func WithConfig(config Config) Option {
	return func(s *Service) { s.config = config }
}

// WithLedger sets the flight ledger.
func WithLedger(l *ledger.Service) Option {
	return func(s *Service) { s.ledger = l }
}

// WithPool sets the runway pool.
func WithPool(p *pool.Service) Option {
	return func(s *Service) { s.pool = p }
}

// WithEventService sets the event service used to publish traffic events.
func WithEventService(events *event.Service) Option {
	return func(s *Service) { s.events = events }
}

// WithTracker sets the live counter tracker.
func WithTracker(tracker *progress.Tracker) Option {
	return func(s *Service) { s.tracker = tracker }
}
