package tarmac

import (
	"github.com/viant/afs/storage"

	"github.com/viant/tarmac/policy"
	"github.com/viant/tarmac/progress"
	"github.com/viant/tarmac/service/event"
	"github.com/viant/tarmac/service/journal"
	"github.com/viant/tarmac/service/ledger"
	"github.com/viant/tarmac/service/loader"
	"github.com/viant/tarmac/service/pool"
	"github.com/viant/tarmac/service/report"
	"github.com/viant/tarmac/service/scheduler"
)

// Service represents the tower service: the assembled simulation engine with
// its loader, journal and report collaborators.
type Service struct {
	runtime       *Runtime
	config        *Config
	events        *event.Service
	tracker       *progress.Tracker
	journal       *journal.Service
	dataFsOptions []storage.Option
}

func (s *Service) init(options []Option) {
	for _, option := range options {
		option(s)
	}
	s.ensureBaseSetup()

	s.runtime.ledger = ledger.New(ledger.WithPolicy(policy.FromConfig(&s.config.Policy)))
	s.runtime.pool = pool.New(nil)
	s.runtime.scheduler, _ = scheduler.New(
		scheduler.WithConfig(s.config.Scheduler),
		scheduler.WithLedger(s.runtime.ledger),
		scheduler.WithPool(s.runtime.pool),
		scheduler.WithEventService(s.events),
		scheduler.WithTracker(s.tracker))
	s.journal.Attach(s.events)

	s.runtime.loader = loader.New(
		loader.WithConfig(s.config.Loader),
		loader.WithFSOptions(s.dataFsOptions...))
	s.runtime.report = report.New(report.WithConfig(s.config.Report))
	s.runtime.journal = s.journal
	s.runtime.tracker = s.tracker
}

func (s *Service) ensureBaseSetup() {
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if s.events == nil {
		s.events = event.New()
	}
	if s.tracker == nil {
		s.tracker = &progress.Tracker{}
	}
	if s.journal == nil {
		s.journal = journal.New(journal.WithConfig(s.config.Journal))
	}
}

// Runtime returns the simulation runtime.
func (s *Service) Runtime() *Runtime {
	return s.runtime
}

// Events returns the event service, so callers can attach extra listeners.
func (s *Service) Events() *event.Service {
	return s.events
}

// Shutdown stops event listeners and closes the journal.
func (s *Service) Shutdown() {
	s.events.Shutdown()
	_ = s.journal.Close()
}

// New creates a tower service.
func New(options ...Option) *Service {
	ret := &Service{runtime: &Runtime{}, config: DefaultConfig()}
	ret.init(options)
	return ret
}
