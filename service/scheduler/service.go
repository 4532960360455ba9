// Package scheduler drives the simulation clock. Every tick executes, in
// fixed order: release due runways, escalate fuel-critical arrivals, assign
// free runways, burn waiting fuel, advance the clock. Ticks can be driven
// manually or by an autonomous wall-clock worker; a single mutex serialises
// both entry points so they never interleave inside a tick.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/viant/tarmac/internal/clock"
	"github.com/viant/tarmac/model/flight"
	"github.com/viant/tarmac/model/runway"
	"github.com/viant/tarmac/model/traffic"
	"github.com/viant/tarmac/progress"
	"github.com/viant/tarmac/service/event"
	"github.com/viant/tarmac/service/ledger"
	"github.com/viant/tarmac/service/pool"
	"github.com/viant/tarmac/tracing"
)

// State is the scheduler lifecycle state.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateRunning       State = "running"
	StateStopped       State = "stopped"
)

var (
	// ErrNotRunning is returned by operations that require a running
	// simulation. No state is mutated when it is returned.
	ErrNotRunning = errors.New("scheduler: simulation is not running")
)

// Summary is a point-in-time view of the simulation.
type Summary struct {
	Tick           int           `json:"tick"`
	State          State         `json:"state"`
	EnabledRunways int           `json:"enabledRunways"`
	Counts         ledger.Counts `json:"counts"`
}

// Service implements the simulation controller.
type Service struct {
	config    Config
	ledger    *ledger.Service
	pool      *pool.Service
	events    *event.Service
	publisher *event.Publisher[traffic.Event]
	tracker   *progress.Tracker

	// mux guards state, tick and one full tick execution.
	mux   sync.Mutex
	state State
	tick  int

	clockMu   sync.Mutex
	clockStop chan struct{}
	clockDone chan struct{}
}

// New creates a scheduler. The ledger and pool are required; missing
// collaborators are reported here, before any tick can execute.
func New(options ...Option) (*Service, error) {
	s := &Service{
		config: DefaultConfig(),
		state:  StateUninitialized,
	}
	for _, option := range options {
		option(s)
	}
	if s.ledger == nil {
		return nil, fmt.Errorf("scheduler: ledger is required")
	}
	if s.pool == nil {
		return nil, fmt.Errorf("scheduler: pool is required")
	}
	if s.events == nil {
		s.events = event.New()
	}
	if s.tracker == nil {
		s.tracker = &progress.Tracker{}
	}
	s.publisher = event.PublisherOf[traffic.Event](s.events)
	return s, nil
}

// Init starts a fresh run: the ledger, pool and tracker are cleared, the
// clock resets to zero, the supplied runways and flights register and the
// scheduler moves to RUNNING. Flights enqueue in slice order within their
// kind. Re-initialising a stopped scheduler never inherits the previous
// run's flights or counters.
func (s *Service) Init(ctx context.Context, flights []*flight.Flight, runways []*runway.Runway) error {
	s.mux.Lock()
	defer s.mux.Unlock()

	if err := s.ledger.Reset(ctx); err != nil {
		return err
	}
	if err := s.pool.Reset(ctx); err != nil {
		return err
	}
	s.tracker.Reset()
	s.tick = 0

	for _, r := range runways {
		if err := s.pool.Add(ctx, r); err != nil {
			return err
		}
	}
	s.publish(ctx, traffic.Event{
		Tick: s.tick,
		Kind: traffic.EventInitialLoad,
		Extra: map[string]string{
			"flights": strconv.Itoa(len(flights)),
			"runways": strconv.Itoa(len(runways)),
		},
	})
	for _, f := range flights {
		if err := s.ledger.Add(ctx, f); err != nil {
			return err
		}
		s.tracker.Update(progress.Delta{Waiting: 1, Total: 1})
		s.publish(ctx, traffic.Event{
			Tick:     s.tick,
			Kind:     traffic.EventEnqueued,
			FlightID: f.ID,
			Extra:    map[string]string{"kind": string(f.Kind)},
		})
	}
	s.tracker.StartedAt = clock.Now()
	s.state = StateRunning
	return nil
}

// AddFlight enqueues one flight mid-run.
func (s *Service) AddFlight(ctx context.Context, f *flight.Flight) error {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.state != StateRunning {
		return ErrNotRunning
	}
	if err := s.ledger.Add(ctx, f); err != nil {
		return err
	}
	s.tracker.Update(progress.Delta{Waiting: 1, Total: 1})
	s.publish(ctx, traffic.Event{
		Tick:     s.tick,
		Kind:     traffic.EventEnqueued,
		FlightID: f.ID,
		Extra:    map[string]string{"kind": string(f.Kind)},
	})
	return nil
}

// Tick advances the simulation by one minute. It fails with ErrNotRunning
// and mutates nothing unless the scheduler is RUNNING.
func (s *Service) Tick(ctx context.Context) (err error) {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.state != StateRunning {
		return ErrNotRunning
	}
	ctx, span := tracing.StartSpan(ctx, fmt.Sprintf("scheduler.tick %d", s.tick), "INTERNAL")
	defer func() { tracing.EndSpan(span, err) }()
	return s.tickLocked(ctx)
}

func (s *Service) tickLocked(ctx context.Context) error {
	// 1. release runways whose hold elapsed; their occupants complete now
	freed, err := s.pool.ReleaseDue(ctx, s.tick)
	if err != nil {
		return err
	}
	for _, id := range freed {
		if err := s.ledger.MarkCompleted(ctx, id, s.tick); err != nil {
			return err
		}
		s.tracker.Update(progress.Delta{Assigned: -1, Completed: 1})
		evt := traffic.Event{Tick: s.tick, Kind: traffic.EventCompleted, FlightID: id}
		if f, _ := s.ledger.Lookup(ctx, id); f != nil {
			evt.RunwayID = f.RunwayID
		}
		s.publish(ctx, evt)
	}

	// 2. promote fuel-critical arrivals to emergency (one shot)
	escalated, err := s.ledger.EscalateCritical(ctx)
	if err != nil {
		return err
	}
	for _, f := range escalated {
		s.publish(ctx, traffic.Event{
			Tick:     s.tick,
			Kind:     traffic.EventEscalated,
			FlightID: f.ID,
			Extra:    map[string]string{"reason": "fuel<=" + strconv.Itoa(flight.FuelCriticalThreshold)},
		})
	}

	// 3. hand every free runway to the best waiting candidate. Availability
	// is computed once per tick; it already includes the runways released
	// in step 1.
	available, err := s.pool.Available(ctx, s.tick)
	if err != nil {
		return err
	}
	for _, r := range available {
		candidate, err := s.ledger.Select(ctx, s.tick)
		if err != nil {
			return err
		}
		if candidate == nil {
			break
		}
		if err := s.pool.Assign(ctx, r.ID, candidate.ID, s.tick); err != nil {
			return err
		}
		candidate.RunwayID = r.ID
		if err := s.ledger.MarkAssigned(ctx, candidate.ID, s.tick); err != nil {
			return err
		}
		s.tracker.Update(progress.Delta{Waiting: -1, Assigned: 1})
		s.publish(ctx, traffic.Event{
			Tick:     s.tick,
			Kind:     traffic.EventAssigned,
			FlightID: candidate.ID,
			RunwayID: r.ID,
			Extra:    map[string]string{"kind": string(candidate.Kind)},
		})
	}

	// 4. burn one minute of fuel on everything still waiting
	if err := s.ledger.DecayFuel(ctx); err != nil {
		return err
	}

	// 5. advance the clock
	s.tick++
	return nil
}

// Advance runs up to n ticks, stopping early when a tick fails, and returns
// the number of ticks performed.
func (s *Service) Advance(ctx context.Context, n int) (int, error) {
	for i := 0; i < n; i++ {
		if err := s.Tick(ctx); err != nil {
			return i, err
		}
	}
	return n, nil
}

// StartClock launches the autonomous worker that ticks every TickInterval of
// wall-clock time. Starting an already running clock is a no-op.
func (s *Service) StartClock(ctx context.Context) error {
	s.mux.Lock()
	running := s.state == StateRunning
	s.mux.Unlock()
	if !running {
		return ErrNotRunning
	}

	s.clockMu.Lock()
	defer s.clockMu.Unlock()
	if s.clockStop != nil {
		return nil
	}
	stop := make(chan struct{})
	done := make(chan struct{})
	s.clockStop = stop
	s.clockDone = done
	go s.runClock(stop, done)
	return nil
}

// runClock acquires the tick mutex once per interval and never holds it
// across the wait.
func (s *Service) runClock(stop, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.config.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			// a wake-up racing the stop signal must not tick
			select {
			case <-stop:
				return
			default:
			}
			if err := s.Tick(context.Background()); errors.Is(err, ErrNotRunning) {
				return
			}
		}
	}
}

// StopClock signals the autonomous worker to halt and waits up to
// StopTimeout for it to finish. Stopping a stopped clock is a no-op.
func (s *Service) StopClock() error {
	s.clockMu.Lock()
	defer s.clockMu.Unlock()
	if s.clockStop == nil {
		return nil
	}
	close(s.clockStop)
	select {
	case <-s.clockDone:
	case <-time.After(s.config.StopTimeout):
		return fmt.Errorf("scheduler: autonomous clock did not stop within %s", s.config.StopTimeout)
	}
	s.clockStop = nil
	s.clockDone = nil
	return nil
}

// ClockRunning reports whether the autonomous worker is active.
func (s *Service) ClockRunning() bool {
	s.clockMu.Lock()
	defer s.clockMu.Unlock()
	return s.clockStop != nil
}

// Finalize stops the simulation: run state flips to STOPPED first so a
// concurrently woken autonomous tick refuses to execute, then the worker is
// joined and the termination event emitted. A stopped simulation can only
// come back through re-initialisation.
func (s *Service) Finalize(ctx context.Context) error {
	s.mux.Lock()
	if s.state != StateRunning {
		s.mux.Unlock()
		return ErrNotRunning
	}
	s.state = StateStopped
	tick := s.tick
	s.mux.Unlock()

	if err := s.StopClock(); err != nil {
		return err
	}
	s.publish(ctx, traffic.Event{
		Tick:  tick,
		Kind:  traffic.EventTerminated,
		Extra: map[string]string{"completed": strconv.Itoa(len(s.ledger.Completed()))},
	})
	return nil
}

// Summary returns the current clock value, run state, enabled runway count
// and ledger counts.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	s.mux.Lock()
	tick, state := s.tick, s.state
	s.mux.Unlock()

	enabled, err := s.pool.EnabledCount(ctx)
	if err != nil {
		return Summary{}, err
	}
	counts, err := s.ledger.Counts(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summary{Tick: tick, State: state, EnabledRunways: enabled, Counts: counts}, nil
}

// CurrentTick returns the clock value.
func (s *Service) CurrentTick() int {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.tick
}

// publish emits a traffic event, best effort; a full or failed queue never
// fails the tick.
func (s *Service) publish(ctx context.Context, evt traffic.Event) {
	if s.publisher == nil {
		return
	}
	_ = s.publisher.Publish(ctx, event.NewEvent(evt))
}
