// Package ledger tracks every flight known to the simulation: the two
// waiting queues (arrivals and departures), the id index and the completed
// list. It owns priority selection; the scheduler asks it for the next
// candidate whenever a runway frees up.
package ledger

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/viant/tarmac/model/flight"
	"github.com/viant/tarmac/policy"
	"github.com/viant/tarmac/service/dao"
	flightmem "github.com/viant/tarmac/service/dao/flight/memory"
)

// Counts summarises the ledger by lifecycle state.
type Counts struct {
	Waiting   int `json:"waiting"`
	Assigned  int `json:"assigned"`
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// Status is a read-only snapshot of one flight.
type Status struct {
	ID       string
	Kind     flight.Kind
	State    string
	Priority int
	Fuel     *int
	RunwayID string
}

// Service implements the flight ledger. Queue slices hold flight ids in
// insertion order; the registry indexes every flight ever added.
type Service struct {
	registry   *flightmem.Service
	policy     *policy.Policy
	mux        sync.RWMutex
	arrivals   []string
	departures []string
	completed  []*flight.Flight
}

// Option customises the ledger.
type Option func(s *Service)

// WithPolicy sets the selection policy.
func WithPolicy(p *policy.Policy) Option {
	return func(s *Service) { s.policy = p }
}

// WithRegistry sets the flight registry.
func WithRegistry(registry *flightmem.Service) Option {
	return func(s *Service) { s.registry = registry }
}

// New creates a ledger.
func New(options ...Option) *Service {
	ret := &Service{}
	for _, option := range options {
		option(ret)
	}
	if ret.registry == nil {
		ret.registry = flightmem.New()
	}
	if ret.policy == nil {
		ret.policy = policy.Default()
	}
	return ret
}

// Reset forgets every flight, queue entry and completed record so a
// re-initialised run starts from an empty ledger.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.registry.Clear(ctx); err != nil {
		return err
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	s.arrivals = nil
	s.departures = nil
	s.completed = nil
	return nil
}

// Add registers a flight and appends it to the queue matching its kind.
// A duplicate id overwrites the registry entry.
func (s *Service) Add(ctx context.Context, f *flight.Flight) error {
	if f == nil {
		return dao.ErrNilEntity
	}
	if err := s.registry.Save(ctx, f); err != nil {
		return err
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	if f.Kind == flight.KindArrival {
		s.arrivals = append(s.arrivals, f.ID)
	} else {
		s.departures = append(s.departures, f.ID)
	}
	return nil
}

// Select returns the highest-priority waiting flight for the given tick, or
// nil when both queues are empty. The arrival queue is always considered
// first; only when it yields no candidate does the departure queue get a
// turn. The selected flight stays queued until MarkAssigned.
func (s *Service) Select(ctx context.Context, tick int) (*flight.Flight, error) {
	s.mux.RLock()
	arrivals := append([]string(nil), s.arrivals...)
	departures := append([]string(nil), s.departures...)
	s.mux.RUnlock()

	if best, err := s.best(ctx, arrivals, tick); err != nil || best != nil {
		return best, err
	}
	return s.best(ctx, departures, tick)
}

func (s *Service) best(ctx context.Context, ids []string, tick int) (*flight.Flight, error) {
	var ret *flight.Flight
	for _, id := range ids {
		candidate, err := s.registry.Load(ctx, id)
		if err != nil {
			if errors.Is(err, dao.ErrNotFound) {
				continue
			}
			return nil, err
		}
		if ret == nil || s.outranks(candidate, ret, tick) {
			ret = candidate
		}
	}
	return ret, nil
}

// outranks reports whether a beats b under the selection order: priority,
// fuel-critical flag, lateness, then the policy id tie-break.
func (s *Service) outranks(a, b *flight.Flight, tick int) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	if ac, bc := a.IsFuelCritical(), b.IsFuelCritical(); ac != bc {
		return ac
	}
	if al, bl := a.Lateness(tick), b.Lateness(tick); al != bl {
		return al > bl
	}
	if s.policy.PreferSmallerID() {
		return a.ID < b.ID
	}
	return a.ID > b.ID
}

// MarkAssigned moves a waiting flight to ASSIGNED, records its start tick and
// removes it from whichever queue holds it. Unknown ids are ignored.
func (s *Service) MarkAssigned(ctx context.Context, id string, tick int) error {
	f, err := s.registry.Load(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return nil
		}
		return err
	}
	f.State = flight.StateAssigned
	start := tick
	f.StartTick = &start

	s.mux.Lock()
	s.arrivals = remove(s.arrivals, id)
	s.departures = remove(s.departures, id)
	s.mux.Unlock()
	return nil
}

// MarkCompleted moves an assigned flight to DONE and records its end tick.
// Completing an already completed flight is a no-op, so repeated releases
// never duplicate the completed list or rewrite recorded ticks.
func (s *Service) MarkCompleted(ctx context.Context, id string, tick int) error {
	f, err := s.registry.Load(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return nil
		}
		return err
	}
	if f.State == flight.StateDone {
		return nil
	}
	f.State = flight.StateDone
	end := tick
	f.EndTick = &end

	s.mux.Lock()
	s.completed = append(s.completed, f)
	s.mux.Unlock()
	return nil
}

// DecayFuel burns one minute of fuel on every waiting arrival, flooring at
// zero.
func (s *Service) DecayFuel(ctx context.Context) error {
	s.mux.RLock()
	ids := append([]string(nil), s.arrivals...)
	s.mux.RUnlock()
	for _, id := range ids {
		f, err := s.registry.Load(ctx, id)
		if err != nil {
			if errors.Is(err, dao.ErrNotFound) {
				continue
			}
			return err
		}
		if f.State == flight.StateWaiting && f.Fuel != nil && *f.Fuel > 0 {
			*f.Fuel--
		}
	}
	return nil
}

// EscalateCritical promotes every waiting fuel-critical arrival below
// emergency priority to emergency and returns the promoted flights. A flight
// already at emergency is never touched again, and priority never decreases.
func (s *Service) EscalateCritical(ctx context.Context) ([]*flight.Flight, error) {
	s.mux.RLock()
	ids := append([]string(nil), s.arrivals...)
	s.mux.RUnlock()
	var escalated []*flight.Flight
	for _, id := range ids {
		f, err := s.registry.Load(ctx, id)
		if err != nil {
			if errors.Is(err, dao.ErrNotFound) {
				continue
			}
			return nil, err
		}
		if f.State == flight.StateWaiting && f.Priority < flight.PriorityEmergency && f.IsFuelCritical() {
			f.Priority = flight.PriorityEmergency
			escalated = append(escalated, f)
		}
	}
	return escalated, nil
}

// Lookup returns a flight by id, or nil when unknown.
func (s *Service) Lookup(ctx context.Context, id string) (*flight.Flight, error) {
	f, err := s.registry.Load(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return f, nil
}

// Counts returns the ledger summary: waiting is the sum of both queues,
// assigned counts registry entries in ASSIGNED state, completed is the
// completed-list length and total the registry size.
func (s *Service) Counts(ctx context.Context) (Counts, error) {
	assigned, err := s.registry.List(ctx, dao.NewParameter("State", flight.StateAssigned))
	if err != nil {
		return Counts{}, err
	}
	s.mux.RLock()
	defer s.mux.RUnlock()
	return Counts{
		Waiting:   len(s.arrivals) + len(s.departures),
		Assigned:  len(assigned),
		Completed: len(s.completed),
		Total:     s.registry.Size(),
	}, nil
}

// Completed returns a copy of the completed list in completion order.
func (s *Service) Completed() []*flight.Flight {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return append([]*flight.Flight(nil), s.completed...)
}

// Flights returns every known flight sorted by id.
func (s *Service) Flights(ctx context.Context) ([]*flight.Flight, error) {
	all, err := s.registry.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

// Statuses returns a per-flight snapshot sorted by id.
func (s *Service) Statuses(ctx context.Context) ([]Status, error) {
	all, err := s.Flights(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Status, 0, len(all))
	for _, f := range all {
		out = append(out, Status{
			ID:       f.ID,
			Kind:     f.Kind,
			State:    f.State,
			Priority: f.Priority,
			Fuel:     f.Fuel,
			RunwayID: f.RunwayID,
		})
	}
	return out, nil
}

func remove(ids []string, id string) []string {
	out := ids[:0]
	for _, candidate := range ids {
		if candidate != id {
			out = append(out, candidate)
		}
	}
	return out
}
