package flight

import "strings"

// Kind discriminates the two traffic directions a flight can take.
type Kind string

const (
	KindArrival   Kind = "ARRIVAL"
	KindDeparture Kind = "DEPARTURE"
)

// Flight lifecycle states.
const (
	StateWaiting  = "WAITING"
	StateAssigned = "ASSIGNED"
	StateDone     = "DONE"
)

// Priority levels. Priority only ever escalates, it is never demoted.
const (
	PriorityNormal    = 0
	PriorityHigh      = 1
	PriorityEmergency = 2
)

// FuelCriticalThreshold is the remaining-fuel level (in simulated minutes) at
// or below which an arrival is considered fuel critical.
const FuelCriticalThreshold = 5

// Flight represents a single arrival or departure competing for a runway.
// ETA is only meaningful for arrivals, ETD only for departures; the
// constructor enforces that exclusivity. Fuel tracks remaining autonomy in
// simulated minutes and is present only on arrivals.
type Flight struct {
	ID       string `json:"id"`
	Kind     Kind   `json:"kind"`
	ETA      *int   `json:"eta,omitempty"`
	ETD      *int   `json:"etd,omitempty"`
	Priority int    `json:"priority"`
	Fuel     *int   `json:"fuel,omitempty"`
	State    string `json:"state"`

	// Assignment history, populated by the scheduler. RunwayID is retained
	// after completion.
	RunwayID  string `json:"runwayId,omitempty"`
	StartTick *int   `json:"startTick,omitempty"`
	EndTick   *int   `json:"endTick,omitempty"`
}

// Option customises flight construction.
type Option func(f *Flight)

// WithETA sets the expected arrival minute.
func WithETA(eta int) Option {
	return func(f *Flight) { f.ETA = &eta }
}

// WithETD sets the expected departure minute.
func WithETD(etd int) Option {
	return func(f *Flight) { f.ETD = &etd }
}

// WithPriority sets the initial priority.
func WithPriority(priority int) Option {
	return func(f *Flight) { f.Priority = priority }
}

// WithFuel sets the remaining-fuel counter.
func WithFuel(minutes int) Option {
	return func(f *Flight) { f.Fuel = &minutes }
}

// WithState overrides the initial lifecycle state (used by the loader when
// restoring persisted records).
func WithState(state string) Option {
	return func(f *Flight) { f.State = state }
}

// New creates a flight. The kind is normalised to upper case; a time or fuel
// value that does not apply to the kind is discarded so that the
// ETA/ETD exclusivity invariant holds from construction.
func New(id string, kind Kind, options ...Option) *Flight {
	ret := &Flight{
		ID:    id,
		Kind:  Kind(strings.ToUpper(string(kind))),
		State: StateWaiting,
	}
	for _, option := range options {
		option(ret)
	}
	if ret.Kind == KindArrival {
		ret.ETD = nil
	} else {
		ret.ETA = nil
		ret.Fuel = nil
	}
	return ret
}

// ScheduledTime returns the expected minute relevant to the flight kind, or
// nil when none was provided.
func (f *Flight) ScheduledTime() *int {
	if f.Kind == KindArrival {
		return f.ETA
	}
	return f.ETD
}

// Lateness reports how many minutes past its expected time the flight has
// been waiting at the given tick, never negative. A flight without an
// expected time is treated as scheduled at minute 0.
func (f *Flight) Lateness(tick int) int {
	scheduled := 0
	if t := f.ScheduledTime(); t != nil {
		scheduled = *t
	}
	if late := tick - scheduled; late > 0 {
		return late
	}
	return 0
}

// IsFuelCritical reports whether an arrival has fallen to the critical fuel
// threshold. Departures and arrivals without a fuel counter are never
// critical.
func (f *Flight) IsFuelCritical() bool {
	if f.Kind != KindArrival || f.Fuel == nil {
		return false
	}
	return *f.Fuel <= FuelCriticalThreshold
}

// IsEmergency reports whether the flight carries emergency priority.
func (f *Flight) IsEmergency() bool {
	return f.Priority == PriorityEmergency
}
