// Package traffic defines the structured events the scheduler emits on every
// notable transition. Events are published through the event service and
// consumed by sinks such as the journal; publishing is fire and forget and
// never fails a tick.
package traffic

// EventKind identifies a notable simulation transition.
type EventKind string

const (
	EventInitialLoad EventKind = "INITIAL_LOAD"
	EventEnqueued    EventKind = "ENQUEUED"
	EventEscalated   EventKind = "ESCALATED"
	EventAssigned    EventKind = "ASSIGNED"
	EventCompleted   EventKind = "COMPLETED"
	EventTerminated  EventKind = "TERMINATED"
)

// Event carries the details of one transition at a given simulated minute.
// FlightID and RunwayID are set only when relevant to the kind.
type Event struct {
	Tick     int               `json:"tick"`
	Kind     EventKind         `json:"kind"`
	FlightID string            `json:"flightId,omitempty"`
	RunwayID string            `json:"runwayId,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}
