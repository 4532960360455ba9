package runway

// Runway is a single exclusively held resource. Each assignment occupies the
// runway for HoldMinutes simulated minutes. A disabled runway is permanently
// excluded from selection but keeps reporting its state.
type Runway struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	HoldMinutes int    `json:"holdMinutes"`
	Enabled     bool   `json:"enabled"`

	// Dynamic state, owned by the pool. Occupied and FlightID are always
	// both set or both cleared.
	Occupied    bool   `json:"occupied"`
	FlightID    string `json:"flightId,omitempty"`
	ReleaseTick *int   `json:"releaseTick,omitempty"`
	Operations  int    `json:"operations"`
}

// New creates an idle runway.
func New(id, category string, holdMinutes int, enabled bool) *Runway {
	return &Runway{
		ID:          id,
		Category:    category,
		HoldMinutes: holdMinutes,
		Enabled:     enabled,
	}
}

// Assign occupies the runway with the given flight until
// tick+HoldMinutes and bumps the lifetime operation counter. The caller must
// have confirmed availability beforehand.
func (r *Runway) Assign(flightID string, tick int) {
	release := tick + r.HoldMinutes
	r.Occupied = true
	r.FlightID = flightID
	r.ReleaseTick = &release
	r.Operations++
}

// Release frees the runway and returns the id of the flight that held it.
func (r *Runway) Release() string {
	freed := r.FlightID
	r.Occupied = false
	r.FlightID = ""
	r.ReleaseTick = nil
	return freed
}

// AvailableAt reports whether the runway can take an assignment at the given
// tick: it must be enabled and either idle or due for release. A runway that
// is due but not yet released still has to be released before reassignment so
// that operation counters stay correct.
func (r *Runway) AvailableAt(tick int) bool {
	if !r.Enabled {
		return false
	}
	if !r.Occupied {
		return true
	}
	return r.ReleaseTick != nil && *r.ReleaseTick <= tick
}

// DueAt reports whether an occupied runway has reached its release tick.
func (r *Runway) DueAt(tick int) bool {
	return r.Occupied && r.ReleaseTick != nil && *r.ReleaseTick <= tick
}
