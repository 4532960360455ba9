package progress

import (
	"sync"
	"time"
)

// Delta represents an incremental counter change emitted by the scheduler.
// Fields are signed so a flight moving between states can decrement one
// counter and increment another in a single update.
type Delta struct {
	Waiting   int
	Assigned  int
	Completed int
	Total     int
}

// Snapshot is a point-in-time copy of the counters, safe to pass around.
type Snapshot struct {
	Run       string
	StartedAt time.Time
	Waiting   int
	Assigned  int
	Completed int
	Total     int
}

// Tracker keeps aggregated flight counters for one run. It is safe for
// concurrent use.
type Tracker struct {
	// Identification, informative only. Set before the run starts.
	Run       string
	StartedAt time.Time

	mu        sync.Mutex
	waiting   int
	assigned  int
	completed int
	total     int
	onChange  func(Snapshot)
}

// Update applies the supplied delta. If an onChange callback is registered it
// is invoked with a snapshot outside the critical section so slow consumers
// (rendering, I/O) never block the scheduler.
func (t *Tracker) Update(d Delta) {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.waiting += d.Waiting
	t.assigned += d.Assigned
	t.completed += d.Completed
	t.total += d.Total

	snapshot := t.snapshotLocked()
	cb := t.onChange
	t.mu.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Reset zeroes the counters for a new run. The registered callback survives.
func (t *Tracker) Reset() {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.waiting, t.assigned, t.completed, t.total = 0, 0, 0, 0
	t.mu.Unlock()
}

// OnChange registers a callback invoked after every update.
func (t *Tracker) OnChange(fn func(Snapshot)) {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.onChange = fn
	t.mu.Unlock()
}

// Snapshot returns a copy suitable for read-only inspection.
func (t *Tracker) Snapshot() Snapshot {
	if t == nil {
		return Snapshot{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Tracker) snapshotLocked() Snapshot {
	return Snapshot{
		Run:       t.Run,
		StartedAt: t.StartedAt,
		Waiting:   t.waiting,
		Assigned:  t.assigned,
		Completed: t.completed,
		Total:     t.total,
	}
}
