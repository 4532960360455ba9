package tarmac

import (
	"context"
	"fmt"

	"github.com/viant/tarmac/model/flight"
	"github.com/viant/tarmac/progress"
	"github.com/viant/tarmac/service/journal"
	"github.com/viant/tarmac/service/ledger"
	"github.com/viant/tarmac/service/loader"
	"github.com/viant/tarmac/service/pool"
	"github.com/viant/tarmac/service/report"
	"github.com/viant/tarmac/service/scheduler"
)

// Runtime exposes the assembled simulation to callers: loading data,
// advancing the clock manually or autonomously, inspecting state and
// producing the end-of-run report.
type Runtime struct {
	scheduler *scheduler.Service
	ledger    *ledger.Service
	pool      *pool.Service
	loader    *loader.Service
	report    *report.Service
	journal   *journal.Service
	tracker   *progress.Tracker
}

// Load reads the flight and runway CSV files, truncates the journal and
// initialises the simulation at minute zero. Malformed records are returned
// for the caller to surface; they never fail the load.
func (r *Runtime) Load(ctx context.Context) ([]*loader.ValidationError, error) {
	flights, skippedFlights, err := r.loader.LoadFlights(ctx)
	if err != nil {
		return nil, err
	}
	runways, skippedRunways, err := r.loader.LoadRunways(ctx)
	if err != nil {
		return nil, err
	}
	if len(runways) == 0 {
		return nil, fmt.Errorf("no usable runways in %s", r.loader.RunwaysURL())
	}
	if err := r.journal.Reset(); err != nil {
		return nil, err
	}
	skipped := append(skippedFlights, skippedRunways...)
	if err := r.scheduler.Init(ctx, flights, runways); err != nil {
		return skipped, err
	}
	return skipped, nil
}

// AddFlight enqueues one flight mid-run.
func (r *Runtime) AddFlight(ctx context.Context, f *flight.Flight) error {
	return r.scheduler.AddFlight(ctx, f)
}

// Tick advances the simulation by one minute.
func (r *Runtime) Tick(ctx context.Context) error {
	return r.scheduler.Tick(ctx)
}

// Advance runs up to n ticks and returns the number performed.
func (r *Runtime) Advance(ctx context.Context, n int) (int, error) {
	return r.scheduler.Advance(ctx, n)
}

// StartClock launches the autonomous wall-clock driver.
func (r *Runtime) StartClock(ctx context.Context) error {
	return r.scheduler.StartClock(ctx)
}

// StopClock halts the autonomous driver.
func (r *Runtime) StopClock() error {
	return r.scheduler.StopClock()
}

// ClockRunning reports whether the autonomous driver is active.
func (r *Runtime) ClockRunning() bool {
	return r.scheduler.ClockRunning()
}

// Summary returns clock, state and counts.
func (r *Runtime) Summary(ctx context.Context) (scheduler.Summary, error) {
	return r.scheduler.Summary(ctx)
}

// FlightStatuses returns a stable snapshot of every flight.
func (r *Runtime) FlightStatuses(ctx context.Context) ([]ledger.Status, error) {
	return r.ledger.Statuses(ctx)
}

// RunwayStatuses returns a stable snapshot of every runway.
func (r *Runtime) RunwayStatuses(ctx context.Context) ([]pool.Status, error) {
	return r.pool.Statuses(ctx)
}

// Progress returns a snapshot of the live counters.
func (r *Runtime) Progress() progress.Snapshot {
	return r.tracker.Snapshot()
}

// Report computes the end-of-run summary from the current state and persists
// its rendered form.
func (r *Runtime) Report(ctx context.Context) (report.Snapshot, error) {
	flights, err := r.ledger.Flights(ctx)
	if err != nil {
		return report.Snapshot{}, err
	}
	runways, err := r.pool.Runways(ctx)
	if err != nil {
		return report.Snapshot{}, err
	}
	snapshot := report.Build(r.scheduler.CurrentTick(), flights, runways)
	if err := r.report.Write(ctx, snapshot); err != nil {
		return snapshot, err
	}
	return snapshot, nil
}

// ReadReport returns the persisted report text.
func (r *Runtime) ReadReport(ctx context.Context) (string, error) {
	return r.report.Read(ctx)
}

// SaveFlights writes the current flight state back to the flights CSV.
func (r *Runtime) SaveFlights(ctx context.Context) error {
	flights, err := r.ledger.Flights(ctx)
	if err != nil {
		return err
	}
	return r.loader.SaveFlights(ctx, flights)
}

// Finalize stops the simulation, joining the autonomous driver when active.
func (r *Runtime) Finalize(ctx context.Context) error {
	return r.scheduler.Finalize(ctx)
}
