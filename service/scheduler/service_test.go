package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/tarmac/model/flight"
	"github.com/viant/tarmac/model/runway"
	"github.com/viant/tarmac/model/traffic"
	"github.com/viant/tarmac/policy"
	"github.com/viant/tarmac/service/event"
	"github.com/viant/tarmac/service/ledger"
	"github.com/viant/tarmac/service/pool"
)

func newTestScheduler(t *testing.T, options ...Option) *Service {
	t.Helper()
	base := []Option{
		WithLedger(ledger.New(ledger.WithPolicy(policy.Default()))),
		WithPool(pool.New(nil)),
	}
	srv, err := New(append(base, options...)...)
	if !assert.Nil(t, err) {
		t.FailNow()
	}
	return srv
}

func TestService_New_requiresCollaborators(t *testing.T) {
	_, err := New(WithPool(pool.New(nil)))
	assert.NotNil(t, err)
	_, err = New(WithLedger(ledger.New()))
	assert.NotNil(t, err)
}

func TestService_Tick_requiresRunning(t *testing.T) {
	srv := newTestScheduler(t)
	ctx := context.Background()

	err := srv.Tick(ctx)
	assert.True(t, errors.Is(err, ErrNotRunning))
	assert.Equal(t, 0, srv.CurrentTick())

	err = srv.AddFlight(ctx, flight.New("IB100", flight.KindArrival))
	assert.True(t, errors.Is(err, ErrNotRunning))
}

// A single arrival on a single runway with a two minute hold completes two
// ticks after assignment.
func TestService_singleFlightLifecycle(t *testing.T) {
	srv := newTestScheduler(t)
	ctx := context.Background()

	eta, fuel := 0, 30
	arrival := flight.New("IB100", flight.KindArrival, flight.WithETA(eta), flight.WithFuel(fuel))
	err := srv.Init(ctx, []*flight.Flight{arrival}, []*runway.Runway{runway.New("R1", "MAIN", 2, true)})
	assert.Nil(t, err)

	summary, err := srv.Summary(ctx)
	assert.Nil(t, err)
	assert.Equal(t, StateRunning, summary.State)
	assert.Equal(t, 1, summary.Counts.Waiting)
	assert.Equal(t, 1, summary.EnabledRunways)

	// t=0: assigned
	assert.Nil(t, srv.Tick(ctx))
	f, err := srv.ledger.Lookup(ctx, "IB100")
	assert.Nil(t, err)
	assert.Equal(t, flight.StateAssigned, f.State)
	assert.Equal(t, "R1", f.RunwayID)
	if assert.NotNil(t, f.StartTick) {
		assert.Equal(t, 0, *f.StartTick)
	}

	// t=1: still held
	assert.Nil(t, srv.Tick(ctx))
	f, _ = srv.ledger.Lookup(ctx, "IB100")
	assert.Equal(t, flight.StateAssigned, f.State)

	// t=2: hold elapsed, flight completes
	assert.Nil(t, srv.Tick(ctx))
	f, _ = srv.ledger.Lookup(ctx, "IB100")
	assert.Equal(t, flight.StateDone, f.State)
	if assert.NotNil(t, f.EndTick) {
		assert.Equal(t, 2, *f.EndTick)
	}
	assert.Equal(t, 3, srv.CurrentTick())

	summary, _ = srv.Summary(ctx)
	assert.Equal(t, 1, summary.Counts.Completed)
	assert.Equal(t, 0, summary.Counts.Waiting)
}

// A low-fuel arrival escalates to emergency before assignment and wins the
// only runway regardless of insertion order.
func TestService_fuelCriticalEscalation(t *testing.T) {
	srv := newTestScheduler(t)
	ctx := context.Background()

	eta := 0
	comfortable, low := 10, 3
	flights := []*flight.Flight{
		flight.New("IB1", flight.KindArrival, flight.WithETA(eta), flight.WithFuel(comfortable)),
		flight.New("IB2", flight.KindArrival, flight.WithETA(eta), flight.WithFuel(low)),
	}
	err := srv.Init(ctx, flights, []*runway.Runway{runway.New("R1", "MAIN", 5, true)})
	assert.Nil(t, err)

	assert.Nil(t, srv.Tick(ctx))

	winner, _ := srv.ledger.Lookup(ctx, "IB2")
	assert.Equal(t, flight.StateAssigned, winner.State)
	assert.Equal(t, flight.PriorityEmergency, winner.Priority)
	loser, _ := srv.ledger.Lookup(ctx, "IB1")
	assert.Equal(t, flight.StateWaiting, loser.State)
}

// An emergency inserted mid-run outranks everything already queued.
func TestService_midRunEmergency(t *testing.T) {
	srv := newTestScheduler(t)
	ctx := context.Background()

	eta := 0
	fuel := 60
	flights := []*flight.Flight{
		flight.New("IB1", flight.KindArrival, flight.WithETA(eta), flight.WithFuel(fuel)),
		flight.New("IB2", flight.KindArrival, flight.WithETA(eta), flight.WithFuel(fuel)),
	}
	// keep the runway busy for the first two ticks
	err := srv.Init(ctx, flights, []*runway.Runway{runway.New("R1", "MAIN", 2, true)})
	assert.Nil(t, err)
	assert.Nil(t, srv.Tick(ctx))

	err = srv.AddFlight(ctx, flight.New("IB9", flight.KindArrival,
		flight.WithETA(1), flight.WithFuel(40), flight.WithPriority(flight.PriorityEmergency)))
	assert.Nil(t, err)

	assert.Nil(t, srv.Tick(ctx)) // t=1, runway still held
	assert.Nil(t, srv.Tick(ctx)) // t=2, release then reassign

	emergency, _ := srv.ledger.Lookup(ctx, "IB9")
	assert.Equal(t, flight.StateAssigned, emergency.State)
	// IB2 won the first assignment under the descending tie-break, so IB1
	// is the one still queued behind the emergency
	waiting, _ := srv.ledger.Lookup(ctx, "IB1")
	assert.Equal(t, flight.StateWaiting, waiting.State)
}

func TestService_Advance(t *testing.T) {
	srv := newTestScheduler(t)
	ctx := context.Background()

	err := srv.Init(ctx, nil, []*runway.Runway{runway.New("R1", "MAIN", 1, true)})
	assert.Nil(t, err)

	done, err := srv.Advance(ctx, 5)
	assert.Nil(t, err)
	assert.Equal(t, 5, done)
	assert.Equal(t, 5, srv.CurrentTick())
}

func TestService_Finalize(t *testing.T) {
	srv := newTestScheduler(t)
	ctx := context.Background()

	assert.Nil(t, srv.Init(ctx, nil, nil))
	assert.Nil(t, srv.Finalize(ctx))

	summary, err := srv.Summary(ctx)
	assert.Nil(t, err)
	assert.Equal(t, StateStopped, summary.State)

	err = srv.Tick(ctx)
	assert.True(t, errors.Is(err, ErrNotRunning))
	err = srv.Finalize(ctx)
	assert.True(t, errors.Is(err, ErrNotRunning))
}

// Initialising again after finalize starts a clean run: nothing from the
// previous run's ledger, counters or clock leaks into the new one, and the
// new load events carry the reset clock value.
func TestService_reinitializeStartsClean(t *testing.T) {
	events := event.New()
	srv := newTestScheduler(t, WithEventService(events))
	ctx := context.Background()
	defer events.Shutdown()

	var mu sync.Mutex
	var loads []traffic.Event
	event.SetListenerOf(events, func(evt *event.Event[traffic.Event]) {
		if evt.Data.Kind != traffic.EventInitialLoad {
			return
		}
		mu.Lock()
		loads = append(loads, evt.Data)
		mu.Unlock()
	})

	first := flight.New("IB1", flight.KindArrival, flight.WithETA(0), flight.WithFuel(30))
	assert.Nil(t, srv.Init(ctx, []*flight.Flight{first}, []*runway.Runway{runway.New("R1", "MAIN", 1, true)}))
	done, err := srv.Advance(ctx, 3)
	assert.Nil(t, err)
	assert.Equal(t, 3, done)
	assert.Nil(t, srv.Finalize(ctx))

	second := flight.New("IB2", flight.KindArrival, flight.WithETA(0), flight.WithFuel(30))
	assert.Nil(t, srv.Init(ctx, []*flight.Flight{second}, []*runway.Runway{runway.New("R1", "MAIN", 1, true)}))

	summary, err := srv.Summary(ctx)
	assert.Nil(t, err)
	assert.Equal(t, StateRunning, summary.State)
	assert.Equal(t, 0, summary.Tick)
	assert.Equal(t, ledger.Counts{Waiting: 1, Total: 1}, summary.Counts)
	assert.Empty(t, srv.ledger.Completed())
	assert.Equal(t, 1, srv.tracker.Snapshot().Total)
	assert.Equal(t, 0, srv.tracker.Snapshot().Completed)

	f, err := srv.ledger.Lookup(ctx, "IB1")
	assert.Nil(t, err)
	assert.Nil(t, f, "previous run's flight should be gone")

	deadline := time.Now().Add(time.Second)
	for {
		mu.Lock()
		count := len(loads)
		mu.Unlock()
		if count == 2 {
			break
		}
		if !assert.True(t, time.Now().Before(deadline), "second load event not observed") {
			return
		}
		time.Sleep(time.Millisecond)
	}
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 0, loads[1].Tick)
}

func TestService_autonomousClock(t *testing.T) {
	srv := newTestScheduler(t, WithConfig(Config{
		TickInterval: 5 * time.Millisecond,
		StopTimeout:  time.Second,
	}))
	ctx := context.Background()

	err := srv.StartClock(ctx)
	assert.True(t, errors.Is(err, ErrNotRunning))

	assert.Nil(t, srv.Init(ctx, nil, nil))
	assert.Nil(t, srv.StartClock(ctx))
	assert.True(t, srv.ClockRunning())
	// starting twice is a no-op
	assert.Nil(t, srv.StartClock(ctx))

	deadline := time.Now().Add(time.Second)
	for srv.CurrentTick() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	assert.True(t, srv.CurrentTick() > 0)

	assert.Nil(t, srv.StopClock())
	assert.False(t, srv.ClockRunning())
	// stopping twice is a no-op
	assert.Nil(t, srv.StopClock())

	after := srv.CurrentTick()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, srv.CurrentTick())
}

func TestService_finalizeStopsClock(t *testing.T) {
	srv := newTestScheduler(t, WithConfig(Config{
		TickInterval: time.Millisecond,
		StopTimeout:  time.Second,
	}))
	ctx := context.Background()

	assert.Nil(t, srv.Init(ctx, nil, nil))
	assert.Nil(t, srv.StartClock(ctx))
	assert.Nil(t, srv.Finalize(ctx))
	assert.False(t, srv.ClockRunning())
}
