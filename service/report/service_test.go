package report

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/tarmac/model/flight"
	"github.com/viant/tarmac/model/runway"
)

func completedFlight(id string, kind flight.Kind, scheduled, start, end int, options ...flight.Option) *flight.Flight {
	switch kind {
	case flight.KindArrival:
		options = append(options, flight.WithETA(scheduled))
	default:
		options = append(options, flight.WithETD(scheduled))
	}
	f := flight.New(id, kind, options...)
	f.State = flight.StateDone
	f.StartTick = &start
	f.EndTick = &end
	return f
}

func TestBuild(t *testing.T) {
	flights := []*flight.Flight{
		// waited 2 minutes
		completedFlight("IB1", flight.KindArrival, 0, 2, 4),
		// waited 4 minutes, emergency
		completedFlight("IB2", flight.KindDeparture, 1, 5, 7, flight.WithPriority(flight.PriorityEmergency)),
		// started ahead of schedule, excluded from the mean
		completedFlight("IB3", flight.KindArrival, 6, 5, 8),
		// still waiting, not reported
		flight.New("IB4", flight.KindArrival, flight.WithETA(0)),
	}
	runways := []*runway.Runway{
		runway.New("R1", "MAIN", 2, true),
		runway.New("R2", "SECONDARY", 3, false),
	}
	runways[0].Operations = 3

	snapshot := Build(10, flights, runways)
	assert.Equal(t, 10, snapshot.Tick)
	assert.Equal(t, 3, snapshot.Completed)
	assert.Equal(t, 1, snapshot.EmergencyCompleted)
	assert.Equal(t, 3.0, snapshot.MeanWaitMinutes)
	if assert.Equal(t, 2, len(snapshot.RunwayUsage)) {
		assert.Equal(t, 3, snapshot.RunwayUsage[0].Operations)
	}
	assert.Equal(t, 3, len(snapshot.Flights))
}

func TestBuild_noCompleted(t *testing.T) {
	snapshot := Build(0, nil, nil)
	assert.Equal(t, 0, snapshot.Completed)
	assert.Equal(t, 0.0, snapshot.MeanWaitMinutes)
}

func TestSnapshot_Render(t *testing.T) {
	flights := []*flight.Flight{
		completedFlight("IB1", flight.KindArrival, 0, 0, 2),
		completedFlight("IB2", flight.KindDeparture, 0, 2, 5, flight.WithPriority(flight.PriorityEmergency)),
	}
	runways := []*runway.Runway{runway.New("R1", "MAIN", 2, true)}
	runways[0].Operations = 2

	text := Build(5, flights, runways).Render()
	assert.Contains(t, text, "SUMMARY")
	assert.Contains(t, text, "- Simulated minutes: 5")
	assert.Contains(t, text, "- Flights served: 2")
	assert.Contains(t, text, "- Mean wait (min): 1.0")
	assert.Contains(t, text, "R1=2 operations")
	assert.Contains(t, text, "- Emergencies handled: 1")
	assert.Contains(t, text, "IB1  (ARRIVAL)  start=0  end=2")
	assert.Contains(t, text, "IB2  (DEPARTURE, EMERGENCY)  start=2  end=5")
}

func TestService_WriteRead(t *testing.T) {
	srv := New(WithConfig(Config{URL: "mem://localhost/tarmac/report.log"}))
	snapshot := Build(3, []*flight.Flight{completedFlight("IB1", flight.KindArrival, 0, 1, 3)}, nil)

	ctx := context.Background()
	assert.Nil(t, srv.Write(ctx, snapshot))
	text, err := srv.Read(ctx)
	assert.Nil(t, err)
	assert.Equal(t, snapshot.Render(), text)
}
