package loader

import (
	"context"
	"embed"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/afs"
	_ "github.com/viant/afs/embed"
	"github.com/viant/tarmac/model/flight"
)

//go:embed testdata/*
var testFS embed.FS

func newEmbedLoader() *Service {
	return New(
		WithConfig(Config{BaseURL: "embed:///testdata", FlightsFile: "flights.csv", RunwaysFile: "runways.csv"}),
		WithFSOptions(&testFS),
	)
}

func TestService_LoadFlights(t *testing.T) {
	srv := newEmbedLoader()
	flights, skipped, err := srv.LoadFlights(context.Background())
	assert.Nil(t, err)

	// missing id, unknown kind and unparseable eta are skipped
	assert.Equal(t, 3, len(skipped))
	if assert.Equal(t, 3, len(flights)) {
		assert.Equal(t, "IB100", flights[0].ID)
		assert.Equal(t, flight.KindArrival, flights[0].Kind)
		if assert.NotNil(t, flights[0].ETA) {
			assert.Equal(t, 0, *flights[0].ETA)
		}
		if assert.NotNil(t, flights[0].Fuel) {
			assert.Equal(t, 30, *flights[0].Fuel)
		}

		assert.Equal(t, flight.KindDeparture, flights[1].Kind)
		assert.Nil(t, flights[1].Fuel)
		if assert.NotNil(t, flights[1].ETD) {
			assert.Equal(t, 5, *flights[1].ETD)
		}

		// kind is case-insensitive
		assert.Equal(t, flight.KindArrival, flights[2].Kind)
		assert.Equal(t, flight.PriorityEmergency, flights[2].Priority)
	}
}

func TestService_LoadRunways(t *testing.T) {
	srv := newEmbedLoader()
	runways, skipped, err := srv.LoadRunways(context.Background())
	assert.Nil(t, err)

	assert.Equal(t, 1, len(skipped))
	if assert.Equal(t, 2, len(runways)) {
		assert.Equal(t, "R1", runways[0].ID)
		assert.Equal(t, 2, runways[0].HoldMinutes)
		assert.True(t, runways[0].Enabled)
		assert.False(t, runways[1].Enabled)
	}
}

func TestService_LoadFlights_missingFile(t *testing.T) {
	srv := New(WithConfig(Config{BaseURL: "mem://localhost/none", FlightsFile: "flights.csv"}))
	_, _, err := srv.LoadFlights(context.Background())
	assert.NotNil(t, err)
}

func TestService_SaveFlights_roundTrip(t *testing.T) {
	fs := afs.New()
	config := Config{BaseURL: "mem://localhost/tarmac", FlightsFile: "flights.csv", RunwaysFile: "runways.csv"}
	srv := New(WithConfig(config), WithFS(fs))

	eta, fuel := 4, 12
	start := 4
	saved := flight.New("IB700", flight.KindArrival, flight.WithETA(eta), flight.WithFuel(fuel))
	saved.State = flight.StateAssigned
	saved.StartTick = &start
	err := srv.SaveFlights(context.Background(), []*flight.Flight{saved})
	assert.Nil(t, err)

	loaded, skipped, err := srv.LoadFlights(context.Background())
	assert.Nil(t, err)
	assert.Equal(t, 0, len(skipped))
	if assert.Equal(t, 1, len(loaded)) {
		assert.Equal(t, "IB700", loaded[0].ID)
		assert.Equal(t, flight.StateAssigned, loaded[0].State)
		if assert.NotNil(t, loaded[0].ETA) {
			assert.Equal(t, eta, *loaded[0].ETA)
		}
	}
}
