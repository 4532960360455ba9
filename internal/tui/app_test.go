package tui

import (
	"embed"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	_ "github.com/viant/afs/embed"

	"github.com/viant/tarmac"
	"github.com/viant/tarmac/model/flight"
	"github.com/viant/tarmac/service/journal"
	"github.com/viant/tarmac/service/loader"
	"github.com/viant/tarmac/service/report"
)

//go:embed testdata/*
var testFS embed.FS

func newTestApp(t *testing.T) *App {
	t.Helper()
	config := tarmac.DefaultConfig()
	config.Loader = loader.Config{BaseURL: "embed:///testdata", FlightsFile: "flights.csv", RunwaysFile: "runways.csv"}
	config.Journal = journal.Config{Level: "info"}
	config.Report = report.Config{URL: "mem://localhost/tui/report.log"}
	service := tarmac.New(tarmac.WithConfig(config), tarmac.WithDataFsOptions(&testFS))
	t.Cleanup(service.Shutdown)
	app := NewApp(service)
	return press(t, app, tea.WindowSizeMsg{Width: 100, Height: 40})
}

func keyEnter() tea.Msg { return tea.KeyMsg{Type: tea.KeyEnter} }
func keyDown() tea.Msg  { return tea.KeyMsg{Type: tea.KeyDown} }

func press(t *testing.T, app *App, msg tea.Msg) *App {
	t.Helper()
	model, _ := app.Update(msg)
	next, ok := model.(*App)
	if !ok {
		t.Fatalf("unexpected model type %T", model)
	}
	return next
}

func TestApp_loadData(t *testing.T) {
	app := newTestApp(t)
	// first menu item is Load data
	app = press(t, app, keyEnter())
	assert.True(t, app.loaded)
	assert.Nil(t, app.err)
	assert.Contains(t, app.statusMsg, "Data loaded")
}

func TestApp_requiresLoad(t *testing.T) {
	app := newTestApp(t)
	// move down to Overview and select it before loading
	app = press(t, app, keyDown())
	app = press(t, app, keyDown())
	app = press(t, app, keyEnter())
	assert.NotNil(t, app.err)
	assert.Equal(t, stateMenu, app.state)
}

func TestApp_tickAndOverview(t *testing.T) {
	app := newTestApp(t)
	app = press(t, app, keyEnter()) // load
	app = press(t, app, keyDown())
	app = press(t, app, keyDown())
	app = press(t, app, keyDown())
	app = press(t, app, keyEnter()) // advance 1 minute
	assert.Nil(t, app.err)
	assert.Equal(t, 1, app.summary.Tick)

	view := app.View()
	assert.Contains(t, view, "TARMAC TOWER")
}

func TestFlightForm_build(t *testing.T) {
	form := newFlightForm()
	form.inputs[0].SetValue("ib500")
	form.inputs[1].SetValue("arrival")
	form.inputs[2].SetValue("3")
	form.inputs[3].SetValue("1")
	form.inputs[4].SetValue("25")

	f, err := form.build()
	assert.Nil(t, err)
	assert.Equal(t, "IB500", f.ID)
	assert.Equal(t, flight.KindArrival, f.Kind)
	assert.Equal(t, flight.PriorityHigh, f.Priority)
	if assert.NotNil(t, f.ETA) {
		assert.Equal(t, 3, *f.ETA)
	}
	if assert.NotNil(t, f.Fuel) {
		assert.Equal(t, 25, *f.Fuel)
	}
}

func TestFlightForm_buildRejectsBadInput(t *testing.T) {
	form := newFlightForm()
	_, err := form.build()
	assert.NotNil(t, err) // id missing

	form.inputs[0].SetValue("IB1")
	form.inputs[1].SetValue("HOVER")
	_, err = form.build()
	assert.NotNil(t, err) // unknown kind

	form.inputs[1].SetValue("ARRIVAL")
	form.inputs[3].SetValue("9")
	_, err = form.build()
	assert.NotNil(t, err) // priority out of range
}

func TestAdvanceForm_minutes(t *testing.T) {
	form := newAdvanceForm()
	_, err := form.minutes()
	assert.NotNil(t, err)

	form.input.SetValue("15")
	n, err := form.minutes()
	assert.Nil(t, err)
	assert.Equal(t, 15, n)
}
