// Terminal front end for the tower simulation, following The Elm
// Architecture: Model holds state, Update reacts to messages, View renders.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/viant/tarmac"
	"github.com/viant/tarmac/model/flight"
	"github.com/viant/tarmac/service/ledger"
	"github.com/viant/tarmac/service/pool"
	"github.com/viant/tarmac/service/scheduler"
)

// appState represents which screen we're on.
type appState int

const (
	stateMenu appState = iota
	stateOverview
	stateFlights
	stateRunways
	stateReport
	stateAddFlight
	stateAdvance
)

const refreshInterval = time.Second

// clockTickMsg refreshes the overview while the autonomous clock runs.
type clockTickMsg time.Time

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF")).
			MarginBottom(1)
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
)

// menuItem implements list.Item for the main menu.
type menuItem struct {
	title string
	desc  string
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.title }

const (
	menuLoad       = "Load data"
	menuAddFlight  = "Add flight"
	menuOverview   = "Overview"
	menuTick       = "Advance 1 minute"
	menuAdvance    = "Advance N minutes"
	menuRunways    = "Runway status"
	menuFlights    = "Flight status"
	menuReport     = "Generate report"
	menuShowReport = "Show report"
	menuSaveExit   = "Save state and exit"
	menuStartClock = "Start clock"
	menuStopClock  = "Stop clock"
)

// App is the main application model.
type App struct {
	service *tarmac.Service
	runtime *tarmac.Runtime

	state     appState
	menu      list.Model
	statusMsg string
	err       error
	loaded    bool

	summary    scheduler.Summary
	flightRows []ledger.Status
	runwayRows []pool.Status
	reportText string

	flightForm   *flightForm
	advanceInput *advanceForm

	width  int
	height int
}

// NewApp creates the application model around an assembled tower service.
func NewApp(service *tarmac.Service) *App {
	app := &App{
		service: service,
		runtime: service.Runtime(),
		state:   stateMenu,
	}
	menu := list.New(app.buildMenu(), list.NewDefaultDelegate(), 0, 0)
	menu.Title = "TARMAC TOWER"
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)
	app.menu = menu
	return app
}

func (a *App) buildMenu() []list.Item {
	clockTitle := menuStartClock
	clockDesc := "Run the simulation on the wall clock"
	if a.runtime != nil && a.runtime.ClockRunning() {
		clockTitle = menuStopClock
		clockDesc = "Halt the autonomous clock"
	}
	return []list.Item{
		menuItem{title: menuLoad, desc: "Read flights.csv and runways.csv"},
		menuItem{title: menuAddFlight, desc: "Enqueue a flight mid-run"},
		menuItem{title: menuOverview, desc: "Clock, state and live counters"},
		menuItem{title: menuTick, desc: "Run one simulation minute"},
		menuItem{title: menuAdvance, desc: "Run several minutes at once"},
		menuItem{title: menuRunways, desc: "Occupancy and operation counts"},
		menuItem{title: menuFlights, desc: "Every flight and its state"},
		menuItem{title: menuReport, desc: "Write the end-of-run summary"},
		menuItem{title: menuShowReport, desc: "Print the stored report"},
		menuItem{title: menuSaveExit, desc: "Write flights.csv back and quit"},
		menuItem{title: clockTitle, desc: clockDesc},
	}
}

func (a *App) refreshMenu() {
	a.menu.SetItems(a.buildMenu())
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return nil
}

func scheduleRefresh() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return clockTickMsg(t) })
}

// Update reacts to messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.menu.SetSize(max(0, msg.Width-6), max(0, msg.Height-8))
		return a, nil

	case clockTickMsg:
		if a.runtime.ClockRunning() {
			a.refreshOverview()
			return a, scheduleRefresh()
		}
		a.refreshMenu()
		return a, nil

	case tea.KeyMsg:
		switch a.state {
		case stateAddFlight:
			return a.updateAddFlight(msg)
		case stateAdvance:
			return a.updateAdvance(msg)
		}
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "q":
			if a.state == stateMenu {
				return a, tea.Quit
			}
			return a.returnToMenu()
		case "esc":
			if a.state != stateMenu {
				return a.returnToMenu()
			}
		case "enter":
			if a.state == stateMenu {
				return a.handleSelection()
			}
		}
	}

	if a.state == stateMenu {
		var cmd tea.Cmd
		a.menu, cmd = a.menu.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) returnToMenu() (tea.Model, tea.Cmd) {
	a.state = stateMenu
	a.flightForm = nil
	a.advanceInput = nil
	a.refreshMenu()
	return a, nil
}

func (a *App) requireLoaded() bool {
	if a.loaded {
		return true
	}
	a.err = fmt.Errorf("load data first (%s)", menuLoad)
	return false
}

func (a *App) handleSelection() (tea.Model, tea.Cmd) {
	item, ok := a.menu.SelectedItem().(menuItem)
	if !ok {
		return a, nil
	}
	a.err = nil
	a.statusMsg = ""
	ctx := context.Background()

	switch item.title {
	case menuLoad:
		skipped, err := a.runtime.Load(ctx)
		if err != nil {
			a.err = err
			return a, nil
		}
		a.loaded = true
		a.statusMsg = "Data loaded"
		if len(skipped) > 0 {
			a.statusMsg = fmt.Sprintf("Data loaded, %d record(s) skipped", len(skipped))
		}
		a.refreshMenu()

	case menuAddFlight:
		if !a.requireLoaded() {
			return a, nil
		}
		a.flightForm = newFlightForm()
		a.state = stateAddFlight

	case menuOverview:
		if !a.requireLoaded() {
			return a, nil
		}
		a.refreshOverview()
		a.state = stateOverview
		if a.runtime.ClockRunning() {
			return a, scheduleRefresh()
		}

	case menuTick:
		if !a.requireLoaded() {
			return a, nil
		}
		if err := a.runtime.Tick(ctx); err != nil {
			a.err = err
			return a, nil
		}
		a.refreshOverview()
		a.statusMsg = fmt.Sprintf("Advanced to minute %d", a.summary.Tick)

	case menuAdvance:
		if !a.requireLoaded() {
			return a, nil
		}
		a.advanceInput = newAdvanceForm()
		a.state = stateAdvance

	case menuRunways:
		if !a.requireLoaded() {
			return a, nil
		}
		rows, err := a.runtime.RunwayStatuses(ctx)
		if err != nil {
			a.err = err
			return a, nil
		}
		a.runwayRows = rows
		a.state = stateRunways

	case menuFlights:
		if !a.requireLoaded() {
			return a, nil
		}
		rows, err := a.runtime.FlightStatuses(ctx)
		if err != nil {
			a.err = err
			return a, nil
		}
		a.flightRows = rows
		a.state = stateFlights

	case menuReport:
		if !a.requireLoaded() {
			return a, nil
		}
		snapshot, err := a.runtime.Report(ctx)
		if err != nil {
			a.err = err
			return a, nil
		}
		a.statusMsg = fmt.Sprintf("Report written (%d flight(s) served)", snapshot.Completed)

	case menuShowReport:
		text, err := a.runtime.ReadReport(ctx)
		if err != nil {
			a.err = err
			return a, nil
		}
		a.reportText = text
		a.state = stateReport

	case menuSaveExit:
		if a.loaded {
			if err := a.runtime.SaveFlights(ctx); err != nil {
				a.err = err
				return a, nil
			}
			_ = a.runtime.Finalize(ctx)
		}
		return a, tea.Quit

	case menuStartClock:
		if !a.requireLoaded() {
			return a, nil
		}
		if err := a.runtime.StartClock(ctx); err != nil {
			a.err = err
			return a, nil
		}
		a.statusMsg = "Clock running"
		a.refreshMenu()
		return a, scheduleRefresh()

	case menuStopClock:
		if err := a.runtime.StopClock(); err != nil {
			a.err = err
			return a, nil
		}
		a.statusMsg = "Clock stopped"
		a.refreshMenu()
	}
	return a, nil
}

func (a *App) refreshOverview() {
	summary, err := a.runtime.Summary(context.Background())
	if err != nil {
		a.err = err
		return
	}
	a.summary = summary
}

func (a *App) submitFlight(f *flight.Flight) {
	if err := a.runtime.AddFlight(context.Background(), f); err != nil {
		a.err = err
		return
	}
	a.statusMsg = fmt.Sprintf("Flight %s enqueued", f.ID)
}

func (a *App) submitAdvance(n int) {
	done, err := a.runtime.Advance(context.Background(), n)
	if err != nil {
		a.err = err
	}
	a.refreshOverview()
	a.statusMsg = fmt.Sprintf("Advanced %d minute(s), clock at %d", done, a.summary.Tick)
}

// View renders the current screen.
func (a *App) View() string {
	header := headerStyle.Render("TARMAC TOWER")

	var body string
	switch a.state {
	case stateMenu:
		body = a.menu.View()
	case stateOverview:
		body = boxStyle.Render(a.renderOverview())
	case stateFlights:
		body = boxStyle.Render(a.renderFlights())
	case stateRunways:
		body = boxStyle.Render(a.renderRunways())
	case stateReport:
		body = boxStyle.Render(a.reportText)
	case stateAddFlight:
		body = boxStyle.Render(a.flightForm.View())
	case stateAdvance:
		body = boxStyle.Render(a.advanceInput.View())
	}

	var footer []string
	if a.statusMsg != "" {
		footer = append(footer, statusStyle.Render(a.statusMsg))
	}
	if a.err != nil {
		footer = append(footer, errorStyle.Render(a.err.Error()))
	}
	if a.state == stateMenu {
		footer = append(footer, statusStyle.Render("enter select · q quit"))
	} else {
		footer = append(footer, statusStyle.Render("esc back"))
	}

	sections := []string{header, body}
	sections = append(sections, footer...)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a *App) renderOverview() string {
	counters := a.runtime.Progress()
	lines := []string{
		fmt.Sprintf("Minute:    %d", a.summary.Tick),
		fmt.Sprintf("State:     %s", a.summary.State),
		fmt.Sprintf("Runways:   %d enabled", a.summary.EnabledRunways),
		"",
		fmt.Sprintf("Waiting:   %d", counters.Waiting),
		fmt.Sprintf("Assigned:  %d", counters.Assigned),
		fmt.Sprintf("Completed: %d", counters.Completed),
		fmt.Sprintf("Total:     %d", counters.Total),
	}
	if a.runtime.ClockRunning() {
		lines = append(lines, "", "clock running")
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderFlights() string {
	if len(a.flightRows) == 0 {
		return "No flights"
	}
	lines := []string{fmt.Sprintf("%-10s %-10s %-9s %-8s %-5s %s", "ID", "KIND", "STATE", "PRIORITY", "FUEL", "RUNWAY")}
	for _, row := range a.flightRows {
		fuel := "-"
		if row.Fuel != nil {
			fuel = fmt.Sprintf("%d", *row.Fuel)
		}
		runwayID := row.RunwayID
		if runwayID == "" {
			runwayID = "-"
		}
		lines = append(lines, fmt.Sprintf("%-10s %-10s %-9s %-8d %-5s %s",
			row.ID, row.Kind, row.State, row.Priority, fuel, runwayID))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderRunways() string {
	if len(a.runwayRows) == 0 {
		return "No runways"
	}
	lines := []string{fmt.Sprintf("%-8s %-12s %-8s %-10s %-10s %s", "ID", "CATEGORY", "ENABLED", "OCCUPIED", "FLIGHT", "OPS")}
	for _, row := range a.runwayRows {
		flightID := row.FlightID
		if flightID == "" {
			flightID = "-"
		}
		lines = append(lines, fmt.Sprintf("%-8s %-12s %-8t %-10t %-10s %d",
			row.ID, row.Category, row.Enabled, row.Occupied, flightID, row.Operations))
	}
	return strings.Join(lines, "\n")
}
