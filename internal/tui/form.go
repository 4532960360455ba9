package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/viant/tarmac/model/flight"
)

// flightForm collects the fields for a manually inserted flight.
type flightForm struct {
	inputs []textinput.Model
	labels []string
	focus  int
	err    string
}

func newFlightForm() *flightForm {
	labels := []string{
		"Flight id (e.g. IB123)",
		"Kind (ARRIVAL / DEPARTURE)",
		"Scheduled minute (ETA or ETD)",
		"Priority (0 normal, 1 high, 2 emergency)",
		"Fuel minutes (arrivals only)",
	}
	inputs := make([]textinput.Model, len(labels))
	for i := range inputs {
		input := textinput.New()
		input.CharLimit = 16
		input.Prompt = "> "
		inputs[i] = input
	}
	inputs[0].Focus()
	return &flightForm{inputs: inputs, labels: labels}
}

func (f *flightForm) next() {
	f.inputs[f.focus].Blur()
	f.focus++
	f.inputs[f.focus].Focus()
}

func (f *flightForm) last() bool {
	return f.focus == len(f.inputs)-1
}

func (f *flightForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// build validates the collected fields and produces the flight.
func (f *flightForm) build() (*flight.Flight, error) {
	id := strings.ToUpper(strings.TrimSpace(f.inputs[0].Value()))
	if id == "" {
		return nil, fmt.Errorf("flight id is required")
	}
	kind := flight.Kind(strings.ToUpper(strings.TrimSpace(f.inputs[1].Value())))
	if kind != flight.KindArrival && kind != flight.KindDeparture {
		return nil, fmt.Errorf("kind must be %s or %s", flight.KindArrival, flight.KindDeparture)
	}
	var options []flight.Option
	if value := strings.TrimSpace(f.inputs[2].Value()); value != "" {
		minute, err := strconv.Atoi(value)
		if err != nil || minute < 0 {
			return nil, fmt.Errorf("scheduled minute must be a non-negative number")
		}
		if kind == flight.KindArrival {
			options = append(options, flight.WithETA(minute))
		} else {
			options = append(options, flight.WithETD(minute))
		}
	}
	if value := strings.TrimSpace(f.inputs[3].Value()); value != "" {
		priority, err := strconv.Atoi(value)
		if err != nil || priority < flight.PriorityNormal || priority > flight.PriorityEmergency {
			return nil, fmt.Errorf("priority must be 0, 1 or 2")
		}
		options = append(options, flight.WithPriority(priority))
	}
	if value := strings.TrimSpace(f.inputs[4].Value()); value != "" {
		fuel, err := strconv.Atoi(value)
		if err != nil || fuel < 0 {
			return nil, fmt.Errorf("fuel must be a non-negative number")
		}
		options = append(options, flight.WithFuel(fuel))
	}
	return flight.New(id, kind, options...), nil
}

func (f *flightForm) View() string {
	var lines []string
	lines = append(lines, "ADD FLIGHT", "")
	for i, input := range f.inputs {
		lines = append(lines, f.labels[i], input.View(), "")
	}
	if f.err != "" {
		lines = append(lines, errorStyle.Render(f.err))
	}
	lines = append(lines, statusStyle.Render("enter next field · esc cancel"))
	return strings.Join(lines, "\n")
}

// advanceForm collects the number of minutes to run.
type advanceForm struct {
	input textinput.Model
	err   string
}

func newAdvanceForm() *advanceForm {
	input := textinput.New()
	input.CharLimit = 6
	input.Prompt = "> "
	input.Placeholder = "minutes"
	input.Focus()
	return &advanceForm{input: input}
}

func (f *advanceForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return cmd
}

func (f *advanceForm) minutes() (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(f.input.Value()))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("minutes must be a positive number")
	}
	return n, nil
}

func (f *advanceForm) View() string {
	lines := []string{"ADVANCE SIMULATION", "", "How many minutes?", f.input.View(), ""}
	if f.err != "" {
		lines = append(lines, errorStyle.Render(f.err))
	}
	lines = append(lines, statusStyle.Render("enter run · esc cancel"))
	return strings.Join(lines, "\n")
}

func (a *App) updateAddFlight(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "esc":
		return a.returnToMenu()
	case "enter":
		if !a.flightForm.last() {
			a.flightForm.next()
			return a, nil
		}
		f, err := a.flightForm.build()
		if err != nil {
			a.flightForm.err = err.Error()
			return a, nil
		}
		a.submitFlight(f)
		return a.returnToMenu()
	}
	return a, a.flightForm.update(msg)
}

func (a *App) updateAdvance(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "esc":
		return a.returnToMenu()
	case "enter":
		n, err := a.advanceInput.minutes()
		if err != nil {
			a.advanceInput.err = err.Error()
			return a, nil
		}
		a.submitAdvance(n)
		return a.returnToMenu()
	}
	return a, a.advanceInput.update(msg)
}
