// Package loader reads and writes the flight and runway CSV files. A
// malformed record is skipped with a ValidationError; only I/O failures are
// fatal to a batch.
package loader

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"github.com/viant/tarmac/model/flight"
	"github.com/viant/tarmac/model/runway"
)

// flights.csv: id,kind,eta,etd,priority,fuel,state
// runways.csv: id,category,hold_minutes,enabled
var (
	flightHeader = []string{"id", "kind", "eta", "etd", "priority", "fuel", "state"}
	runwayHeader = []string{"id", "category", "hold_minutes", "enabled"}
)

// ValidationError describes one skipped CSV record.
type ValidationError struct {
	URL    string
	Line   int
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("loader: %s line %d: %s", e.URL, e.Line, e.Reason)
}

// Service implements CSV persistence for flights and runways.
type Service struct {
	config    Config
	fs        afs.Service
	fsOptions []storage.Option
}

// Option customises the loader.
type Option func(s *Service)

// WithConfig sets the loader configuration.
func WithConfig(config Config) Option {
	return func(s *Service) { s.config = config }
}

// WithFS sets the abstract file storage service.
func WithFS(fs afs.Service) Option {
	return func(s *Service) { s.fs = fs }
}

// WithFSOptions sets storage options passed on every read, such as an
// *embed.FS for embed:// locations.
func WithFSOptions(options ...storage.Option) Option {
	return func(s *Service) { s.fsOptions = options }
}

// New creates a loader.
func New(options ...Option) *Service {
	ret := &Service{config: DefaultConfig()}
	for _, option := range options {
		option(ret)
	}
	if ret.fs == nil {
		ret.fs = afs.New()
	}
	return ret
}

// FlightsURL returns the location of the flights CSV.
func (s *Service) FlightsURL() string {
	return url.Join(s.config.BaseURL, s.config.FlightsFile)
}

// RunwaysURL returns the location of the runways CSV.
func (s *Service) RunwaysURL() string {
	return url.Join(s.config.BaseURL, s.config.RunwaysFile)
}

// LoadFlights reads the flights CSV. Malformed records are returned as
// ValidationErrors alongside the good ones.
func (s *Service) LoadFlights(ctx context.Context) ([]*flight.Flight, []*ValidationError, error) {
	URL := s.FlightsURL()
	rows, err := s.readAll(ctx, URL)
	if err != nil {
		return nil, nil, err
	}
	var flights []*flight.Flight
	var skipped []*ValidationError
	for i, row := range rows {
		if i == 0 && isHeader(row) {
			continue
		}
		f, reason := parseFlight(row)
		if reason != "" {
			skipped = append(skipped, &ValidationError{URL: URL, Line: i + 1, Reason: reason})
			continue
		}
		flights = append(flights, f)
	}
	return flights, skipped, nil
}

// LoadRunways reads the runways CSV.
func (s *Service) LoadRunways(ctx context.Context) ([]*runway.Runway, []*ValidationError, error) {
	URL := s.RunwaysURL()
	rows, err := s.readAll(ctx, URL)
	if err != nil {
		return nil, nil, err
	}
	var runways []*runway.Runway
	var skipped []*ValidationError
	for i, row := range rows {
		if i == 0 && isHeader(row) {
			continue
		}
		r, reason := parseRunway(row)
		if reason != "" {
			skipped = append(skipped, &ValidationError{URL: URL, Line: i + 1, Reason: reason})
			continue
		}
		runways = append(runways, r)
	}
	return runways, skipped, nil
}

// SaveFlights writes the given flights back to the flights CSV, header
// included, preserving slice order.
func (s *Service) SaveFlights(ctx context.Context, flights []*flight.Flight) error {
	buffer := new(bytes.Buffer)
	writer := csv.NewWriter(buffer)
	if err := writer.Write(flightHeader); err != nil {
		return err
	}
	for _, f := range flights {
		record := []string{
			f.ID,
			string(f.Kind),
			formatOptional(f.ETA),
			formatOptional(f.ETD),
			strconv.Itoa(f.Priority),
			formatOptional(f.Fuel),
			f.State,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return s.fs.Upload(ctx, s.FlightsURL(), file.DefaultFileOsMode, buffer)
}

func (s *Service) readAll(ctx context.Context, URL string) ([][]string, error) {
	data, err := s.fs.DownloadWithURL(ctx, URL, s.fsOptions...)
	if err != nil {
		return nil, fmt.Errorf("loader: failed to read %s: %w", URL, err)
	}
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("loader: failed to parse %s: %w", URL, err)
	}
	return rows, nil
}

func parseFlight(row []string) (*flight.Flight, string) {
	if len(row) < 6 {
		return nil, fmt.Sprintf("expected at least 6 fields, got %d", len(row))
	}
	id := strings.TrimSpace(row[0])
	if id == "" {
		return nil, "missing flight id"
	}
	kind := flight.Kind(strings.ToUpper(strings.TrimSpace(row[1])))
	if kind != flight.KindArrival && kind != flight.KindDeparture {
		return nil, fmt.Sprintf("unknown kind %q", row[1])
	}
	var options []flight.Option
	if eta, ok, reason := parseOptionalInt(row[2], "eta"); reason != "" {
		return nil, reason
	} else if ok {
		options = append(options, flight.WithETA(eta))
	}
	if etd, ok, reason := parseOptionalInt(row[3], "etd"); reason != "" {
		return nil, reason
	} else if ok {
		options = append(options, flight.WithETD(etd))
	}
	if value := strings.TrimSpace(row[4]); value != "" {
		priority, err := strconv.Atoi(value)
		if err != nil || priority < flight.PriorityNormal || priority > flight.PriorityEmergency {
			return nil, fmt.Sprintf("invalid priority %q", row[4])
		}
		options = append(options, flight.WithPriority(priority))
	}
	if fuel, ok, reason := parseOptionalInt(row[5], "fuel"); reason != "" {
		return nil, reason
	} else if ok {
		options = append(options, flight.WithFuel(fuel))
	}
	if len(row) > 6 {
		if state := strings.TrimSpace(row[6]); state != "" {
			options = append(options, flight.WithState(strings.ToUpper(state)))
		}
	}
	return flight.New(id, kind, options...), ""
}

func parseRunway(row []string) (*runway.Runway, string) {
	if len(row) < 4 {
		return nil, fmt.Sprintf("expected 4 fields, got %d", len(row))
	}
	id := strings.TrimSpace(row[0])
	if id == "" {
		return nil, "missing runway id"
	}
	hold, err := strconv.Atoi(strings.TrimSpace(row[2]))
	if err != nil || hold <= 0 {
		return nil, fmt.Sprintf("invalid hold_minutes %q", row[2])
	}
	enabled, reason := parseBool(row[3])
	if reason != "" {
		return nil, reason
	}
	return runway.New(id, strings.TrimSpace(row[1]), hold, enabled), ""
}

func parseOptionalInt(value, name string) (int, bool, string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false, ""
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false, fmt.Sprintf("invalid %s %q", name, value)
	}
	return n, true, ""
}

func parseBool(value string) (bool, string) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes":
		return true, ""
	case "0", "false", "no":
		return false, ""
	}
	return false, fmt.Sprintf("invalid enabled flag %q", value)
}

func formatOptional(value *int) string {
	if value == nil {
		return ""
	}
	return strconv.Itoa(*value)
}

func isHeader(row []string) bool {
	return len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "id")
}
