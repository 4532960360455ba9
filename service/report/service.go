// Package report builds the end-of-run summary: flights served, mean wait,
// per-runway operation counts and a completed flight detail listing.
package report

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/tarmac/model/flight"
	"github.com/viant/tarmac/model/runway"
)

// RunwayUsage counts lifetime operations for one runway.
type RunwayUsage struct {
	ID         string `json:"id"`
	Operations int    `json:"operations"`
}

// FlightDetail describes one completed flight.
type FlightDetail struct {
	ID        string      `json:"id"`
	Kind      flight.Kind `json:"kind"`
	Emergency bool        `json:"emergency"`
	StartTick int         `json:"startTick"`
	EndTick   int         `json:"endTick"`
}

// Snapshot is the computed summary of one simulation run.
type Snapshot struct {
	Tick               int            `json:"tick"`
	Completed          int            `json:"completed"`
	MeanWaitMinutes    float64        `json:"meanWaitMinutes"`
	RunwayUsage        []RunwayUsage  `json:"runwayUsage"`
	EmergencyCompleted int            `json:"emergencyCompleted"`
	Flights            []FlightDetail `json:"flights"`
}

// Build computes a snapshot from the final flight and runway state. The mean
// wait averages start minus scheduled time over completed flights; flights
// that started ahead of schedule do not drag the mean below zero.
func Build(tick int, flights []*flight.Flight, runways []*runway.Runway) Snapshot {
	snapshot := Snapshot{Tick: tick}

	var waitSum, waitCount int
	for _, f := range flights {
		if f.State != flight.StateDone {
			continue
		}
		snapshot.Completed++
		if f.IsEmergency() {
			snapshot.EmergencyCompleted++
		}
		if scheduled := f.ScheduledTime(); scheduled != nil && f.StartTick != nil {
			if wait := *f.StartTick - *scheduled; wait >= 0 {
				waitSum += wait
				waitCount++
			}
		}
		if f.StartTick == nil || f.EndTick == nil {
			continue
		}
		snapshot.Flights = append(snapshot.Flights, FlightDetail{
			ID:        f.ID,
			Kind:      f.Kind,
			Emergency: f.IsEmergency(),
			StartTick: *f.StartTick,
			EndTick:   *f.EndTick,
		})
	}
	if waitCount > 0 {
		snapshot.MeanWaitMinutes = float64(waitSum) / float64(waitCount)
	}
	for _, r := range runways {
		snapshot.RunwayUsage = append(snapshot.RunwayUsage, RunwayUsage{ID: r.ID, Operations: r.Operations})
	}
	return snapshot
}

// Render formats the snapshot as the report text.
func (s Snapshot) Render() string {
	var usage []string
	for _, u := range s.RunwayUsage {
		usage = append(usage, fmt.Sprintf("%s=%d operations", u.ID, u.Operations))
	}
	builder := new(strings.Builder)
	builder.WriteString("SUMMARY\n")
	fmt.Fprintf(builder, "- Simulated minutes: %d\n", s.Tick)
	fmt.Fprintf(builder, "- Flights served: %d\n", s.Completed)
	fmt.Fprintf(builder, "- Mean wait (min): %.1f\n", s.MeanWaitMinutes)
	fmt.Fprintf(builder, "- Runway usage: %s\n", strings.Join(usage, ", "))
	fmt.Fprintf(builder, "- Emergencies handled: %d\n", s.EmergencyCompleted)
	builder.WriteString("- Completed flight detail:\n")
	for _, detail := range s.Flights {
		extra := ""
		if detail.Emergency {
			extra = ", EMERGENCY"
		}
		fmt.Fprintf(builder, "   - %s  (%s%s)  start=%d  end=%d\n",
			detail.ID, detail.Kind, extra, detail.StartTick, detail.EndTick)
	}
	return builder.String()
}

// Service persists rendered reports.
type Service struct {
	config Config
	fs     afs.Service
}

// Option customises the report service.
type Option func(s *Service)

// WithConfig sets the report configuration.
func WithConfig(config Config) Option {
	return func(s *Service) { s.config = config }
}

// WithFS sets the abstract file storage service.
func WithFS(fs afs.Service) Option {
	return func(s *Service) { s.fs = fs }
}

// New creates a report service.
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

// Write renders the snapshot and persists it.
func (s *Service) Write(ctx context.Context, snapshot Snapshot) error {
	data := []byte(snapshot.Render())
	if err := s.fs.Upload(ctx, s.config.URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("report: failed to write %s: %w", s.config.URL, err)
	}
	return nil
}

// Read returns the persisted report text.
func (s *Service) Read(ctx context.Context) (string, error) {
	data, err := s.fs.DownloadWithURL(ctx, s.config.URL)
	if err != nil {
		return "", fmt.Errorf("report: failed to read %s: %w", s.config.URL, err)
	}
	return string(data), nil
}
