// Package pool manages the runways: which are available at a given minute,
// assignment bookkeeping and the release of runways whose hold has elapsed.
// All walks are in stable id order so logs and tests are reproducible.
package pool

import (
	"context"
	"errors"
	"fmt"

	"github.com/viant/tarmac/model/runway"
	"github.com/viant/tarmac/service/dao"
	runwaymem "github.com/viant/tarmac/service/dao/runway/memory"
)

// Status is a read-only snapshot of one runway.
type Status struct {
	ID          string
	Category    string
	Enabled     bool
	Occupied    bool
	FlightID    string
	ReleaseTick *int
	Operations  int
}

// Service implements the runway pool.
type Service struct {
	registry *runwaymem.Service
}

// New creates a pool backed by the supplied registry, or a fresh one when nil.
func New(registry *runwaymem.Service) *Service {
	if registry == nil {
		registry = runwaymem.New()
	}
	return &Service{registry: registry}
}

// Reset removes every runway so a re-initialised run starts from an empty
// pool.
func (s *Service) Reset(ctx context.Context) error {
	return s.registry.Clear(ctx)
}

// Add registers a runway.
func (s *Service) Add(ctx context.Context, r *runway.Runway) error {
	return s.registry.Save(ctx, r)
}

// Available returns the runways that can take an assignment at the given
// tick, id ascending: enabled and either idle or free by time. The scheduler
// releases due runways before assigning, so during assignment availability
// and released state agree.
func (s *Service) Available(ctx context.Context, tick int) ([]*runway.Runway, error) {
	all, err := s.registry.List(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, r := range all {
		if r.AvailableAt(tick) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Assign occupies the runway with the flight until tick plus the runway's
// hold duration. The runway must be free; assigning an occupied or disabled
// runway is a caller bug.
func (s *Service) Assign(ctx context.Context, runwayID, flightID string, tick int) error {
	r, err := s.registry.Load(ctx, runwayID)
	if err != nil {
		return err
	}
	if !r.Enabled {
		return fmt.Errorf("runway %v is out of service", runwayID)
	}
	if r.Occupied {
		return fmt.Errorf("runway %v is occupied by %v", runwayID, r.FlightID)
	}
	r.Assign(flightID, tick)
	return nil
}

// ReleaseDue frees every occupied runway whose hold has elapsed at the given
// tick and returns the ids of the flights that held them, in runway id order.
func (s *Service) ReleaseDue(ctx context.Context, tick int) ([]string, error) {
	all, err := s.registry.List(ctx)
	if err != nil {
		return nil, err
	}
	var freed []string
	for _, r := range all {
		if r.DueAt(tick) {
			if id := r.Release(); id != "" {
				freed = append(freed, id)
			}
		}
	}
	return freed, nil
}

// EnabledCount returns the number of runways in service.
func (s *Service) EnabledCount(ctx context.Context) (int, error) {
	all, err := s.registry.List(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, r := range all {
		if r.Enabled {
			count++
		}
	}
	return count, nil
}

// Lookup returns a runway by id, or nil when unknown.
func (s *Service) Lookup(ctx context.Context, id string) (*runway.Runway, error) {
	r, err := s.registry.Load(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r, nil
}

// Runways returns all runways, id ascending.
func (s *Service) Runways(ctx context.Context) ([]*runway.Runway, error) {
	return s.registry.List(ctx)
}

// Statuses returns a per-runway snapshot, id ascending.
func (s *Service) Statuses(ctx context.Context) ([]Status, error) {
	all, err := s.registry.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Status, 0, len(all))
	for _, r := range all {
		out = append(out, Status{
			ID:          r.ID,
			Category:    r.Category,
			Enabled:     r.Enabled,
			Occupied:    r.Occupied,
			FlightID:    r.FlightID,
			ReleaseTick: r.ReleaseTick,
			Operations:  r.Operations,
		})
	}
	return out, nil
}
