// Package memory implements the in-memory flight registry. It indexes every
// flight ever added - waiting, assigned or done - by id.
package memory

import (
	"context"

	"github.com/viant/tarmac/model/flight"
	"github.com/viant/tarmac/service/dao"
	"github.com/viant/tarmac/service/dao/criteria"
	"github.com/viant/tarmac/service/dao/store"
)

// Service stores flights by id. Duplicate ids overwrite the previous entry.
type Service struct {
	*store.Memory[string, flight.Flight]
}

var _ dao.Service[string, flight.Flight] = (*Service)(nil)

// List returns flights passing the supplied parameters (e.g. State=ASSIGNED).
// Order is unspecified.
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*flight.Flight, error) {
	all, err := s.Memory.List(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, f := range all {
		if criteria.MatchState(f.State, parameters) {
			out = append(out, f)
		}
	}
	return out, nil
}

// New creates an empty flight registry.
func New() *Service {
	return &Service{Memory: store.NewMemory[string, flight.Flight](func(f *flight.Flight) string { return f.ID })}
}
