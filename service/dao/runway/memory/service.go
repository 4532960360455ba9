// Package memory implements the in-memory runway registry. Unlike the flight
// registry it lists in stable id order so that release and assignment walks
// are reproducible across runs.
package memory

import (
	"context"
	"sort"

	"github.com/viant/tarmac/model/runway"
	"github.com/viant/tarmac/service/dao"
	"github.com/viant/tarmac/service/dao/store"
)

// Service stores runways by id.
type Service struct {
	*store.Memory[string, runway.Runway]
}

var _ dao.Service[string, runway.Runway] = (*Service)(nil)

// List returns all runways sorted by id ascending.
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*runway.Runway, error) {
	all, err := s.Memory.List(ctx, parameters...)
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

// New creates an empty runway registry.
func New() *Service {
	return &Service{Memory: store.NewMemory[string, runway.Runway](func(r *runway.Runway) string { return r.ID })}
}
