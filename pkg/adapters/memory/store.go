// Package memory provides in-process implementations of the Weir ports,
// used for tests and single-process deployments.
package memory

import (
	"context"
	"sync"

	"github.com/aretw0/weir/pkg/domain"
)

// Store implements ports.SchemaStore entirely in memory.
type Store struct {
	mu      sync.RWMutex
	schema  *domain.GraphSchema
	running bool
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{}
}

// SaveSchema keeps a deep copy so later caller mutations don't leak in.
func (s *Store) SaveSchema(ctx context.Context, schema *domain.GraphSchema) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schema = schema.Clone()
	return nil
}

// LoadSchema returns a deep copy of the stored topology.
func (s *Store) LoadSchema(ctx context.Context) (*domain.GraphSchema, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.schema == nil {
		return nil, domain.ErrSchemaNotFound
	}
	return s.schema.Clone(), nil
}

// SaveRunState persists the running flag.
func (s *Store) SaveRunState(ctx context.Context, running bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = running
	return nil
}

// LoadRunState returns the running flag; false if never saved.
func (s *Store) LoadRunState(ctx context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running, nil
}
