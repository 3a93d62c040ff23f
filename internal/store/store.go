// Package store holds the single in-memory copy of a user's entity graph.
// It is a pure data holder: it performs no I/O, never invents IDs or order
// values, and is written exclusively through Apply by the mutation
// coordinator. Patches copy only the touched sub-tree, so unrelated projects
// and collections keep their identity across writes and readers can memoize
// derived views cheaply.
// See docs/ARCHITECTURE.md § Entity Graph Store.
package store

import (
	"sync"

	"github.com/mesh-intelligence/quill/pkg/types"
)

// Store owns the client's authoritative in-memory UserData.
type Store struct {
	mu        sync.RWMutex
	data      *types.UserData
	listeners []func(*types.UserData)
}

// New returns an empty store. Data is nil until the first Reset patch
// (normally the /me/data bulk load or a snapshot restore).
func New() *Store {
	return &Store{}
}

// Data returns the current UserData. Callers must treat the returned graph
// as read-only; every write goes through Apply.
func (s *Store) Data() *types.UserData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// Project returns the current state of one project.
func (s *Store) Project(projectID string) (*types.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data == nil {
		return nil, types.ErrProjectNotFound
	}
	return s.data.Project(projectID)
}

// OnChange registers fn to run after every committed patch with the new
// UserData. Listeners fire outside the store lock, in registration order.
// Used for the local snapshot writer and commit notifications; registration
// is expected to happen during startup, before mutations begin.
func (s *Store) OnChange(fn func(*types.UserData)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Apply commits one patch. On error the store is left exactly as it was and
// no listener fires.
func (s *Store) Apply(p Patch) error {
	s.mu.Lock()

	next, err := p.apply(s.data)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.data = next
	listeners := append([]func(*types.UserData){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
	return nil
}
