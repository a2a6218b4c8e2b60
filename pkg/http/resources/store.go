// Package resources is the scaffold's example domain: a minimal CRUD surface
// services replace with their own when they adopt the chassis. It exists so
// the error pipeline, middleware chain and server wiring are exercised end to
// end out of the box.
package resources

import (
	"sort"
	"sync"
	"time"

	"github.com/fwplatform/service-chassis/pkg/core/faults"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Resource is the stored entity.
type Resource struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Kind      string            `json:"kind"`
	Labels    map[string]string `json:"labels,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Store keeps resources in memory. Names are unique.
type Store struct {
	mu    sync.RWMutex
	items map[string]Resource
}

func NewStore() *Store {
	return &Store{items: make(map[string]Resource)}
}

func (s *Store) Create(name, kind string, labels map[string]string) (Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nameTaken(name, "") {
		return Resource{}, faults.Conflict("resource named %q already exists", name)
	}

	now := time.Now().UTC()
	r := Resource{
		ID:        uuid.NewString(),
		Name:      name,
		Kind:      kind,
		Labels:    labels,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.items[r.ID] = r
	return r, nil
}

func (s *Store) Get(id string) (Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.items[id]
	if !ok {
		return Resource{}, faults.NotFound("resource %s does not exist", id)
	}
	return r, nil
}

// List returns all resources ordered by creation time, optionally filtered by
// kind.
func (s *Store) List(kind string) []Resource {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := lo.Values(s.items)
	if kind != "" {
		all = lo.Filter(all, func(r Resource, _ int) bool { return r.Kind == kind })
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	return all
}

// Replace swaps the mutable fields of an existing resource.
func (s *Store) Replace(id, name, kind string, labels map[string]string) (Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.items[id]
	if !ok {
		return Resource{}, faults.NotFound("resource %s does not exist", id)
	}
	if s.nameTaken(name, id) {
		return Resource{}, faults.Conflict("resource named %q already exists", name)
	}

	r.Name = name
	r.Kind = kind
	r.Labels = labels
	r.UpdatedAt = time.Now().UTC()
	s.items[id] = r
	return r, nil
}

// Patch applies only the provided fields.
func (s *Store) Patch(id string, name, kind *string, labels map[string]string) (Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.items[id]
	if !ok {
		return Resource{}, faults.NotFound("resource %s does not exist", id)
	}
	if name != nil {
		if s.nameTaken(*name, id) {
			return Resource{}, faults.Conflict("resource named %q already exists", *name)
		}
		r.Name = *name
	}
	if kind != nil {
		r.Kind = *kind
	}
	if labels != nil {
		r.Labels = labels
	}
	r.UpdatedAt = time.Now().UTC()
	s.items[id] = r
	return r, nil
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return faults.NotFound("resource %s does not exist", id)
	}
	delete(s.items, id)
	return nil
}

// nameTaken reports whether another resource already uses the name. Callers
// hold the lock.
func (s *Store) nameTaken(name, excludeID string) bool {
	_, taken := lo.FindKeyBy(s.items, func(_ string, r Resource) bool {
		return r.Name == name && r.ID != excludeID
	})
	return taken
}
