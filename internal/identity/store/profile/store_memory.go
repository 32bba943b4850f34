package profile

import (
	"context"
	"sync"

	"dojoroll/internal/identity/models"
	id "dojoroll/pkg/domain"
	"dojoroll/pkg/platform/sentinel"
)

// InMemoryStore backs the profile contract with a process-local map.
// Used by unit tests and dev mode; production uses the Postgres store.
type InMemoryStore struct {
	mu      sync.RWMutex
	persons map[id.PersonID]*models.Person
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{persons: make(map[id.PersonID]*models.Person)}
}

func (s *InMemoryStore) Create(_ context.Context, person *models.Person) (id.PersonID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := person.Clone()
	if stored.ID.IsNil() {
		stored.ID = id.NewPersonID()
	}
	stored.Normalize()
	stored.Version = 1
	s.persons[stored.ID] = stored
	return stored.ID, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, personID id.PersonID) (*models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	person, ok := s.persons[personID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return person.Clone(), nil
}

func (s *InMemoryStore) Update(_ context.Context, personID id.PersonID, patch models.Patch, expectedVersion int64) (*models.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	person, ok := s.persons[personID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if person.Version != expectedVersion {
		return nil, sentinel.ErrConflict
	}
	updated := person.Clone()
	patch.Apply(updated)
	updated.Version = person.Version + 1
	s.persons[personID] = updated
	return updated.Clone(), nil
}

// Delete removes the person. Deleting an absent person succeeds so
// deprovision retries stay safe.
func (s *InMemoryStore) Delete(_ context.Context, personID id.PersonID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.persons, personID)
	return nil
}
