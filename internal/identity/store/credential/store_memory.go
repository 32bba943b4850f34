package credential

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"dojoroll/internal/identity/models"
	id "dojoroll/pkg/domain"
	"dojoroll/pkg/platform/sentinel"
)

// InMemoryStore backs the credential contract with process-local maps.
// Used by unit tests and dev mode; production uses the Redis store.
type InMemoryStore struct {
	mu      sync.RWMutex
	byID    map[id.CredentialID]*models.Credential
	byEmail map[string]id.CredentialID
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		byID:    make(map[id.CredentialID]*models.Credential),
		byEmail: make(map[string]id.CredentialID),
	}
}

func (s *InMemoryStore) Create(_ context.Context, email, password string) (id.CredentialID, error) {
	key := emailKey(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[key]; exists {
		return id.CredentialID{}, sentinel.ErrConflict
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return id.CredentialID{}, err
	}
	credID := id.NewCredentialID()
	s.byID[credID] = &models.Credential{ID: credID, Email: email, PasswordHash: string(hash)}
	s.byEmail[key] = credID
	return credID, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, credID id.CredentialID) (*models.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cred, ok := s.byID[credID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *cred
	return &cp, nil
}

func (s *InMemoryStore) Update(_ context.Context, credID id.CredentialID, params UpdateParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cred, ok := s.byID[credID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if params.Email != nil && emailKey(*params.Email) != emailKey(cred.Email) {
		newKey := emailKey(*params.Email)
		if _, taken := s.byEmail[newKey]; taken {
			return sentinel.ErrConflict
		}
		delete(s.byEmail, emailKey(cred.Email))
		s.byEmail[newKey] = credID
		cred.Email = *params.Email
	}
	if params.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*params.Password), bcrypt.MinCost)
		if err != nil {
			return err
		}
		cred.PasswordHash = string(hash)
	}
	return nil
}

// Delete removes the credential. Deleting an absent credential succeeds so
// compensation paths can retry freely.
func (s *InMemoryStore) Delete(_ context.Context, credID id.CredentialID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cred, ok := s.byID[credID]
	if !ok {
		return nil
	}
	delete(s.byEmail, emailKey(cred.Email))
	delete(s.byID, credID)
	return nil
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
