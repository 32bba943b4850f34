package service

import (
	"context"

	"dojoroll/internal/identity/models"
	id "dojoroll/pkg/domain"
	dErrors "dojoroll/pkg/domain-errors"
)

// Get returns a person by ID. Reads go to the profile store only; the
// credential store holds nothing a profile view needs.
func (s *Coordinator) Get(ctx context.Context, personID id.PersonID) (*models.Person, error) {
	if personID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "person ID is required")
	}
	person, err := s.profiles.FindByID(ctx, personID)
	if err != nil {
		return nil, translateStoreErr(err, "person")
	}
	return person, nil
}
