package profile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"dojoroll/internal/identity/models"
	id "dojoroll/pkg/domain"
	"dojoroll/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
}

func (s *InMemoryStoreSuite) TestCreateGeneratesIDAndVersion() {
	ctx := context.Background()

	personID, err := s.store.Create(ctx, &models.Person{Name: "An", Role: id.RoleJunior})
	s.Require().NoError(err)
	s.False(personID.IsNil())

	person, err := s.store.FindByID(ctx, personID)
	s.Require().NoError(err)
	s.Equal(int64(1), person.Version)
	s.False(person.IsLinked())
}

func (s *InMemoryStoreSuite) TestCreateNormalizesEmptyOptionals() {
	ctx := context.Background()
	office := "  "

	personID, err := s.store.Create(ctx, &models.Person{Name: "An", Role: id.RoleMember, ClubOffice: &office})
	s.Require().NoError(err)

	person, err := s.store.FindByID(ctx, personID)
	s.Require().NoError(err)
	s.Nil(person.ClubOffice, "empty strings must not persist")
}

func (s *InMemoryStoreSuite) TestUpdateVersionGuard() {
	ctx := context.Background()
	name := "Renamed"

	personID, err := s.store.Create(ctx, &models.Person{Name: "An", Role: id.RoleMember})
	s.Require().NoError(err)

	s.Run("matching version applies and bumps", func() {
		updated, err := s.store.Update(ctx, personID, models.Patch{Name: &name}, 1)
		s.Require().NoError(err)
		s.Equal("Renamed", updated.Name)
		s.Equal(int64(2), updated.Version)
	})

	s.Run("stale version conflicts", func() {
		_, err := s.store.Update(ctx, personID, models.Patch{Name: &name}, 1)
		s.Require().ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("missing person is not found", func() {
		_, err := s.store.Update(ctx, id.NewPersonID(), models.Patch{Name: &name}, 1)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemoryStoreSuite) TestDeleteIsIdempotent() {
	ctx := context.Background()

	personID, err := s.store.Create(ctx, &models.Person{Name: "An", Role: id.RoleMember})
	s.Require().NoError(err)

	s.Require().NoError(s.store.Delete(ctx, personID))
	s.Require().NoError(s.store.Delete(ctx, personID))

	_, err = s.store.FindByID(ctx, personID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}
