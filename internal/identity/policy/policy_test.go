package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dojoroll/internal/identity/models"
	id "dojoroll/pkg/domain"
	dErrors "dojoroll/pkg/domain-errors"
)

func linked() *models.Person {
	credID := id.NewCredentialID()
	email := "a@x.com"
	return &models.Person{ID: id.NewPersonID(), Role: id.RoleMember, Credential: &credID, Email: &email}
}

func unlinked() *models.Person {
	return &models.Person{ID: id.NewPersonID(), Role: id.RoleJunior}
}

func TestCanPromote(t *testing.T) {
	assert.NoError(t, CanPromote(unlinked()))

	err := CanPromote(linked())
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func TestCanDemote(t *testing.T) {
	assert.NoError(t, CanDemote(linked()))

	err := CanDemote(unlinked())
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func TestCanModifyFields(t *testing.T) {
	name := "An"
	bio := "trains tuesdays"
	rank := 4
	role := id.RoleTrainer

	t.Run("self-service subset allowed for any caller", func(t *testing.T) {
		patch := models.Patch{Name: &name, Bio: &bio}
		assert.NoError(t, CanModifyFields(id.RoleMember, patch))
		assert.NoError(t, CanModifyFields(id.RoleTrainer, patch))
	})

	t.Run("restricted fields rejected for non-admin", func(t *testing.T) {
		for _, patch := range []models.Patch{
			{Rank: &rank},
			{Role: &role},
			{ClearClub: true},
			{ClubOffice: &bio},
		} {
			err := CanModifyFields(id.RoleMember, patch)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
		}
	})

	t.Run("trainer is not administrative", func(t *testing.T) {
		err := CanModifyFields(id.RoleTrainer, models.Patch{Rank: &rank})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	t.Run("admin may write restricted fields", func(t *testing.T) {
		assert.NoError(t, CanModifyFields(id.RoleAdmin, models.Patch{Rank: &rank, Role: &role}))
	})
}

func TestCanModifyCredential(t *testing.T) {
	owner := id.NewPersonID()
	other := id.NewPersonID()

	t.Run("owner may change their own login", func(t *testing.T) {
		assert.NoError(t, CanModifyCredential(id.RoleMember, owner, owner))
	})

	t.Run("non-admin rejected for someone else's login", func(t *testing.T) {
		err := CanModifyCredential(id.RoleMember, other, owner)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))

		err = CanModifyCredential(id.RoleTrainer, other, owner)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	t.Run("nil caller rejected", func(t *testing.T) {
		err := CanModifyCredential(id.RoleMember, id.PersonID{}, owner)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	t.Run("admin may change anyone's login", func(t *testing.T) {
		assert.NoError(t, CanModifyCredential(id.RoleAdmin, other, owner))
	})
}
