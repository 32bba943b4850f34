package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "dojoroll/pkg/domain"
)

func strPtr(s string) *string { return &s }

func TestNormalize_EmptyOptionalsBecomeAbsent(t *testing.T) {
	p := &Person{
		Name:        "  An  ",
		Role:        id.RoleMember,
		ClubOffice:  strPtr("   "),
		Email:       strPtr(""),
		DateOfBirth: strPtr(""),
		Rank:        -1,
	}
	p.Normalize()

	assert.Equal(t, "An", p.Name)
	assert.Nil(t, p.ClubOffice)
	assert.Nil(t, p.Email)
	assert.Nil(t, p.DateOfBirth)
	assert.Equal(t, 0, p.Rank)
}

func TestApplyDemotion(t *testing.T) {
	credID := id.NewCredentialID()
	p := &Person{
		Name:       "Kim",
		Role:       id.RoleTrainer,
		Rank:       5,
		Credential: &credID,
		Email:      strPtr("kim@example.com"),
		ClubOffice: strPtr("treasurer"),
	}
	p.ApplyDemotion()

	assert.False(t, p.IsLinked())
	assert.Nil(t, p.Email)
	assert.Nil(t, p.ClubOffice)
	assert.Equal(t, id.BaselineRole(), p.Role)
	assert.Equal(t, 5, p.Rank, "earned rank survives demotion")
}

func TestApplyPromotion(t *testing.T) {
	p := &Person{Name: "Lee", Role: id.RoleJunior}
	credID := id.NewCredentialID()
	role := id.RoleMember

	p.ApplyPromotion(credID, "lee@example.com", &role)

	require.True(t, p.IsLinked())
	assert.Equal(t, credID, *p.Credential)
	assert.Equal(t, "lee@example.com", *p.Email)
	assert.Equal(t, id.RoleMember, p.Role)
}

func TestClone_DoesNotSharePointers(t *testing.T) {
	credID := id.NewCredentialID()
	p := &Person{Credential: &credID, Email: strPtr("a@x.com")}

	cp := p.Clone()
	*cp.Email = "b@x.com"
	cp.ApplyLinkCleared()

	assert.Equal(t, "a@x.com", *p.Email)
	assert.True(t, p.IsLinked())
}

func TestPatchApply(t *testing.T) {
	t.Run("clear wins over set", func(t *testing.T) {
		p := &Person{ClubOffice: strPtr("secretary")}
		patch := Patch{ClubOffice: strPtr("chair"), ClearClubOffice: true}
		patch.Apply(p)
		assert.Nil(t, p.ClubOffice)
	})

	t.Run("normalizes applied empty strings", func(t *testing.T) {
		p := &Person{}
		patch := Patch{Bio: strPtr("  ")}
		patch.Apply(p)
		assert.Nil(t, p.Bio)
	})

	t.Run("restricted detection", func(t *testing.T) {
		rank := 3
		assert.True(t, Patch{Rank: &rank}.TouchesRestricted())
		assert.True(t, Patch{ClearClub: true}.TouchesRestricted())
		assert.False(t, Patch{Name: strPtr("An"), Bio: strPtr("hi")}.TouchesRestricted())
	})

	t.Run("zero patch", func(t *testing.T) {
		assert.True(t, Patch{}.IsZero())
		assert.False(t, Patch{ClearEmail: true}.IsZero())
	})
}
