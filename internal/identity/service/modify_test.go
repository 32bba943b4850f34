package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dojoroll/internal/identity/models"
	id "dojoroll/pkg/domain"
	dErrors "dojoroll/pkg/domain-errors"
	"dojoroll/pkg/platform/sentinel"
)

func TestModify_SelfServiceFields(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	person := h.seedUnlinked(ctx)
	name := "Renamed"
	bio := "trains tuesdays"

	updated, err := h.svc.Modify(ctx, ModifyRequest{
		PersonID:   person.ID,
		CallerRole: id.RoleMember,
		Patch:      models.Patch{Name: &name, Bio: &bio},
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "trains tuesdays", *updated.Bio)
}

func TestModify_RestrictedFieldsRequireAdmin(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	person := h.seedUnlinked(ctx)
	rank := 5

	t.Run("non-admin rejected before any write", func(t *testing.T) {
		updatesBefore := h.profiles.updates

		_, err := h.svc.Modify(ctx, ModifyRequest{
			PersonID:   person.ID,
			CallerRole: id.RoleMember,
			Patch:      models.Patch{Rank: &rank},
		})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
		assert.Equal(t, updatesBefore, h.profiles.updates)
		assert.Zero(t, h.creds.updates)
	})

	t.Run("admin allowed", func(t *testing.T) {
		updated, err := h.svc.Modify(ctx, ModifyRequest{
			PersonID:   person.ID,
			CallerRole: id.RoleAdmin,
			Patch:      models.Patch{Rank: &rank},
		})
		require.NoError(t, err)
		assert.Equal(t, 5, updated.Rank)
	})
}

func TestModify_AuthFieldsOnUnlinkedRejected(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	person := h.seedUnlinked(ctx)

	_, err := h.svc.Modify(ctx, ModifyRequest{
		PersonID:   person.ID,
		CallerID:   person.ID,
		CallerRole: id.RoleMember,
		Email:      "new@x.com",
		Password:   "pw",
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	assert.Contains(t, err.Error(), "promote")
	assert.Zero(t, h.creds.creates)
	assert.Zero(t, h.creds.updates)
}

func TestModify_AuthFieldsRequireOwnerOrAdmin(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	victim := h.seedLinked(ctx, "victim@x.com")
	attacker := h.seedUnlinked(ctx)

	t.Run("non-admin cannot rotate another person's login", func(t *testing.T) {
		_, err := h.svc.Modify(ctx, ModifyRequest{
			PersonID:   victim.ID,
			CallerID:   attacker.ID,
			CallerRole: id.RoleMember,
			Email:      "attacker@x.com",
			Password:   "attacker-pw",
		})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
		assert.Zero(t, h.creds.updates)

		cred, err := h.creds.FindByID(ctx, *victim.Credential)
		require.NoError(t, err)
		assert.Equal(t, "victim@x.com", cred.Email)
	})

	t.Run("missing caller identity is rejected", func(t *testing.T) {
		_, err := h.svc.Modify(ctx, ModifyRequest{
			PersonID:   victim.ID,
			CallerRole: id.RoleMember,
			Email:      "attacker@x.com",
		})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
		assert.Zero(t, h.creds.updates)
	})

	t.Run("admin may rotate on someone's behalf", func(t *testing.T) {
		updated, err := h.svc.Modify(ctx, ModifyRequest{
			PersonID:   victim.ID,
			CallerID:   attacker.ID,
			CallerRole: id.RoleAdmin,
			Email:      "reset@x.com",
		})
		require.NoError(t, err)
		assert.Equal(t, "reset@x.com", *updated.Email)
	})
}

func TestModify_EmailChangeKeepsMirror(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	person := h.seedLinked(ctx, "old@x.com")

	updated, err := h.svc.Modify(ctx, ModifyRequest{
		PersonID:   person.ID,
		CallerID:   person.ID,
		CallerRole: id.RoleMember,
		Email:      "new@x.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "new@x.com", *updated.Email)

	cred, err := h.creds.FindByID(ctx, *updated.Credential)
	require.NoError(t, err)
	assert.Equal(t, cred.Email, *updated.Email)
}

func TestModify_CredentialUpdateFailureAbortsBeforePersonWrite(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	person := h.seedLinked(ctx, "old@x.com")
	h.creds.updateErr = sentinel.ErrUnavailable
	updatesBefore := h.profiles.updates
	name := "Renamed"

	_, err := h.svc.Modify(ctx, ModifyRequest{
		PersonID:   person.ID,
		CallerID:   person.ID,
		CallerRole: id.RoleMember,
		Patch:      models.Patch{Name: &name},
		Email:      "new@x.com",
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
	assert.Equal(t, updatesBefore, h.profiles.updates, "person must not be written")

	stored, err := h.profiles.FindByID(ctx, person.ID)
	require.NoError(t, err)
	assert.Equal(t, "old@x.com", *stored.Email)
}

func TestModify_PersonUpdateFailureAfterEmailChangeIsPartial(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	person := h.seedLinked(ctx, "old@x.com")
	h.profiles.updateErr = sentinel.ErrUnavailable

	_, err := h.svc.Modify(ctx, ModifyRequest{
		PersonID:   person.ID,
		CallerID:   person.ID,
		CallerRole: id.RoleMember,
		Email:      "new@x.com",
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodePartialFailure))
	assert.Contains(t, err.Error(), "new@x.com")

	// The credential write is not undone; a retry converges.
	h.profiles.updateErr = nil
	updated, err := h.svc.Modify(ctx, ModifyRequest{
		PersonID:   person.ID,
		CallerID:   person.ID,
		CallerRole: id.RoleMember,
		Email:      "new@x.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "new@x.com", *updated.Email)
}

func TestModify_DanglingCredentialSelfHeals(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	person := h.seedLinked(ctx, "gone@x.com")

	// Credential vanishes out-of-band.
	require.NoError(t, h.creds.Store.Delete(ctx, *person.Credential))

	_, err := h.svc.Modify(ctx, ModifyRequest{
		PersonID:   person.ID,
		CallerID:   person.ID,
		CallerRole: id.RoleMember,
		Email:      "next@x.com",
		Password:   "pw",
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	assert.Contains(t, err.Error(), "promote")

	stored, err := h.profiles.FindByID(ctx, person.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsLinked(), "link must be healed away")
	assert.Nil(t, stored.Email)

	// And the promote path now works.
	promoted, err := h.svc.Promote(ctx, PromoteRequest{
		PersonID: person.ID,
		Email:    "next@x.com",
		Password: "pw",
	})
	require.NoError(t, err)
	assert.True(t, promoted.IsLinked())
}

func TestModify_Validation(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	person := h.seedUnlinked(ctx)
	addr := "sneak@x.com"

	cases := map[string]ModifyRequest{
		"empty patch":          {PersonID: person.ID, CallerRole: id.RoleMember},
		"nil person id":        {CallerRole: id.RoleMember, Email: "a@x.com", Password: "pw"},
		"direct linkage patch": {PersonID: person.ID, CallerRole: id.RoleAdmin, Patch: models.Patch{Email: &addr}},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := h.svc.Modify(ctx, req)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}
}

func TestModify_VersionConflictSurfaces(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	person := h.seedUnlinked(ctx)
	h.profiles.updateErr = sentinel.ErrConflict
	name := "Raced"

	_, err := h.svc.Modify(ctx, ModifyRequest{
		PersonID:   person.ID,
		CallerRole: id.RoleMember,
		Patch:      models.Patch{Name: &name},
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}
