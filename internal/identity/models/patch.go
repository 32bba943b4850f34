package models

import (
	id "dojoroll/pkg/domain"
)

// Patch is a partial update to a person. Pointer fields are applied when
// non-nil; the Clear flags drop optional fields entirely. Set and Clear on
// the same field is a caller bug and Clear wins.
type Patch struct {
	Name *string
	Role *id.Role
	Rank *int

	Club      *id.ClubID
	ClearClub bool

	ClubOffice      *string
	ClearClubOffice bool

	Email      *string
	ClearEmail bool

	Credential      *id.CredentialID
	ClearCredential bool

	Bio         *string
	DateOfBirth *string
	MediaRef    *string
}

// IsZero reports whether the patch carries no changes.
func (p Patch) IsZero() bool {
	return p.Name == nil && p.Role == nil && p.Rank == nil &&
		p.Club == nil && !p.ClearClub &&
		p.ClubOffice == nil && !p.ClearClubOffice &&
		p.Email == nil && !p.ClearEmail &&
		p.Credential == nil && !p.ClearCredential &&
		p.Bio == nil && p.DateOfBirth == nil && p.MediaRef == nil
}

// TouchesRestricted reports whether the patch writes fields that only
// administrative callers may change.
func (p Patch) TouchesRestricted() bool {
	return p.Role != nil || p.Rank != nil || p.Club != nil || p.ClearClub ||
		p.ClubOffice != nil || p.ClearClubOffice
}

// Apply mutates the person in place. Optional string fields are normalized so
// empty strings never reach a store.
func (p Patch) Apply(person *Person) {
	if p.Name != nil {
		person.Name = *p.Name
	}
	if p.Role != nil {
		person.Role = *p.Role
	}
	if p.Rank != nil {
		person.Rank = *p.Rank
	}
	switch {
	case p.ClearClub:
		person.Club = nil
	case p.Club != nil:
		person.Club = p.Club
	}
	switch {
	case p.ClearClubOffice:
		person.ClubOffice = nil
	case p.ClubOffice != nil:
		person.ClubOffice = p.ClubOffice
	}
	switch {
	case p.ClearEmail:
		person.Email = nil
	case p.Email != nil:
		person.Email = p.Email
	}
	switch {
	case p.ClearCredential:
		person.Credential = nil
	case p.Credential != nil:
		person.Credential = p.Credential
	}
	if p.Bio != nil {
		person.Bio = p.Bio
	}
	if p.DateOfBirth != nil {
		person.DateOfBirth = p.DateOfBirth
	}
	if p.MediaRef != nil {
		person.MediaRef = p.MediaRef
	}
	person.Normalize()
}
