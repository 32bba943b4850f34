package service

import (
	"strings"

	"dojoroll/internal/identity/models"
	id "dojoroll/pkg/domain"
	dErrors "dojoroll/pkg/domain-errors"
	"dojoroll/pkg/email"
)

// ProvisionRequest creates a person, optionally bound to a fresh credential.
// Email and password come as a pair or not at all; without them the person is
// created standalone (the junior-member path).
type ProvisionRequest struct {
	Name     string
	Role     id.Role
	Email    string
	Password string

	Club        *id.ClubID
	ClubOffice  string
	Rank        int
	Bio         string
	DateOfBirth string
	MediaRef    string
}

func (r *ProvisionRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if !r.Role.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "role is required")
	}
	return validateAuthPair(r.Email, r.Password, false)
}

// wantsCredential reports whether the provisioning path includes a login.
func (r *ProvisionRequest) wantsCredential() bool {
	return r.Email != "" || r.Password != ""
}

// person builds the profile record for the unlinked creation path; the
// provision pipeline attaches credential fields afterwards when needed.
func (r *ProvisionRequest) person() *models.Person {
	p := &models.Person{
		ID:          id.NewPersonID(),
		Name:        r.Name,
		Role:        r.Role,
		Club:        r.Club,
		ClubOffice:  models.NormalizeOptional(r.ClubOffice),
		Rank:        r.Rank,
		Bio:         models.NormalizeOptional(r.Bio),
		DateOfBirth: models.NormalizeOptional(r.DateOfBirth),
		MediaRef:    models.NormalizeOptional(r.MediaRef),
	}
	p.Normalize()
	return p
}

// ModifyRequest updates a person's profile fields and, for linked persons,
// their credential's email or password. CallerRole gates restricted fields;
// CallerID identifies who is asking, so credential writes can be limited to
// the credential's owner.
type ModifyRequest struct {
	PersonID   id.PersonID
	CallerID   id.PersonID
	CallerRole id.Role

	Patch    models.Patch
	Email    string
	Password string
}

func (r *ModifyRequest) Validate() error {
	if r.PersonID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "person ID is required")
	}
	if r.Email != "" && !email.IsValid(r.Email) {
		return dErrors.New(dErrors.CodeValidation, "email address is malformed")
	}
	if r.Patch.Role != nil && !r.Patch.Role.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "unsupported role")
	}
	if r.Patch.IsZero() && r.Email == "" && r.Password == "" {
		return dErrors.New(dErrors.CodeValidation, "nothing to modify")
	}
	// Callers must not patch linkage fields directly; promotion and demotion
	// own those transitions.
	if r.Patch.Credential != nil || r.Patch.ClearCredential || r.Patch.Email != nil || r.Patch.ClearEmail {
		return dErrors.New(dErrors.CodeValidation, "credential linkage is managed by promote and demote")
	}
	return nil
}

// PromoteRequest grants login capability to a standalone person.
type PromoteRequest struct {
	PersonID id.PersonID
	Email    string
	Password string
	// NewRole optionally replaces the person's role on success.
	NewRole *id.Role
}

func (r *PromoteRequest) Validate() error {
	if r.PersonID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "person ID is required")
	}
	if r.NewRole != nil && !r.NewRole.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "unsupported role")
	}
	return validateAuthPair(r.Email, r.Password, true)
}

func validateAuthPair(addr, password string, required bool) error {
	if addr == "" && password == "" {
		if required {
			return dErrors.New(dErrors.CodeValidation, "email and password are required")
		}
		return nil
	}
	if addr == "" || password == "" {
		return dErrors.New(dErrors.CodeValidation, "email and password must be supplied together")
	}
	if !email.IsValid(addr) {
		return dErrors.New(dErrors.CodeValidation, "email address is malformed")
	}
	return nil
}
