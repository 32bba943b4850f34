// Package policy holds the pure transition and field-authorization checks the
// coordinator consults before any store write. No I/O lives here; every
// function is a predicate over already-loaded state, which keeps the rules
// testable without stores.
package policy

import (
	"dojoroll/internal/identity/models"
	id "dojoroll/pkg/domain"
	dErrors "dojoroll/pkg/domain-errors"
)

// CanPromote allows promotion only for unlinked persons; a linked person
// already authenticates and must not acquire a second credential.
func CanPromote(p *models.Person) error {
	if p.IsLinked() {
		return dErrors.New(dErrors.CodeInvariantViolation, "person already holds a credential")
	}
	return nil
}

// CanDemote allows demotion only for linked persons.
func CanDemote(p *models.Person) error {
	if !p.IsLinked() {
		return dErrors.New(dErrors.CodeInvariantViolation, "person has no credential to remove")
	}
	return nil
}

// CanModifyFields is the single source of truth for authorization-by-field.
// Administrative callers may write anything; everyone else is limited to the
// self-service subset (display name, bio, media reference, date of birth,
// and their own login email/password). Role, rank, club affiliation, and
// club office are never self-service-writable.
func CanModifyFields(caller id.Role, patch models.Patch) error {
	if caller.IsAdministrative() {
		return nil
	}
	if patch.TouchesRestricted() {
		return dErrors.New(dErrors.CodeForbidden, "role, rank, and club fields require an administrative caller")
	}
	return nil
}

// CanModifyCredential allows login email and password writes only by an
// administrative caller or by the credential's owner. Anyone else holding a
// valid token must not be able to rotate another person's login.
func CanModifyCredential(callerRole id.Role, callerID, target id.PersonID) error {
	if callerRole.IsAdministrative() {
		return nil
	}
	if callerID.IsNil() || callerID != target {
		return dErrors.New(dErrors.CodeForbidden, "login email and password may only be changed by their owner or an administrative caller")
	}
	return nil
}
