package models

import (
	"strings"

	id "dojoroll/pkg/domain"
)

// Person is the durable membership record owned by the profile store.
//
// Invariants:
//   - Credential is set if and only if the person can authenticate; Email
//     mirrors the credential email exactly while the link exists and is nil
//     otherwise.
//   - Optional fields are nil, never empty strings; NormalizeOptional runs
//     before any store write so foreign-key style checks stay enforceable at
//     the store boundary.
//   - Version increments on every profile store write; updates carry the
//     expected version so concurrent writers fail with a conflict instead of
//     silently last-write-wins.
type Person struct {
	ID          id.PersonID
	Credential  *id.CredentialID
	Name        string
	Role        id.Role
	Club        *id.ClubID
	ClubOffice  *string
	Email       *string
	Rank        int
	Bio         *string
	DateOfBirth *string
	MediaRef    *string
	Version     int64
}

// IsLinked reports whether the person currently holds a credential link.
func (p *Person) IsLinked() bool {
	return p.Credential != nil && !p.Credential.IsNil()
}

// ApplyPromotion attaches a freshly created credential. The email mirror is
// set to the credential email; a new role is applied only when supplied.
func (p *Person) ApplyPromotion(credID id.CredentialID, email string, role *id.Role) {
	p.Credential = &credID
	p.Email = &email
	if role != nil {
		p.Role = *role
	}
}

// ApplyDemotion strips login capability: clears the credential link, the
// email mirror, and any club office, and resets the role to baseline. Rank
// records earned skill, not privilege, so it survives demotion.
func (p *Person) ApplyDemotion() {
	p.Credential = nil
	p.Email = nil
	p.ClubOffice = nil
	p.Role = id.BaselineRole()
}

// ApplyLinkCleared drops a dangling credential link discovered out-of-band,
// without touching role or rank. Used when the credential store no longer
// knows the linked credential.
func (p *Person) ApplyLinkCleared() {
	p.Credential = nil
	p.Email = nil
}

// Clone returns a deep copy so in-memory stores never leak shared pointers.
func (p *Person) Clone() *Person {
	cp := *p
	cp.Credential = clonePtr(p.Credential)
	cp.Club = clonePtr(p.Club)
	cp.ClubOffice = clonePtr(p.ClubOffice)
	cp.Email = clonePtr(p.Email)
	cp.Bio = clonePtr(p.Bio)
	cp.DateOfBirth = clonePtr(p.DateOfBirth)
	cp.MediaRef = clonePtr(p.MediaRef)
	return &cp
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}

// NormalizeOptional maps empty or whitespace-only strings to absent.
func NormalizeOptional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Normalize scrubs empty-string optionals left by careless callers.
func (p *Person) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.ClubOffice = normalizePtr(p.ClubOffice)
	p.Email = normalizePtr(p.Email)
	p.Bio = normalizePtr(p.Bio)
	p.DateOfBirth = normalizePtr(p.DateOfBirth)
	p.MediaRef = normalizePtr(p.MediaRef)
	if p.Rank < 0 {
		p.Rank = 0
	}
}

func normalizePtr(v *string) *string {
	if v == nil {
		return nil
	}
	return NormalizeOptional(*v)
}
