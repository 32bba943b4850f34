package domain

import (
	"strconv"
	"strings"

	dErrors "dojoroll/pkg/domain-errors"
)

// Role is the administrative privilege tier stored on a person.
// Invariant: the value must be one of the supported roles.
//
// Usage: construct via ParseRole at trust boundaries to enforce the
// allowlist; direct casting bypasses validation.
type Role string

const (
	// RoleJunior is a junior member without login capability.
	RoleJunior Role = "junior"
	// RoleMember is the baseline role for login-capable members. Demotion
	// resets a person to this role.
	RoleMember Role = "member"
	// RoleTrainer may manage rosters within their own club.
	RoleTrainer Role = "trainer"
	// RoleAdmin may write restricted fields (role, rank, club) on anyone.
	RoleAdmin Role = "admin"
)

// validRoles is the single source of truth for supported roles.
var validRoles = map[Role]bool{
	RoleJunior:  true,
	RoleMember:  true,
	RoleTrainer: true,
	RoleAdmin:   true,
}

// ParseRole constructs a Role from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "role cannot be empty")
	}
	r := Role(strings.ToLower(s))
	if !validRoles[r] {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unsupported role %q", s)
	}
	return r, nil
}

// IsValid checks if the role is one of the supported enum values.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// IsAdministrative reports whether the role may write restricted person
// fields (role, rank, club affiliation).
func (r Role) IsAdministrative() bool {
	return r == RoleAdmin
}

func (r Role) String() string {
	return string(r)
}

// BaselineRole is the role a person falls back to when demoted.
func BaselineRole() Role {
	return RoleMember
}

// ParseRank normalizes an externally supplied rank. Missing or non-numeric
// values default to the lowest rank rather than an invalid sentinel, and
// negative values are clamped to zero.
func ParseRank(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
