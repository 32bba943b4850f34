package domain

import (
	"github.com/google/uuid"

	dErrors "dojoroll/pkg/domain-errors"
)

// Typed IDs prevent cross-entity mixups at compile time. Construct from
// external input via the ParseXxxID functions; direct casting bypasses the
// non-nil invariant.
type (
	// PersonID identifies a membership record in the profile store.
	PersonID uuid.UUID
	// CredentialID identifies a login identity in the credential store.
	CredentialID uuid.UUID
	// ClubID identifies a club a person may be affiliated with.
	ClubID uuid.UUID
)

func parseUUID(s, what string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be empty", what)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s is not a valid UUID", what)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be the nil UUID", what)
	}
	return u, nil
}

// ParsePersonID constructs a PersonID from external input.
func ParsePersonID(s string) (PersonID, error) {
	u, err := parseUUID(s, "person ID")
	return PersonID(u), err
}

// ParseCredentialID constructs a CredentialID from external input.
func ParseCredentialID(s string) (CredentialID, error) {
	u, err := parseUUID(s, "credential ID")
	return CredentialID(u), err
}

// ParseClubID constructs a ClubID from external input.
func ParseClubID(s string) (ClubID, error) {
	u, err := parseUUID(s, "club ID")
	return ClubID(u), err
}

func (id PersonID) String() string     { return uuid.UUID(id).String() }
func (id CredentialID) String() string { return uuid.UUID(id).String() }
func (id ClubID) String() string       { return uuid.UUID(id).String() }

func (id PersonID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id CredentialID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id ClubID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }

// Text marshalling renders IDs as canonical UUID strings in JSON payloads.

func (id PersonID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }
func (id CredentialID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id ClubID) MarshalText() ([]byte, error)       { return []byte(id.String()), nil }

func (id *PersonID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = PersonID(u)
	return nil
}

func (id *CredentialID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = CredentialID(u)
	return nil
}

func (id *ClubID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = ClubID(u)
	return nil
}

// NewPersonID generates a fresh identifier for the standalone creation path.
func NewPersonID() PersonID {
	return PersonID(uuid.New())
}

// NewCredentialID generates a fresh credential identifier.
func NewCredentialID() CredentialID {
	return CredentialID(uuid.New())
}
