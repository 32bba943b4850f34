package models

import (
	id "dojoroll/pkg/domain"
)

// Credential is a login identity owned by the credential store. The password
// hash is opaque to the coordinator; only store implementations produce or
// verify it.
//
// Invariant: Email is unique across all credentials, and exactly one person
// links to any live credential (the coordinator's compensation logic exists
// to keep that true across partial failures).
type Credential struct {
	ID           id.CredentialID
	Email        string
	PasswordHash string
}
