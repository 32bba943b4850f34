// Package credential adapts the external credential subsystem (login
// identities: email + password hash) behind a narrow CRUD contract.
package credential

import (
	"context"

	"dojoroll/internal/identity/models"
	id "dojoroll/pkg/domain"
)

// UpdateParams carries the optional auth-field changes of an update. Nil
// fields are left untouched.
type UpdateParams struct {
	Email    *string
	Password *string
}

// Store is the credential store client contract.
//
// Implementations return pkg/platform/sentinel errors: ErrConflict for a
// duplicate email, ErrNotFound for a missing credential, ErrUnavailable when
// the backend cannot be reached (timeouts included). Delete is idempotent:
// deleting an absent credential succeeds, so compensations and retries can
// re-issue it safely.
type Store interface {
	Create(ctx context.Context, email, password string) (id.CredentialID, error)
	FindByID(ctx context.Context, credID id.CredentialID) (*models.Credential, error)
	Update(ctx context.Context, credID id.CredentialID, params UpdateParams) error
	Delete(ctx context.Context, credID id.CredentialID) error
}
