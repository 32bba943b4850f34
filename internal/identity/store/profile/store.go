// Package profile adapts the external profile subsystem (durable person
// records) behind a narrow CRUD contract.
package profile

import (
	"context"

	"dojoroll/internal/identity/models"
	id "dojoroll/pkg/domain"
)

// Store is the profile store client contract.
//
// Update takes the version the caller loaded; stores reject stale writes with
// sentinel.ErrConflict so concurrent lifecycle operations on the same person
// surface instead of silently last-write-wins. Delete is idempotent: deleting
// an absent person succeeds, tolerating deprovision retries.
//
// Implementations return pkg/platform/sentinel errors; the coordinator
// translates them into domain errors.
type Store interface {
	Create(ctx context.Context, person *models.Person) (id.PersonID, error)
	FindByID(ctx context.Context, personID id.PersonID) (*models.Person, error)
	Update(ctx context.Context, personID id.PersonID, patch models.Patch, expectedVersion int64) (*models.Person, error)
	Delete(ctx context.Context, personID id.PersonID) error
}
