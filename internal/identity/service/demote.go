package service

import (
	"context"
	"errors"
	"time"

	"dojoroll/internal/identity/metrics"
	"dojoroll/internal/identity/models"
	"dojoroll/internal/identity/notify"
	"dojoroll/internal/identity/policy"
	id "dojoroll/pkg/domain"
	dErrors "dojoroll/pkg/domain-errors"
	"dojoroll/pkg/platform/sentinel"
)

// Demote strips login capability. The credential is deleted first; only when
// that is known to have succeeded (or the credential was already gone) is the
// person cleared, so a person never claims to be unlinked while a live
// credential still points at them.
func (s *Coordinator) Demote(ctx context.Context, personID id.PersonID) (*models.Person, error) {
	ctx, span := s.tracer.Start(ctx, "identity.Demote")
	defer span.End()
	start := time.Now()

	if personID.IsNil() {
		s.metrics.ObserveOperation(opDemote, metrics.OutcomeFailure, start)
		return nil, dErrors.New(dErrors.CodeValidation, "person ID is required")
	}

	person, err := s.profiles.FindByID(ctx, personID)
	if err != nil {
		s.metrics.ObserveOperation(opDemote, metrics.OutcomeFailure, start)
		return nil, translateStoreErr(err, "person")
	}
	if err := policy.CanDemote(person); err != nil {
		s.metrics.ObserveOperation(opDemote, metrics.OutcomeFailure, start)
		return nil, err
	}

	// Already-absent is fine (deleted out-of-band); anything else aborts
	// before the person is touched.
	if err := s.credentials.Delete(ctx, *person.Credential); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		s.metrics.ObserveOperation(opDemote, metrics.OutcomeFailure, start)
		return nil, translateStoreErr(err, "credential")
	}

	baseline := id.BaselineRole()
	patch := models.Patch{
		ClearCredential: true,
		ClearEmail:      true,
		ClearClubOffice: true,
		Role:            &baseline,
	}
	updated, err := s.profiles.Update(ctx, personID, patch, person.Version)
	if err != nil {
		// The credential is gone but the person still carries the link; a
		// retry of the person write converges, so report it as partial.
		s.logger.ErrorContext(ctx, "demote left dangling credential link",
			"person_id", personID,
			"credential_id", person.Credential,
			"error", err,
		)
		s.metrics.ObserveOperation(opDemote, metrics.OutcomePartialFailure, start)
		return nil, dErrors.Wrapf(err, dErrors.CodePartialFailure,
			"credential removed but person %s still records the link; retry demote to converge", personID)
	}

	s.logger.InfoContext(ctx, "person demoted",
		"person_id", personID,
		"role", updated.Role,
	)
	s.metrics.ObserveOperation(opDemote, metrics.OutcomeSuccess, start)
	s.emit(ctx, notify.Event{
		Kind:      notify.EventDemoted,
		PersonID:  personID,
		Role:      updated.Role,
		Timestamp: time.Now(),
	})
	return updated, nil
}
