package service

import (
	"context"
	"time"

	"dojoroll/internal/identity/metrics"
	"dojoroll/internal/identity/models"
	"dojoroll/internal/identity/notify"
	"dojoroll/internal/identity/policy"
	dErrors "dojoroll/pkg/domain-errors"
	"dojoroll/pkg/email"
)

// Promote grants login capability to a standalone person: credential first,
// then the person update that records the link. A failed person update is
// compensated by deleting the fresh credential, restoring the unlinked state.
func (s *Coordinator) Promote(ctx context.Context, req PromoteRequest) (*models.Person, error) {
	ctx, span := s.tracer.Start(ctx, "identity.Promote")
	defer span.End()
	start := time.Now()

	if err := req.Validate(); err != nil {
		s.metrics.ObserveOperation(opPromote, metrics.OutcomeFailure, start)
		return nil, err
	}

	person, err := s.profiles.FindByID(ctx, req.PersonID)
	if err != nil {
		s.metrics.ObserveOperation(opPromote, metrics.OutcomeFailure, start)
		return nil, translateStoreErr(err, "person")
	}
	if err := policy.CanPromote(person); err != nil {
		s.metrics.ObserveOperation(opPromote, metrics.OutcomeFailure, start)
		return nil, err
	}

	addr := email.Normalize(req.Email)
	credID, err := s.credentials.Create(ctx, addr, req.Password)
	if err != nil {
		s.metrics.ObserveOperation(opPromote, metrics.OutcomeFailure, start)
		return nil, translateStoreErr(err, "credential")
	}

	patch := models.Patch{
		Credential: &credID,
		Email:      &addr,
		Role:       req.NewRole,
	}
	updated, err := s.profiles.Update(ctx, req.PersonID, patch, person.Version)
	if err != nil {
		compErr := s.credentials.Delete(context.WithoutCancel(ctx), credID)
		s.metrics.ObserveCompensation(opPromote, compErr == nil)
		if compErr != nil {
			s.logger.ErrorContext(ctx, "promote compensation failed, credential orphaned",
				"person_id", req.PersonID,
				"credential_id", credID,
				"person_error", err,
				"compensation_error", compErr,
			)
			s.metrics.ObserveOperation(opPromote, metrics.OutcomePartialFailure, start)
			return nil, dErrors.Wrapf(err, dErrors.CodePartialFailure,
				"person update failed and credential %s could not be removed", credID)
		}
		s.logger.WarnContext(ctx, "promote rolled back",
			"person_id", req.PersonID,
			"credential_id", credID,
			"error", err,
		)
		s.metrics.ObserveOperation(opPromote, metrics.OutcomeFailure, start)
		return nil, translateStoreErr(err, "person")
	}

	s.logger.InfoContext(ctx, "person promoted",
		"person_id", req.PersonID,
		"credential_id", credID,
		"role", updated.Role,
	)
	s.metrics.ObserveOperation(opPromote, metrics.OutcomeSuccess, start)
	s.emit(ctx, notify.Event{
		Kind:      notify.EventPromoted,
		PersonID:  req.PersonID,
		Role:      updated.Role,
		Email:     addr,
		Timestamp: time.Now(),
	})
	return updated, nil
}
