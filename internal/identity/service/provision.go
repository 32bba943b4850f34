package service

import (
	"context"
	"time"

	"dojoroll/internal/identity/metrics"
	"dojoroll/internal/identity/models"
	"dojoroll/internal/identity/notify"
	dErrors "dojoroll/pkg/domain-errors"
	"dojoroll/pkg/email"
)

// Provision creates a person, credential-first when login details are
// supplied. If the person write fails after the credential was created, the
// credential is deleted again; when even that fails, the result is a partial
// failure naming the orphaned credential so operators can reconcile.
func (s *Coordinator) Provision(ctx context.Context, req ProvisionRequest) (*models.Person, error) {
	ctx, span := s.tracer.Start(ctx, "identity.Provision")
	defer span.End()
	start := time.Now()

	if err := req.Validate(); err != nil {
		s.metrics.ObserveOperation(opProvision, metrics.OutcomeFailure, start)
		return nil, err
	}

	person := req.person()

	if !req.wantsCredential() {
		personID, err := s.profiles.Create(ctx, person)
		if err != nil {
			s.metrics.ObserveOperation(opProvision, metrics.OutcomeFailure, start)
			return nil, translateStoreErr(err, "person")
		}
		person.ID = personID
		person.Version = 1

		s.logger.InfoContext(ctx, "person provisioned standalone",
			"person_id", personID,
			"role", person.Role,
		)
		s.metrics.ObserveOperation(opProvision, metrics.OutcomeSuccess, start)
		s.emit(ctx, notify.Event{
			Kind:      notify.EventProvisioned,
			PersonID:  personID,
			Role:      person.Role,
			Timestamp: time.Now(),
		})
		return person, nil
	}

	addr := email.Normalize(req.Email)
	credID, err := s.credentials.Create(ctx, addr, req.Password)
	if err != nil {
		s.metrics.ObserveOperation(opProvision, metrics.OutcomeFailure, start)
		return nil, translateStoreErr(err, "credential")
	}

	person.Credential = &credID
	person.Email = &addr

	personID, err := s.profiles.Create(ctx, person)
	if err != nil {
		// Person write failed after the credential exists: undo the
		// credential so no orphan survives.
		compErr := s.credentials.Delete(context.WithoutCancel(ctx), credID)
		s.metrics.ObserveCompensation(opProvision, compErr == nil)
		if compErr != nil {
			s.logger.ErrorContext(ctx, "provision compensation failed, credential orphaned",
				"credential_id", credID,
				"email", addr,
				"person_error", err,
				"compensation_error", compErr,
			)
			s.metrics.ObserveOperation(opProvision, metrics.OutcomePartialFailure, start)
			return nil, dErrors.Wrapf(err, dErrors.CodePartialFailure,
				"person create failed and credential %s could not be removed", credID)
		}
		s.logger.WarnContext(ctx, "provision rolled back",
			"credential_id", credID,
			"error", err,
		)
		s.metrics.ObserveOperation(opProvision, metrics.OutcomeFailure, start)
		return nil, translateStoreErr(err, "person")
	}
	person.ID = personID
	person.Version = 1

	s.logger.InfoContext(ctx, "person provisioned with credential",
		"person_id", personID,
		"credential_id", credID,
		"role", person.Role,
	)
	s.metrics.ObserveOperation(opProvision, metrics.OutcomeSuccess, start)
	s.emit(ctx, notify.Event{
		Kind:      notify.EventProvisioned,
		PersonID:  personID,
		Role:      person.Role,
		Email:     addr,
		Timestamp: time.Now(),
	})
	return person, nil
}
