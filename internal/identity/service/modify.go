package service

import (
	"context"
	"errors"
	"time"

	"dojoroll/internal/identity/metrics"
	"dojoroll/internal/identity/models"
	"dojoroll/internal/identity/policy"
	"dojoroll/internal/identity/store/credential"
	dErrors "dojoroll/pkg/domain-errors"
	"dojoroll/pkg/email"
	"dojoroll/pkg/platform/sentinel"
)

// Modify applies a partial update. Auth-field changes (email, password) are
// only valid on a linked person; callers wanting to attach a first credential
// must use Promote explicitly. Field authorization runs before any write.
//
// Ordering: the credential is updated before the person so a failure at the
// credential leaves both stores untouched. The reverse gap, a person write
// failing after a credential email change, cannot be compensated safely
// (undoing an email or password change is not idempotent), so it surfaces as
// a partial failure carrying the already-written email; retrying the modify
// converges the mirror.
func (s *Coordinator) Modify(ctx context.Context, req ModifyRequest) (*models.Person, error) {
	ctx, span := s.tracer.Start(ctx, "identity.Modify")
	defer span.End()
	start := time.Now()

	if err := req.Validate(); err != nil {
		s.metrics.ObserveOperation(opModify, metrics.OutcomeFailure, start)
		return nil, err
	}

	person, err := s.profiles.FindByID(ctx, req.PersonID)
	if err != nil {
		s.metrics.ObserveOperation(opModify, metrics.OutcomeFailure, start)
		return nil, translateStoreErr(err, "person")
	}

	if err := policy.CanModifyFields(req.CallerRole, req.Patch); err != nil {
		s.metrics.ObserveOperation(opModify, metrics.OutcomeFailure, start)
		return nil, err
	}

	patch := req.Patch
	touchesAuth := req.Email != "" || req.Password != ""

	if touchesAuth {
		if err := policy.CanModifyCredential(req.CallerRole, req.CallerID, req.PersonID); err != nil {
			s.metrics.ObserveOperation(opModify, metrics.OutcomeFailure, start)
			return nil, err
		}
		if !person.IsLinked() {
			s.metrics.ObserveOperation(opModify, metrics.OutcomeFailure, start)
			return nil, dErrors.New(dErrors.CodeValidation,
				"person has no credential; use promote to grant login")
		}

		credID := *person.Credential
		_, err := s.credentials.FindByID(ctx, credID)
		if errors.Is(err, sentinel.ErrNotFound) {
			// The credential vanished out-of-band. Heal the profile to the
			// unlinked state, then hold the caller to the promote path.
			if _, healErr := s.clearDanglingLink(ctx, person); healErr != nil {
				s.metrics.ObserveOperation(opModify, metrics.OutcomeFailure, start)
				return nil, healErr
			}
			s.metrics.ObserveOperation(opModify, metrics.OutcomeFailure, start)
			return nil, dErrors.New(dErrors.CodeValidation,
				"credential no longer exists; use promote to grant login again")
		}
		if err != nil {
			s.metrics.ObserveOperation(opModify, metrics.OutcomeFailure, start)
			return nil, translateStoreErr(err, "credential")
		}

		params := credential.UpdateParams{}
		var addr string
		if req.Email != "" {
			addr = email.Normalize(req.Email)
			params.Email = &addr
		}
		if req.Password != "" {
			params.Password = &req.Password
		}
		if err := s.credentials.Update(ctx, credID, params); err != nil {
			// Nothing written yet; clean abort.
			s.metrics.ObserveOperation(opModify, metrics.OutcomeFailure, start)
			return nil, translateStoreErr(err, "credential")
		}
		if addr != "" {
			patch.Email = &addr
		}
	}

	updated, err := s.profiles.Update(ctx, req.PersonID, patch, person.Version)
	if err != nil {
		if touchesAuth && patch.Email != nil {
			// Credential already carries the new email; the mirror is stale
			// until a retry lands the person write.
			s.logger.ErrorContext(ctx, "modify diverged email mirror",
				"person_id", req.PersonID,
				"credential_email", *patch.Email,
				"error", err,
			)
			s.metrics.ObserveOperation(opModify, metrics.OutcomePartialFailure, start)
			return nil, dErrors.Wrapf(err, dErrors.CodePartialFailure,
				"credential email changed to %s but the person record was not updated; retry to converge", *patch.Email)
		}
		s.metrics.ObserveOperation(opModify, metrics.OutcomeFailure, start)
		return nil, translateStoreErr(err, "person")
	}

	s.logger.InfoContext(ctx, "person modified",
		"person_id", req.PersonID,
		"caller_role", req.CallerRole,
		"auth_fields", touchesAuth,
	)
	s.metrics.ObserveOperation(opModify, metrics.OutcomeSuccess, start)
	return updated, nil
}

// clearDanglingLink drops a credential link whose credential no longer
// exists. The write is version-guarded like any other person update.
func (s *Coordinator) clearDanglingLink(ctx context.Context, person *models.Person) (*models.Person, error) {
	healed, err := s.profiles.Update(ctx, person.ID, models.Patch{
		ClearCredential: true,
		ClearEmail:      true,
	}, person.Version)
	if err != nil {
		return nil, translateStoreErr(err, "person")
	}
	s.logger.WarnContext(ctx, "cleared dangling credential link",
		"person_id", person.ID,
	)
	return healed, nil
}
