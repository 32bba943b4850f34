package service

import (
	"context"
	"time"

	"dojoroll/internal/identity/metrics"
	id "dojoroll/pkg/domain"
	dErrors "dojoroll/pkg/domain-errors"
)

// Deprovision deletes a person and cascades to their credential and media.
// The credential goes first so the authentication surface is revoked before
// the record disappears; a credential that cannot be deleted is logged and
// left behind rather than blocking the person deletion (a stale credential
// pointing nowhere beats a person nobody can remove). Media cleanup is
// best-effort and never blocks.
func (s *Coordinator) Deprovision(ctx context.Context, personID id.PersonID) error {
	ctx, span := s.tracer.Start(ctx, "identity.Deprovision")
	defer span.End()
	start := time.Now()

	if personID.IsNil() {
		s.metrics.ObserveOperation(opDeprovision, metrics.OutcomeFailure, start)
		return dErrors.New(dErrors.CodeValidation, "person ID is required")
	}

	person, err := s.profiles.FindByID(ctx, personID)
	if err != nil {
		s.metrics.ObserveOperation(opDeprovision, metrics.OutcomeFailure, start)
		return translateStoreErr(err, "person")
	}

	credentialOrphaned := false
	if person.IsLinked() {
		if err := s.credentials.Delete(ctx, *person.Credential); err != nil {
			credentialOrphaned = true
			s.logger.ErrorContext(ctx, "credential deletion failed during deprovision",
				"person_id", personID,
				"credential_id", person.Credential,
				"error", err,
			)
		}
	}

	if person.MediaRef != nil {
		if err := s.media.Remove(ctx, *person.MediaRef); err != nil {
			s.logger.WarnContext(ctx, "media cleanup failed",
				"person_id", personID,
				"media_ref", *person.MediaRef,
				"error", err,
			)
		}
	}

	if err := s.profiles.Delete(ctx, personID); err != nil {
		s.metrics.ObserveOperation(opDeprovision, metrics.OutcomeFailure, start)
		return translateStoreErr(err, "person")
	}

	if credentialOrphaned {
		// The person is gone but the credential outlived it; operators need
		// the credential ID to finish the job.
		s.metrics.ObserveOperation(opDeprovision, metrics.OutcomePartialFailure, start)
		return dErrors.Newf(dErrors.CodePartialFailure,
			"person %s deleted but credential %s survived; remove it manually", personID, person.Credential)
	}

	s.logger.InfoContext(ctx, "person deprovisioned",
		"person_id", personID,
		"had_credential", person.IsLinked(),
	)
	s.metrics.ObserveOperation(opDeprovision, metrics.OutcomeSuccess, start)
	return nil
}
