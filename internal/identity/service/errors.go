package service

import (
	"context"
	"errors"

	dErrors "dojoroll/pkg/domain-errors"
	"dojoroll/pkg/platform/sentinel"
)

// translateStoreErr maps store sentinel errors onto domain error codes.
// Client timeouts count as Unavailable and follow the same compensation path
// as any other failure at that step.
func translateStoreErr(err error, subject string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrapf(err, dErrors.CodeNotFound, "%s not found", subject)
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrapf(err, dErrors.CodeConflict, "%s conflict", subject)
	case errors.Is(err, sentinel.ErrUnavailable),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return dErrors.Wrapf(err, dErrors.CodeUnavailable, "%s store unavailable", subject)
	default:
		return dErrors.Wrapf(err, dErrors.CodeInternal, "%s store failed", subject)
	}
}
