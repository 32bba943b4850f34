package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Store implementations return these
// (optionally wrapped) so the coordinator can translate them into domain
// errors without knowing which backend produced them.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist in store
// - ErrConflict: uniqueness clash (duplicate email) or stale version
// - ErrInvalidState: entity in wrong state for requested operation
// - ErrUnavailable: store temporarily unreachable; includes client timeouts
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
