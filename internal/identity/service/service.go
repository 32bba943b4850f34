// Package service implements the identity lifecycle coordinator: the five
// operations (provision, modify, promote, demote, deprovision) that keep the
// credential store and the profile store consistent with each other.
//
// The two stores share no transaction, so each operation is an ordered
// pipeline with explicit compensation on partial failure. Orderings are
// deliberate: credentials are created before persons (an orphaned credential
// is cheaper to detect and reconcile than a person pointing at a credential
// that does not exist) and deleted before persons (the authentication surface
// is revoked before the record disappears).
package service

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"dojoroll/internal/identity/media"
	"dojoroll/internal/identity/metrics"
	"dojoroll/internal/identity/notify"
	"dojoroll/internal/identity/store/credential"
	"dojoroll/internal/identity/store/profile"
)

// Operation label values for metrics and logs.
const (
	opProvision   = "provision"
	opModify      = "modify"
	opPromote     = "promote"
	opDemote      = "demote"
	opDeprovision = "deprovision"
)

// Coordinator orchestrates person lifecycle transitions across the credential
// and profile stores. All durable state lives in the stores; the coordinator
// itself is stateless and safe for concurrent use.
type Coordinator struct {
	credentials credential.Store
	profiles    profile.Store
	media       media.Cleaner
	notifier    notify.Notifier
	logger      *slog.Logger
	metrics     *metrics.Metrics
	tracer      trace.Tracer
}

// Option configures optional coordinator collaborators.
type Option func(*Coordinator)

func WithMediaCleaner(c media.Cleaner) Option {
	return func(s *Coordinator) { s.media = c }
}

func WithNotifier(n notify.Notifier) Option {
	return func(s *Coordinator) { s.notifier = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Coordinator) { s.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Coordinator) { s.metrics = m }
}

// New constructs a coordinator over the two store clients.
func New(credentials credential.Store, profiles profile.Store, opts ...Option) *Coordinator {
	s := &Coordinator{
		credentials: credentials,
		profiles:    profiles,
		media:       media.NoopCleaner{},
		notifier:    notify.Noop{},
		logger:      slog.Default(),
		tracer:      otel.Tracer("dojoroll/identity"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// emit publishes a lifecycle event. Failures are logged and swallowed; the
// notification hook never fails an operation.
func (s *Coordinator) emit(ctx context.Context, event notify.Event) {
	if err := s.notifier.Publish(context.WithoutCancel(ctx), event); err != nil {
		s.logger.WarnContext(ctx, "lifecycle notification failed",
			"kind", event.Kind,
			"person_id", event.PersonID,
			"error", err,
		)
	}
}
