// Package notify publishes lifecycle events after successful provision,
// promote, and demote operations. Delivery is fire-and-forget: a publish
// failure is logged by the caller and never fails the lifecycle operation.
package notify

import (
	"context"
	"time"

	id "dojoroll/pkg/domain"
)

// Kind names a lifecycle event.
type Kind string

const (
	EventProvisioned Kind = "person.provisioned"
	EventPromoted    Kind = "person.promoted"
	EventDemoted     Kind = "person.demoted"
)

// Event is the payload delivered to downstream consumers (push notification
// fan-out, roster caches).
type Event struct {
	Kind      Kind        `json:"kind"`
	PersonID  id.PersonID `json:"person_id"`
	Role      id.Role     `json:"role"`
	Email     string      `json:"email,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Notifier delivers lifecycle events.
type Notifier interface {
	Publish(ctx context.Context, event Event) error
}

// Noop drops events; used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
