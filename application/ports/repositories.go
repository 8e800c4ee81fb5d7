package ports

import (
	"context"

	"github.com/eykd/prosemark-sub000/domain/core/aggregates"
	"github.com/eykd/prosemark-sub000/domain/core/valueobjects"
	"github.com/eykd/prosemark-sub000/domain/events"
	"github.com/eykd/prosemark-sub000/domain/outline"
)

// Snapshot is a loaded binder together with the outline document it was
// decoded from. The document lets a save keep the lines the binder does
// not model.
type Snapshot struct {
	Binder   *aggregates.Binder
	Document *outline.Document
}

// BinderRepository defines the interface for binder persistence
// This is a port in hexagonal architecture - the domain doesn't know about the implementation
type BinderRepository interface {
	// Load reads the binder. A missing binder is a not-found error.
	Load(ctx context.Context) (*Snapshot, error)

	// Save writes binder, reusing the formatting of previous when given
	Save(ctx context.Context, binder *aggregates.Binder, previous *outline.Document) error

	// Exists reports whether a binder has been saved
	Exists(ctx context.Context) (bool, error)
}

// IDGenerator mints identities for new binder items
type IDGenerator interface {
	NewNodeID() (valueobjects.NodeID, error)
}

// EventPublisher receives the domain events of committed binder changes
type EventPublisher interface {
	Publish(ctx context.Context, evts ...events.DomainEvent) error
}
