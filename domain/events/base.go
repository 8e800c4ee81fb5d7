package events

import (
	"time"

	"github.com/eykd/prosemark-sub000/domain/core/valueobjects"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BinderAggregateID identifies the binder in emitted events. A project has
// exactly one binder, so it carries no id of its own.
const BinderAggregateID = "binder"

// Event type names
const (
	TypeBinderItemAdded   = "binder.item_added"
	TypeBinderItemRemoved = "binder.item_removed"
	TypeBinderItemMoved   = "binder.item_moved"
)

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

func newBase(eventType string, timestamp time.Time) BaseEvent {
	return BaseEvent{
		AggregateID: BinderAggregateID,
		EventType:   eventType,
		Timestamp:   timestamp,
		Version:     1,
	}
}

// BinderItemAdded is raised when an item is added as a root or as a child.
// ParentID is zero for roots; Position is the index among its siblings.
type BinderItemAdded struct {
	BaseEvent
	NodeID   valueobjects.NodeID `json:"node_id"`
	Title    string              `json:"title"`
	ParentID valueobjects.NodeID `json:"parent_id"`
	Position int                 `json:"position"`
}

// NewBinderItemAdded creates a BinderItemAdded event
func NewBinderItemAdded(nodeID valueobjects.NodeID, title string, parentID valueobjects.NodeID, position int, timestamp time.Time) BinderItemAdded {
	return BinderItemAdded{
		BaseEvent: newBase(TypeBinderItemAdded, timestamp),
		NodeID:    nodeID,
		Title:     title,
		ParentID:  parentID,
		Position:  position,
	}
}

// BinderItemRemoved is raised when an item and its subtree leave the binder
type BinderItemRemoved struct {
	BaseEvent
	NodeID     valueobjects.NodeID   `json:"node_id"`
	RemovedIDs []valueobjects.NodeID `json:"removed_ids"`
}

// NewBinderItemRemoved creates a BinderItemRemoved event
func NewBinderItemRemoved(nodeID valueobjects.NodeID, removedIDs []valueobjects.NodeID, timestamp time.Time) BinderItemRemoved {
	return BinderItemRemoved{
		BaseEvent:  newBase(TypeBinderItemRemoved, timestamp),
		NodeID:     nodeID,
		RemovedIDs: removedIDs,
	}
}

// BinderItemMoved is raised when an item is re-parented
type BinderItemMoved struct {
	BaseEvent
	NodeID      valueobjects.NodeID `json:"node_id"`
	OldParentID valueobjects.NodeID `json:"old_parent_id"`
	NewParentID valueobjects.NodeID `json:"new_parent_id"`
}

// NewBinderItemMoved creates a BinderItemMoved event
func NewBinderItemMoved(nodeID, oldParentID, newParentID valueobjects.NodeID, timestamp time.Time) BinderItemMoved {
	return BinderItemMoved{
		BaseEvent:   newBase(TypeBinderItemMoved, timestamp),
		NodeID:      nodeID,
		OldParentID: oldParentID,
		NewParentID: newParentID,
	}
}
