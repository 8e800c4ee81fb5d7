package identity

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/eykd/prosemark-sub000/application/ports"
	"github.com/eykd/prosemark-sub000/domain/core/valueobjects"
)

// UUIDv7Generator mints time-ordered node ids
type UUIDv7Generator struct{}

var _ ports.IDGenerator = UUIDv7Generator{}

// NewUUIDv7Generator creates a new generator
func NewUUIDv7Generator() UUIDv7Generator {
	return UUIDv7Generator{}
}

// NewNodeID returns a fresh UUIDv7 node id
func (UUIDv7Generator) NewNodeID() (valueobjects.NodeID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return valueobjects.NodeID{}, fmt.Errorf("failed to generate UUIDv7: %w", err)
	}
	return valueobjects.NewNodeIDFromString(id.String())
}
