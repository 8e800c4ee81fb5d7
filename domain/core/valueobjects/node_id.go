package valueobjects

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	pkgerrors "github.com/eykd/prosemark-sub000/pkg/errors"
)

// requiredVersion is the only UUID version accepted for node identity.
// Version 7 ids start with a millisecond timestamp, so their string order
// approximates creation order.
const requiredVersion = 7

// NodeID is a value object representing the identity of a binder node.
// The zero value means "no identity" and marks placeholders.
type NodeID struct {
	value string
}

// NewNodeIDFromString validates id and returns it as a NodeID holding the
// canonical lowercase hyphenated form.
func NewNodeIDFromString(id string) (NodeID, error) {
	if strings.TrimSpace(id) == "" {
		return NodeID{}, pkgerrors.NewEmptyNodeIDError()
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return NodeID{}, pkgerrors.NewInvalidNodeIDError(id, err)
	}

	if v := int(parsed.Version()); v != requiredVersion {
		return NodeID{}, pkgerrors.NewNodeIDVersionError(id, v)
	}

	return NodeID{value: parsed.String()}, nil
}

// MustNodeID is like NewNodeIDFromString but panics on invalid input.
// Intended for constants and tests.
func MustNodeID(id string) NodeID {
	nodeID, err := NewNodeIDFromString(id)
	if err != nil {
		panic(err)
	}
	return nodeID
}

// String returns the string representation of the NodeID
func (id NodeID) String() string {
	return id.value
}

// Equals checks if two NodeIDs are equal
func (id NodeID) Equals(other NodeID) bool {
	return id.value == other.value
}

// Compare orders NodeIDs by their canonical string form
func (id NodeID) Compare(other NodeID) int {
	return strings.Compare(id.value, other.value)
}

// Less reports whether id sorts before other
func (id NodeID) Less(other NodeID) bool {
	return id.value < other.value
}

// IsZero checks if the NodeID is the zero value
func (id NodeID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler. The zero value encodes as null.
func (id NodeID) MarshalJSON() ([]byte, error) {
	if id.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(id.value)
}

// UnmarshalJSON implements json.Unmarshaler
func (id *NodeID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = NodeID{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return pkgerrors.NewInvalidNodeIDError(string(data), err)
	}
	parsed, err := NewNodeIDFromString(raw)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (id NodeID) MarshalText() ([]byte, error) {
	return []byte(id.value), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (id *NodeID) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*id = NodeID{}
		return nil
	}
	parsed, err := NewNodeIDFromString(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
