package commands

import (
	pkgerrors "github.com/eykd/prosemark-sub000/pkg/errors"
	"github.com/eykd/prosemark-sub000/pkg/utils"
)

// InitBinderCommand creates an empty binder for a project
type InitBinderCommand struct{}

// Validate validates the command
func (c InitBinderCommand) Validate() error { return nil }

// AddBinderItemCommand adds an item to the binder. Without a ParentID the
// item becomes a root, inserted at Position when one is given. NodeID is
// minted when left empty, unless the item is a placeholder.
type AddBinderItemCommand struct {
	Title       string `json:"title" validate:"required"`
	NodeID      string `json:"node_id,omitempty" validate:"omitempty,nodeid"`
	ParentID    string `json:"parent_id,omitempty" validate:"omitempty,nodeid"`
	Position    *int   `json:"position,omitempty" validate:"omitempty,min=0"`
	Placeholder bool   `json:"placeholder"`
}

// Validate validates the command
func (c AddBinderItemCommand) Validate() error {
	err := utils.ValidateStruct(c)
	errs, ok := err.(*pkgerrors.ValidationErrors)
	if err != nil && !ok {
		return err
	}
	if errs == nil {
		errs = pkgerrors.NewValidationErrors()
	}

	if c.Placeholder && c.NodeID != "" {
		errs.Add("node_id", "placeholders cannot carry a node id")
	}
	if c.ParentID != "" && c.Position != nil {
		errs.Add("position", "position only applies to root items")
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// RemoveBinderItemCommand removes an item and its subtree
type RemoveBinderItemCommand struct {
	NodeID string `json:"node_id" validate:"required,nodeid"`
}

// Validate validates the command
func (c RemoveBinderItemCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// MoveBinderItemCommand moves an item under a new parent
type MoveBinderItemCommand struct {
	NodeID      string `json:"node_id" validate:"required,nodeid"`
	NewParentID string `json:"new_parent_id" validate:"required,nodeid"`
}

// Validate validates the command
func (c MoveBinderItemCommand) Validate() error {
	return utils.ValidateStruct(c)
}
