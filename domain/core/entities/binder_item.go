package entities

import (
	"fmt"

	"github.com/eykd/prosemark-sub000/domain/core/valueobjects"
	pkgerrors "github.com/eykd/prosemark-sub000/pkg/errors"
)

// BinderItem is one node of the binder tree: a titled entry with an optional
// identity and an ordered list of children.
//
// Items are immutable. There is no parent back-reference, so structural edits
// are made by rebuilding the ancestor chain with WithChildren.
type BinderItem struct {
	id           valueobjects.NodeID
	displayTitle string
	children     []*BinderItem
}

// NewBinderItem creates an item with the given identity. The subtree rooted at
// the new item must not repeat any NodeID.
func NewBinderItem(id valueobjects.NodeID, displayTitle string, children ...*BinderItem) (*BinderItem, error) {
	item := &BinderItem{
		id:           id,
		displayTitle: displayTitle,
		children:     copyChildren(children),
	}

	if err := item.validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// NewPlaceholder creates an item without identity
func NewPlaceholder(displayTitle string, children ...*BinderItem) (*BinderItem, error) {
	return NewBinderItem(valueobjects.NodeID{}, displayTitle, children...)
}

// validate checks that no child is nil and that ids are unique in the subtree
func (b *BinderItem) validate() error {
	seen := make(map[valueobjects.NodeID]struct{})
	stack := []*BinderItem{b}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if current == nil {
			return pkgerrors.NewInvalidBinderItemError("nil child")
		}

		if !current.id.IsZero() {
			if _, dup := seen[current.id]; dup {
				return pkgerrors.NewDuplicateNodeIDError(current.id.String())
			}
			seen[current.id] = struct{}{}
		}

		for i := len(current.children) - 1; i >= 0; i-- {
			stack = append(stack, current.children[i])
		}
	}

	return nil
}

// ID returns the item's identity; the zero NodeID for placeholders
func (b *BinderItem) ID() valueobjects.NodeID { return b.id }

// DisplayTitle returns the title shown in the outline
func (b *BinderItem) DisplayTitle() string { return b.displayTitle }

// IsPlaceholder reports whether the item has no identity yet
func (b *BinderItem) IsPlaceholder() bool { return b.id.IsZero() }

// Children returns a copy of the item's children
func (b *BinderItem) Children() []*BinderItem {
	return copyChildren(b.children)
}

// HasChildren reports whether the item has any children
func (b *BinderItem) HasChildren() bool { return len(b.children) > 0 }

// Count returns the number of items in the subtree, including b
func (b *BinderItem) Count() int {
	n := 0
	b.Walk(func(*BinderItem, int) bool {
		n++
		return true
	})
	return n
}

// CollectAllIDs returns every non-placeholder id in the subtree in preorder
func (b *BinderItem) CollectAllIDs() []valueobjects.NodeID {
	var ids []valueobjects.NodeID
	b.Walk(func(item *BinderItem, _ int) bool {
		if !item.IsPlaceholder() {
			ids = append(ids, item.id)
		}
		return true
	})
	return ids
}

// FindByID returns the first item in preorder carrying id, or nil.
// The zero NodeID never matches.
func (b *BinderItem) FindByID(id valueobjects.NodeID) *BinderItem {
	if id.IsZero() {
		return nil
	}

	var found *BinderItem
	b.Walk(func(item *BinderItem, _ int) bool {
		if item.id == id {
			found = item
			return false
		}
		return true
	})
	return found
}

// Walk visits the subtree in preorder, passing each item with its depth
// relative to b. Returning false from fn stops the walk.
func (b *BinderItem) Walk(fn func(item *BinderItem, depth int) bool) {
	type frame struct {
		item  *BinderItem
		depth int
	}

	stack := []frame{{b, 0}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !fn(top.item, top.depth) {
			return
		}

		for i := len(top.item.children) - 1; i >= 0; i-- {
			stack = append(stack, frame{top.item.children[i], top.depth + 1})
		}
	}
}

// WithChildren returns a copy of the item with its children replaced
func (b *BinderItem) WithChildren(children ...*BinderItem) (*BinderItem, error) {
	return NewBinderItem(b.id, b.displayTitle, children...)
}

// WithDisplayTitle returns a copy of the item with a new title
func (b *BinderItem) WithDisplayTitle(title string) *BinderItem {
	return &BinderItem{
		id:           b.id,
		displayTitle: title,
		children:     b.children,
	}
}

// Equal reports deep structural equality: same ids, titles and child order
func (b *BinderItem) Equal(other *BinderItem) bool {
	if b == nil || other == nil {
		return b == other
	}
	if b.id != other.id || b.displayTitle != other.displayTitle || len(b.children) != len(other.children) {
		return false
	}
	for i := range b.children {
		if !b.children[i].Equal(other.children[i]) {
			return false
		}
	}
	return true
}

func (b *BinderItem) String() string {
	if b.IsPlaceholder() {
		return fmt.Sprintf("BinderItem(placeholder %q)", b.displayTitle)
	}
	return fmt.Sprintf("BinderItem(%s %q)", b.id, b.displayTitle)
}

func copyChildren(children []*BinderItem) []*BinderItem {
	if len(children) == 0 {
		return nil
	}
	out := make([]*BinderItem, len(children))
	copy(out, children)
	return out
}
