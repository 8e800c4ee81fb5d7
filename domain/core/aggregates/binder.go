package aggregates

import (
	"fmt"
	"time"

	"github.com/eykd/prosemark-sub000/domain/core/entities"
	"github.com/eykd/prosemark-sub000/domain/core/valueobjects"
	"github.com/eykd/prosemark-sub000/domain/events"
	pkgerrors "github.com/eykd/prosemark-sub000/pkg/errors"
)

// timeNow is swapped out in tests
var timeNow = time.Now

// Binder is the aggregate root owning the forest of binder items.
//
// Binders are immutable: every mutation validates and returns a new Binder,
// leaving the receiver untouched, so a Binder may be shared between
// goroutines without locking. Across the whole forest every non-placeholder
// NodeID is unique.
type Binder struct {
	roots []*entities.BinderItem

	// Domain events produced by the mutations that led to this binder
	events []events.DomainEvent
}

// NewBinder creates a binder from the given roots, validating id uniqueness
// across every root and descendant.
func NewBinder(roots ...*entities.BinderItem) (*Binder, error) {
	return newBinder(roots, nil)
}

// NewEmptyBinder creates a binder without roots
func NewEmptyBinder() *Binder {
	return &Binder{}
}

func newBinder(roots []*entities.BinderItem, evts []events.DomainEvent) (*Binder, error) {
	b := &Binder{
		roots:  copyItems(roots),
		events: evts,
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// validate walks the forest in preorder and rejects nil items and repeated ids
func (b *Binder) validate() error {
	seen := make(map[valueobjects.NodeID]struct{})
	for _, root := range b.roots {
		if root == nil {
			return pkgerrors.NewInvalidBinderItemError("nil root")
		}
		var dup valueobjects.NodeID
		root.Walk(func(item *entities.BinderItem, _ int) bool {
			if item.IsPlaceholder() {
				return true
			}
			if _, ok := seen[item.ID()]; ok {
				dup = item.ID()
				return false
			}
			seen[item.ID()] = struct{}{}
			return true
		})
		if !dup.IsZero() {
			return pkgerrors.NewDuplicateNodeIDError(dup.String())
		}
	}
	return nil
}

// IsEmpty reports whether the binder has no roots
func (b *Binder) IsEmpty() bool {
	return len(b.roots) == 0
}

// Roots returns a copy of the top-level items
func (b *Binder) Roots() []*entities.BinderItem {
	return copyItems(b.roots)
}

// Size returns the number of items at any depth
func (b *Binder) Size() int {
	n := 0
	for _, root := range b.roots {
		n += root.Count()
	}
	return n
}

// Walk visits every item in preorder, root by root. Depth is 0 for roots.
// Returning false from fn stops the walk.
func (b *Binder) Walk(fn func(item *entities.BinderItem, depth int) bool) {
	stopped := false
	for _, root := range b.roots {
		root.Walk(func(item *entities.BinderItem, depth int) bool {
			if !fn(item, depth) {
				stopped = true
				return false
			}
			return true
		})
		if stopped {
			return
		}
	}
}

// FindByID returns the first item in preorder carrying id, or nil
func (b *Binder) FindByID(id valueobjects.NodeID) *entities.BinderItem {
	for _, root := range b.roots {
		if found := root.FindByID(id); found != nil {
			return found
		}
	}
	return nil
}

// GetAllIDs returns every non-placeholder id in preorder
func (b *Binder) GetAllIDs() []valueobjects.NodeID {
	var ids []valueobjects.NodeID
	for _, root := range b.roots {
		ids = append(ids, root.CollectAllIDs()...)
	}
	return ids
}

// CountPlaceholders counts id-less items at any depth
func (b *Binder) CountPlaceholders() int {
	n := 0
	b.Walk(func(item *entities.BinderItem, _ int) bool {
		if item.IsPlaceholder() {
			n++
		}
		return true
	})
	return n
}

// AddRoot returns a binder with item appended as the last root
func (b *Binder) AddRoot(item *entities.BinderItem) (*Binder, error) {
	return b.InsertRoot(item, len(b.roots))
}

// InsertRoot returns a binder with item inserted among the roots at position.
// Position is clamped into [0, len(roots)].
func (b *Binder) InsertRoot(item *entities.BinderItem, position int) (*Binder, error) {
	if err := b.checkInsertable(item); err != nil {
		return nil, err
	}

	if position < 0 {
		position = 0
	}
	if position > len(b.roots) {
		position = len(b.roots)
	}

	roots := spliceItems(b.roots, position, 0, item)
	event := events.NewBinderItemAdded(item.ID(), item.DisplayTitle(), valueobjects.NodeID{}, position, timeNow())
	return newBinder(roots, b.withEvent(event))
}

// AddChild returns a binder with item appended as the last child of parentID
func (b *Binder) AddChild(parentID valueobjects.NodeID, item *entities.BinderItem) (*Binder, error) {
	path := b.pathTo(parentID)
	if path == nil {
		return nil, pkgerrors.NewParentNotFoundError(parentID.String())
	}
	if err := b.checkInsertable(item); err != nil {
		return nil, err
	}

	parent := b.itemAt(path)
	children := append(parent.Children(), item)
	updated, err := parent.WithChildren(children...)
	if err != nil {
		return nil, err
	}

	roots, err := rebuild(b.roots, path, updated)
	if err != nil {
		return nil, err
	}

	event := events.NewBinderItemAdded(item.ID(), item.DisplayTitle(), parentID, len(children)-1, timeNow())
	return newBinder(roots, b.withEvent(event))
}

// RemoveByID returns a binder without the item carrying id and its subtree.
// Removing an absent id returns an equivalent binder.
func (b *Binder) RemoveByID(id valueobjects.NodeID) (*Binder, error) {
	path := b.pathTo(id)
	if path == nil {
		return newBinder(b.roots, b.events)
	}

	removed := b.itemAt(path).CollectAllIDs()
	roots, err := rebuild(b.roots, path)
	if err != nil {
		return nil, err
	}

	return newBinder(roots, b.withEvent(events.NewBinderItemRemoved(id, removed, timeNow())))
}

// MoveItem returns a binder where itemID has become the last child of
// newParentID. Moving an item beneath itself or one of its own descendants
// is an integrity error.
func (b *Binder) MoveItem(itemID, newParentID valueobjects.NodeID) (*Binder, error) {
	itemPath := b.pathTo(itemID)
	if itemPath == nil {
		return nil, pkgerrors.NewNodeNotFoundError(itemID.String())
	}
	if b.pathTo(newParentID) == nil {
		return nil, pkgerrors.NewParentNotFoundError(newParentID.String())
	}

	item := b.itemAt(itemPath)
	if itemID == newParentID || item.FindByID(newParentID) != nil {
		return nil, pkgerrors.NewCyclicMoveError(itemID.String(), newParentID.String())
	}

	var oldParentID valueobjects.NodeID
	if len(itemPath) > 1 {
		oldParentID = b.itemAt(itemPath[:len(itemPath)-1]).ID()
	}

	detached, err := rebuild(b.roots, itemPath)
	if err != nil {
		return nil, err
	}

	intermediate := &Binder{roots: detached}
	parentPath := intermediate.pathTo(newParentID)
	parent := intermediate.itemAt(parentPath)
	updated, err := parent.WithChildren(append(parent.Children(), item)...)
	if err != nil {
		return nil, err
	}

	roots, err := rebuild(detached, parentPath, updated)
	if err != nil {
		return nil, err
	}

	event := events.NewBinderItemMoved(itemID, oldParentID, newParentID, timeNow())
	return newBinder(roots, b.withEvent(event))
}

// GetUncommittedEvents returns the events recorded since the last commit
func (b *Binder) GetUncommittedEvents() []events.DomainEvent {
	out := make([]events.DomainEvent, len(b.events))
	copy(out, b.events)
	return out
}

// MarkEventsAsCommitted returns an equivalent binder with no pending events
func (b *Binder) MarkEventsAsCommitted() *Binder {
	return &Binder{roots: b.roots}
}

// Equal reports structural equality of the two forests. Events are ignored.
func (b *Binder) Equal(other *Binder) bool {
	if b == nil || other == nil {
		return b == other
	}
	if len(b.roots) != len(other.roots) {
		return false
	}
	for i := range b.roots {
		if !b.roots[i].Equal(other.roots[i]) {
			return false
		}
	}
	return true
}

func (b *Binder) String() string {
	if len(b.roots) == 1 {
		return "Binder(1 root)"
	}
	return fmt.Sprintf("Binder(%d roots)", len(b.roots))
}

// checkInsertable rejects nil items and items whose subtree shares an id
// with the current forest
func (b *Binder) checkInsertable(item *entities.BinderItem) error {
	if item == nil {
		return pkgerrors.NewInvalidBinderItemError("nil item")
	}

	existing := make(map[valueobjects.NodeID]struct{})
	for _, id := range b.GetAllIDs() {
		existing[id] = struct{}{}
	}
	for _, id := range item.CollectAllIDs() {
		if _, ok := existing[id]; ok {
			return pkgerrors.NewDuplicateNodeIDError(id.String())
		}
	}
	return nil
}

func (b *Binder) withEvent(event events.DomainEvent) []events.DomainEvent {
	out := make([]events.DomainEvent, len(b.events), len(b.events)+1)
	copy(out, b.events)
	return append(out, event)
}

// pathTo returns the child indexes leading from the roots to the first item
// in preorder carrying id, or nil when there is none.
func (b *Binder) pathTo(id valueobjects.NodeID) []int {
	if id.IsZero() {
		return nil
	}

	type frame struct {
		item *entities.BinderItem
		path []int
	}

	stack := make([]frame, 0, len(b.roots))
	for i := len(b.roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{b.roots[i], []int{i}})
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if top.item.ID() == id {
			return top.path
		}

		children := top.item.Children()
		for i := len(children) - 1; i >= 0; i-- {
			path := make([]int, len(top.path)+1)
			copy(path, top.path)
			path[len(top.path)] = i
			stack = append(stack, frame{children[i], path})
		}
	}
	return nil
}

// itemAt follows a path produced by pathTo
func (b *Binder) itemAt(path []int) *entities.BinderItem {
	item := b.roots[path[0]]
	for _, i := range path[1:] {
		item = item.Children()[i]
	}
	return item
}

// rebuild replaces the item at path with replacement (zero or more items)
// and rebuilds every ancestor on the way up. The input forest is not
// modified.
func rebuild(roots []*entities.BinderItem, path []int, replacement ...*entities.BinderItem) ([]*entities.BinderItem, error) {
	ancestors := make([]*entities.BinderItem, len(path)-1)
	level := roots
	for depth, i := range path[:len(path)-1] {
		ancestors[depth] = level[i]
		level = level[i].Children()
	}

	current := replacement
	for depth := len(path) - 1; depth > 0; depth-- {
		parent := ancestors[depth-1]
		siblings := spliceItems(parent.Children(), path[depth], 1, current...)
		updated, err := parent.WithChildren(siblings...)
		if err != nil {
			return nil, err
		}
		current = []*entities.BinderItem{updated}
	}

	return spliceItems(roots, path[0], 1, current...), nil
}

// spliceItems returns a new slice with remove items at index replaced by insert
func spliceItems(items []*entities.BinderItem, index, remove int, insert ...*entities.BinderItem) []*entities.BinderItem {
	out := make([]*entities.BinderItem, 0, len(items)-remove+len(insert))
	out = append(out, items[:index]...)
	out = append(out, insert...)
	return append(out, items[index+remove:]...)
}

func copyItems(items []*entities.BinderItem) []*entities.BinderItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]*entities.BinderItem, len(items))
	copy(out, items)
	return out
}
