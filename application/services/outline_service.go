package services

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/eykd/prosemark-sub000/domain/config"
	"github.com/eykd/prosemark-sub000/domain/core/aggregates"
	"github.com/eykd/prosemark-sub000/domain/core/entities"
	"github.com/eykd/prosemark-sub000/domain/core/valueobjects"
	"github.com/eykd/prosemark-sub000/domain/outline"
	"github.com/eykd/prosemark-sub000/pkg/observability"
)

// OutlineService converts between outline text and Binder aggregates.
// Outline syntax problems never fail a decode; they stay in the document's
// ledger. Malformed ids and duplicate ids do fail it.
type OutlineService struct {
	parser     *outline.Parser
	serializer *outline.Serializer
	metrics    *observability.Collector
	logger     *zap.Logger
}

// NewOutlineService creates a new outline service
func NewOutlineService(
	cfg *config.DomainConfig,
	metrics *observability.Collector,
	logger *zap.Logger,
) *OutlineService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OutlineService{
		parser:     outline.NewParser(cfg),
		serializer: outline.NewSerializer(cfg),
		metrics:    metrics,
		logger:     logger,
	}
}

// Parse parses text without building a binder
func (s *OutlineService) Parse(text string) *outline.Document {
	doc := s.parser.Parse(text)
	s.metrics.RecordParse(doc.ItemCount(), len(doc.Ledger()))
	return doc
}

// Decode parses text and builds the binder it describes
func (s *OutlineService) Decode(text string) (*aggregates.Binder, *outline.Document, error) {
	doc := s.Parse(text)

	if ledger := doc.Ledger(); ledger.NonBlank() > 0 {
		for _, entry := range ledger {
			s.logger.Debug("Unparsed outline line",
				zap.Int("line", entry.Index+1),
				zap.String("text", entry.Line),
			)
		}
		s.logger.Warn("Outline contains lines that are not binder items",
			zap.Int("count", ledger.NonBlank()),
		)
	}

	roots, err := toBinderItems(doc)
	if err != nil {
		return nil, nil, err
	}

	binder, err := aggregates.NewBinder(roots...)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid binder outline: %w", err)
	}

	return binder, doc, nil
}

// Encode renders binder as outline text. When previous is the document the
// binder was decoded from, its unparsed lines are woven back in and the
// source lines of unchanged items are kept. A binder that still matches
// previous renders as previous's source text.
func (s *OutlineService) Encode(binder *aggregates.Binder, previous *outline.Document) string {
	if previous != nil && !previous.Modified() && sameOutline(binder, previous) {
		s.metrics.RecordRender()
		return previous.Source()
	}

	doc := outline.NewDocument()

	var sources *sourceIndex
	if previous != nil {
		doc.InheritFormat(previous)
		sources = indexSources(previous)
	}

	type pending struct {
		item   *entities.BinderItem
		parent *outline.Node
	}

	roots := binder.Roots()
	stack := make([]pending, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, pending{roots[i], doc.Root()})
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		target := ""
		if !top.item.IsPlaceholder() {
			target = top.item.ID().String()
		}
		node := outline.NewListItem(top.item.DisplayTitle(), target)
		if from := sources.take(top.item); from != nil {
			node.AdoptSource(from)
		}
		_ = top.parent.AddItem(node)

		children := top.item.Children()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, pending{children[i], node})
		}
	}

	s.metrics.RecordRender()
	return s.serializer.Serialize(doc)
}

// sameOutline reports whether the list items of doc spell out binder
// exactly, down to the id text of every link
func sameOutline(binder *aggregates.Binder, doc *outline.Document) bool {
	type level struct {
		items []*entities.BinderItem
		nodes []*outline.Node
	}

	stack := []level{{binder.Roots(), doc.Items()}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if len(top.items) != len(top.nodes) {
			return false
		}
		for i, item := range top.items {
			node := top.nodes[i]
			if node.Title() != item.DisplayTitle() || node.IsPlaceholder() != item.IsPlaceholder() {
				return false
			}
			if !item.IsPlaceholder() && node.Target() != item.ID().String() {
				return false
			}
			stack = append(stack, level{item.Children(), node.Items()})
		}
	}
	return true
}

// toBinderItems converts the document's list items bottom-up without
// recursion
func toBinderItems(doc *outline.Document) ([]*entities.BinderItem, error) {
	type entry struct {
		node   *outline.Node
		parent int
	}

	var order []entry
	stack := make([]entry, 0)
	items := doc.Items()
	for i := len(items) - 1; i >= 0; i-- {
		stack = append(stack, entry{items[i], -1})
	}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		index := len(order)
		order = append(order, top)

		children := top.node.Items()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, entry{children[i], index})
		}
	}

	// Walking preorder backwards builds every child before its parent;
	// children collect in reverse and are flipped once.
	built := make([][]*entities.BinderItem, len(order))
	var roots []*entities.BinderItem
	for i := len(order) - 1; i >= 0; i-- {
		e := order[i]

		id, err := nodeIDFromTarget(e.node)
		if err != nil {
			return nil, err
		}

		children := reverse(built[i])
		built[i] = nil
		item, err := entities.NewBinderItem(id, e.node.Title(), children...)
		if err != nil {
			return nil, fmt.Errorf("invalid binder outline at line %d: %w", e.node.Line()+1, err)
		}

		if e.parent < 0 {
			roots = append(roots, item)
		} else {
			built[e.parent] = append(built[e.parent], item)
		}
	}

	return reverse(roots), nil
}

func nodeIDFromTarget(node *outline.Node) (valueobjects.NodeID, error) {
	if node.IsPlaceholder() {
		return valueobjects.NodeID{}, nil
	}
	id, err := valueobjects.NewNodeIDFromString(node.Target())
	if err != nil {
		return valueobjects.NodeID{}, fmt.Errorf("invalid node id at line %d: %w", node.Line()+1, err)
	}
	return id, nil
}

func reverse(items []*entities.BinderItem) []*entities.BinderItem {
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return items
}

// sourceIndex finds the item of an earlier parse that a binder item came
// from: by id, or for placeholders by title in source order.
type sourceIndex struct {
	byID         map[valueobjects.NodeID]*outline.Node
	placeholders map[string][]*outline.Node
}

func indexSources(doc *outline.Document) *sourceIndex {
	idx := &sourceIndex{
		byID:         make(map[valueobjects.NodeID]*outline.Node),
		placeholders: make(map[string][]*outline.Node),
	}
	doc.Root().Walk(func(n *outline.Node) bool {
		if n.Kind() != outline.ListItemNode {
			return true
		}
		if n.IsPlaceholder() {
			idx.placeholders[n.Title()] = append(idx.placeholders[n.Title()], n)
			return true
		}
		if id, err := valueobjects.NewNodeIDFromString(n.Target()); err == nil {
			if _, seen := idx.byID[id]; !seen {
				idx.byID[id] = n
			}
		}
		return true
	})
	return idx
}

func (idx *sourceIndex) take(item *entities.BinderItem) *outline.Node {
	if idx == nil {
		return nil
	}
	if !item.IsPlaceholder() {
		return idx.byID[item.ID()]
	}
	queue := idx.placeholders[item.DisplayTitle()]
	if len(queue) == 0 {
		return nil
	}
	idx.placeholders[item.DisplayTitle()] = queue[1:]
	return queue[0]
}
