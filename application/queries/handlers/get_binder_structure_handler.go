package handlers

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/eykd/prosemark-sub000/application/ports"
	"github.com/eykd/prosemark-sub000/application/queries"
	"github.com/eykd/prosemark-sub000/application/queries/bus"
	"github.com/eykd/prosemark-sub000/domain/core/aggregates"
	"github.com/eykd/prosemark-sub000/domain/core/entities"
	"github.com/eykd/prosemark-sub000/domain/outline"
)

// GetBinderStructureHandler handles binder structure queries
type GetBinderStructureHandler struct {
	repo   ports.BinderRepository
	logger *zap.Logger
}

// NewGetBinderStructureHandler creates a new handler
func NewGetBinderStructureHandler(repo ports.BinderRepository, logger *zap.Logger) *GetBinderStructureHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GetBinderStructureHandler{
		repo:   repo,
		logger: logger,
	}
}

// Handle loads the binder and describes it
func (h *GetBinderStructureHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	if _, ok := query.(queries.GetBinderStructureQuery); !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}

	snapshot, err := h.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load binder: %w", err)
	}

	result := &queries.BinderStructure{
		Roots:         structureOf(snapshot.Binder),
		TotalItems:    snapshot.Binder.Size(),
		Placeholders:  snapshot.Binder.CountPlaceholders(),
		UnparsedLines: unparsedLines(snapshot.Document),
	}

	h.logger.Debug("Binder structure loaded",
		zap.Int("items", result.TotalItems),
		zap.Int("placeholders", result.Placeholders),
		zap.Int("unparsedLines", len(result.UnparsedLines)),
	)

	return result, nil
}

// structureOf mirrors the binder tree without recursion
func structureOf(binder *aggregates.Binder) []*queries.StructureNode {
	type pending struct {
		item  *entities.BinderItem
		node  *queries.StructureNode
		depth int
	}

	roots := binder.Roots()
	out := make([]*queries.StructureNode, len(roots))
	stack := make([]pending, 0, len(roots))
	for i, item := range roots {
		out[i] = &queries.StructureNode{}
		stack = append(stack, pending{item, out[i], 0})
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		top.node.Title = top.item.DisplayTitle()
		top.node.Placeholder = top.item.IsPlaceholder()
		top.node.Depth = top.depth
		if !top.item.IsPlaceholder() {
			top.node.ID = top.item.ID().String()
		}

		children := top.item.Children()
		if len(children) == 0 {
			continue
		}
		top.node.Children = make([]*queries.StructureNode, len(children))
		for i, child := range children {
			top.node.Children[i] = &queries.StructureNode{}
			stack = append(stack, pending{child, top.node.Children[i], top.depth + 1})
		}
	}

	return out
}

func unparsedLines(doc *outline.Document) []queries.UnparsedLine {
	if doc == nil {
		return nil
	}

	var out []queries.UnparsedLine
	for _, entry := range doc.Ledger() {
		if strings.TrimSpace(entry.Line) == "" {
			continue
		}
		out = append(out, queries.UnparsedLine{Line: entry.Index + 1, Text: entry.Line})
	}
	return out
}
