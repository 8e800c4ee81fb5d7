package handlers

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/eykd/prosemark-sub000/application/commands"
	"github.com/eykd/prosemark-sub000/application/commands/bus"
	"github.com/eykd/prosemark-sub000/application/ports"
	"github.com/eykd/prosemark-sub000/domain/config"
	"github.com/eykd/prosemark-sub000/domain/core/aggregates"
	"github.com/eykd/prosemark-sub000/domain/core/entities"
	"github.com/eykd/prosemark-sub000/domain/core/valueobjects"
	pkgerrors "github.com/eykd/prosemark-sub000/pkg/errors"
)

// InitBinderHandler handles binder initialisation commands
type InitBinderHandler struct {
	repo   ports.BinderRepository
	logger *zap.Logger
}

// NewInitBinderHandler creates a new init binder handler
func NewInitBinderHandler(deps Dependencies) *InitBinderHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InitBinderHandler{repo: deps.Repository, logger: logger}
}

// Handle saves an empty binder unless one already exists
func (h *InitBinderHandler) Handle(ctx context.Context, cmd bus.Command) error {
	if _, ok := cmd.(commands.InitBinderCommand); !ok {
		return unexpectedCommand(cmd)
	}

	exists, err := h.repo.Exists(ctx)
	if err != nil {
		return fmt.Errorf("failed to check binder: %w", err)
	}
	if exists {
		return pkgerrors.NewConflictError("binder already exists")
	}

	if err := h.repo.Save(ctx, aggregates.NewEmptyBinder(), nil); err != nil {
		return fmt.Errorf("failed to save binder: %w", err)
	}

	h.logger.Info("Binder initialised")
	return nil
}

// AddBinderItemHandler handles add item commands
type AddBinderItemHandler struct {
	mutator
	ids    ports.IDGenerator
	config *config.DomainConfig
}

// NewAddBinderItemHandler creates a new add item handler
func NewAddBinderItemHandler(deps Dependencies) *AddBinderItemHandler {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &AddBinderItemHandler{
		mutator: newMutator(deps),
		ids:     deps.IDs,
		config:  cfg,
	}
}

// Handle adds the item described by the command
func (h *AddBinderItemHandler) Handle(ctx context.Context, cmd bus.Command) error {
	add, ok := cmd.(commands.AddBinderItemCommand)
	if !ok {
		return unexpectedCommand(cmd)
	}

	if err := h.checkTitle(add.Title); err != nil {
		return err
	}

	item, err := h.newItem(add)
	if err != nil {
		return err
	}

	err = h.apply(ctx, "add_item", func(binder *aggregates.Binder) (*aggregates.Binder, error) {
		if add.ParentID != "" {
			parentID, err := valueobjects.NewNodeIDFromString(add.ParentID)
			if err != nil {
				return nil, err
			}
			return binder.AddChild(parentID, item)
		}
		if add.Position != nil {
			return binder.InsertRoot(item, *add.Position)
		}
		return binder.AddRoot(item)
	})
	if err != nil {
		return err
	}

	h.logger.Info("Binder item added",
		zap.String("nodeID", item.ID().String()),
		zap.String("title", item.DisplayTitle()),
		zap.String("parentID", add.ParentID),
		zap.Bool("placeholder", item.IsPlaceholder()),
	)
	return nil
}

func (h *AddBinderItemHandler) checkTitle(title string) error {
	if strings.ContainsAny(title, "\r\n") {
		return pkgerrors.NewValidationError("title must be a single line")
	}
	if h.config.MaxTitleLength > 0 && utf8.RuneCountInString(title) > h.config.MaxTitleLength {
		return pkgerrors.NewValidationError(
			fmt.Sprintf("title must be at most %d characters", h.config.MaxTitleLength),
		)
	}
	return nil
}

func (h *AddBinderItemHandler) newItem(cmd commands.AddBinderItemCommand) (*entities.BinderItem, error) {
	if cmd.Placeholder {
		return entities.NewPlaceholder(cmd.Title)
	}

	if cmd.NodeID != "" {
		id, err := valueobjects.NewNodeIDFromString(cmd.NodeID)
		if err != nil {
			return nil, err
		}
		return entities.NewBinderItem(id, cmd.Title)
	}

	if h.ids == nil {
		return nil, pkgerrors.NewInternalError("no node id generator configured")
	}
	id, err := h.ids.NewNodeID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate node id: %w", err)
	}
	return entities.NewBinderItem(id, cmd.Title)
}

// RemoveBinderItemHandler handles remove item commands
type RemoveBinderItemHandler struct {
	mutator
}

// NewRemoveBinderItemHandler creates a new remove item handler
func NewRemoveBinderItemHandler(deps Dependencies) *RemoveBinderItemHandler {
	return &RemoveBinderItemHandler{mutator: newMutator(deps)}
}

// Handle removes the item and its subtree. Removing an unknown id is not an
// error.
func (h *RemoveBinderItemHandler) Handle(ctx context.Context, cmd bus.Command) error {
	remove, ok := cmd.(commands.RemoveBinderItemCommand)
	if !ok {
		return unexpectedCommand(cmd)
	}

	nodeID, err := valueobjects.NewNodeIDFromString(remove.NodeID)
	if err != nil {
		return err
	}

	removed := 0
	err = h.apply(ctx, "remove_item", func(binder *aggregates.Binder) (*aggregates.Binder, error) {
		if item := binder.FindByID(nodeID); item != nil {
			removed = item.Count()
		}
		return binder.RemoveByID(nodeID)
	})
	if err != nil {
		return err
	}

	if removed == 0 {
		h.logger.Debug("Binder item not present", zap.String("nodeID", nodeID.String()))
		return nil
	}
	h.logger.Info("Binder item removed",
		zap.String("nodeID", nodeID.String()),
		zap.Int("removed", removed),
	)
	return nil
}

// MoveBinderItemHandler handles move item commands
type MoveBinderItemHandler struct {
	mutator
}

// NewMoveBinderItemHandler creates a new move item handler
func NewMoveBinderItemHandler(deps Dependencies) *MoveBinderItemHandler {
	return &MoveBinderItemHandler{mutator: newMutator(deps)}
}

// Handle moves the item to the end of its new parent's children
func (h *MoveBinderItemHandler) Handle(ctx context.Context, cmd bus.Command) error {
	move, ok := cmd.(commands.MoveBinderItemCommand)
	if !ok {
		return unexpectedCommand(cmd)
	}

	nodeID, err := valueobjects.NewNodeIDFromString(move.NodeID)
	if err != nil {
		return err
	}
	parentID, err := valueobjects.NewNodeIDFromString(move.NewParentID)
	if err != nil {
		return err
	}

	err = h.apply(ctx, "move_item", func(binder *aggregates.Binder) (*aggregates.Binder, error) {
		return binder.MoveItem(nodeID, parentID)
	})
	if err != nil {
		return err
	}

	h.logger.Info("Binder item moved",
		zap.String("nodeID", nodeID.String()),
		zap.String("parentID", parentID.String()),
	)
	return nil
}

// RegisterAll registers every binder command handler on b
func RegisterAll(b *bus.CommandBus, deps Dependencies) error {
	registrations := []struct {
		cmd     bus.Command
		handler bus.CommandHandler
	}{
		{commands.InitBinderCommand{}, NewInitBinderHandler(deps)},
		{commands.AddBinderItemCommand{}, NewAddBinderItemHandler(deps)},
		{commands.RemoveBinderItemCommand{}, NewRemoveBinderItemHandler(deps)},
		{commands.MoveBinderItemCommand{}, NewMoveBinderItemHandler(deps)},
	}

	for _, r := range registrations {
		if err := b.Register(r.cmd, r.handler); err != nil {
			return err
		}
	}
	return nil
}
