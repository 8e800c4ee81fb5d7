package handlers

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/eykd/prosemark-sub000/application/commands/bus"
	"github.com/eykd/prosemark-sub000/application/ports"
	"github.com/eykd/prosemark-sub000/domain/config"
	"github.com/eykd/prosemark-sub000/domain/core/aggregates"
	"github.com/eykd/prosemark-sub000/pkg/observability"
)

// Dependencies are the collaborators shared by the binder command handlers
type Dependencies struct {
	Config     *config.DomainConfig
	Repository ports.BinderRepository
	IDs        ports.IDGenerator
	Publisher  ports.EventPublisher
	Metrics    *observability.Collector
	Tracer     *observability.Tracer
	Logger     *zap.Logger
}

// mutator runs the load → mutate → save cycle every binder command shares
type mutator struct {
	repo      ports.BinderRepository
	publisher ports.EventPublisher
	metrics   *observability.Collector
	tracer    *observability.Tracer
	logger    *zap.Logger
}

func newMutator(deps Dependencies) mutator {
	m := mutator{
		repo:      deps.Repository,
		publisher: deps.Publisher,
		metrics:   deps.Metrics,
		tracer:    deps.Tracer,
		logger:    deps.Logger,
	}
	if m.tracer == nil {
		m.tracer = observability.NewTracer("prosemark.binder")
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}
	return m
}

// apply loads the binder, hands it to mutate and saves the result. The
// events of the new binder are published after the save succeeds.
func (m mutator) apply(
	ctx context.Context,
	operation string,
	mutate func(*aggregates.Binder) (*aggregates.Binder, error),
) error {
	return m.tracer.TraceFunction(ctx, "binder."+operation, func(ctx context.Context) error {
		snapshot, err := m.repo.Load(ctx)
		if err != nil {
			return fmt.Errorf("failed to load binder: %w", err)
		}

		next, err := mutate(snapshot.Binder)
		m.metrics.RecordMutation(operation, err)
		if err != nil {
			return err
		}

		if err := m.repo.Save(ctx, next, snapshot.Document); err != nil {
			return fmt.Errorf("failed to save binder: %w", err)
		}

		evts := next.GetUncommittedEvents()
		observability.AddAttributes(ctx,
			attribute.Int("binder.size", next.Size()),
			attribute.Int("binder.events", len(evts)),
		)
		if m.publisher != nil && len(evts) > 0 {
			if err := m.publisher.Publish(ctx, evts...); err != nil {
				m.logger.Warn("Failed to publish events", zap.String("operation", operation), zap.Error(err))
			}
		}

		return nil
	}, attribute.String("binder.operation", operation))
}

func unexpectedCommand(cmd bus.Command) error {
	return fmt.Errorf("unexpected command type %T", cmd)
}
