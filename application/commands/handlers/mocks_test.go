package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/eykd/prosemark-sub000/application/ports"
	"github.com/eykd/prosemark-sub000/domain/core/aggregates"
	"github.com/eykd/prosemark-sub000/domain/core/valueobjects"
	"github.com/eykd/prosemark-sub000/domain/events"
	"github.com/eykd/prosemark-sub000/domain/outline"
)

type MockBinderRepository struct {
	mock.Mock
}

func (m *MockBinderRepository) Load(ctx context.Context) (*ports.Snapshot, error) {
	args := m.Called(ctx)
	if s := args.Get(0); s != nil {
		return s.(*ports.Snapshot), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBinderRepository) Save(ctx context.Context, binder *aggregates.Binder, previous *outline.Document) error {
	args := m.Called(ctx, binder, previous)
	return args.Error(0)
}

func (m *MockBinderRepository) Exists(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

type MockIDGenerator struct {
	mock.Mock
}

func (m *MockIDGenerator) NewNodeID() (valueobjects.NodeID, error) {
	args := m.Called()
	return args.Get(0).(valueobjects.NodeID), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
	published []events.DomainEvent
}

func (m *MockEventPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	args := m.Called(ctx, evts)
	if args.Error(0) == nil {
		m.published = append(m.published, evts...)
	}
	return args.Error(0)
}
