package memory

import (
	"context"
	"sync"
	"time"

	"github.com/eykd/prosemark-sub000/application/ports"
	"github.com/eykd/prosemark-sub000/application/services"
	"github.com/eykd/prosemark-sub000/domain/core/aggregates"
	"github.com/eykd/prosemark-sub000/domain/outline"
	pkgerrors "github.com/eykd/prosemark-sub000/pkg/errors"
	"github.com/eykd/prosemark-sub000/pkg/observability"
)

const backendName = "memory"

// BinderRepository keeps the binder as outline text in memory. It runs the
// same codec as the file repository, so what a test saves is exactly what
// would land on disk.
type BinderRepository struct {
	mu      sync.RWMutex
	text    string
	saved   bool
	codec   *services.OutlineService
	metrics *observability.Collector
}

var _ ports.BinderRepository = (*BinderRepository)(nil)

// NewBinderRepository creates an empty in-memory repository
func NewBinderRepository(codec *services.OutlineService, metrics *observability.Collector) *BinderRepository {
	if codec == nil {
		codec = services.NewOutlineService(nil, metrics, nil)
	}
	return &BinderRepository{codec: codec, metrics: metrics}
}

// NewBinderRepositoryWithText creates a repository that already holds text
func NewBinderRepositoryWithText(text string, codec *services.OutlineService, metrics *observability.Collector) *BinderRepository {
	repo := NewBinderRepository(codec, metrics)
	repo.text = text
	repo.saved = true
	return repo
}

// Load decodes the stored text
func (r *BinderRepository) Load(ctx context.Context) (snapshot *ports.Snapshot, err error) {
	start := time.Now()
	defer func() { r.metrics.RecordRepository("load", backendName, time.Since(start), err) }()

	r.mu.RLock()
	text, saved := r.text, r.saved
	r.mu.RUnlock()

	if !saved {
		return nil, pkgerrors.NewNotFoundError("binder").WithCode(pkgerrors.CodeBinderNotFound)
	}

	binder, doc, err := r.codec.Decode(text)
	if err != nil {
		return nil, err
	}
	return &ports.Snapshot{Binder: binder, Document: doc}, nil
}

// Save encodes binder and replaces the stored text
func (r *BinderRepository) Save(ctx context.Context, binder *aggregates.Binder, previous *outline.Document) error {
	start := time.Now()
	text := r.codec.Encode(binder, previous)

	r.mu.Lock()
	r.text = text
	r.saved = true
	r.mu.Unlock()

	r.metrics.RecordRepository("save", backendName, time.Since(start), nil)
	return nil
}

// Exists reports whether a binder has been saved
func (r *BinderRepository) Exists(ctx context.Context) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.saved, nil
}

// Text returns the stored outline text
func (r *BinderRepository) Text() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.text
}
