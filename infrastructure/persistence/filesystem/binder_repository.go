package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/eykd/prosemark-sub000/application/ports"
	"github.com/eykd/prosemark-sub000/application/services"
	"github.com/eykd/prosemark-sub000/domain/core/aggregates"
	"github.com/eykd/prosemark-sub000/domain/outline"
	pkgerrors "github.com/eykd/prosemark-sub000/pkg/errors"
	"github.com/eykd/prosemark-sub000/pkg/observability"
)

// Managed block markers. Only the outline between them belongs to the
// binder; everything around them is kept as written.
const (
	BeginMarker = "<!-- pmk:begin-binder -->"
	EndMarker   = "<!-- pmk:end-binder -->"
)

const backendName = "filesystem"

// ErrBinderNotFound is the cause of the not-found error Load returns for a
// missing binder file
var ErrBinderNotFound = errors.New("binder file not found")

// BinderRepository stores the binder in a markdown file
type BinderRepository struct {
	path    string
	codec   *services.OutlineService
	metrics *observability.Collector
	logger  *zap.Logger
	mu      sync.Mutex
}

var _ ports.BinderRepository = (*BinderRepository)(nil)

// NewBinderRepository creates a repository for the binder file at path
func NewBinderRepository(
	path string,
	codec *services.OutlineService,
	metrics *observability.Collector,
	logger *zap.Logger,
) *BinderRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	if codec == nil {
		codec = services.NewOutlineService(nil, metrics, logger)
	}
	return &BinderRepository{
		path:    path,
		codec:   codec,
		metrics: metrics,
		logger:  logger,
	}
}

// Path returns the binder file location
func (r *BinderRepository) Path() string {
	return r.path
}

// Load reads and decodes the managed block of the binder file
func (r *BinderRepository) Load(ctx context.Context) (snapshot *ports.Snapshot, err error) {
	start := time.Now()
	defer func() { r.metrics.RecordRepository("load", backendName, time.Since(start), err) }()

	content, err := r.read()
	if err != nil {
		return nil, err
	}

	block := splitManagedBlock(content)
	binder, doc, err := r.codec.Decode(block.body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", r.path, err)
	}

	r.logger.Debug("Binder loaded",
		zap.String("path", r.path),
		zap.Int("items", binder.Size()),
		zap.Bool("managed", block.managed),
	)
	return &ports.Snapshot{Binder: binder, Document: doc}, nil
}

// Save renders binder into the managed block. The file is only rewritten
// when its content changes.
func (r *BinderRepository) Save(ctx context.Context, binder *aggregates.Binder, previous *outline.Document) (err error) {
	start := time.Now()
	defer func() { r.metrics.RecordRepository("save", backendName, time.Since(start), err) }()

	r.mu.Lock()
	defer r.mu.Unlock()

	body := r.codec.Encode(binder, previous)

	current, err := r.read()
	var next string
	switch {
	case err == nil:
		next = splitManagedBlock(current).with(body)
	case errors.Is(err, ErrBinderNotFound):
		next = newManagedFile(body)
	default:
		return err
	}

	if err == nil && next == current {
		r.logger.Debug("Binder unchanged", zap.String("path", r.path))
		return nil
	}

	if err := writeAtomic(r.path, next); err != nil {
		return err
	}

	r.logger.Debug("Binder saved", zap.String("path", r.path), zap.Int("bytes", len(next)))
	return nil
}

// Exists reports whether the binder file exists
func (r *BinderRepository) Exists(ctx context.Context) (bool, error) {
	_, err := os.Stat(r.path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, pkgerrors.NewFilesystemError("stat", r.path, err)
	}
}

func (r *BinderRepository) read() (string, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", pkgerrors.NewNotFoundError("binder").
				WithCode(pkgerrors.CodeBinderNotFound).
				WithDetails(map[string]interface{}{"path": r.path}).
				WithCause(ErrBinderNotFound)
		}
		return "", pkgerrors.NewFilesystemError("read", r.path, err)
	}
	return string(data), nil
}

// managedBlock is a binder file cut around its outline body
type managedBlock struct {
	head    string
	body    string
	tail    string
	managed bool
}

// splitManagedBlock finds the outline between the markers. Without a
// complete pair of markers the whole file is the outline.
func splitManagedBlock(content string) managedBlock {
	begin := strings.Index(content, BeginMarker)
	if begin < 0 {
		return managedBlock{body: content}
	}

	bodyStart := begin + len(BeginMarker)
	switch {
	case strings.HasPrefix(content[bodyStart:], "\r\n"):
		bodyStart += 2
	case strings.HasPrefix(content[bodyStart:], "\n"):
		bodyStart++
	}

	end := strings.Index(content[bodyStart:], EndMarker)
	if end < 0 {
		return managedBlock{body: content}
	}
	end += bodyStart

	return managedBlock{
		head:    content[:bodyStart],
		body:    content[bodyStart:end],
		tail:    content[end:],
		managed: true,
	}
}

// with returns the file content with body in place of the old outline
func (b managedBlock) with(body string) string {
	if !b.managed {
		return body
	}
	return b.head + body + b.tail
}

func newManagedFile(body string) string {
	return BeginMarker + "\n" + body + EndMarker + "\n"
}

// writeAtomic replaces path through a temp file in the same directory
func writeAtomic(path, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return pkgerrors.NewFilesystemError("mkdir", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return pkgerrors.NewFilesystemError("create", dir, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return pkgerrors.NewFilesystemError("write", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return pkgerrors.NewFilesystemError("sync", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return pkgerrors.NewFilesystemError("close", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return pkgerrors.NewFilesystemError("chmod", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return pkgerrors.NewFilesystemError("rename", path, err)
	}
	return nil
}
