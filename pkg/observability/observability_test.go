package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"

	pkgerrors "github.com/eykd/prosemark-sub000/pkg/errors"
)

func TestCollector_RecordsBinderActivity(t *testing.T) {
	c := NewCollector("test")

	c.RecordParse(3, 2)
	c.RecordParse(1, 0)
	c.RecordRender()
	c.RecordMutation("add", nil)
	c.RecordMutation("add", pkgerrors.NewDuplicateNodeIDError("x"))
	c.RecordMutation("move", errors.New("disk full"))
	c.RecordRepository("load", "filesystem", 5*time.Millisecond, nil)

	assert.Equal(t, 4.0, testutil.ToFloat64(c.OutlineItemsParsed))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.LedgerLines))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.OutlinesRendered))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.BinderMutations.WithLabelValues("add", StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.BinderMutations.WithLabelValues("add", StatusError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.BinderMutations.WithLabelValues("move", StatusError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.IntegrityViolations.WithLabelValues(pkgerrors.CodeDuplicateNodeID)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.RepositoryOperations.WithLabelValues("load", "filesystem", StatusSuccess)))

	families, err := c.GetRegistry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestCollector_SeparateRegistries(t *testing.T) {
	a := NewCollector("test")
	b := NewCollector("test")
	a.RecordRender()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.OutlinesRendered))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.OutlinesRendered))
}

func TestCollector_NilIsNoop(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.RecordParse(1, 1)
		c.RecordRender()
		c.RecordMutation("add", nil)
		c.RecordRepository("save", "memory", time.Second, nil)
	})
}

func TestTracer_TraceFunction(t *testing.T) {
	tracer := NewTracer("test")
	boom := errors.New("boom")

	called := false
	err := tracer.TraceFunction(context.Background(), "op", func(ctx context.Context) error {
		called = true
		AddAttributes(ctx, attribute.String("k", "v"))
		RecordError(ctx, boom)
		return boom
	}, attribute.Int("n", 1))

	assert.True(t, called)
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, tracer.TraceFunction(context.Background(), "ok", func(context.Context) error { return nil }))
}
