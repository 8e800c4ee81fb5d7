package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	pkgerrors "github.com/eykd/prosemark-sub000/pkg/errors"
)

// Status label values
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Collector holds all Prometheus metrics for the binder. A nil *Collector
// is valid and records nothing.
type Collector struct {
	// Registry for this collector instance
	registry *prometheus.Registry

	// Outline codec metrics
	OutlineItemsParsed prometheus.Counter
	LedgerLines        prometheus.Counter
	OutlinesRendered   prometheus.Counter

	// Binder metrics
	BinderMutations     *prometheus.CounterVec
	IntegrityViolations *prometheus.CounterVec

	// Repository metrics
	RepositoryOperations *prometheus.CounterVec
	RepositoryDuration   *prometheus.HistogramVec
}

// NewCollector creates a collector with its own registry, so several
// collectors can coexist in one process.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	itemsParsed := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outline_items_parsed_total",
			Help:      "Total number of outline lines parsed into binder items",
		},
	)

	ledgerLines := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outline_ledger_lines_total",
			Help:      "Total number of outline lines kept in the unparsed-line ledger",
		},
	)

	rendered := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outlines_rendered_total",
			Help:      "Total number of outlines rendered from a binder",
		},
	)

	mutations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "binder_mutations_total",
			Help:      "Total number of binder mutations",
		},
		[]string{"operation", "status"},
	)

	violations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "binder_integrity_violations_total",
			Help:      "Total number of rejected binder operations by error code",
		},
		[]string{"code"},
	)

	repoOps := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "repository_operations_total",
			Help:      "Total number of binder repository operations",
		},
		[]string{"operation", "backend", "status"},
	)

	repoDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "repository_operation_duration_seconds",
			Help:      "Binder repository operation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation", "backend"},
	)

	registry.MustRegister(
		itemsParsed,
		ledgerLines,
		rendered,
		mutations,
		violations,
		repoOps,
		repoDuration,
	)

	return &Collector{
		registry:             registry,
		OutlineItemsParsed:   itemsParsed,
		LedgerLines:          ledgerLines,
		OutlinesRendered:     rendered,
		BinderMutations:      mutations,
		IntegrityViolations:  violations,
		RepositoryOperations: repoOps,
		RepositoryDuration:   repoDuration,
	}
}

// RecordParse counts the outcome of one outline parse
func (c *Collector) RecordParse(items, ledgerLines int) {
	if c == nil {
		return
	}
	c.OutlineItemsParsed.Add(float64(items))
	c.LedgerLines.Add(float64(ledgerLines))
}

// RecordRender counts one rendered outline
func (c *Collector) RecordRender() {
	if c == nil {
		return
	}
	c.OutlinesRendered.Inc()
}

// RecordMutation counts a binder mutation. Domain errors are also counted
// by code.
func (c *Collector) RecordMutation(operation string, err error) {
	if c == nil {
		return
	}
	if err == nil {
		c.BinderMutations.WithLabelValues(operation, StatusSuccess).Inc()
		return
	}
	c.BinderMutations.WithLabelValues(operation, StatusError).Inc()
	if domainErr := pkgerrors.GetDomainError(err); domainErr != nil {
		c.IntegrityViolations.WithLabelValues(domainErr.Code).Inc()
	}
}

// RecordRepository counts a repository call and its duration
func (c *Collector) RecordRepository(operation, backend string, duration time.Duration, err error) {
	if c == nil {
		return
	}
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	c.RepositoryOperations.WithLabelValues(operation, backend, status).Inc()
	c.RepositoryDuration.WithLabelValues(operation, backend).Observe(duration.Seconds())
}

// GetRegistry returns the Prometheus registry for this collector
func (c *Collector) GetRegistry() *prometheus.Registry {
	return c.registry
}
