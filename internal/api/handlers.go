package api

import (
	"context"
	"time"

	"github.com/ignite/creative-analytics/internal/domain"
	"github.com/ignite/creative-analytics/internal/ingest"
	"github.com/ignite/creative-analytics/internal/pkg/distlock"
	"github.com/ignite/creative-analytics/internal/service/metrics"
	"github.com/ignite/creative-analytics/internal/service/override"
	"github.com/ignite/creative-analytics/internal/service/reconcile"
)

// LocalSyncer runs a full local sync.
type LocalSyncer interface {
	Run(ctx context.Context) (*ingest.Result, error)
}

// Reconciler rebuilds mappings and lists run history.
type Reconciler interface {
	Reconcile(ctx context.Context) (*reconcile.Outcome, error)
	Runs(ctx context.Context, limit int) ([]domain.SyncRun, error)
}

// OverrideService manages manual overrides and the unmapped queue.
type OverrideService interface {
	Upsert(ctx context.Context, in override.Input) (*domain.ManualOverride, error)
	Get(ctx context.Context, id string) (*domain.ManualOverride, error)
	List(ctx context.Context, f override.ListFilter) ([]domain.ManualOverride, int, error)
	Delete(ctx context.Context, id string) error
	ListUnmapped(ctx context.Context, f override.ListFilter) ([]domain.UnmappedAd, int, error)
}

// MetricsService serves the dashboard read models.
type MetricsService interface {
	Overview(ctx context.Context, r metrics.Range) (*metrics.Overview, error)
	CreativeRows(ctx context.Context, r metrics.Range, f metrics.CreativeFilter) (*metrics.CreativePage, error)
	FilterOptions(ctx context.Context) (*metrics.FilterOptions, error)
	CreativeDetail(ctx context.Context, creativeID string, r metrics.Range) (*metrics.CreativeDetail, error)
	Analysis(ctx context.Context, r metrics.Range, dimension string) (*metrics.Analysis, error)
}

// Handlers contains all HTTP handlers
type Handlers struct {
	reconciler Reconciler
	overrides  OverrideService
	metrics    MetricsService
	syncer     LocalSyncer
	newLock    distlock.Factory
	now        func() time.Time
}

// NewHandlers creates a new Handlers instance. newLock guards sync and
// reconcile runs so only one runs at a time across processes.
func NewHandlers(reconciler Reconciler, overrides OverrideService, metricsSvc MetricsService, newLock distlock.Factory) *Handlers {
	return &Handlers{
		reconciler: reconciler,
		overrides:  overrides,
		metrics:    metricsSvc,
		newLock:    newLock,
		now:        time.Now,
	}
}

// SetSyncer enables POST /api/sync/local.
func (h *Handlers) SetSyncer(s LocalSyncer) {
	h.syncer = s
}
