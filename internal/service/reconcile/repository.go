package reconcile

import (
	"context"

	"github.com/ignite/creative-analytics/internal/domain"
)

// Store is the read and write surface a run needs. All calls made during
// one run go through the same Store, which the caller binds to a single
// transaction.
type Store interface {
	// ListAds returns every ad known to the system.
	ListAds(ctx context.Context) ([]domain.Ad, error)

	// ListOverrides returns every manual override.
	ListOverrides(ctx context.Context) ([]domain.ManualOverride, error)

	// LoadReferenceSets snapshots the known creative, copy and funnel identifiers.
	LoadReferenceSets(ctx context.Context) (*ReferenceSets, error)

	// DeleteMapsBySource removes all maps with one of the given sources and
	// returns how many were removed.
	DeleteMapsBySource(ctx context.Context, sources ...domain.MapSource) (int64, error)

	// PreservedMapAdIDs returns the ad IDs that still have a map after the
	// rebuilt sources were deleted.
	PreservedMapAdIDs(ctx context.Context) ([]string, error)

	// SaveMaps writes maps in bulk, replacing any existing map for the same ad.
	SaveMaps(ctx context.Context, maps []domain.AdCreativeMap) error

	// UpsertUnmapped inserts an unmapped row or, when (ad name, reason)
	// already exists, refreshes its ad ID, details and last seen time.
	UpsertUnmapped(ctx context.Context, u *domain.UnmappedAd) error

	// PruneUnmapped deletes unmapped rows whose key is not in keep and
	// returns how many were removed.
	PruneUnmapped(ctx context.Context, keep []domain.UnmappedKey) (int64, error)
}

// Transactor runs fn with a Store bound to one transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	ReconcileTx(ctx context.Context, fn func(Store) error) error
}

// RunStore persists run-status rows. Writes happen outside the run's
// transaction so a failed run is still recorded.
type RunStore interface {
	// StartRun inserts a RUNNING row for the given run type.
	StartRun(ctx context.Context, runType domain.SyncRunType) (*domain.SyncRun, error)

	// FinishRun writes the terminal status, finish time, counts and error.
	FinishRun(ctx context.Context, run *domain.SyncRun) error

	// ListRuns returns the most recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]domain.SyncRun, error)
}
