package override

import (
	"context"

	"github.com/ignite/creative-analytics/internal/domain"
)

// Repository defines the data access contract for overrides and the
// unmapped-ad queue.
type Repository interface {
	// Upsert stores o keyed by ad ID when set, otherwise by ad name. Empty
	// value fields keep the stored value. The stored row is written back to o.
	Upsert(ctx context.Context, o *domain.ManualOverride) error

	// Get returns one override by ID. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id string) (*domain.ManualOverride, error)

	// List returns overrides newest first and the total count.
	List(ctx context.Context, f ListFilter) ([]domain.ManualOverride, int, error)

	// Delete removes an override. Returns ErrNotFound if it doesn't exist.
	Delete(ctx context.Context, id string) error

	// ListUnmapped returns unmapped ads by last seen (newest first) and the
	// total count.
	ListUnmapped(ctx context.Context, f ListFilter) ([]domain.UnmappedAd, int, error)
}

// ListFilter controls pagination and search for listings.
type ListFilter struct {
	Search string // case-insensitive substring of ad name or ad ID
	Limit  int
	Offset int
}
