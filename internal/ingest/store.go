package ingest

import (
	"context"

	"github.com/ignite/creative-analytics/internal/domain"
	"github.com/ignite/creative-analytics/internal/service/reconcile"
)

// Store is the write surface of a local sync. It embeds the reconcile
// Store so the rebuild runs in the same transaction as the loads.
type Store interface {
	reconcile.Store

	// ClearDailyFacts deletes all daily insight and daily revenue rows.
	ClearDailyFacts(ctx context.Context) error

	// UpsertCreatives writes creatives from the creative sheet.
	UpsertCreatives(ctx context.Context, creatives []domain.Creative) error

	// UpsertCreativeSeed writes creative seed metadata. Existing format and
	// duplicate flag values are left untouched.
	UpsertCreativeSeed(ctx context.Context, creatives []domain.Creative) error

	// UpsertCopies writes copy variants.
	UpsertCopies(ctx context.Context, copies []domain.Copy) error

	// UpsertLanders writes landers.
	UpsertLanders(ctx context.Context, landers []domain.Lander) error

	// UpsertAd writes an ad keyed by ad ID.
	UpsertAd(ctx context.Context, ad *domain.Ad) error

	// UpsertInsight writes a daily insight keyed by (date, ad ID).
	UpsertInsight(ctx context.Context, in *domain.DailyInsight) error

	// InsertRevenue appends a daily revenue row.
	InsertRevenue(ctx context.Context, rev *domain.DailyRevenue) error
}

// Transactor runs fn with a Store bound to one transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	SyncTx(ctx context.Context, fn func(Store) error) error
}
