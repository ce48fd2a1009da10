package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/ignite/creative-analytics/internal/adname"
	"github.com/ignite/creative-analytics/internal/domain"
	"github.com/ignite/creative-analytics/internal/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// EngineConfig tunes an Engine.
type EngineConfig struct {
	// Workers bounds parallel classification. Zero or less means one.
	Workers int
	// DefaultProduct fills maps whose ad name or override has no product.
	DefaultProduct string
	// Now stamps unmapped rows. Defaults to time.Now.
	Now func() time.Time
}

// Engine performs full-rebuild reconciliation runs.
type Engine struct {
	workers        int
	defaultProduct string
	now            func() time.Time
}

// NewEngine creates an Engine.
func NewEngine(cfg EngineConfig) *Engine {
	e := &Engine{
		workers:        cfg.Workers,
		defaultProduct: cfg.DefaultProduct,
		now:            cfg.Now,
	}
	if e.workers < 1 {
		e.workers = 1
	}
	if e.defaultProduct == "" {
		e.defaultProduct = domain.DefaultProduct
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// Outcome summarizes one run.
type Outcome struct {
	Ads              int   `json:"ads"`
	Mapped           int   `json:"mapped"`
	OverridesApplied int   `json:"overridesApplied"`
	Unmapped         int   `json:"unmapped"`
	Preserved        int   `json:"preserved"`
	RemovedMaps      int64 `json:"removedMaps"`
	PrunedUnmapped   int64 `json:"prunedUnmapped"`
}

// Counts renders the outcome for a run-status row.
func (o *Outcome) Counts() map[string]any {
	return map[string]any{
		"ads":              o.Ads,
		"mapped":           o.Mapped,
		"overridesApplied": o.OverridesApplied,
		"unmapped":         o.Unmapped,
		"preserved":        o.Preserved,
		"removedMaps":      o.RemovedMaps,
		"prunedUnmapped":   o.PrunedUnmapped,
	}
}

// decision is the terminal outcome for one ad. Exactly one of mapping,
// unmapped or preserved is set.
type decision struct {
	mapping   *domain.AdCreativeMap
	unmapped  *domain.UnmappedAd
	preserved bool
}

// snapshot holds everything classification reads. It is built once per run
// and only read afterwards, so workers share it without locking.
type snapshot struct {
	overrides *OverrideIndex
	refs      *ReferenceSets
	preserved map[string]struct{}
}

// Run rebuilds all parser- and override-sourced maps through store. Any
// store error aborts the run; the caller's transaction must then roll back.
func (e *Engine) Run(ctx context.Context, store Store) (*Outcome, error) {
	removed, err := store.DeleteMapsBySource(ctx, domain.SourceParser, domain.SourceOverride)
	if err != nil {
		return nil, fmt.Errorf("delete maps: %w", err)
	}

	ads, err := store.ListAds(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ads: %w", err)
	}
	overrides, err := store.ListOverrides(ctx)
	if err != nil {
		return nil, fmt.Errorf("list overrides: %w", err)
	}
	refs, err := store.LoadReferenceSets(ctx)
	if err != nil {
		return nil, fmt.Errorf("load reference sets: %w", err)
	}
	preservedIDs, err := store.PreservedMapAdIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list preserved maps: %w", err)
	}

	snap := &snapshot{
		overrides: NewOverrideIndex(overrides),
		refs:      refs,
		preserved: toSet(preservedIDs),
	}
	decisions, err := e.classifyAll(ctx, ads, snap)
	if err != nil {
		return nil, err
	}

	out := &Outcome{Ads: len(ads), RemovedMaps: removed}
	maps := make([]domain.AdCreativeMap, 0, len(ads))
	var unmapped []*domain.UnmappedAd
	for _, d := range decisions {
		switch {
		case d.preserved:
			out.Preserved++
		case d.mapping != nil:
			maps = append(maps, *d.mapping)
			if d.mapping.Source == domain.SourceOverride {
				out.OverridesApplied++
			} else {
				out.Mapped++
			}
		case d.unmapped != nil:
			unmapped = append(unmapped, d.unmapped)
			out.Unmapped++
		}
	}

	if len(maps) > 0 {
		if err := store.SaveMaps(ctx, maps); err != nil {
			return nil, fmt.Errorf("save maps: %w", err)
		}
	}

	keep := make([]domain.UnmappedKey, 0, len(unmapped))
	for _, u := range unmapped {
		if err := store.UpsertUnmapped(ctx, u); err != nil {
			return nil, fmt.Errorf("upsert unmapped %q: %w", u.AdName, err)
		}
		keep = append(keep, u.Key())
	}

	pruned, err := store.PruneUnmapped(ctx, keep)
	if err != nil {
		return nil, fmt.Errorf("prune unmapped: %w", err)
	}
	out.PrunedUnmapped = pruned

	logger.Info("reconcile run complete",
		"ads", out.Ads,
		"mapped", out.Mapped,
		"overrides_applied", out.OverridesApplied,
		"unmapped", out.Unmapped,
		"preserved", out.Preserved,
		"removed_maps", out.RemovedMaps,
		"pruned_unmapped", out.PrunedUnmapped,
	)
	return out, nil
}

// classifyAll classifies ads in parallel. Results keep the input order so
// persistence is deterministic.
func (e *Engine) classifyAll(ctx context.Context, ads []domain.Ad, snap *snapshot) ([]decision, error) {
	decisions := make([]decision, len(ads))
	seenAt := e.now().UTC()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := range ads {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			decisions[i] = e.classify(ads[i], snap, seenAt)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("classify ads: %w", err)
	}
	return decisions, nil
}

// classify decides the outcome for one ad. Overrides win over parsing and
// are not checked against the reference sets.
func (e *Engine) classify(ad domain.Ad, snap *snapshot, seenAt time.Time) decision {
	if _, ok := snap.preserved[ad.AdID]; ok {
		return decision{preserved: true}
	}

	if o, ok := snap.overrides.Lookup(ad); ok {
		m := OverrideMap(ad, o, e.defaultProduct)
		return decision{mapping: &m}
	}

	res := adname.Parse(ad.AdName)
	if !res.OK {
		suggestion := adname.Suggest(ad.AdName)
		return decision{unmapped: &domain.UnmappedAd{
			AdID:      ad.AdID,
			AdName:    ad.AdName,
			Reason:    res.Reason,
			Details:   domain.UnmappedDetails{Parsed: res.Parsed, Suggestion: &suggestion},
			FirstSeen: seenAt,
			LastSeen:  seenAt,
		}}
	}

	if reasons := snap.refs.Resolve(res.Parsed); len(reasons) > 0 {
		return decision{unmapped: &domain.UnmappedAd{
			AdID:      ad.AdID,
			AdName:    ad.AdName,
			Reason:    JoinReasons(reasons),
			Details:   domain.UnmappedDetails{Parsed: res.Parsed},
			FirstSeen: seenAt,
			LastSeen:  seenAt,
		}}
	}

	return decision{mapping: &domain.AdCreativeMap{
		AdID:             ad.AdID,
		FunnelIdentifier: res.Parsed.FunnelIdentifier,
		CreativeID:       res.Parsed.CreativeID,
		CopyID:           res.Parsed.CopyID,
		Product:          adname.ProductFromCode(res.Parsed.ProductCode, e.defaultProduct),
		ParseStatus:      domain.StatusMapped,
		Source:           domain.SourceParser,
	}}
}
