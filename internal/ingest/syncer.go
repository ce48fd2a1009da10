package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/ignite/creative-analytics/internal/domain"
	"github.com/ignite/creative-analytics/internal/pkg/logger"
	"github.com/ignite/creative-analytics/internal/service/reconcile"
)

// RunLockKey is the distributed lock key shared by every process that
// starts sync or reconcile runs.
const RunLockKey = "sync:local"

// Seed ads carry fixed campaign and ad set names.
const (
	SeedCampaignName = "Seed Campaign"
	SeedAdsetName    = "Seed Adset"
)

// SyncerConfig configures a Syncer.
type SyncerConfig struct {
	Sources      SourceConfig
	SnapshotDate string // YYYY-MM-DD; empty means today
	AdName       *AdNameTemplate
}

// Result is the outcome of a successful local sync.
type Result struct {
	RunID  string         `json:"runId"`
	Counts map[string]any `json:"counts"`
	Files  SourceFiles    `json:"files"`
}

// Syncer loads local source files and rebuilds mappings.
type Syncer struct {
	tx      Transactor
	runs    reconcile.RunStore
	engine  *reconcile.Engine
	cfg     SyncerConfig
	fetcher Fetcher
	now     func() time.Time
}

// NewSyncer creates a new syncer.
func NewSyncer(tx Transactor, runs reconcile.RunStore, engine *reconcile.Engine, cfg SyncerConfig) *Syncer {
	return &Syncer{tx: tx, runs: runs, engine: engine, cfg: cfg, now: time.Now}
}

// SetFetcher enables s3:// source paths.
func (s *Syncer) SetFetcher(f Fetcher) {
	s.fetcher = f
}

// inputs are the parsed source files of one sync.
type inputs struct {
	catalog     *Catalog
	seed        []domain.Creative
	performance []PerformanceRow
}

// Run performs a full local sync as a LOCAL run. Missing required files
// fail the run before anything is written.
func (s *Syncer) Run(ctx context.Context) (*Result, error) {
	run, err := s.runs.StartRun(ctx, domain.RunLocal)
	if err != nil {
		return nil, fmt.Errorf("start local sync run: %w", err)
	}

	files := ResolveSources(s.cfg.Sources)
	counts, err := s.sync(ctx, files)
	if err != nil {
		logger.Error("local sync failed", "run_id", run.ID, "error", err)
		run.Fail(s.now(), err)
		s.finish(ctx, run)
		return nil, err
	}

	counts["files"] = files
	run.Succeed(s.now(), counts)
	s.finish(ctx, run)

	logger.Info("local sync complete", "run_id", run.ID, "mapped", counts["mapped"], "unmapped", counts["unmapped"])
	return &Result{RunID: run.ID, Counts: counts, Files: files}, nil
}

func (s *Syncer) sync(ctx context.Context, files SourceFiles) (map[string]any, error) {
	local, cleanup, err := localize(ctx, files, s.fetcher)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	if err := RequireFile(local.CreativeSheetPath, LabelCreativeSheet); err != nil {
		return nil, err
	}
	if err := RequireFile(local.MetaSeedPath, LabelMetaSeed); err != nil {
		return nil, err
	}

	in, err := s.read(local)
	if err != nil {
		return nil, err
	}

	snapshot := SnapshotDate(s.cfg.SnapshotDate, s.now())
	counts := map[string]any{}

	err = s.tx.SyncTx(ctx, func(store Store) error {
		if err := store.ClearDailyFacts(ctx); err != nil {
			return err
		}
		if err := store.UpsertCreatives(ctx, in.catalog.Creatives); err != nil {
			return err
		}
		if err := store.UpsertCopies(ctx, in.catalog.Copies); err != nil {
			return err
		}
		if err := store.UpsertLanders(ctx, in.catalog.Landers); err != nil {
			return err
		}
		if err := store.UpsertCreativeSeed(ctx, in.seed); err != nil {
			return err
		}
		if err := s.loadPerformance(ctx, store, in.performance, snapshot); err != nil {
			return err
		}

		outcome, err := s.engine.Run(ctx, store)
		if err != nil {
			return err
		}
		for k, v := range outcome.Counts() {
			counts[k] = v
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	counts["creatives"] = len(in.catalog.Creatives)
	counts["copy"] = len(in.catalog.Copies)
	counts["landers"] = len(in.catalog.Landers)
	counts["creativeSeedRows"] = len(in.seed)
	counts["metaAds"] = len(in.performance)
	counts["metaInsights"] = len(in.performance)
	counts["wetracked"] = len(in.performance)
	return counts, nil
}

func (s *Syncer) read(files SourceFiles) (*inputs, error) {
	catalog, err := ReadCreativeSheet(files.CreativeSheetPath)
	if err != nil {
		return nil, err
	}

	var seed []domain.Creative
	if fileExists(files.CreativeSeedPath) {
		if seed, err = ReadCreativeSeed(files.CreativeSeedPath); err != nil {
			return nil, err
		}
	}

	performance, err := ReadPerformanceSeed(files.MetaSeedPath)
	if err != nil {
		return nil, err
	}
	return &inputs{catalog: catalog, seed: seed, performance: performance}, nil
}

// loadPerformance writes one simulated ad, one insight and one revenue row
// per performance row, all on the snapshot date.
func (s *Syncer) loadPerformance(ctx context.Context, store Store, rows []PerformanceRow, snapshot time.Time) error {
	for _, row := range rows {
		adID := domain.SimulatedAdPrefix + row.CreativeID
		adName, err := s.adName(row.CreativeID)
		if err != nil {
			return err
		}

		if err := store.UpsertAd(ctx, &domain.Ad{
			AdID:         adID,
			AdName:       adName,
			CampaignName: SeedCampaignName,
			AdsetName:    SeedAdsetName,
			Status:       domain.AdStatusActive,
			IsSimulated:  true,
		}); err != nil {
			return err
		}

		if err := store.UpsertInsight(ctx, &domain.DailyInsight{
			Date:        snapshot,
			AdID:        adID,
			Spend:       row.Spend,
			Impressions: row.Impressions,
			Clicks:      row.Clicks,
			CPM:         row.CPM,
			CPC:         row.CPC,
			CTR:         row.CTR,
		}); err != nil {
			return err
		}

		if err := store.InsertRevenue(ctx, &domain.DailyRevenue{
			Date:        snapshot,
			TrackingKey: row.CreativeID,
			AdID:        adID,
			AdName:      adName,
			CreativeID:  row.CreativeID,
			Revenue:     row.Revenue,
			Purchases:   row.Purchases,
			Profit:      row.Profit,
			ROAS:        row.ROAS,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Syncer) adName(creativeID string) (string, error) {
	if s.cfg.AdName == nil {
		return fmt.Sprintf("A100 | %s | C100 | P:%s", creativeID, domain.DefaultProduct), nil
	}
	return s.cfg.AdName.Render(creativeID)
}

func (s *Syncer) finish(ctx context.Context, run *domain.SyncRun) {
	if err := s.runs.FinishRun(ctx, run); err != nil {
		logger.Error("failed to record run status", "run_id", run.ID, "status", string(run.Status), "error", err)
	}
}
