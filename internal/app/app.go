// Package app wires configuration into the database, lock and service
// graph shared by the binaries under cmd/.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"

	"github.com/ignite/creative-analytics/internal/config"
	"github.com/ignite/creative-analytics/internal/ingest"
	"github.com/ignite/creative-analytics/internal/pkg/distlock"
	"github.com/ignite/creative-analytics/internal/pkg/logger"
	"github.com/ignite/creative-analytics/internal/repository/postgres"
	"github.com/ignite/creative-analytics/internal/service/metrics"
	"github.com/ignite/creative-analytics/internal/service/override"
	"github.com/ignite/creative-analytics/internal/service/reconcile"
	"github.com/ignite/creative-analytics/internal/storage"
)

// App holds the shared dependencies.
type App struct {
	Config *config.Config
	DB     *sql.DB
	Redis  *redis.Client // nil when REDIS_URL is unset

	Reconcile *reconcile.Service
	Overrides *override.Service
	Metrics   *metrics.Service
	Syncer    *ingest.Syncer
	NewLock   distlock.Factory
}

// ConfigureLogger applies the logging section.
func ConfigureLogger(cfg config.LoggingConfig) {
	logger.SetLevel(logger.ParseLevel(cfg.Level))
	logger.SetRedact(cfg.RedactEnabled())
}

// New connects to Postgres (and Redis when configured) and builds every
// service.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	ConfigureLogger(cfg.Logging)

	db, err := OpenDB(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, DB: db}

	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		a.Redis = redis.NewClient(opts)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := a.Redis.Ping(pingCtx).Err(); err != nil {
			log.Printf("[App] Redis unreachable (%v), locks fall back to postgres advisory locks", err)
			a.Redis.Close()
			a.Redis = nil
		} else {
			log.Println("[App] Redis connected for distributed locks")
		}
	}

	a.NewLock = distlock.NewFactory(a.Redis, db, ingest.RunLockKey, cfg.Sync.LockTTL())

	store := postgres.NewDB(db)
	engine := reconcile.NewEngine(reconcile.EngineConfig{
		Workers:        cfg.Reconcile.Workers,
		DefaultProduct: cfg.Reconcile.DefaultProduct,
	})
	a.Reconcile = reconcile.NewService(store, store.Repo, engine)
	a.Overrides = override.NewService(store.Repo)
	a.Metrics = metrics.NewService(store.Repo)

	tpl, err := ingest.NewAdNameTemplate(cfg.Reconcile.SeedAdNameTemplate)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Syncer = ingest.NewSyncer(store, store.Repo, engine, ingest.SyncerConfig{
		Sources: ingest.SourceConfig{
			CreativeSheetPath: cfg.Sources.CreativeSheetPath,
			MetaSeedPath:      cfg.Sources.MetaSeedPath,
			CreativeSeedPath:  cfg.Sources.CreativeSeedPath,
			DownloadsDir:      cfg.Sources.DownloadsDir,
		},
		SnapshotDate: cfg.Sync.SnapshotDate,
		AdName:       tpl,
	})

	if usesS3(cfg.Sources) {
		src, err := storage.NewS3Source(ctx, storage.S3Options{
			Region:          cfg.S3.Region,
			Profile:         cfg.S3.GetAWSProfile(),
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		})
		if err != nil {
			log.Printf("[App] WARNING: S3 source unavailable: %v", err)
		} else {
			a.Syncer.SetFetcher(src)
			log.Printf("[App] S3 source enabled (region=%s)", cfg.S3.Region)
		}
	}

	return a, nil
}

// OpenDB opens and pings the Postgres pool.
func OpenDB(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime())

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// Close releases the database and Redis connections.
func (a *App) Close() {
	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.DB != nil {
		a.DB.Close()
	}
}

func usesS3(s config.SourcesConfig) bool {
	for _, p := range []string{s.CreativeSheetPath, s.MetaSeedPath, s.CreativeSeedPath} {
		if strings.HasPrefix(p, storage.S3Scheme) {
			return true
		}
	}
	return false
}
