package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ignite/creative-analytics/internal/app"
	"github.com/ignite/creative-analytics/internal/config"
	"github.com/ignite/creative-analytics/internal/worker"
)

func main() {
	log.Println("Starting creative analytics sync worker...")

	configPath := "config/config.yaml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}
	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer a.Close()
	log.Println("Connected to database")

	scheduler, err := worker.NewSyncScheduler(a.Syncer, a.NewLock, cfg.Sync.CronExpression)
	if err != nil {
		log.Fatalf("Failed to create sync scheduler: %v", err)
	}

	if cfg.Sync.RunOnStart {
		log.Println("Running initial sync...")
		scheduler.RunOnce(ctx)
	}
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start sync scheduler: %v", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down worker...")
	cancel()
	scheduler.Stop()
	log.Println("Worker stopped")
}
