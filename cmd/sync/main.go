// Command sync runs one local sync or reconcile from the shell.
//
//	sync sync-local
//	sync reconcile
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ignite/creative-analytics/internal/app"
	"github.com/ignite/creative-analytics/internal/config"
	"github.com/ignite/creative-analytics/internal/pkg/distlock"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: sync <sync-local|reconcile>")
	os.Exit(2)
}

func main() {
	if len(os.Args) != 2 {
		usage()
	}
	cmd := os.Args[1]
	if cmd != "sync-local" && cmd != "reconcile" {
		usage()
	}

	configPath := "config/config.yaml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}
	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer a.Close()

	var out any
	acquired, err := distlock.WithLock(ctx, a.NewLock(), func(ctx context.Context) error {
		switch cmd {
		case "sync-local":
			res, err := a.Syncer.Run(ctx)
			if err != nil {
				return err
			}
			out = map[string]any{"ok": true, "runId": res.RunID, "counts": res.Counts, "files": res.Files}
		case "reconcile":
			outcome, err := a.Reconcile.Reconcile(ctx)
			if err != nil {
				return err
			}
			out = map[string]any{"ok": true, "counts": outcome}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("[Sync] %s failed: %v", cmd, err)
	}
	if !acquired {
		log.Fatalf("[Sync] another run holds the lock, try again later")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatalf("encode result: %v", err)
	}
}
