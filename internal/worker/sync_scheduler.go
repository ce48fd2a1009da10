package worker

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron"

	"github.com/ignite/creative-analytics/internal/ingest"
	"github.com/ignite/creative-analytics/internal/pkg/distlock"
)

// =============================================================================
// SYNC SCHEDULER WORKER
// =============================================================================
// Runs the local sync on a cron schedule. Each tick takes the shared run lock
// first, so a tick that overlaps a manual sync or reconcile from the API is
// skipped rather than queued.

// Syncer runs one full sync.
type Syncer interface {
	Run(ctx context.Context) (*ingest.Result, error)
}

// SyncScheduler triggers Syncer runs on a cron expression.
type SyncScheduler struct {
	syncer   Syncer
	newLock  distlock.Factory
	schedule cron.Schedule
	expr     string
	workerID string

	// Stats
	runs    int64
	skipped int64
	errors  int64

	// Control
	cron    *cron.Cron
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
	busy    int32
	mu      sync.Mutex
}

// SchedulerStats is a snapshot of scheduler counters.
type SchedulerStats struct {
	Runs    int64 `json:"runs"`
	Skipped int64 `json:"skipped"`
	Errors  int64 `json:"errors"`
}

// NewSyncScheduler parses a standard five-field cron expression (or a
// descriptor such as @hourly).
func NewSyncScheduler(syncer Syncer, newLock distlock.Factory, expr string) (*SyncScheduler, error) {
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("parse cron expression %q: %w", expr, err)
	}
	return &SyncScheduler{
		syncer:   syncer,
		newLock:  newLock,
		schedule: sched,
		expr:     expr,
		workerID: fmt.Sprintf("sync-%s-%d", getHostname(), time.Now().UnixNano()%10000),
	}, nil
}

// Start registers the schedule and returns immediately.
func (s *SyncScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return fmt.Errorf("scheduler already running")
	}
	s.running = true
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.cron = cron.New()
	s.cron.Schedule(s.schedule, cron.FuncJob(func() {
		s.wg.Add(1)
		defer s.wg.Done()
		s.RunOnce(s.ctx)
	}))
	s.cron.Start()

	log.Printf("[SyncScheduler] Started %s with schedule %q", s.workerID, s.expr)
	return nil
}

// Stop halts the schedule and waits for an in-flight run to finish.
func (s *SyncScheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.cron.Stop()
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()
	log.Printf("[SyncScheduler] Stopped (runs=%d skipped=%d errors=%d)",
		atomic.LoadInt64(&s.runs), atomic.LoadInt64(&s.skipped), atomic.LoadInt64(&s.errors))
}

// RunOnce performs one tick. It reports whether a sync actually ran.
func (s *SyncScheduler) RunOnce(ctx context.Context) bool {
	// cron fires overlapping jobs when a run outlasts the interval
	if !atomic.CompareAndSwapInt32(&s.busy, 0, 1) {
		atomic.AddInt64(&s.skipped, 1)
		log.Printf("[SyncScheduler] Previous run still active, skipping tick")
		return false
	}
	defer atomic.StoreInt32(&s.busy, 0)

	start := time.Now()
	var res *ingest.Result
	run := func(ctx context.Context) error {
		var err error
		res, err = s.syncer.Run(ctx)
		return err
	}

	acquired := true
	var err error
	if s.newLock != nil {
		acquired, err = distlock.WithLock(ctx, s.newLock(), run)
	} else {
		err = run(ctx)
	}

	switch {
	case err != nil:
		atomic.AddInt64(&s.errors, 1)
		log.Printf("[SyncScheduler] Sync failed: %v", err)
		return acquired
	case !acquired:
		atomic.AddInt64(&s.skipped, 1)
		log.Printf("[SyncScheduler] Run lock held elsewhere, skipping tick")
		return false
	}

	atomic.AddInt64(&s.runs, 1)
	log.Printf("[SyncScheduler] Sync %s complete in %s (mapped=%v unmapped=%v)",
		res.RunID, time.Since(start).Round(time.Millisecond), res.Counts["mapped"], res.Counts["unmapped"])
	return true
}

// Stats returns the current counters.
func (s *SyncScheduler) Stats() SchedulerStats {
	return SchedulerStats{
		Runs:    atomic.LoadInt64(&s.runs),
		Skipped: atomic.LoadInt64(&s.skipped),
		Errors:  atomic.LoadInt64(&s.errors),
	}
}

func (s *SyncScheduler) busyNow() bool {
	return atomic.LoadInt32(&s.busy) == 1
}

// Next returns the next scheduled tick after t.
func (s *SyncScheduler) Next(t time.Time) time.Time {
	return s.schedule.Next(t)
}

func getHostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return h
}
