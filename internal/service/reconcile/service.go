package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/ignite/creative-analytics/internal/domain"
	"github.com/ignite/creative-analytics/internal/pkg/logger"
)

// Service runs reconciliation as its own tracked run.
type Service struct {
	tx     Transactor
	runs   RunStore
	engine *Engine
	now    func() time.Time
}

// NewService creates a new reconcile service.
func NewService(tx Transactor, runs RunStore, engine *Engine) *Service {
	return &Service{tx: tx, runs: runs, engine: engine, now: time.Now}
}

// Reconcile rebuilds all maps in one transaction and records a RECONCILE
// run. The run row ends SUCCESS with the outcome counts or FAILED with the
// error, which is also returned.
func (s *Service) Reconcile(ctx context.Context) (*Outcome, error) {
	run, err := s.runs.StartRun(ctx, domain.RunReconcile)
	if err != nil {
		return nil, fmt.Errorf("start reconcile run: %w", err)
	}

	var outcome *Outcome
	err = s.tx.ReconcileTx(ctx, func(store Store) error {
		var runErr error
		outcome, runErr = s.engine.Run(ctx, store)
		return runErr
	})
	if err != nil {
		run.Fail(s.now(), err)
		s.finish(ctx, run)
		return nil, err
	}

	run.Succeed(s.now(), outcome.Counts())
	s.finish(ctx, run)
	return outcome, nil
}

// Runs returns the most recent run-status rows.
func (s *Service) Runs(ctx context.Context, limit int) ([]domain.SyncRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.runs.ListRuns(ctx, limit)
}

func (s *Service) finish(ctx context.Context, run *domain.SyncRun) {
	if err := s.runs.FinishRun(ctx, run); err != nil {
		logger.Error("failed to record run status", "run_id", run.ID, "status", string(run.Status), "error", err)
	}
}
