package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/ignite/creative-analytics/internal/ingest"
	"github.com/ignite/creative-analytics/internal/pkg/distlock"
	"github.com/ignite/creative-analytics/internal/pkg/httputil"
	"github.com/ignite/creative-analytics/internal/pkg/logger"
	"github.com/ignite/creative-analytics/internal/service/reconcile"
)

// runExclusive runs fn under the run lock. It reports false when another
// run holds the lock.
func (h *Handlers) runExclusive(ctx context.Context, fn func(ctx context.Context) error) (bool, error) {
	if h.newLock == nil {
		return true, fn(ctx)
	}
	return distlock.WithLock(ctx, h.newLock(), fn)
}

// SyncLocal runs a full local sync.
//
//	POST /api/sync/local
func (h *Handlers) SyncLocal(w http.ResponseWriter, r *http.Request) {
	if h.syncer == nil {
		httputil.ErrorWithCode(w, http.StatusServiceUnavailable, "sync_unavailable", "local sync is not configured")
		return
	}

	var res *ingest.Result
	acquired, err := h.runExclusive(r.Context(), func(ctx context.Context) error {
		var runErr error
		res, runErr = h.syncer.Run(ctx)
		return runErr
	})
	switch {
	case err == nil && !acquired:
		httputil.ErrorWithCode(w, http.StatusConflict, "run_in_progress", reconcile.ErrRunInProgress.Error())
	case errors.Is(err, ingest.ErrSourceMissing):
		httputil.ErrorWithCode(w, http.StatusUnprocessableEntity, "source_missing", err.Error())
	case err != nil:
		httputil.InternalError(w, err)
	default:
		httputil.OK(w, map[string]any{"ok": true, "runId": res.RunID, "counts": res.Counts, "files": res.Files})
	}
}

// Reconcile rebuilds mappings without reloading source files.
//
//	POST /api/reconcile
func (h *Handlers) Reconcile(w http.ResponseWriter, r *http.Request) {
	var outcome *reconcile.Outcome
	acquired, err := h.runExclusive(r.Context(), func(ctx context.Context) error {
		var runErr error
		outcome, runErr = h.reconciler.Reconcile(ctx)
		return runErr
	})
	switch {
	case err == nil && !acquired:
		httputil.ErrorWithCode(w, http.StatusConflict, "run_in_progress", reconcile.ErrRunInProgress.Error())
	case err != nil:
		httputil.InternalError(w, err)
	default:
		logger.Info("reconcile complete", "mapped", outcome.Mapped, "unmapped", outcome.Unmapped)
		httputil.OK(w, map[string]any{"ok": true, "counts": outcome})
	}
}

// ListRuns returns recent sync runs.
//
//	GET /api/sync/runs?limit=20
func (h *Handlers) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := h.reconciler.Runs(r.Context(), limit)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, map[string]any{"runs": runs})
}
