package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/creative-analytics/internal/domain"
)

func (r *Repo) StartRun(ctx context.Context, runType domain.SyncRunType) (*domain.SyncRun, error) {
	run := &domain.SyncRun{
		ID:        uuid.New().String(),
		Type:      runType,
		Status:    domain.RunRunning,
		StartedAt: time.Now().UTC(),
	}
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO sync_runs (id, type, status, started_at)
		VALUES ($1, $2, $3, $4)
	`, run.ID, string(run.Type), string(run.Status), run.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("start run: %w", err)
	}
	return run, nil
}

func (r *Repo) FinishRun(ctx context.Context, run *domain.SyncRun) error {
	var counts sql.NullString
	if run.Counts != nil {
		b, err := json.Marshal(run.Counts)
		if err != nil {
			return fmt.Errorf("encode run counts: %w", err)
		}
		counts = sql.NullString{String: string(b), Valid: true}
	}
	res, err := r.q.ExecContext(ctx, `
		UPDATE sync_runs
		SET status = $1, finished_at = $2, counts_json = $3, error = $4
		WHERE id = $5
	`, string(run.Status), nullTime(run.FinishedAt), counts, nullString(run.Error), run.ID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("finish run: run %s not found", run.ID)
	}
	return nil
}

func (r *Repo) ListRuns(ctx context.Context, limit int) ([]domain.SyncRun, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, type, status, started_at, finished_at, counts_json::text, COALESCE(error,'')
		FROM sync_runs
		ORDER BY started_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []domain.SyncRun
	for rows.Next() {
		var (
			run      domain.SyncRun
			finished sql.NullTime
			counts   sql.NullString
		)
		if err := rows.Scan(&run.ID, &run.Type, &run.Status, &run.StartedAt, &finished, &counts, &run.Error); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.FinishedAt = timePtr(finished)
		if counts.Valid {
			if err := json.Unmarshal([]byte(counts.String), &run.Counts); err != nil {
				return nil, fmt.Errorf("decode run counts: %w", err)
			}
		}
		out = append(out, run)
	}
	return out, rows.Err()
}
