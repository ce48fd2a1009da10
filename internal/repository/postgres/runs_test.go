package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/creative-analytics/internal/domain"
)

func TestStartAndFinishRun(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewRepo(db)

	mock.ExpectExec("INSERT INTO sync_runs").
		WithArgs(sqlmock.AnyArg(), "RECONCILE", "RUNNING", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	run, err := repo.StartRun(context.Background(), domain.RunReconcile)
	require.NoError(t, err)
	assert.Equal(t, domain.RunRunning, run.Status)
	assert.NotEmpty(t, run.ID)

	run.Fail(time.Now(), errors.New("creative sheet unreadable"))
	mock.ExpectExec("UPDATE sync_runs").
		WithArgs("FAILED", sqlmock.AnyArg(), nil, "creative sheet unreadable", run.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.FinishRun(context.Background(), run))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFinishRunWithCounts(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewRepo(db)

	run := &domain.SyncRun{ID: "r1", Type: domain.RunLocal, Status: domain.RunRunning}
	run.Succeed(time.Now(), map[string]any{"mapped": 3})

	mock.ExpectExec("UPDATE sync_runs").
		WithArgs("SUCCESS", sqlmock.AnyArg(), `{"mapped":3}`, nil, "r1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.FinishRun(context.Background(), run)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run r1 not found")
}

func TestListRuns(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewRepo(db)
	started := time.Date(2026, 2, 16, 6, 0, 0, 0, time.UTC)
	finished := started.Add(time.Minute)

	mock.ExpectQuery("FROM sync_runs").
		WithArgs(20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "type", "status", "started_at", "finished_at", "counts_json", "error"}).
			AddRow("r2", "LOCAL", "RUNNING", started.Add(time.Hour), nil, nil, "").
			AddRow("r1", "LOCAL", "SUCCESS", started, finished, `{"mapped":3}`, ""))

	runs, err := repo.ListRuns(context.Background(), 20)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Nil(t, runs[0].FinishedAt)
	assert.Nil(t, runs[0].Counts)
	assert.Equal(t, domain.RunSuccess, runs[1].Status)
	require.NotNil(t, runs[1].FinishedAt)
	assert.Equal(t, finished, *runs[1].FinishedAt)
	assert.Equal(t, float64(3), runs[1].Counts["mapped"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
