package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ignite/creative-analytics/internal/ingest"
	"github.com/ignite/creative-analytics/internal/service/metrics"
	"github.com/ignite/creative-analytics/internal/service/override"
	"github.com/ignite/creative-analytics/internal/service/reconcile"
)

var (
	_ reconcile.Store      = (*Repo)(nil)
	_ reconcile.RunStore   = (*Repo)(nil)
	_ ingest.Store         = (*Repo)(nil)
	_ override.Repository  = (*Repo)(nil)
	_ metrics.Repository   = (*Repo)(nil)
	_ reconcile.Transactor = (*DB)(nil)
	_ ingest.Transactor    = (*DB)(nil)
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Repo implements every store interface of the service against one DBTX.
type Repo struct{ q DBTX }

// NewRepo creates a repository bound to q.
func NewRepo(q DBTX) *Repo { return &Repo{q: q} }

// DB owns the connection pool and hands out transaction-bound repos.
type DB struct {
	db *sql.DB
	*Repo
}

// NewDB wraps a connection pool. The embedded Repo runs outside any
// transaction.
func NewDB(db *sql.DB) *DB {
	return &DB{db: db, Repo: NewRepo(db)}
}

// ReconcileTx implements reconcile.Transactor.
func (d *DB) ReconcileTx(ctx context.Context, fn func(reconcile.Store) error) error {
	return d.withinTx(ctx, func(r *Repo) error { return fn(r) })
}

// SyncTx implements ingest.Transactor.
func (d *DB) SyncTx(ctx context.Context, fn func(ingest.Store) error) error {
	return d.withinTx(ctx, func(r *Repo) error { return fn(r) })
}

// withinTx commits when fn returns nil and rolls back on error or panic.
func (d *DB) withinTx(ctx context.Context, fn func(*Repo) error) (err error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(NewRepo(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// nullString maps "" to SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func joinComma(parts []string) string {
	return strings.Join(parts, ", ")
}

func joinAnd(parts []string) string {
	return strings.Join(parts, " AND ")
}

// placeholders returns "$start, $start+1, ..." for n values.
func placeholders(start, n int) string {
	ph := make([]string, n)
	for i := range ph {
		ph[i] = fmt.Sprintf("$%d", start+i)
	}
	return joinComma(ph)
}
