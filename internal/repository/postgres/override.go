package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/ignite/creative-analytics/internal/domain"
	"github.com/ignite/creative-analytics/internal/service/override"
)

const overrideColumns = `
	id, COALESCE(ad_id,''), COALESCE(ad_name,''),
	COALESCE(funnel_identifier_override,''), COALESCE(creative_id_override,''),
	COALESCE(copy_id_override,''), COALESCE(product_override,''), COALESCE(notes,''),
	created_at, updated_at`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanOverride(s scanner, o *domain.ManualOverride) error {
	return s.Scan(
		&o.ID, &o.AdID, &o.AdName,
		&o.FunnelIdentifierOverride, &o.CreativeIDOverride,
		&o.CopyIDOverride, &o.ProductOverride, &o.Notes,
		&o.CreatedAt, &o.UpdatedAt,
	)
}

func (r *Repo) ListOverrides(ctx context.Context) ([]domain.ManualOverride, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+overrideColumns+` FROM manual_overrides ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list overrides: %w", err)
	}
	defer rows.Close()

	var out []domain.ManualOverride
	for rows.Next() {
		var o domain.ManualOverride
		if err := scanOverride(rows, &o); err != nil {
			return nil, fmt.Errorf("scan override: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Upsert keys on ad_id when set, otherwise on ad_name. Empty values keep
// what is stored.
func (r *Repo) Upsert(ctx context.Context, o *domain.ManualOverride) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	target := "ad_id"
	if o.AdID == "" {
		target = "ad_name"
	}

	row := r.q.QueryRowContext(ctx, `
		INSERT INTO manual_overrides
			(id, ad_id, ad_name, funnel_identifier_override, creative_id_override,
			 copy_id_override, product_override, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		ON CONFLICT (`+target+`) DO UPDATE SET
			ad_id = COALESCE(EXCLUDED.ad_id, manual_overrides.ad_id),
			ad_name = COALESCE(EXCLUDED.ad_name, manual_overrides.ad_name),
			funnel_identifier_override = COALESCE(EXCLUDED.funnel_identifier_override, manual_overrides.funnel_identifier_override),
			creative_id_override = COALESCE(EXCLUDED.creative_id_override, manual_overrides.creative_id_override),
			copy_id_override = COALESCE(EXCLUDED.copy_id_override, manual_overrides.copy_id_override),
			product_override = COALESCE(EXCLUDED.product_override, manual_overrides.product_override),
			notes = COALESCE(EXCLUDED.notes, manual_overrides.notes),
			updated_at = NOW()
		RETURNING `+overrideColumns,
		o.ID, nullString(o.AdID), nullString(o.AdName), nullString(o.FunnelIdentifierOverride),
		nullString(o.CreativeIDOverride), nullString(o.CopyIDOverride), nullString(o.ProductOverride),
		nullString(o.Notes))
	if err := scanOverride(row, o); err != nil {
		return fmt.Errorf("upsert override: %w", err)
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id string) (*domain.ManualOverride, error) {
	o := &domain.ManualOverride{}
	err := scanOverride(r.q.QueryRowContext(ctx, `SELECT `+overrideColumns+` FROM manual_overrides WHERE id = $1`, id), o)
	if err == sql.ErrNoRows {
		return nil, override.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get override: %w", err)
	}
	return o, nil
}

func (r *Repo) List(ctx context.Context, f override.ListFilter) ([]domain.ManualOverride, int, error) {
	where := ""
	args := []interface{}{}
	if f.Search != "" {
		where = " WHERE ad_name ILIKE $1 OR ad_id ILIKE $1"
		args = append(args, "%"+f.Search+"%")
	}

	var total int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM manual_overrides`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count overrides: %w", err)
	}

	idx := len(args) + 1
	q := `SELECT ` + overrideColumns + ` FROM manual_overrides` + where +
		fmt.Sprintf(" ORDER BY updated_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list overrides: %w", err)
	}
	defer rows.Close()

	var out []domain.ManualOverride
	for rows.Next() {
		var o domain.ManualOverride
		if err := scanOverride(rows, &o); err != nil {
			return nil, 0, fmt.Errorf("scan override: %w", err)
		}
		out = append(out, o)
	}
	return out, total, rows.Err()
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM manual_overrides WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete override: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return override.ErrNotFound
	}
	return nil
}
