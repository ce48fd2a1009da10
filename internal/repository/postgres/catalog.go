package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ignite/creative-analytics/internal/domain"
	"github.com/ignite/creative-analytics/internal/service/reconcile"
)

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func (r *Repo) UpsertCreatives(ctx context.Context, creatives []domain.Creative) error {
	for _, c := range creatives {
		_, err := r.q.ExecContext(ctx, `
			INSERT INTO creatives
				(creative_id, status, duplicate_flag, creative_type, target_traffic, type, format,
				 style, angle, awareness_level, created_by, date_created, date_launched,
				 link_to_asset, winner, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
			ON CONFLICT (creative_id) DO UPDATE SET
				status = EXCLUDED.status,
				duplicate_flag = EXCLUDED.duplicate_flag,
				creative_type = EXCLUDED.creative_type,
				target_traffic = EXCLUDED.target_traffic,
				type = EXCLUDED.type,
				format = EXCLUDED.format,
				style = EXCLUDED.style,
				angle = EXCLUDED.angle,
				awareness_level = EXCLUDED.awareness_level,
				created_by = EXCLUDED.created_by,
				date_created = EXCLUDED.date_created,
				date_launched = EXCLUDED.date_launched,
				link_to_asset = EXCLUDED.link_to_asset,
				winner = EXCLUDED.winner,
				updated_at = NOW()
		`, c.CreativeID, nullString(c.Status), nullString(c.DuplicateFlag), nullString(c.CreativeType),
			nullString(c.TargetTraffic), nullString(c.Type), nullString(c.Format), nullString(c.Style),
			nullString(c.Angle), nullString(c.AwarenessLevel), nullString(c.CreatedBy),
			nullTime(c.DateCreated), nullTime(c.DateLaunched), nullString(c.LinkToAsset), nullString(c.Winner))
		if err != nil {
			return fmt.Errorf("upsert creative %s: %w", c.CreativeID, err)
		}
	}
	return nil
}

// UpsertCreativeSeed writes seed metadata; format and duplicate_flag are
// never touched on update.
func (r *Repo) UpsertCreativeSeed(ctx context.Context, creatives []domain.Creative) error {
	for _, c := range creatives {
		_, err := r.q.ExecContext(ctx, `
			INSERT INTO creatives
				(creative_id, status, creative_type, target_traffic, type, style, angle,
				 awareness_level, created_by, date_created, date_launched, link_to_asset, winner,
				 created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
			ON CONFLICT (creative_id) DO UPDATE SET
				status = EXCLUDED.status,
				creative_type = EXCLUDED.creative_type,
				target_traffic = EXCLUDED.target_traffic,
				type = EXCLUDED.type,
				style = EXCLUDED.style,
				angle = EXCLUDED.angle,
				awareness_level = EXCLUDED.awareness_level,
				created_by = EXCLUDED.created_by,
				date_created = EXCLUDED.date_created,
				date_launched = EXCLUDED.date_launched,
				link_to_asset = EXCLUDED.link_to_asset,
				winner = EXCLUDED.winner,
				updated_at = NOW()
		`, c.CreativeID, nullString(c.Status), nullString(c.CreativeType), nullString(c.TargetTraffic),
			nullString(c.Type), nullString(c.Style), nullString(c.Angle), nullString(c.AwarenessLevel),
			nullString(c.CreatedBy), nullTime(c.DateCreated), nullTime(c.DateLaunched),
			nullString(c.LinkToAsset), nullString(c.Winner))
		if err != nil {
			return fmt.Errorf("upsert creative seed %s: %w", c.CreativeID, err)
		}
	}
	return nil
}

func (r *Repo) UpsertCopies(ctx context.Context, copies []domain.Copy) error {
	for _, c := range copies {
		_, err := r.q.ExecContext(ctx, `
			INSERT INTO copies
				(copy_id, creative_type, target_traffic, hook, angle, created_by,
				 date_created, date_launched, link_to_asset, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
			ON CONFLICT (copy_id) DO UPDATE SET
				creative_type = EXCLUDED.creative_type,
				target_traffic = EXCLUDED.target_traffic,
				hook = EXCLUDED.hook,
				angle = EXCLUDED.angle,
				created_by = EXCLUDED.created_by,
				date_created = EXCLUDED.date_created,
				date_launched = EXCLUDED.date_launched,
				link_to_asset = EXCLUDED.link_to_asset,
				status = EXCLUDED.status,
				updated_at = NOW()
		`, c.CopyID, nullString(c.CreativeType), nullString(c.TargetTraffic), nullString(c.Hook),
			nullString(c.Angle), nullString(c.CreatedBy), nullTime(c.DateCreated), nullTime(c.DateLaunched),
			nullString(c.LinkToAsset), nullString(c.Status))
		if err != nil {
			return fmt.Errorf("upsert copy %s: %w", c.CopyID, err)
		}
	}
	return nil
}

func (r *Repo) UpsertLanders(ctx context.Context, landers []domain.Lander) error {
	for _, l := range landers {
		_, err := r.q.ExecContext(ctx, `
			INSERT INTO landers
				(funnel_identifier, lander, traffic_source, frontend_link, notes, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
			ON CONFLICT (funnel_identifier) DO UPDATE SET
				lander = EXCLUDED.lander,
				traffic_source = EXCLUDED.traffic_source,
				frontend_link = EXCLUDED.frontend_link,
				notes = EXCLUDED.notes,
				updated_at = NOW()
		`, l.FunnelIdentifier, nullString(l.Lander), nullString(l.TrafficSource),
			nullString(l.FrontendLink), nullString(l.Notes))
		if err != nil {
			return fmt.Errorf("upsert lander %s: %w", l.FunnelIdentifier, err)
		}
	}
	return nil
}

// LoadReferenceSets reads every known creative, copy and funnel identifier.
func (r *Repo) LoadReferenceSets(ctx context.Context) (*reconcile.ReferenceSets, error) {
	creatives, err := r.column(ctx, `SELECT creative_id FROM creatives`)
	if err != nil {
		return nil, fmt.Errorf("load creative ids: %w", err)
	}
	copies, err := r.column(ctx, `SELECT copy_id FROM copies`)
	if err != nil {
		return nil, fmt.Errorf("load copy ids: %w", err)
	}
	funnels, err := r.column(ctx, `SELECT funnel_identifier FROM landers`)
	if err != nil {
		return nil, fmt.Errorf("load funnel identifiers: %w", err)
	}
	return reconcile.NewReferenceSets(creatives, copies, funnels), nil
}

// column runs a single-column string query.
func (r *Repo) column(ctx context.Context, q string, args ...interface{}) ([]string, error) {
	rows, err := r.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
