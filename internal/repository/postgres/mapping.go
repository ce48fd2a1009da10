package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ignite/creative-analytics/internal/domain"
	"github.com/ignite/creative-analytics/internal/service/override"
)

// mapBatchSize bounds the rows per multi-row INSERT.
const mapBatchSize = 500

func (r *Repo) DeleteMapsBySource(ctx context.Context, sources ...domain.MapSource) (int64, error) {
	if len(sources) == 0 {
		return 0, nil
	}
	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = string(s)
	}
	res, err := r.q.ExecContext(ctx, `DELETE FROM ad_creative_maps WHERE source = ANY($1)`, pq.Array(names))
	if err != nil {
		return 0, fmt.Errorf("delete maps: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (r *Repo) PreservedMapAdIDs(ctx context.Context) ([]string, error) {
	ids, err := r.column(ctx, `SELECT ad_id FROM ad_creative_maps ORDER BY ad_id`)
	if err != nil {
		return nil, fmt.Errorf("list preserved maps: %w", err)
	}
	return ids, nil
}

// SaveMaps writes maps with multi-row inserts, replacing any map already
// stored for the same ad.
func (r *Repo) SaveMaps(ctx context.Context, maps []domain.AdCreativeMap) error {
	for start := 0; start < len(maps); start += mapBatchSize {
		end := start + mapBatchSize
		if end > len(maps) {
			end = len(maps)
		}
		if err := r.saveMapBatch(ctx, maps[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) saveMapBatch(ctx context.Context, batch []domain.AdCreativeMap) error {
	const cols = 8
	values := make([]string, 0, len(batch))
	args := make([]interface{}, 0, len(batch)*cols)
	for i := range batch {
		m := &batch[i]
		if m.ID == "" {
			m.ID = uuid.New().String()
		}
		values = append(values, "("+placeholders(i*cols+1, cols)+", NOW(), NOW())")
		args = append(args, m.ID, m.AdID, nullString(m.FunnelIdentifier), nullString(m.CreativeID),
			nullString(m.CopyID), m.Product, string(m.ParseStatus), string(m.Source))
	}

	q := `
		INSERT INTO ad_creative_maps
			(id, ad_id, funnel_identifier, creative_id, copy_id, product, parse_status, source, created_at, updated_at)
		VALUES ` + joinComma(values) + `
		ON CONFLICT (ad_id) DO UPDATE SET
			funnel_identifier = EXCLUDED.funnel_identifier,
			creative_id = EXCLUDED.creative_id,
			copy_id = EXCLUDED.copy_id,
			product = EXCLUDED.product,
			parse_status = EXCLUDED.parse_status,
			source = EXCLUDED.source,
			updated_at = NOW()`
	if _, err := r.q.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("save maps: %w", err)
	}
	return nil
}

func (r *Repo) UpsertUnmapped(ctx context.Context, u *domain.UnmappedAd) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	details, err := json.Marshal(u.Details)
	if err != nil {
		return fmt.Errorf("encode unmapped details: %w", err)
	}
	_, err = r.q.ExecContext(ctx, `
		INSERT INTO unmapped_ads (id, ad_id, ad_name, reason, details_json, first_seen, last_seen)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (ad_name, reason) DO UPDATE SET
			ad_id = EXCLUDED.ad_id,
			details_json = EXCLUDED.details_json,
			last_seen = EXCLUDED.last_seen
	`, u.ID, nullString(u.AdID), u.AdName, u.Reason, string(details), u.FirstSeen, u.LastSeen)
	if err != nil {
		return fmt.Errorf("upsert unmapped %q: %w", u.AdName, err)
	}
	return nil
}

// PruneUnmapped deletes every unmapped row whose (ad name, reason) is not
// listed in keep. An empty keep list clears the table.
func (r *Repo) PruneUnmapped(ctx context.Context, keep []domain.UnmappedKey) (int64, error) {
	names := make([]string, len(keep))
	reasons := make([]string, len(keep))
	for i, k := range keep {
		names[i] = k.AdName
		reasons[i] = k.Reason
	}
	res, err := r.q.ExecContext(ctx, `
		DELETE FROM unmapped_ads u
		WHERE NOT EXISTS (
			SELECT 1 FROM unnest($1::text[], $2::text[]) AS k(ad_name, reason)
			WHERE k.ad_name = u.ad_name AND k.reason = u.reason
		)
	`, pq.Array(names), pq.Array(reasons))
	if err != nil {
		return 0, fmt.Errorf("prune unmapped: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (r *Repo) ListUnmapped(ctx context.Context, f override.ListFilter) ([]domain.UnmappedAd, int, error) {
	where := ""
	args := []interface{}{}
	if f.Search != "" {
		where = " WHERE ad_name ILIKE $1 OR ad_id ILIKE $1"
		args = append(args, "%"+f.Search+"%")
	}

	var total int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM unmapped_ads`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count unmapped: %w", err)
	}

	idx := len(args) + 1
	q := `
		SELECT id, COALESCE(ad_id,''), ad_name, reason, COALESCE(details_json::text,'{}'), first_seen, last_seen
		FROM unmapped_ads` + where + fmt.Sprintf(`
		ORDER BY last_seen DESC, ad_name
		LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list unmapped: %w", err)
	}
	defer rows.Close()

	var out []domain.UnmappedAd
	for rows.Next() {
		var u domain.UnmappedAd
		var details string
		if err := rows.Scan(&u.ID, &u.AdID, &u.AdName, &u.Reason, &details, &u.FirstSeen, &u.LastSeen); err != nil {
			return nil, 0, fmt.Errorf("scan unmapped: %w", err)
		}
		if err := json.Unmarshal([]byte(details), &u.Details); err != nil {
			return nil, 0, fmt.Errorf("decode unmapped details for %q: %w", u.AdName, err)
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}
