package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/ignite/creative-analytics/internal/domain"
	"github.com/ignite/creative-analytics/internal/service/metrics"
)

func (r *Repo) MappedCreatives(ctx context.Context, creativeIDs []string) ([]metrics.AdCreative, error) {
	q := `SELECT ad_id, creative_id FROM ad_creative_maps WHERE creative_id IS NOT NULL`
	var args []interface{}
	if len(creativeIDs) > 0 {
		q += ` AND creative_id = ANY($1)`
		args = append(args, pq.Array(creativeIDs))
	}

	rows, err := r.q.QueryContext(ctx, q+` ORDER BY ad_id`, args...)
	if err != nil {
		return nil, fmt.Errorf("list mapped creatives: %w", err)
	}
	defer rows.Close()

	var out []metrics.AdCreative
	for rows.Next() {
		var ac metrics.AdCreative
		if err := rows.Scan(&ac.AdID, &ac.CreativeID); err != nil {
			return nil, fmt.Errorf("scan mapped creative: %w", err)
		}
		out = append(out, ac)
	}
	return out, rows.Err()
}

func (r *Repo) SpendFacts(ctx context.Context, adIDs []string, rng metrics.Range) ([]metrics.SpendFact, error) {
	if len(adIDs) == 0 {
		return nil, nil
	}
	rows, err := r.q.QueryContext(ctx, `
		SELECT ad_id, date, spend, impressions, clicks
		FROM daily_meta_insights
		WHERE ad_id = ANY($1) AND date >= $2 AND date < $3
		ORDER BY date, ad_id
	`, pq.Array(adIDs), rng.Start, rng.EndExclusive())
	if err != nil {
		return nil, fmt.Errorf("list spend facts: %w", err)
	}
	defer rows.Close()

	var out []metrics.SpendFact
	for rows.Next() {
		var f metrics.SpendFact
		if err := rows.Scan(&f.AdID, &f.Date, &f.Spend, &f.Impressions, &f.Clicks); err != nil {
			return nil, fmt.Errorf("scan spend fact: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *Repo) RevenueFacts(ctx context.Context, rng metrics.Range, creativeIDs []string) ([]metrics.RevenueFact, error) {
	q := `
		SELECT creative_id, date, revenue, profit, purchases
		FROM daily_revenue
		WHERE creative_id IS NOT NULL AND date >= $1 AND date < $2`
	args := []interface{}{rng.Start, rng.EndExclusive()}
	if len(creativeIDs) > 0 {
		q += ` AND creative_id = ANY($3)`
		args = append(args, pq.Array(creativeIDs))
	}

	rows, err := r.q.QueryContext(ctx, q+` ORDER BY date, creative_id`, args...)
	if err != nil {
		return nil, fmt.Errorf("list revenue facts: %w", err)
	}
	defer rows.Close()

	var out []metrics.RevenueFact
	for rows.Next() {
		var f metrics.RevenueFact
		if err := rows.Scan(&f.CreativeID, &f.Date, &f.Revenue, &f.Profit, &f.Purchases); err != nil {
			return nil, fmt.Errorf("scan revenue fact: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

const creativeColumns = `
	creative_id, COALESCE(status,''), COALESCE(duplicate_flag,''), COALESCE(creative_type,''),
	COALESCE(target_traffic,''), COALESCE(type,''), COALESCE(format,''), COALESCE(style,''),
	COALESCE(angle,''), COALESCE(awareness_level,''), COALESCE(created_by,''),
	date_created, date_launched, COALESCE(link_to_asset,''), COALESCE(winner,'')`

func scanCreative(s scanner, c *domain.Creative) error {
	var created, launched sql.NullTime
	if err := s.Scan(
		&c.CreativeID, &c.Status, &c.DuplicateFlag, &c.CreativeType,
		&c.TargetTraffic, &c.Type, &c.Format, &c.Style,
		&c.Angle, &c.AwarenessLevel, &c.CreatedBy,
		&created, &launched, &c.LinkToAsset, &c.Winner,
	); err != nil {
		return err
	}
	c.DateCreated = timePtr(created)
	c.DateLaunched = timePtr(launched)
	return nil
}

func (r *Repo) ListCreatives(ctx context.Context, f metrics.CreativeFilter) ([]domain.Creative, int, error) {
	var conds []string
	args := []interface{}{}
	idx := 1
	add := func(cond string, val interface{}) {
		conds = append(conds, fmt.Sprintf(cond, idx))
		args = append(args, val)
		idx++
	}

	if f.Search != "" {
		add("creative_id ILIKE $%d", "%"+f.Search+"%")
	}
	for _, eq := range []struct{ col, val string }{
		{"status", f.Status},
		{"winner", f.Winner},
		{"angle", f.Angle},
		{"format", f.Format},
		{"style", f.Style},
		{"type", f.Type},
		{"target_traffic", f.TargetTraffic},
		{"created_by", f.CreatedBy},
	} {
		if eq.val != "" {
			add(eq.col+" = $%d", eq.val)
		}
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + joinAnd(conds)
	}

	var total int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM creatives`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count creatives: %w", err)
	}

	q := `SELECT ` + creativeColumns + ` FROM creatives` + where +
		` ORDER BY date_launched DESC NULLS LAST, creative_id`
	if f.Limit > 0 {
		q += fmt.Sprintf(" LIMIT $%d OFFSET $%d", idx, idx+1)
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := r.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list creatives: %w", err)
	}
	defer rows.Close()

	var out []domain.Creative
	for rows.Next() {
		var c domain.Creative
		if err := scanCreative(rows, &c); err != nil {
			return nil, 0, fmt.Errorf("scan creative: %w", err)
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *Repo) GetCreative(ctx context.Context, creativeID string) (*domain.Creative, error) {
	c := &domain.Creative{}
	err := scanCreative(r.q.QueryRowContext(ctx, `SELECT `+creativeColumns+` FROM creatives WHERE creative_id = $1`, creativeID), c)
	if err == sql.ErrNoRows {
		return nil, metrics.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get creative: %w", err)
	}
	return c, nil
}

func (r *Repo) CreativeAds(ctx context.Context, creativeID string) ([]metrics.CreativeAd, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT m.ad_id, COALESCE(a.ad_name,''), COALESCE(a.campaign_name,''), COALESCE(a.adset_name,''),
		       COALESCE(m.copy_id,''), COALESCE(m.funnel_identifier,''), m.source
		FROM ad_creative_maps m
		LEFT JOIN meta_ads a ON a.ad_id = m.ad_id
		WHERE m.creative_id = $1
		ORDER BY m.ad_id
	`, creativeID)
	if err != nil {
		return nil, fmt.Errorf("list creative ads: %w", err)
	}
	defer rows.Close()

	var out []metrics.CreativeAd
	for rows.Next() {
		var ad metrics.CreativeAd
		if err := rows.Scan(&ad.AdID, &ad.AdName, &ad.CampaignName, &ad.AdsetName,
			&ad.CopyID, &ad.FunnelIdentifier, &ad.Source); err != nil {
			return nil, fmt.Errorf("scan creative ad: %w", err)
		}
		out = append(out, ad)
	}
	return out, rows.Err()
}
