package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ignite/creative-analytics/internal/domain"
)

func (r *Repo) ListAds(ctx context.Context) ([]domain.Ad, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT ad_id, ad_name, COALESCE(campaign_name,''), COALESCE(adset_name,''),
		       COALESCE(status,''), is_simulated, created_at, updated_at
		FROM meta_ads
		ORDER BY ad_id
	`)
	if err != nil {
		return nil, fmt.Errorf("list ads: %w", err)
	}
	defer rows.Close()

	var out []domain.Ad
	for rows.Next() {
		var a domain.Ad
		if err := rows.Scan(
			&a.AdID, &a.AdName, &a.CampaignName, &a.AdsetName,
			&a.Status, &a.IsSimulated, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan ad: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repo) UpsertAd(ctx context.Context, a *domain.Ad) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO meta_ads
			(ad_id, ad_name, campaign_name, adset_name, status, is_simulated, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (ad_id) DO UPDATE SET
			ad_name = EXCLUDED.ad_name,
			campaign_name = EXCLUDED.campaign_name,
			adset_name = EXCLUDED.adset_name,
			status = EXCLUDED.status,
			is_simulated = EXCLUDED.is_simulated,
			updated_at = NOW()
	`, a.AdID, a.AdName, nullString(a.CampaignName), nullString(a.AdsetName),
		nullString(a.Status), a.IsSimulated)
	if err != nil {
		return fmt.Errorf("upsert ad %s: %w", a.AdID, err)
	}
	return nil
}

// ClearDailyFacts deletes every insight and revenue row.
func (r *Repo) ClearDailyFacts(ctx context.Context) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM daily_meta_insights`); err != nil {
		return fmt.Errorf("clear insights: %w", err)
	}
	if _, err := r.q.ExecContext(ctx, `DELETE FROM daily_revenue`); err != nil {
		return fmt.Errorf("clear revenue: %w", err)
	}
	return nil
}

func (r *Repo) UpsertInsight(ctx context.Context, in *domain.DailyInsight) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO daily_meta_insights
			(date, ad_id, spend, impressions, clicks, cpm, cpc, ctr)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (date, ad_id) DO UPDATE SET
			spend = EXCLUDED.spend,
			impressions = EXCLUDED.impressions,
			clicks = EXCLUDED.clicks,
			cpm = EXCLUDED.cpm,
			cpc = EXCLUDED.cpc,
			ctr = EXCLUDED.ctr
	`, in.Date, in.AdID, in.Spend, in.Impressions, in.Clicks, in.CPM, in.CPC, in.CTR)
	if err != nil {
		return fmt.Errorf("upsert insight %s: %w", in.AdID, err)
	}
	return nil
}

func (r *Repo) InsertRevenue(ctx context.Context, rev *domain.DailyRevenue) error {
	if rev.ID == "" {
		rev.ID = uuid.New().String()
	}
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO daily_revenue
			(id, date, tracking_key, ad_id, ad_name, creative_id, revenue, purchases, profit, roas)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, rev.ID, rev.Date, nullString(rev.TrackingKey), nullString(rev.AdID), nullString(rev.AdName),
		nullString(rev.CreativeID), rev.Revenue, rev.Purchases, rev.Profit, rev.ROAS)
	if err != nil {
		return fmt.Errorf("insert revenue: %w", err)
	}
	return nil
}
