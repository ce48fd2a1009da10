package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/creative-analytics/internal/service/metrics"
)

func testRange(t *testing.T) metrics.Range {
	t.Helper()
	r, err := metrics.NewRange(
		time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return r
}

func TestSpendFactsUsesExclusiveEnd(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewRepo(db)
	rng := testRange(t)
	day := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM daily_meta_insights\s+WHERE ad_id = ANY\(\$1\) AND date >= \$2 AND date < \$3`).
		WithArgs(sqlmock.AnyArg(), rng.Start, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)).
		WillReturnRows(sqlmock.NewRows([]string{"ad_id", "date", "spend", "impressions", "clicks"}).
			AddRow("1", day, 12.5, 1000, 20))

	facts, err := repo.SpendFacts(context.Background(), []string{"1"}, rng)
	require.NoError(t, err)
	require.Len(t, facts, 1)
	assert.Equal(t, 12.5, facts[0].Spend)
	assert.Equal(t, int64(1000), facts[0].Impressions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSpendFactsNoAds(t *testing.T) {
	db, mock := setupTestDB(t)
	facts, err := NewRepo(db).SpendFacts(context.Background(), nil, testRange(t))
	require.NoError(t, err)
	assert.Empty(t, facts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevenueFactsFilteredByCreative(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewRepo(db)
	rng := testRange(t)

	mock.ExpectQuery(`FROM daily_revenue\s+WHERE creative_id IS NOT NULL AND date >= \$1 AND date < \$2 AND creative_id = ANY\(\$3\)`).
		WithArgs(rng.Start, rng.EndExclusive(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"creative_id", "date", "revenue", "profit", "purchases"}).
			AddRow("V1", rng.Start, 100.0, 40.0, 2))

	facts, err := repo.RevenueFacts(context.Background(), rng, []string{"V1"})
	require.NoError(t, err)
	require.Len(t, facts, 1)
	assert.Equal(t, "V1", facts[0].CreativeID)
	assert.Equal(t, int64(2), facts[0].Purchases)
}

func TestMappedCreativesAll(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewRepo(db)

	mock.ExpectQuery(`SELECT ad_id, creative_id FROM ad_creative_maps WHERE creative_id IS NOT NULL ORDER BY ad_id`).
		WillReturnRows(sqlmock.NewRows([]string{"ad_id", "creative_id"}).AddRow("1", "V1").AddRow("2", "V1"))

	got, err := repo.MappedCreatives(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []metrics.AdCreative{{AdID: "1", CreativeID: "V1"}, {AdID: "2", CreativeID: "V1"}}, got)
}

var creativeCols = []string{
	"creative_id", "status", "duplicate_flag", "creative_type", "target_traffic", "type", "format",
	"style", "angle", "awareness_level", "created_by", "date_created", "date_launched", "link_to_asset", "winner",
}

func TestListCreativesFilters(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewRepo(db)
	launched := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM creatives WHERE creative_id ILIKE \$1 AND angle = \$2 AND created_by = \$3`).
		WithArgs("%v1%", "Pain", "Dana").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`ORDER BY date_launched DESC NULLS LAST, creative_id LIMIT \$4 OFFSET \$5`).
		WithArgs("%v1%", "Pain", "Dana", 25, 25).
		WillReturnRows(sqlmock.NewRows(creativeCols).
			AddRow("V1", "Live", "", "Video", "", "", "9x16", "", "Pain", "", "Dana", nil, launched, "", "Yes"))

	list, total, err := repo.ListCreatives(context.Background(), metrics.CreativeFilter{
		Search: "v1", Angle: "Pain", CreatedBy: "Dana", Limit: 25, Offset: 25,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].DateCreated)
	require.NotNil(t, list[0].DateLaunched)
	assert.Equal(t, launched, *list[0].DateLaunched)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListCreativesUnpaged(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewRepo(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM creatives$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`FROM creatives ORDER BY date_launched DESC NULLS LAST, creative_id$`).
		WillReturnRows(sqlmock.NewRows(creativeCols))

	list, total, err := repo.ListCreatives(context.Background(), metrics.CreativeFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCreativeNotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	mock.ExpectQuery("FROM creatives WHERE creative_id = ").WithArgs("V404").WillReturnError(sql.ErrNoRows)

	_, err := NewRepo(db).GetCreative(context.Background(), "V404")
	assert.ErrorIs(t, err, metrics.ErrNotFound)
}

func TestCreativeAds(t *testing.T) {
	db, mock := setupTestDB(t)
	mock.ExpectQuery(`FROM ad_creative_maps m\s+LEFT JOIN meta_ads a`).
		WithArgs("V1").
		WillReturnRows(sqlmock.NewRows([]string{"ad_id", "ad_name", "campaign_name", "adset_name", "copy_id", "funnel_identifier", "source"}).
			AddRow("1", "A1 | V1 | C1 | P:AP", "Spring", "Broad", "C1", "A1", "PARSER"))

	ads, err := NewRepo(db).CreativeAds(context.Background(), "V1")
	require.NoError(t, err)
	require.Len(t, ads, 1)
	assert.Equal(t, "Spring", ads[0].CampaignName)
	assert.EqualValues(t, "PARSER", ads[0].Source)
}
