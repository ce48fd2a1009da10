package ingest

import (
	"github.com/ignite/creative-analytics/internal/domain"
)

// PerformanceRow is one creative's aggregate from the performance seed CSV.
type PerformanceRow struct {
	CreativeID  string
	Spend       float64
	Impressions int64
	Clicks      int64
	CPM         float64
	CPC         float64
	CTR         float64
	Revenue     float64
	Purchases   int64
	Profit      float64
	ROAS        float64
}

// ReadCreativeSeed reads creative metadata from the creative seed CSV.
func ReadCreativeSeed(path string) ([]domain.Creative, error) {
	records, err := readCSVRecords(path)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Creative, 0, len(records))
	for _, r := range records {
		c := creativeFromRecord(r)
		if c.CreativeID == "" {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// ReadPerformanceSeed reads the performance seed CSV. Rows without an
// Image identifier are skipped.
func ReadPerformanceSeed(path string) ([]PerformanceRow, error) {
	records, err := readCSVRecords(path)
	if err != nil {
		return nil, err
	}
	out := make([]PerformanceRow, 0, len(records))
	for _, r := range records {
		id := NormalizeID(r.get("Image"))
		if id == "" {
			continue
		}
		out = append(out, PerformanceRow{
			CreativeID:  id,
			Spend:       ParseCurrency(r.get("Cost")),
			Impressions: ParseInteger(r.get("Impressions")),
			Clicks:      ParseInteger(r.get("Clicks")),
			CPM:         ParseCurrency(r.get("CPM")),
			CPC:         ParseCurrency(r.get("CPC")),
			CTR:         ParsePercent(r.get("CTR")),
			Revenue:     ParseCurrency(r.get("Revenue")),
			Purchases:   ParseInteger(r.get("Unique Customers")),
			Profit:      ParseCurrency(r.get("PnL")),
			ROAS:        ParseCurrency(r.get("ROAS")),
		})
	}
	return out, nil
}
