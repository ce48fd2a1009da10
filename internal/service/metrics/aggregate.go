package metrics

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Range is an inclusive range of calendar days.
type Range struct {
	Start time.Time
	End   time.Time
}

// NewRange truncates start and end to UTC days and validates the order.
func NewRange(start, end time.Time) (Range, error) {
	r := Range{Start: startOfDay(start), End: startOfDay(end)}
	if r.End.Before(r.Start) {
		return Range{}, fmt.Errorf("%w: end %s before start %s", ErrInvalidRange,
			r.End.Format(dateLayout), r.Start.Format(dateLayout))
	}
	return r, nil
}

// LastDays returns the n days ending today.
func LastDays(now time.Time, n int) Range {
	if n < 1 {
		n = 1
	}
	end := startOfDay(now)
	return Range{Start: end.AddDate(0, 0, -(n - 1)), End: end}
}

// ParseRange parses YYYY-MM-DD bounds. Both empty means the last 30 days;
// one empty bound is an error.
func ParseRange(start, end string, now time.Time) (Range, error) {
	if start == "" && end == "" {
		return LastDays(now, 30), nil
	}
	if start == "" || end == "" {
		return Range{}, fmt.Errorf("%w: start and end must be given together", ErrInvalidRange)
	}
	s, err := time.Parse(dateLayout, start)
	if err != nil {
		return Range{}, fmt.Errorf("%w: start: %v", ErrInvalidRange, err)
	}
	e, err := time.Parse(dateLayout, end)
	if err != nil {
		return Range{}, fmt.Errorf("%w: end: %v", ErrInvalidRange, err)
	}
	return NewRange(s, e)
}

// EndExclusive returns the first instant after the range.
func (r Range) EndExclusive() time.Time { return r.End.AddDate(0, 0, 1) }

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Totals are additive metrics.
type Totals struct {
	Spend       float64 `json:"spend"`
	Revenue     float64 `json:"revenue"`
	Profit      float64 `json:"profit"`
	Purchases   int64   `json:"purchases"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
}

// Add accumulates o into t.
func (t *Totals) Add(o Totals) {
	t.Spend += o.Spend
	t.Revenue += o.Revenue
	t.Profit += o.Profit
	t.Purchases += o.Purchases
	t.Impressions += o.Impressions
	t.Clicks += o.Clicks
}

// Metrics are totals plus the ratios derived from them.
type Metrics struct {
	Totals
	ROAS float64 `json:"roas"`
	CPA  float64 `json:"cpa"`
	CPM  float64 `json:"cpm"`
	CTR  float64 `json:"ctr"`
	CPC  float64 `json:"cpc"`
}

// Finalize derives ratios from totals.
func Finalize(t Totals) Metrics {
	m := Metrics{
		Totals: t,
		ROAS:   SafeDivide(t.Revenue, t.Spend),
		CPA:    SafeDivide(t.Spend, float64(t.Purchases)),
		CTR:    SafeDivide(float64(t.Clicks), float64(t.Impressions)),
		CPC:    SafeDivide(t.Spend, float64(t.Clicks)),
	}
	if t.Impressions > 0 {
		m.CPM = t.Spend / float64(t.Impressions) * 1000
	}
	return m
}

// SafeDivide returns n/d, or 0 when d is 0.
func SafeDivide(n, d float64) float64 {
	if d == 0 {
		return 0
	}
	return n / d
}

// aggregate sums spend facts by creative through adToCreative and revenue
// facts by their own creative ID.
func aggregate(adToCreative map[string]string, spend []SpendFact, revenue []RevenueFact) map[string]*Totals {
	out := make(map[string]*Totals)
	get := func(id string) *Totals {
		t, ok := out[id]
		if !ok {
			t = &Totals{}
			out[id] = t
		}
		return t
	}

	for _, f := range spend {
		creativeID, ok := adToCreative[f.AdID]
		if !ok {
			continue
		}
		t := get(creativeID)
		t.Spend += f.Spend
		t.Impressions += f.Impressions
		t.Clicks += f.Clicks
	}
	for _, f := range revenue {
		if f.CreativeID == "" {
			continue
		}
		t := get(f.CreativeID)
		t.Revenue += f.Revenue
		t.Profit += f.Profit
		t.Purchases += f.Purchases
	}
	return out
}
