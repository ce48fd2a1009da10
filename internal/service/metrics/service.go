package metrics

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ignite/creative-analytics/internal/domain"
)

const (
	topN           = 10
	analysisChartN = 12
	missingLabel   = "-"
)

// Dimensions a creative can be grouped by. Unknown names fall back to angle.
const (
	DimAngle          = "angle"
	DimFormat         = "format"
	DimStyle          = "style"
	DimType           = "type"
	DimTargetTraffic  = "targetTraffic"
	DimAwarenessLevel = "awarenessLevel"
	DimCreatedBy      = "createdBy"
	DimWinner         = "winner"
	DimStatus         = "status"
)

var dimensionFields = map[string]func(domain.Creative) string{
	DimAngle:          func(c domain.Creative) string { return c.Angle },
	DimFormat:         func(c domain.Creative) string { return c.Format },
	DimStyle:          func(c domain.Creative) string { return c.Style },
	DimType:           func(c domain.Creative) string { return c.Type },
	DimTargetTraffic:  func(c domain.Creative) string { return c.TargetTraffic },
	DimAwarenessLevel: func(c domain.Creative) string { return c.AwarenessLevel },
	DimCreatedBy:      func(c domain.Creative) string { return c.CreatedBy },
	DimWinner:         func(c domain.Creative) string { return c.Winner },
	DimStatus:         func(c domain.Creative) string { return c.Status },
}

// NormalizeDimension maps unknown dimension names to angle.
func NormalizeDimension(dim string) string {
	if _, ok := dimensionFields[dim]; ok {
		return dim
	}
	return DimAngle
}

func label(s string) string {
	if s == "" {
		return missingLabel
	}
	return s
}

// CreativeRow is one creative with its metrics.
type CreativeRow struct {
	CreativeID     string  `json:"creativeId"`
	Status         string  `json:"status"`
	Winner         string  `json:"winner"`
	Angle          string  `json:"angle"`
	Format         string  `json:"format"`
	Style          string  `json:"style"`
	Type           string  `json:"type"`
	TargetTraffic  string  `json:"targetTraffic"`
	AwarenessLevel string  `json:"awarenessLevel"`
	CreatedBy      string  `json:"createdBy"`
	DateLaunched   *string `json:"dateLaunched"`
	LinkToAsset    string  `json:"linkToAsset,omitempty"`
	Metrics        Metrics `json:"metrics"`
}

func newCreativeRow(c domain.Creative, m Metrics) CreativeRow {
	row := CreativeRow{
		CreativeID:     c.CreativeID,
		Status:         label(c.Status),
		Winner:         label(c.Winner),
		Angle:          label(c.Angle),
		Format:         label(c.Format),
		Style:          label(c.Style),
		Type:           label(c.Type),
		TargetTraffic:  label(c.TargetTraffic),
		AwarenessLevel: label(c.AwarenessLevel),
		CreatedBy:      label(c.CreatedBy),
		LinkToAsset:    c.LinkToAsset,
		Metrics:        m,
	}
	if c.DateLaunched != nil {
		d := c.DateLaunched.UTC().Format(dateLayout)
		row.DateLaunched = &d
	}
	return row
}

// LaunchBucket counts creatives launched on one day.
type LaunchBucket struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Overview is the dashboard summary for a range.
type Overview struct {
	Totals       Metrics        `json:"totals"`
	LaunchData   []LaunchBucket `json:"launchData"`
	TopByRevenue []CreativeRow  `json:"topByRevenue"`
	TopByROAS    []CreativeRow  `json:"topByRoas"`
	TopBySpend   []CreativeRow  `json:"topBySpend"`
}

// CreativePage is one page of creative rows.
type CreativePage struct {
	Rows  []CreativeRow `json:"rows"`
	Total int           `json:"total"`
	Pages int           `json:"pages"`
}

// FilterOptions lists the distinct non-empty values per filterable field.
type FilterOptions struct {
	Status        []string `json:"status"`
	Winner        []string `json:"winner"`
	Angle         []string `json:"angle"`
	Format        []string `json:"format"`
	Style         []string `json:"style"`
	Type          []string `json:"type"`
	TargetTraffic []string `json:"targetTraffic"`
	CreatedBy     []string `json:"createdBy"`
}

// TimelinePoint is one day of spend and revenue.
type TimelinePoint struct {
	Date    string  `json:"date"`
	Spend   float64 `json:"spend"`
	Revenue float64 `json:"revenue"`
}

// AdBreakdown is one mapped ad's spend within a creative.
type AdBreakdown struct {
	AdID             string  `json:"adId"`
	AdName           string  `json:"adName"`
	CampaignName     string  `json:"campaignName"`
	AdsetName        string  `json:"adsetName"`
	Spend            float64 `json:"spend"`
	CopyID           string  `json:"copyId,omitempty"`
	FunnelIdentifier string  `json:"funnelIdentifier,omitempty"`
}

// CreativeDetail is the drill-down view of one creative.
type CreativeDetail struct {
	Creative  domain.Creative `json:"creative"`
	Metrics   Metrics         `json:"metrics"`
	Timeline  []TimelinePoint `json:"timeline"`
	Breakdown []AdBreakdown   `json:"breakdown"`
}

// GroupRow is one dimension value with its metrics.
type GroupRow struct {
	Name    string  `json:"name"`
	Metrics Metrics `json:"metrics"`
}

// ChartPoint is one bar of the analysis chart.
type ChartPoint struct {
	Name  string  `json:"name"`
	Spend float64 `json:"spend"`
}

// Analysis groups creative metrics by one dimension.
type Analysis struct {
	Dimension string       `json:"dimension"`
	Totals    Metrics      `json:"totals"`
	Rows      []GroupRow   `json:"rows"`
	Chart     []ChartPoint `json:"chart"`
}

// Service provides creative performance read models.
type Service struct {
	repo Repository
}

// NewService creates a new metrics service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CollectByCreative returns finalized metrics per creative for r. When
// creativeIDs is non-empty only those creatives are considered.
func (s *Service) CollectByCreative(ctx context.Context, r Range, creativeIDs []string) (map[string]Metrics, error) {
	totals, err := s.collectTotals(ctx, r, creativeIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[string]Metrics, len(totals))
	for id, t := range totals {
		out[id] = Finalize(*t)
	}
	return out, nil
}

func (s *Service) collectTotals(ctx context.Context, r Range, creativeIDs []string) (map[string]*Totals, error) {
	mapped, err := s.repo.MappedCreatives(ctx, creativeIDs)
	if err != nil {
		return nil, fmt.Errorf("load mapped ads: %w", err)
	}
	adToCreative := make(map[string]string, len(mapped))
	adIDs := make([]string, 0, len(mapped))
	for _, m := range mapped {
		if m.CreativeID == "" {
			continue
		}
		adToCreative[m.AdID] = m.CreativeID
		adIDs = append(adIDs, m.AdID)
	}

	var spend []SpendFact
	if len(adIDs) > 0 {
		spend, err = s.repo.SpendFacts(ctx, adIDs, r)
		if err != nil {
			return nil, fmt.Errorf("load spend: %w", err)
		}
	}
	revenue, err := s.repo.RevenueFacts(ctx, r, creativeIDs)
	if err != nil {
		return nil, fmt.Errorf("load revenue: %w", err)
	}
	return aggregate(adToCreative, spend, revenue), nil
}

// Overview summarizes r: overall totals, launches per day and the top
// creatives by revenue, ROAS and spend among those with spend or revenue.
func (s *Service) Overview(ctx context.Context, r Range) (*Overview, error) {
	byCreative, err := s.CollectByCreative(ctx, r, nil)
	if err != nil {
		return nil, err
	}

	var sum Totals
	for _, m := range byCreative {
		sum.Add(m.Totals)
	}

	creatives, _, err := s.repo.ListCreatives(ctx, CreativeFilter{})
	if err != nil {
		return nil, fmt.Errorf("list creatives: %w", err)
	}

	launches := make(map[string]int)
	var rows []CreativeRow
	for _, c := range creatives {
		if c.DateLaunched != nil {
			d := startOfDay(*c.DateLaunched)
			if !d.Before(r.Start) && !d.After(r.End) {
				launches[d.Format(dateLayout)]++
			}
		}
		m := byCreative[c.CreativeID]
		if m.Spend > 0 || m.Revenue > 0 {
			rows = append(rows, newCreativeRow(c, m))
		}
	}

	launchData := make([]LaunchBucket, 0, len(launches))
	for date, n := range launches {
		launchData = append(launchData, LaunchBucket{Date: date, Count: n})
	}
	sort.Slice(launchData, func(i, j int) bool { return launchData[i].Date < launchData[j].Date })

	return &Overview{
		Totals:       Finalize(sum),
		LaunchData:   launchData,
		TopByRevenue: topBy(rows, func(r CreativeRow) float64 { return r.Metrics.Revenue }),
		TopByROAS:    topBy(rows, func(r CreativeRow) float64 { return r.Metrics.ROAS }),
		TopBySpend:   topBy(rows, func(r CreativeRow) float64 { return r.Metrics.Spend }),
	}, nil
}

func topBy(rows []CreativeRow, key func(CreativeRow) float64) []CreativeRow {
	sorted := append([]CreativeRow(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool { return key(sorted[i]) > key(sorted[j]) })
	if len(sorted) > topN {
		sorted = sorted[:topN]
	}
	return sorted
}

// CreativeRows returns one page of creatives matching f with metrics for r.
func (s *Service) CreativeRows(ctx context.Context, r Range, f CreativeFilter) (*CreativePage, error) {
	if f.Limit <= 0 {
		f.Limit = 25
	}
	creatives, total, err := s.repo.ListCreatives(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list creatives: %w", err)
	}

	ids := make([]string, len(creatives))
	for i, c := range creatives {
		ids[i] = c.CreativeID
	}
	var byCreative map[string]Metrics
	if len(ids) > 0 {
		if byCreative, err = s.CollectByCreative(ctx, r, ids); err != nil {
			return nil, err
		}
	}

	rows := make([]CreativeRow, len(creatives))
	for i, c := range creatives {
		rows[i] = newCreativeRow(c, byCreative[c.CreativeID])
	}

	pages := (total + f.Limit - 1) / f.Limit
	if pages < 1 {
		pages = 1
	}
	return &CreativePage{Rows: rows, Total: total, Pages: pages}, nil
}

// FilterOptions returns the sorted distinct values of each filterable field.
func (s *Service) FilterOptions(ctx context.Context) (*FilterOptions, error) {
	creatives, _, err := s.repo.ListCreatives(ctx, CreativeFilter{})
	if err != nil {
		return nil, fmt.Errorf("list creatives: %w", err)
	}
	collect := func(field func(domain.Creative) string) []string {
		seen := make(map[string]struct{})
		out := []string{}
		for _, c := range creatives {
			v := field(c)
			if v == "" {
				continue
			}
			if _, ok := seen[v]; !ok {
				seen[v] = struct{}{}
				out = append(out, v)
			}
		}
		sort.Strings(out)
		return out
	}
	return &FilterOptions{
		Status:        collect(dimensionFields[DimStatus]),
		Winner:        collect(dimensionFields[DimWinner]),
		Angle:         collect(dimensionFields[DimAngle]),
		Format:        collect(dimensionFields[DimFormat]),
		Style:         collect(dimensionFields[DimStyle]),
		Type:          collect(dimensionFields[DimType]),
		TargetTraffic: collect(dimensionFields[DimTargetTraffic]),
		CreatedBy:     collect(dimensionFields[DimCreatedBy]),
	}, nil
}

// CreativeDetail returns one creative's metrics, daily timeline and per-ad
// spend for r. Returns ErrNotFound for an unknown creative.
func (s *Service) CreativeDetail(ctx context.Context, creativeID string, r Range) (*CreativeDetail, error) {
	creativeID = strings.ToUpper(strings.TrimSpace(creativeID))
	creative, err := s.repo.GetCreative(ctx, creativeID)
	if err != nil {
		return nil, err
	}

	ads, err := s.repo.CreativeAds(ctx, creativeID)
	if err != nil {
		return nil, fmt.Errorf("load creative ads: %w", err)
	}
	adIDs := make([]string, len(ads))
	for i, a := range ads {
		adIDs[i] = a.AdID
	}

	var spend []SpendFact
	if len(adIDs) > 0 {
		if spend, err = s.repo.SpendFacts(ctx, adIDs, r); err != nil {
			return nil, fmt.Errorf("load spend: %w", err)
		}
	}
	revenue, err := s.repo.RevenueFacts(ctx, r, []string{creativeID})
	if err != nil {
		return nil, fmt.Errorf("load revenue: %w", err)
	}

	var total Totals
	timeline := make(map[string]*TimelinePoint)
	point := func(d time.Time) *TimelinePoint {
		key := d.UTC().Format(dateLayout)
		p, ok := timeline[key]
		if !ok {
			p = &TimelinePoint{Date: key}
			timeline[key] = p
		}
		return p
	}
	adSpend := make(map[string]float64)
	for _, f := range spend {
		point(f.Date).Spend += f.Spend
		adSpend[f.AdID] += f.Spend
		total.Spend += f.Spend
		total.Impressions += f.Impressions
		total.Clicks += f.Clicks
	}
	for _, f := range revenue {
		point(f.Date).Revenue += f.Revenue
		total.Revenue += f.Revenue
		total.Profit += f.Profit
		total.Purchases += f.Purchases
	}

	points := make([]TimelinePoint, 0, len(timeline))
	for _, p := range timeline {
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })

	breakdown := make([]AdBreakdown, len(ads))
	for i, a := range ads {
		breakdown[i] = AdBreakdown{
			AdID:             a.AdID,
			AdName:           a.AdName,
			CampaignName:     label(a.CampaignName),
			AdsetName:        label(a.AdsetName),
			Spend:            adSpend[a.AdID],
			CopyID:           a.CopyID,
			FunnelIdentifier: a.FunnelIdentifier,
		}
	}

	return &CreativeDetail{
		Creative:  *creative,
		Metrics:   Finalize(total),
		Timeline:  points,
		Breakdown: breakdown,
	}, nil
}

// Analysis groups every creative's metrics for r by dimension, sorted by
// spend. Creatives without a value are grouped under "-".
func (s *Service) Analysis(ctx context.Context, r Range, dimension string) (*Analysis, error) {
	dimension = NormalizeDimension(dimension)
	field := dimensionFields[dimension]

	creatives, _, err := s.repo.ListCreatives(ctx, CreativeFilter{})
	if err != nil {
		return nil, fmt.Errorf("list creatives: %w", err)
	}
	ids := make([]string, len(creatives))
	for i, c := range creatives {
		ids[i] = c.CreativeID
	}
	var byCreative map[string]*Totals
	if len(ids) > 0 {
		if byCreative, err = s.collectTotals(ctx, r, ids); err != nil {
			return nil, err
		}
	}

	groups := make(map[string]*Totals)
	var order []string
	for _, c := range creatives {
		key := label(field(c))
		g, ok := groups[key]
		if !ok {
			g = &Totals{}
			groups[key] = g
			order = append(order, key)
		}
		if t, ok := byCreative[c.CreativeID]; ok {
			g.Add(*t)
		}
	}

	var sum Totals
	rows := make([]GroupRow, 0, len(order))
	for _, name := range order {
		sum.Add(*groups[name])
		rows = append(rows, GroupRow{Name: name, Metrics: Finalize(*groups[name])})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Metrics.Spend > rows[j].Metrics.Spend })

	chart := make([]ChartPoint, 0, analysisChartN)
	for i, row := range rows {
		if i == analysisChartN {
			break
		}
		chart = append(chart, ChartPoint{Name: row.Name, Spend: row.Metrics.Spend})
	}

	return &Analysis{
		Dimension: dimension,
		Totals:    Finalize(sum),
		Rows:      rows,
		Chart:     chart,
	}, nil
}
