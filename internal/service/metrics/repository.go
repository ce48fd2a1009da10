package metrics

import (
	"context"
	"time"

	"github.com/ignite/creative-analytics/internal/domain"
)

// AdCreative links a mapped ad to its creative.
type AdCreative struct {
	AdID       string
	CreativeID string
}

// SpendFact is one day of delivery for one ad.
type SpendFact struct {
	AdID        string
	Date        time.Time
	Spend       float64
	Impressions int64
	Clicks      int64
}

// RevenueFact is one day of tracked revenue for one creative.
type RevenueFact struct {
	CreativeID string
	Date       time.Time
	Revenue    float64
	Profit     float64
	Purchases  int64
}

// CreativeAd is a mapped ad with its ads-platform labels.
type CreativeAd struct {
	AdID             string
	AdName           string
	CampaignName     string
	AdsetName        string
	CopyID           string
	FunnelIdentifier string
	Source           domain.MapSource
}

// CreativeFilter narrows creative listings. Empty fields do not filter.
type CreativeFilter struct {
	Search        string // case-insensitive substring of the creative ID
	Status        string
	Winner        string
	Angle         string
	Format        string
	Style         string
	Type          string
	TargetTraffic string
	CreatedBy     string
	Limit         int // 0 returns every match
	Offset        int
}

// Repository defines the read-only data access contract for metrics.
type Repository interface {
	// MappedCreatives returns the mapped ads that have a creative, limited
	// to creativeIDs when it is non-empty.
	MappedCreatives(ctx context.Context, creativeIDs []string) ([]AdCreative, error)

	// SpendFacts returns insights for adIDs with a date inside r.
	SpendFacts(ctx context.Context, adIDs []string, r Range) ([]SpendFact, error)

	// RevenueFacts returns revenue rows with a creative and a date inside r,
	// limited to creativeIDs when it is non-empty.
	RevenueFacts(ctx context.Context, r Range, creativeIDs []string) ([]RevenueFact, error)

	// ListCreatives returns creatives matching f ordered by launch date
	// (newest first) then creative ID, and the total match count.
	ListCreatives(ctx context.Context, f CreativeFilter) ([]domain.Creative, int, error)

	// GetCreative returns one creative or ErrNotFound.
	GetCreative(ctx context.Context, creativeID string) (*domain.Creative, error)

	// CreativeAds returns the mapped ads of one creative.
	CreativeAds(ctx context.Context, creativeID string) ([]CreativeAd, error)
}
