package domain

import "time"

// AdStatusActive is the ads-platform status of a delivering ad.
const AdStatusActive = "ACTIVE"

// SimulatedAdPrefix marks ads generated from seed data rather than the ads platform.
const SimulatedAdPrefix = "SIM-"

// Ad is an ad as delivered by the ads platform (or a seed file).
type Ad struct {
	AdID         string    `json:"adId" db:"ad_id"`
	AdName       string    `json:"adName" db:"ad_name"`
	CampaignName string    `json:"campaignName,omitempty" db:"campaign_name"`
	AdsetName    string    `json:"adsetName,omitempty" db:"adset_name"`
	Status       string    `json:"status,omitempty" db:"status"`
	IsSimulated  bool      `json:"isSimulated" db:"is_simulated"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// Active reports whether the ad is currently delivering.
func (a Ad) Active() bool { return a.Status == AdStatusActive }

// DailyInsight is one day of ads-platform delivery for one ad.
type DailyInsight struct {
	Date        time.Time `json:"date" db:"date"`
	AdID        string    `json:"adId" db:"ad_id"`
	Spend       float64   `json:"spend" db:"spend"`
	Impressions int64     `json:"impressions" db:"impressions"`
	Clicks      int64     `json:"clicks" db:"clicks"`
	CPM         float64   `json:"cpm" db:"cpm"`
	CPC         float64   `json:"cpc" db:"cpc"`
	CTR         float64   `json:"ctr" db:"ctr"`
}

// DailyRevenue is one day of tracking-platform revenue attributed to a creative.
type DailyRevenue struct {
	ID          string    `json:"id" db:"id"`
	Date        time.Time `json:"date" db:"date"`
	TrackingKey string    `json:"trackingKey,omitempty" db:"tracking_key"`
	AdID        string    `json:"adId,omitempty" db:"ad_id"`
	AdName      string    `json:"adName,omitempty" db:"ad_name"`
	CreativeID  string    `json:"creativeId,omitempty" db:"creative_id"`
	Revenue     float64   `json:"revenue" db:"revenue"`
	Purchases   int64     `json:"purchases" db:"purchases"`
	Profit      float64   `json:"profit" db:"profit"`
	ROAS        float64   `json:"roas" db:"roas"`
}
