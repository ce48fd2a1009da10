package domain

import "time"

// DefaultProduct is the product assigned when neither the ad name nor an
// override supplies one.
const DefaultProduct = "AP"

// MapSource records where an ad-to-creative mapping came from.
type MapSource string

const (
	SourceParser   MapSource = "PARSER"
	SourceOverride MapSource = "OVERRIDE"
)

// Rebuilt reports whether a reconciliation run owns maps of this source.
// Maps from any other source survive a rebuild.
func (s MapSource) Rebuilt() bool {
	return s == SourceParser || s == SourceOverride
}

// ParseStatus is the terminal status of a mapping.
type ParseStatus string

const StatusMapped ParseStatus = "MAPPED"

// ParsedAdName holds the identifiers decoded from an ad name. Identifier
// tokens are upper-cased; ProductCode keeps its "P:" prefix and case.
type ParsedAdName struct {
	FunnelIdentifier string `json:"funnelIdentifier,omitempty"`
	CreativeID       string `json:"creativeId,omitempty"`
	CopyID           string `json:"copyId,omitempty"`
	ProductCode      string `json:"productCode,omitempty"`
}

// Complete reports whether all four tokens are present.
func (p ParsedAdName) Complete() bool {
	return p.FunnelIdentifier != "" && p.CreativeID != "" && p.CopyID != "" && p.ProductCode != ""
}

// AdCreativeMap links one ad to its funnel, creative, copy and product.
type AdCreativeMap struct {
	ID               string      `json:"id" db:"id"`
	AdID             string      `json:"adId" db:"ad_id"`
	FunnelIdentifier string      `json:"funnelIdentifier,omitempty" db:"funnel_identifier"`
	CreativeID       string      `json:"creativeId,omitempty" db:"creative_id"`
	CopyID           string      `json:"copyId,omitempty" db:"copy_id"`
	Product          string      `json:"product" db:"product"`
	ParseStatus      ParseStatus `json:"parseStatus" db:"parse_status"`
	Source           MapSource   `json:"source" db:"source"`
	CreatedAt        time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time   `json:"updatedAt" db:"updated_at"`
}

// ManualOverride replaces parser output for one ad, keyed by ad ID or ad name.
// Empty override fields stay empty on the resulting map.
type ManualOverride struct {
	ID                       string    `json:"id" db:"id"`
	AdID                     string    `json:"adId,omitempty" db:"ad_id"`
	AdName                   string    `json:"adName,omitempty" db:"ad_name"`
	FunnelIdentifierOverride string    `json:"funnelIdentifierOverride,omitempty" db:"funnel_identifier_override"`
	CreativeIDOverride       string    `json:"creativeIdOverride,omitempty" db:"creative_id_override"`
	CopyIDOverride           string    `json:"copyIdOverride,omitempty" db:"copy_id_override"`
	ProductOverride          string    `json:"productOverride,omitempty" db:"product_override"`
	Notes                    string    `json:"notes,omitempty" db:"notes"`
	CreatedAt                time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt                time.Time `json:"updatedAt" db:"updated_at"`
}

// HasKey reports whether the override can be looked up.
func (o ManualOverride) HasKey() bool { return o.AdID != "" || o.AdName != "" }

// UnmappedDetails is the diagnostic payload stored with an unmapped ad.
// Suggestion is only set when the ad name failed to parse.
type UnmappedDetails struct {
	Parsed     ParsedAdName  `json:"parsed"`
	Suggestion *ParsedAdName `json:"suggestion,omitempty"`
}

// UnmappedAd records an ad that could not be mapped, keyed by (AdName, Reason).
type UnmappedAd struct {
	ID        string          `json:"id" db:"id"`
	AdID      string          `json:"adId,omitempty" db:"ad_id"`
	AdName    string          `json:"adName" db:"ad_name"`
	Reason    string          `json:"reason" db:"reason"`
	Details   UnmappedDetails `json:"details" db:"details_json"`
	FirstSeen time.Time       `json:"firstSeen" db:"first_seen"`
	LastSeen  time.Time       `json:"lastSeen" db:"last_seen"`
}

// Key returns the (ad name, reason) identity of the row.
func (u UnmappedAd) Key() UnmappedKey {
	return UnmappedKey{AdName: u.AdName, Reason: u.Reason}
}

// UnmappedKey identifies one unmapped row.
type UnmappedKey struct {
	AdName string
	Reason string
}
