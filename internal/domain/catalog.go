package domain

import "time"

// Creative is a creative asset from the creative sheet. CreativeID is a
// V<digits> or IMG<digits>.<digits> identifier.
type Creative struct {
	CreativeID     string     `json:"creativeId" db:"creative_id"`
	Status         string     `json:"status,omitempty" db:"status"`
	DuplicateFlag  string     `json:"duplicateFlag,omitempty" db:"duplicate_flag"`
	CreativeType   string     `json:"creativeType,omitempty" db:"creative_type"`
	TargetTraffic  string     `json:"targetTraffic,omitempty" db:"target_traffic"`
	Type           string     `json:"type,omitempty" db:"type"`
	Format         string     `json:"format,omitempty" db:"format"`
	Style          string     `json:"style,omitempty" db:"style"`
	Angle          string     `json:"angle,omitempty" db:"angle"`
	AwarenessLevel string     `json:"awarenessLevel,omitempty" db:"awareness_level"`
	CreatedBy      string     `json:"createdBy,omitempty" db:"created_by"`
	DateCreated    *time.Time `json:"dateCreated,omitempty" db:"date_created"`
	DateLaunched   *time.Time `json:"dateLaunched,omitempty" db:"date_launched"`
	LinkToAsset    string     `json:"linkToAsset,omitempty" db:"link_to_asset"`
	Winner         string     `json:"winner,omitempty" db:"winner"`
}

// Copy is a copy variant (C<digits>) from the creative sheet.
type Copy struct {
	CopyID        string     `json:"copyId" db:"copy_id"`
	CreativeType  string     `json:"creativeType,omitempty" db:"creative_type"`
	TargetTraffic string     `json:"targetTraffic,omitempty" db:"target_traffic"`
	Hook          string     `json:"hook,omitempty" db:"hook"`
	Angle         string     `json:"angle,omitempty" db:"angle"`
	CreatedBy     string     `json:"createdBy,omitempty" db:"created_by"`
	DateCreated   *time.Time `json:"dateCreated,omitempty" db:"date_created"`
	DateLaunched  *time.Time `json:"dateLaunched,omitempty" db:"date_launched"`
	LinkToAsset   string     `json:"linkToAsset,omitempty" db:"link_to_asset"`
	Status        string     `json:"status,omitempty" db:"status"`
}

// Lander is a landing page identified by its funnel identifier (A<digits>).
type Lander struct {
	FunnelIdentifier string `json:"funnelIdentifier" db:"funnel_identifier"`
	Lander           string `json:"lander,omitempty" db:"lander"`
	TrafficSource    string `json:"trafficSource,omitempty" db:"traffic_source"`
	FrontendLink     string `json:"frontendLink,omitempty" db:"frontend_link"`
	Notes            string `json:"notes,omitempty" db:"notes"`
}
