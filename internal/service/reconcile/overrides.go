package reconcile

import (
	"github.com/ignite/creative-analytics/internal/domain"
)

// OverrideIndex looks up manual overrides by ad ID, then by ad name.
type OverrideIndex struct {
	byAdID   map[string]*domain.ManualOverride
	byAdName map[string]*domain.ManualOverride
}

// NewOverrideIndex indexes overrides. An override carrying both keys is
// reachable through either.
func NewOverrideIndex(overrides []domain.ManualOverride) *OverrideIndex {
	idx := &OverrideIndex{
		byAdID:   make(map[string]*domain.ManualOverride),
		byAdName: make(map[string]*domain.ManualOverride),
	}
	for i := range overrides {
		o := &overrides[i]
		if o.AdID != "" {
			idx.byAdID[o.AdID] = o
		}
		if o.AdName != "" {
			idx.byAdName[o.AdName] = o
		}
	}
	return idx
}

// Len returns the number of distinct indexed keys.
func (x *OverrideIndex) Len() int {
	return len(x.byAdID) + len(x.byAdName)
}

// Lookup returns the override for an ad. An ad ID match wins over an ad
// name match.
func (x *OverrideIndex) Lookup(ad domain.Ad) (*domain.ManualOverride, bool) {
	if o, ok := x.byAdID[ad.AdID]; ok {
		return o, true
	}
	if o, ok := x.byAdName[ad.AdName]; ok {
		return o, true
	}
	return nil, false
}

// OverrideMap builds the map for an overridden ad. Values are copied
// verbatim and are not checked against the reference sets.
func OverrideMap(ad domain.Ad, o *domain.ManualOverride, defaultProduct string) domain.AdCreativeMap {
	product := o.ProductOverride
	if product == "" {
		product = defaultProduct
	}
	return domain.AdCreativeMap{
		AdID:             ad.AdID,
		FunnelIdentifier: o.FunnelIdentifierOverride,
		CreativeID:       o.CreativeIDOverride,
		CopyID:           o.CopyIDOverride,
		Product:          product,
		ParseStatus:      domain.StatusMapped,
		Source:           domain.SourceOverride,
	}
}
