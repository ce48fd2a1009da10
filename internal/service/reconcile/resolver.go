package reconcile

import (
	"sort"
	"strings"

	"github.com/ignite/creative-analytics/internal/domain"
)

// Reason codes for identifiers that parsed but are not known.
const (
	ReasonCreativeNotFound = "creative_id_not_found"
	ReasonCopyNotFound     = "copy_id_not_found"
	ReasonFunnelNotFound   = "funnel_identifier_not_found"
)

// ReferenceSets is a per-run snapshot of the known identifiers.
type ReferenceSets struct {
	creatives map[string]struct{}
	copies    map[string]struct{}
	funnels   map[string]struct{}
}

// NewReferenceSets builds a snapshot from identifier lists.
func NewReferenceSets(creativeIDs, copyIDs, funnelIDs []string) *ReferenceSets {
	return &ReferenceSets{
		creatives: toSet(creativeIDs),
		copies:    toSet(copyIDs),
		funnels:   toSet(funnelIDs),
	}
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Sizes returns the number of known creatives, copy variants and funnels.
func (r *ReferenceSets) Sizes() (creatives, copies, funnels int) {
	return len(r.creatives), len(r.copies), len(r.funnels)
}

// Resolve returns the reason codes for every identifier in p that is not
// known, checked in the order creative, copy, funnel. An empty result
// means the ad resolves.
func (r *ReferenceSets) Resolve(p domain.ParsedAdName) []string {
	var reasons []string
	if _, ok := r.creatives[p.CreativeID]; !ok {
		reasons = append(reasons, ReasonCreativeNotFound)
	}
	if _, ok := r.copies[p.CopyID]; !ok {
		reasons = append(reasons, ReasonCopyNotFound)
	}
	if _, ok := r.funnels[p.FunnelIdentifier]; !ok {
		reasons = append(reasons, ReasonFunnelNotFound)
	}
	return reasons
}

// JoinReasons renders reason codes as the stored reason string: sorted and
// comma-joined so the same failures always produce the same key.
func JoinReasons(reasons []string) string {
	sorted := append([]string(nil), reasons...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}
