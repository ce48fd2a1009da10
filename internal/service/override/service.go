package override

import (
	"context"
	"strings"

	"github.com/ignite/creative-analytics/internal/domain"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// Input is an override submission. Fields follow the API payload.
type Input struct {
	AdID                     string `json:"adId"`
	AdName                   string `json:"adName"`
	FunnelIdentifierOverride string `json:"funnelIdentifierOverride"`
	CreativeIDOverride       string `json:"creativeIdOverride"`
	CopyIDOverride           string `json:"copyIdOverride"`
	ProductOverride          string `json:"productOverride"`
	Notes                    string `json:"notes"`
}

// Service provides manual override operations.
type Service struct {
	repo Repository
}

// NewService creates a new override service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Upsert validates and stores an override. Values are trimmed and
// identifier overrides are upper-cased; the ad name is kept verbatim apart
// from surrounding whitespace because it must equal the ad's name.
func (s *Service) Upsert(ctx context.Context, in Input) (*domain.ManualOverride, error) {
	o := &domain.ManualOverride{
		AdID:                     strings.TrimSpace(in.AdID),
		AdName:                   strings.TrimSpace(in.AdName),
		FunnelIdentifierOverride: strings.ToUpper(strings.TrimSpace(in.FunnelIdentifierOverride)),
		CreativeIDOverride:       strings.ToUpper(strings.TrimSpace(in.CreativeIDOverride)),
		CopyIDOverride:           strings.ToUpper(strings.TrimSpace(in.CopyIDOverride)),
		ProductOverride:          strings.TrimSpace(in.ProductOverride),
		Notes:                    strings.TrimSpace(in.Notes),
	}
	if !o.HasKey() {
		return nil, ErrKeyRequired
	}
	if err := s.repo.Upsert(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// Get returns one override.
func (s *Service) Get(ctx context.Context, id string) (*domain.ManualOverride, error) {
	return s.repo.Get(ctx, id)
}

// List returns a page of overrides.
func (s *Service) List(ctx context.Context, f ListFilter) ([]domain.ManualOverride, int, error) {
	return s.repo.List(ctx, clamp(f))
}

// Delete removes an override. The ad falls back to parsing on the next run.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// ListUnmapped returns a page of the unmapped-ad queue.
func (s *Service) ListUnmapped(ctx context.Context, f ListFilter) ([]domain.UnmappedAd, int, error) {
	return s.repo.ListUnmapped(ctx, clamp(f))
}

func clamp(f ListFilter) ListFilter {
	f.Search = strings.TrimSpace(f.Search)
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}
