package ingest

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/ignite/creative-analytics/internal/domain"
	"github.com/ignite/creative-analytics/internal/service/reconcile"
)

// memStore is an in-memory Store, Transactor and RunStore for testing.
type memStore struct {
	mu sync.Mutex

	ads       map[string]domain.Ad
	creatives map[string]domain.Creative
	copies    map[string]domain.Copy
	landers   map[string]domain.Lander
	insights  map[string]domain.DailyInsight
	revenue   []domain.DailyRevenue
	overrides []domain.ManualOverride
	maps      map[string]domain.AdCreativeMap
	unmapped  map[domain.UnmappedKey]domain.UnmappedAd
	runs      []domain.SyncRun

	txCalls int
	failOn  string
}

var errBoom = errors.New("boom")

func newMemStore() *memStore {
	return &memStore{
		ads:       make(map[string]domain.Ad),
		creatives: make(map[string]domain.Creative),
		copies:    make(map[string]domain.Copy),
		landers:   make(map[string]domain.Lander),
		insights:  make(map[string]domain.DailyInsight),
		maps:      make(map[string]domain.AdCreativeMap),
		unmapped:  make(map[domain.UnmappedKey]domain.UnmappedAd),
	}
}

func (m *memStore) fail(method string) error {
	if m.failOn == method {
		return errBoom
	}
	return nil
}

// SyncTx discards every write when fn fails.
func (m *memStore) SyncTx(ctx context.Context, fn func(Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txCalls++

	staged := m.clone()
	if err := fn(staged); err != nil {
		return err
	}
	m.ads, m.creatives, m.copies, m.landers = staged.ads, staged.creatives, staged.copies, staged.landers
	m.insights, m.revenue, m.maps, m.unmapped = staged.insights, staged.revenue, staged.maps, staged.unmapped
	return nil
}

func (m *memStore) clone() *memStore {
	c := newMemStore()
	c.failOn = m.failOn
	c.overrides = m.overrides
	c.revenue = append([]domain.DailyRevenue(nil), m.revenue...)
	for k, v := range m.ads {
		c.ads[k] = v
	}
	for k, v := range m.creatives {
		c.creatives[k] = v
	}
	for k, v := range m.copies {
		c.copies[k] = v
	}
	for k, v := range m.landers {
		c.landers[k] = v
	}
	for k, v := range m.insights {
		c.insights[k] = v
	}
	for k, v := range m.maps {
		c.maps[k] = v
	}
	for k, v := range m.unmapped {
		c.unmapped[k] = v
	}
	return c
}

func (m *memStore) ClearDailyFacts(_ context.Context) error {
	if err := m.fail("ClearDailyFacts"); err != nil {
		return err
	}
	m.insights = make(map[string]domain.DailyInsight)
	m.revenue = nil
	return nil
}

func (m *memStore) UpsertCreatives(_ context.Context, creatives []domain.Creative) error {
	for _, c := range creatives {
		m.creatives[c.CreativeID] = c
	}
	return nil
}

func (m *memStore) UpsertCreativeSeed(_ context.Context, creatives []domain.Creative) error {
	for _, c := range creatives {
		if existing, ok := m.creatives[c.CreativeID]; ok {
			c.Format = existing.Format
			c.DuplicateFlag = existing.DuplicateFlag
		}
		m.creatives[c.CreativeID] = c
	}
	return nil
}

func (m *memStore) UpsertCopies(_ context.Context, copies []domain.Copy) error {
	for _, c := range copies {
		m.copies[c.CopyID] = c
	}
	return nil
}

func (m *memStore) UpsertLanders(_ context.Context, landers []domain.Lander) error {
	for _, l := range landers {
		m.landers[l.FunnelIdentifier] = l
	}
	return nil
}

func (m *memStore) UpsertAd(_ context.Context, ad *domain.Ad) error {
	m.ads[ad.AdID] = *ad
	return nil
}

func (m *memStore) UpsertInsight(_ context.Context, in *domain.DailyInsight) error {
	if err := m.fail("UpsertInsight"); err != nil {
		return err
	}
	m.insights[in.Date.Format("2006-01-02")+"/"+in.AdID] = *in
	return nil
}

func (m *memStore) InsertRevenue(_ context.Context, rev *domain.DailyRevenue) error {
	m.revenue = append(m.revenue, *rev)
	return nil
}

func (m *memStore) ListAds(_ context.Context) ([]domain.Ad, error) {
	out := make([]domain.Ad, 0, len(m.ads))
	for _, a := range m.ads {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AdID < out[j].AdID })
	return out, nil
}

func (m *memStore) ListOverrides(_ context.Context) ([]domain.ManualOverride, error) {
	return m.overrides, nil
}

func (m *memStore) LoadReferenceSets(_ context.Context) (*reconcile.ReferenceSets, error) {
	var creatives, copies, funnels []string
	for id := range m.creatives {
		creatives = append(creatives, id)
	}
	for id := range m.copies {
		copies = append(copies, id)
	}
	for id := range m.landers {
		funnels = append(funnels, id)
	}
	return reconcile.NewReferenceSets(creatives, copies, funnels), nil
}

func (m *memStore) DeleteMapsBySource(_ context.Context, sources ...domain.MapSource) (int64, error) {
	var n int64
	for id, mp := range m.maps {
		for _, s := range sources {
			if mp.Source == s {
				delete(m.maps, id)
				n++
				break
			}
		}
	}
	return n, nil
}

func (m *memStore) PreservedMapAdIDs(_ context.Context) ([]string, error) {
	var ids []string
	for id := range m.maps {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *memStore) SaveMaps(_ context.Context, maps []domain.AdCreativeMap) error {
	for _, mp := range maps {
		m.maps[mp.AdID] = mp
	}
	return nil
}

func (m *memStore) UpsertUnmapped(_ context.Context, u *domain.UnmappedAd) error {
	m.unmapped[u.Key()] = *u
	return nil
}

func (m *memStore) PruneUnmapped(_ context.Context, keep []domain.UnmappedKey) (int64, error) {
	keepSet := make(map[domain.UnmappedKey]bool, len(keep))
	for _, k := range keep {
		keepSet[k] = true
	}
	var n int64
	for k := range m.unmapped {
		if !keepSet[k] {
			delete(m.unmapped, k)
			n++
		}
	}
	return n, nil
}

func (m *memStore) StartRun(_ context.Context, runType domain.SyncRunType) (*domain.SyncRun, error) {
	run := domain.SyncRun{ID: "run-1", Type: runType, Status: domain.RunRunning}
	m.runs = append(m.runs, run)
	return &run, nil
}

func (m *memStore) FinishRun(_ context.Context, run *domain.SyncRun) error {
	for i := range m.runs {
		if m.runs[i].ID == run.ID {
			m.runs[i] = *run
			return nil
		}
	}
	return errors.New("run not found")
}

func (m *memStore) ListRuns(_ context.Context, limit int) ([]domain.SyncRun, error) {
	return m.runs, nil
}
