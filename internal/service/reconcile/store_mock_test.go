package reconcile

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/ignite/creative-analytics/internal/domain"
)

// memStore is an in-memory Store for testing. Writes land in a staging copy
// that ReconcileTx commits only when fn succeeds.
type memStore struct {
	mu sync.Mutex

	ads       []domain.Ad
	overrides []domain.ManualOverride
	creatives []string
	copies    []string
	funnels   []string

	maps     map[string]domain.AdCreativeMap // keyed by ad ID
	unmapped map[domain.UnmappedKey]domain.UnmappedAd
	runs     []*domain.SyncRun

	failOn string // method name that returns errBoom
}

var errBoom = errors.New("boom")

func newMemStore() *memStore {
	return &memStore{
		maps:     make(map[string]domain.AdCreativeMap),
		unmapped: make(map[domain.UnmappedKey]domain.UnmappedAd),
	}
}

func (m *memStore) fail(method string) error {
	if m.failOn == method {
		return errBoom
	}
	return nil
}

func (m *memStore) ListAds(_ context.Context) ([]domain.Ad, error) {
	if err := m.fail("ListAds"); err != nil {
		return nil, err
	}
	return append([]domain.Ad(nil), m.ads...), nil
}

func (m *memStore) ListOverrides(_ context.Context) ([]domain.ManualOverride, error) {
	if err := m.fail("ListOverrides"); err != nil {
		return nil, err
	}
	return append([]domain.ManualOverride(nil), m.overrides...), nil
}

func (m *memStore) LoadReferenceSets(_ context.Context) (*ReferenceSets, error) {
	if err := m.fail("LoadReferenceSets"); err != nil {
		return nil, err
	}
	return NewReferenceSets(m.creatives, m.copies, m.funnels), nil
}

func (m *memStore) DeleteMapsBySource(_ context.Context, sources ...domain.MapSource) (int64, error) {
	if err := m.fail("DeleteMapsBySource"); err != nil {
		return 0, err
	}
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
	ids := make([]string, 0, len(m.maps))
	for id := range m.maps {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *memStore) SaveMaps(_ context.Context, maps []domain.AdCreativeMap) error {
	if err := m.fail("SaveMaps"); err != nil {
		return err
	}
	for _, mp := range maps {
		m.maps[mp.AdID] = mp
	}
	return nil
}

func (m *memStore) UpsertUnmapped(_ context.Context, u *domain.UnmappedAd) error {
	if err := m.fail("UpsertUnmapped"); err != nil {
		return err
	}
	k := u.Key()
	if existing, ok := m.unmapped[k]; ok {
		existing.AdID = u.AdID
		existing.Details = u.Details
		existing.LastSeen = u.LastSeen
		m.unmapped[k] = existing
		return nil
	}
	m.unmapped[k] = *u
	return nil
}

func (m *memStore) PruneUnmapped(_ context.Context, keep []domain.UnmappedKey) (int64, error) {
	keepSet := make(map[domain.UnmappedKey]struct{}, len(keep))
	for _, k := range keep {
		keepSet[k] = struct{}{}
	}
	var n int64
	for k := range m.unmapped {
		if _, ok := keepSet[k]; !ok {
			delete(m.unmapped, k)
			n++
		}
	}
	return n, nil
}

// ReconcileTx snapshots the written state and restores it when fn fails.
func (m *memStore) ReconcileTx(ctx context.Context, fn func(Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	savedMaps := make(map[string]domain.AdCreativeMap, len(m.maps))
	for k, v := range m.maps {
		savedMaps[k] = v
	}
	savedUnmapped := make(map[domain.UnmappedKey]domain.UnmappedAd, len(m.unmapped))
	for k, v := range m.unmapped {
		savedUnmapped[k] = v
	}

	if err := fn(m); err != nil {
		m.maps = savedMaps
		m.unmapped = savedUnmapped
		return err
	}
	return nil
}

func (m *memStore) StartRun(_ context.Context, runType domain.SyncRunType) (*domain.SyncRun, error) {
	run := &domain.SyncRun{ID: "run-" + string(runType), Type: runType, Status: domain.RunRunning}
	m.runs = append(m.runs, run)
	copied := *run
	return &copied, nil
}

func (m *memStore) FinishRun(_ context.Context, run *domain.SyncRun) error {
	for i, r := range m.runs {
		if r.ID == run.ID {
			copied := *run
			m.runs[i] = &copied
			return nil
		}
	}
	return errors.New("run not found")
}

func (m *memStore) ListRuns(_ context.Context, limit int) ([]domain.SyncRun, error) {
	var out []domain.SyncRun
	for i := len(m.runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *m.runs[i])
	}
	return out, nil
}
