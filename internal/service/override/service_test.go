package override

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/ignite/creative-analytics/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRepo is an in-memory repository for testing.
type mockRepo struct {
	mu       sync.Mutex
	store    map[string]*domain.ManualOverride // keyed by ID
	unmapped []domain.UnmappedAd
	lastList ListFilter
}

func newMockRepo() *mockRepo {
	return &mockRepo{store: make(map[string]*domain.ManualOverride)}
}

func keep(stored *string, v string) {
	if v != "" {
		*stored = v
	}
}

func (m *mockRepo) Upsert(_ context.Context, o *domain.ManualOverride) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.store {
		if (o.AdID != "" && existing.AdID == o.AdID) || (o.AdID == "" && existing.AdName == o.AdName) {
			keep(&existing.AdName, o.AdName)
			keep(&existing.FunnelIdentifierOverride, o.FunnelIdentifierOverride)
			keep(&existing.CreativeIDOverride, o.CreativeIDOverride)
			keep(&existing.CopyIDOverride, o.CopyIDOverride)
			keep(&existing.ProductOverride, o.ProductOverride)
			keep(&existing.Notes, o.Notes)
			*o = *existing
			return nil
		}
	}
	o.ID = uuid.New().String()
	stored := *o
	m.store[o.ID] = &stored
	return nil
}

func (m *mockRepo) Get(_ context.Context, id string) (*domain.ManualOverride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *o
	return &c, nil
}

func (m *mockRepo) List(_ context.Context, f ListFilter) ([]domain.ManualOverride, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastList = f
	var out []domain.ManualOverride
	for _, o := range m.store {
		out = append(out, *o)
	}
	return out, len(out), nil
}

func (m *mockRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *mockRepo) ListUnmapped(_ context.Context, f ListFilter) ([]domain.UnmappedAd, int, error) {
	m.lastList = f
	return m.unmapped, len(m.unmapped), nil
}

func TestUpsert_RequiresKey(t *testing.T) {
	svc := NewService(newMockRepo())
	_, err := svc.Upsert(context.Background(), Input{CreativeIDOverride: "V1", AdID: "  "})
	assert.ErrorIs(t, err, ErrKeyRequired)
}

func TestUpsert_Normalizes(t *testing.T) {
	svc := NewService(newMockRepo())

	o, err := svc.Upsert(context.Background(), Input{
		AdID:                     " 120210 ",
		FunnelIdentifierOverride: "a100",
		CreativeIDOverride:       " img1.001 ",
		CopyIDOverride:           "c5",
		ProductOverride:          " xp ",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, "120210", o.AdID)
	assert.Equal(t, "A100", o.FunnelIdentifierOverride)
	assert.Equal(t, "IMG1.001", o.CreativeIDOverride)
	assert.Equal(t, "C5", o.CopyIDOverride)
	assert.Equal(t, "xp", o.ProductOverride)
}

func TestUpsert_SameKeyUpdates(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	first, err := svc.Upsert(ctx, Input{AdName: "Spring | V1", CreativeIDOverride: "V1", Notes: "typo"})
	require.NoError(t, err)
	second, err := svc.Upsert(ctx, Input{AdName: "Spring | V1", CopyIDOverride: "C2"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "V1", second.CreativeIDOverride)
	assert.Equal(t, "C2", second.CopyIDOverride)
	assert.Len(t, repo.store, 1)
}

func TestGetAndDelete(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	o, err := svc.Upsert(ctx, Input{AdID: "1", CreativeIDOverride: "V1"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "V1", got.CreativeIDOverride)

	require.NoError(t, svc.Delete(ctx, o.ID))
	_, err = svc.Get(ctx, o.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, o.ID), ErrNotFound)
}

func TestList_ClampsPagination(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	_, _, err := svc.List(context.Background(), ListFilter{Limit: 10000, Offset: -4, Search: "  spring "})
	require.NoError(t, err)
	assert.Equal(t, ListFilter{Search: "spring", Limit: maxLimit}, repo.lastList)

	_, _, err = svc.ListUnmapped(context.Background(), ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, defaultLimit, repo.lastList.Limit)
}
