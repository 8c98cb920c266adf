package reconcile

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"audio-loader/core/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockAdapter is a simple test adapter over in-memory indices.
type mockAdapter struct {
	name         string
	catalogIndex map[string]CatalogItem
	storageSet   map[string]struct{}
	catalogErr   error
	storageErr   error
	loads        atomic.Int32
}

func (m *mockAdapter) Name() string {
	if m.name == "" {
		return "mock"
	}
	return m.name
}

func (m *mockAdapter) LoadCatalogIndex(ctx context.Context) (map[string]CatalogItem, error) {
	m.loads.Add(1)
	if m.catalogErr != nil {
		return nil, m.catalogErr
	}
	return m.catalogIndex, nil
}

func (m *mockAdapter) LoadStorageSet(ctx context.Context, client storage.Client, bucket, prefix string) (map[string]struct{}, error) {
	if m.storageErr != nil {
		return nil, m.storageErr
	}
	return m.storageSet, nil
}

func (m *mockAdapter) ExtractStorageKey(objectKey, prefix string) (string, bool) {
	return objectKey, true
}

func (m *mockAdapter) ResolveName(key string, item CatalogItem) string {
	if name, ok := item.(string); ok {
		return name
	}
	return key
}

func (m *mockAdapter) GetMetadata(item CatalogItem) map[string]string {
	if item == nil {
		return nil
	}
	return map[string]string{"kind": "test"}
}

func (m *mockAdapter) QueryCatalog(ctx context.Context, query Query) (string, CatalogItem, error) {
	if item, ok := m.catalogIndex[query.ID]; ok {
		return query.ID, item, nil
	}
	return "", nil, nil
}

func (m *mockAdapter) CheckStorage(ctx context.Context, client storage.Client, bucket, prefix, key string) (bool, error) {
	_, ok := m.storageSet[key]
	return ok, nil
}

func newMockAdapter(name string) *mockAdapter {
	return &mockAdapter{
		name: name,
		catalogIndex: map[string]CatalogItem{
			"Music.bnk":  "Music",
			"Voices.bnk": "Voices",
		},
		storageSet: map[string]struct{}{
			"Music.bnk":    {},
			"Leftover.bnk": {},
		},
	}
}

func TestBuildCache_ErrorHandling(t *testing.T) {
	tests := []struct {
		name       string
		catalogErr error
		storageErr error
		expectErr  string
	}{
		{name: "Catalog load error", catalogErr: fmt.Errorf("catalog error"), expectErr: "catalog error"},
		{name: "Storage load error", storageErr: fmt.Errorf("storage error"), expectErr: "storage error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := &mockAdapter{catalogErr: tt.catalogErr, storageErr: tt.storageErr}
			spec := &Spec{Adapter: adapter, CacheTTL: 5 * time.Minute}

			_, err := BuildCache(context.Background(), spec, nil, "")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectErr)
		})
	}
}

func TestReconcileAll(t *testing.T) {
	spec := &Spec{Adapter: newMockAdapter("all")}

	results, err := ReconcileAll(context.Background(), spec, nil, "audio")
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "Leftover.bnk", results[0].ID)
	assert.False(t, results[0].CatalogPresent)
	assert.True(t, results[0].StoragePresent)
	assert.Nil(t, results[0].Metadata)

	assert.Equal(t, "Music.bnk", results[1].ID)
	assert.Equal(t, "Music", results[1].Name)
	assert.True(t, results[1].CatalogPresent)
	assert.True(t, results[1].StoragePresent)

	assert.Equal(t, "Voices.bnk", results[2].ID)
	assert.True(t, results[2].CatalogPresent)
	assert.False(t, results[2].StoragePresent)
}

func TestReconcileOne(t *testing.T) {
	t.Run("Without cache", func(t *testing.T) {
		spec := &Spec{Adapter: newMockAdapter("one-direct")}

		result, err := ReconcileOne(context.Background(), spec, nil, "audio", Query{ID: "Voices.bnk"})
		require.NoError(t, err)
		assert.True(t, result.CatalogPresent)
		assert.False(t, result.StoragePresent)
		assert.Equal(t, "Voices", result.Name)

		result, err = ReconcileOne(context.Background(), spec, nil, "audio", Query{ID: "Leftover.bnk"})
		require.NoError(t, err)
		assert.False(t, result.CatalogPresent)
		assert.True(t, result.StoragePresent)
	})

	t.Run("With cache", func(t *testing.T) {
		adapter := newMockAdapter("one-cached")
		spec := &Spec{Adapter: adapter, CacheTTL: time.Minute}
		defer InvalidateCache(spec)

		result, err := ReconcileOne(context.Background(), spec, nil, "audio", Query{Name: "Music"})
		require.NoError(t, err)
		assert.Equal(t, "Music.bnk", result.ID)
		assert.True(t, result.StoragePresent)

		result, err = ReconcileOne(context.Background(), spec, nil, "audio", Query{ID: "Nothing.bnk"})
		require.NoError(t, err)
		assert.Equal(t, "Nothing.bnk", result.ID)
		assert.False(t, result.CatalogPresent)
		assert.False(t, result.StoragePresent)

		assert.EqualValues(t, 1, adapter.loads.Load())
	})
}

func TestGetOrBuildCache_SharesBuild(t *testing.T) {
	adapter := newMockAdapter("stampede")
	spec := &Spec{Adapter: adapter, CacheTTL: time.Minute}
	defer InvalidateCache(spec)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := GetOrBuildCache(context.Background(), spec, nil, "audio")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, adapter.loads.Load())

	InvalidateCache(spec)
	_, err := GetOrBuildCache(context.Background(), spec, nil, "audio")
	require.NoError(t, err)
	assert.EqualValues(t, 2, adapter.loads.Load())
}

func TestReconcileCache_IsExpired(t *testing.T) {
	assert.True(t, (&ReconcileCache{}).IsExpired(), "zero TTL disables caching")
	assert.False(t, (&ReconcileCache{Built: time.Now(), TTL: time.Minute}).IsExpired())
	assert.True(t, (&ReconcileCache{Built: time.Now().Add(-2 * time.Minute), TTL: time.Minute}).IsExpired())
}
