// README: Location service tests with in-memory cache and stub geocoder.
package location

import (
	"context"
	"errors"
	"sync"
	"testing"

	"carpool/internal/types"
)

type memoryCache struct {
	mu        sync.Mutex
	resolved  map[string]Resolved
	snapshots []Snapshot
}

func newMemoryCache() *memoryCache {
	return &memoryCache{resolved: make(map[string]Resolved)}
}

func (m *memoryCache) GetResolved(_ context.Context, key string) (*Resolved, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.resolved[key]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *memoryCache) SetResolved(_ context.Context, key string, r Resolved) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolved[key] = r
	return nil
}

func (m *memoryCache) AppendSnapshot(_ context.Context, snap Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots = append(m.snapshots, snap)
	return nil
}

type stubGeocoder struct {
	calls int
	err   error
}

func (s *stubGeocoder) Geocode(_ context.Context, address string) (Resolved, error) {
	s.calls++
	if s.err != nil {
		return Resolved{}, s.err
	}
	return Resolved{
		Coordinate:       types.Point{Lat: 37.7749, Lng: -122.4194},
		FormattedAddress: address + ", San Francisco, CA",
	}, nil
}

func (s *stubGeocoder) ReverseGeocode(_ context.Context, _ types.Point) (string, error) {
	return "1 Market St, San Francisco, CA", nil
}

func TestResolve_CacheMissThenHit(t *testing.T) {
	cache := newMemoryCache()
	geo := &stubGeocoder{}
	svc := NewService(cache, geo)

	first, err := svc.Resolve(context.Background(), "24 Willie Mays Plaza")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	second, err := svc.Resolve(context.Background(), "24 Willie Mays Plaza")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if geo.calls != 1 {
		t.Errorf("provider called %d times, want 1 (second lookup cached)", geo.calls)
	}
	if first != second {
		t.Errorf("cached result differs: %+v vs %+v", first, second)
	}
	if len(cache.snapshots) != 1 {
		t.Errorf("expected one snapshot for the provider lookup, got %d", len(cache.snapshots))
	}
}

func TestResolve_KeyNormalization(t *testing.T) {
	cache := newMemoryCache()
	geo := &stubGeocoder{}
	svc := NewService(cache, geo)

	if _, err := svc.Resolve(context.Background(), "24 Willie Mays Plaza"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Resolve(context.Background(), "  24  WILLIE mays   plaza "); err != nil {
		t.Fatal(err)
	}
	if geo.calls != 1 {
		t.Errorf("case and whitespace variants should share a cache entry, provider called %d times", geo.calls)
	}
}

func TestResolve_ProviderErrorPassesThrough(t *testing.T) {
	svc := NewService(newMemoryCache(), &stubGeocoder{err: ErrNotResolvable})
	_, err := svc.Resolve(context.Background(), "nowhere")
	if !errors.Is(err, ErrNotResolvable) {
		t.Fatalf("expected ErrNotResolvable, got %v", err)
	}
}

func TestResolve_NilCacheStillWorks(t *testing.T) {
	geo := &stubGeocoder{}
	svc := NewService(nil, geo)
	if _, err := svc.Resolve(context.Background(), "24 Willie Mays Plaza"); err != nil {
		t.Fatalf("Resolve() without a cache should still hit the provider: %v", err)
	}
	if geo.calls != 1 {
		t.Errorf("provider calls = %d, want 1", geo.calls)
	}
}
