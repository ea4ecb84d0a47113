// README: Location service: geocode resolution with cache-aside lookups.
package location

import (
	"context"
	"log"
	"strings"

	"carpool/internal/types"
)

// Geocoder is the upstream address resolver (Google Maps in production).
type Geocoder interface {
	Geocode(ctx context.Context, address string) (Resolved, error)
	ReverseGeocode(ctx context.Context, p types.Point) (string, error)
}

// Cache is the resolved-address cache; *Store implements it over Redis.
type Cache interface {
	GetResolved(ctx context.Context, key string) (*Resolved, error)
	SetResolved(ctx context.Context, key string, r Resolved) error
	AppendSnapshot(ctx context.Context, snap Snapshot) error
}

type Service struct {
	cache    Cache
	geocoder Geocoder
}

func NewService(cache Cache, geocoder Geocoder) *Service {
	return &Service{cache: cache, geocoder: geocoder}
}

// Resolve turns a free-form address into coordinates, consulting the cache
// before the provider. Cache failures only cost a provider round trip.
func (s *Service) Resolve(ctx context.Context, address string) (Resolved, error) {
	key := cacheKey(address)

	if s.cache != nil {
		if cached, err := s.cache.GetResolved(ctx, key); err != nil {
			log.Printf("location: cache read for %q failed: %v", address, err)
		} else if cached != nil {
			return *cached, nil
		}
	}

	resolved, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		return Resolved{}, err
	}

	if s.cache != nil {
		if err := s.cache.SetResolved(ctx, key, resolved); err != nil {
			log.Printf("location: cache write for %q failed: %v", address, err)
		}
		if err := s.cache.AppendSnapshot(ctx, Snapshot{
			Address:    address,
			Coordinate: resolved.Coordinate,
		}); err != nil {
			log.Printf("location: snapshot for %q failed: %v", address, err)
		}
	}
	return resolved, nil
}

// ReverseResolve maps coordinates back to a display address.
func (s *Service) ReverseResolve(ctx context.Context, p types.Point) (string, error) {
	return s.geocoder.ReverseGeocode(ctx, p)
}

func cacheKey(address string) string {
	return "geocode:" + strings.ToLower(strings.Join(strings.Fields(address), " "))
}
