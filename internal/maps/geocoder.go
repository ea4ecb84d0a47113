package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"carpool/internal/modules/location"
	"carpool/internal/types"
)

// Geocoder handles interactions with the Google Maps Geocoding API. It is
// the production implementation of location.Geocoder; the matching core
// never talks to it (distances stay with the distance oracle).
type Geocoder struct {
	client *maps.Client
}

// NewGeocoder creates a Geocoder with the given API key.
func NewGeocoder(apiKey string) (*Geocoder, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &Geocoder{client: client}, nil
}

// Geocode resolves a free-form address to coordinates and the provider's
// canonical formatting.
func (g *Geocoder) Geocode(ctx context.Context, address string) (location.Resolved, error) {
	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return location.Resolved{}, fmt.Errorf("maps api error: %w", err)
	}
	if len(results) == 0 {
		return location.Resolved{}, location.ErrNotResolvable
	}

	loc := results[0].Geometry.Location
	return location.Resolved{
		Coordinate:       types.Point{Lat: loc.Lat, Lng: loc.Lng},
		FormattedAddress: results[0].FormattedAddress,
	}, nil
}

// ReverseGeocode maps coordinates back to the nearest formatted address.
func (g *Geocoder) ReverseGeocode(ctx context.Context, p types.Point) (string, error) {
	results, err := g.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng: &maps.LatLng{Lat: p.Lat, Lng: p.Lng},
	})
	if err != nil {
		return "", fmt.Errorf("maps api error: %w", err)
	}
	if len(results) == 0 {
		return "", location.ErrNotResolvable
	}
	return results[0].FormattedAddress, nil
}
