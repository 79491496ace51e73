// README: Optional Google Maps enhancement provider (spherical distance + reverse geocoding).
package maps

import (
	"context"
	"errors"
	"fmt"
	"math"

	"googlemaps.github.io/maps"

	"taximeter/internal/types"
)

// sphericalRadiusM matches the radius the Maps geometry library uses for
// computeDistanceBetween, so distances agree with the web SDK.
const sphericalRadiusM = 6378137.0

var ErrNotReady = errors.New("maps enhancer not initialized")

// Enhancer handles interactions with the Google Maps API. The meter works
// without it: callers must treat every error as a degraded feature, not a
// failure of the trip.
type Enhancer struct {
	client *maps.Client
}

// NewEnhancer creates an Enhancer with the given API key. An empty key
// returns a permanently not-ready Enhancer rather than an error so the
// caller can wire it unconditionally.
func NewEnhancer(apiKey string) (*Enhancer, error) {
	if apiKey == "" {
		return &Enhancer{}, nil
	}
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &Enhancer{client: client}, nil
}

// Ready reports whether the provider finished initialization.
func (e *Enhancer) Ready() bool {
	return e != nil && e.client != nil
}

// SphericalDistanceMeters returns the distance between two points on the
// Maps spherical Earth model (radius 6378137 m).
func (e *Enhancer) SphericalDistanceMeters(_ context.Context, a, b types.Point) (float64, error) {
	if !e.Ready() {
		return 0, ErrNotReady
	}
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return sphericalRadiusM * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h)), nil
}

// ReverseGeocode resolves a point to a display address. Returns the first
// formatted result.
func (e *Enhancer) ReverseGeocode(ctx context.Context, p types.Point) (string, error) {
	if !e.Ready() {
		return "", ErrNotReady
	}
	results, err := e.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng: &maps.LatLng{Lat: p.Lat, Lng: p.Lng},
	})
	if err != nil {
		return "", fmt.Errorf("geocoding api error: %w", err)
	}
	if len(results) == 0 {
		return "", errors.New("no address found")
	}
	return results[0].FormattedAddress, nil
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
