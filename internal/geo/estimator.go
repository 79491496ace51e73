// README: Distance estimator with optional high-precision provider and haversine fallback.
package geo

import (
	"context"
	"log/slog"

	"taximeter/internal/types"
)

// SphericalDistancer is a higher-precision external distance provider.
// Implemented by maps.Enhancer; nil or not-ready providers are skipped.
type SphericalDistancer interface {
	Ready() bool
	SphericalDistanceMeters(ctx context.Context, a, b types.Point) (float64, error)
}

// Estimator converts an origin anchor and a current position into a
// distance in kilometres. It holds no trip state of its own: the result
// depends only on the two points.
type Estimator struct {
	provider SphericalDistancer
	logger   *slog.Logger
}

func NewEstimator(provider SphericalDistancer, logger *slog.Logger) *Estimator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Estimator{provider: provider, logger: logger}
}

// DistanceKm returns the great-circle distance from origin to current.
// When the external provider is configured and ready it is preferred;
// any failure falls back to the local haversine result and is logged,
// never propagated.
func (e *Estimator) DistanceKm(ctx context.Context, origin, current types.Point) float64 {
	if e.provider != nil && e.provider.Ready() {
		meters, err := e.provider.SphericalDistanceMeters(ctx, origin, current)
		if err == nil {
			return meters / 1000.0
		}
		e.logger.Warn("spherical distance provider failed, using haversine", "error", err)
	}
	return HaversineKm(origin, current)
}
