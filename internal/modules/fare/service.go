// README: Fare engine: maps (trip type, sub-trip, distance, waiting time) to a cost.
package fare

import (
	"math"

	"taximeter/internal/types"
)

// Tariff constants. Waiting is accumulated in one-second ticks and billed
// per tick; see the waiting clock in the trip module.
const (
	waitingRate = 3 // per waiting tick

	meteredCapKm       = 8.0
	meteredCapFare     = 80
	meteredPerKmBeyond = 16

	fixedOveragePerKm = 10

	subTripsIncludedKm    = 1.5
	subTripsMidSurcharge  = 10 // overage in (2, 3] km
	subTripsHighSurcharge = 20 // overage beyond 3 km
)

// meteredTiers is the canonical half-open tier table for the normal meter:
// a distance d falls in the first row with d < UpToKm. Distances past the
// last row are priced linearly from meteredCapFare.
var meteredTiers = []struct {
	UpToKm float64
	Fare   int64
}{
	{5, 50},
	{6, 60},
	{7, 65},
	{8, 70},
}

// Service computes fares against a static catalog. Cost is a pure
// function of its arguments: the service carries no trip state.
type Service struct {
	catalog Catalog
}

func NewService(catalog Catalog) *Service {
	if len(catalog) == 0 {
		catalog = DefaultCatalog()
	}
	return &Service{catalog: catalog}
}

func (s *Service) Catalog() Catalog {
	return s.catalog
}

// Cost returns the fare for the given trip type and selected sub-trip
// (nil when none) at the given distance and accumulated waiting ticks.
// Total for all distanceKm >= 0 and waiting >= 0; never below the branch
// base fare.
func (s *Service) Cost(t TripType, sub *SubTrip, distanceKm float64, waitingTicks int) types.Money {
	if distanceKm < 0 {
		distanceKm = 0
	}
	if waitingTicks < 0 {
		waitingTicks = 0
	}

	var amount int64
	switch {
	case t.Kind == KindFixedRoute:
		amount = t.Price.Amount + fixedOverage(distanceKm, t.IncludedKm)
	case t.Kind == KindSubTrips && sub != nil:
		amount = sub.Price.Amount + subTripsOverage(distanceKm)
	default:
		// Plain meter, including a sub-destination route before a
		// destination has been chosen.
		amount = meteredBase(distanceKm)
	}

	amount += int64(waitingTicks) * waitingRate
	return money(amount)
}

// BasePrice is the cost shown before any movement or waiting.
func (s *Service) BasePrice(t TripType, sub *SubTrip) types.Money {
	return s.Cost(t, sub, 0, 0)
}

func meteredBase(distanceKm float64) int64 {
	for _, tier := range meteredTiers {
		if distanceKm < tier.UpToKm {
			return tier.Fare
		}
	}
	return meteredCapFare + roundKm(meteredPerKmBeyond, distanceKm-meteredCapKm)
}

func fixedOverage(distanceKm, includedKm float64) int64 {
	if distanceKm <= includedKm {
		return 0
	}
	return roundKm(fixedOveragePerKm, distanceKm-includedKm)
}

func subTripsOverage(distanceKm float64) int64 {
	overage := distanceKm - subTripsIncludedKm
	switch {
	case overage > 3:
		return subTripsHighSurcharge
	case overage > 2:
		return subTripsMidSurcharge
	default:
		return 0
	}
}

func roundKm(rate int64, km float64) int64 {
	return int64(math.Round(float64(rate) * km))
}
