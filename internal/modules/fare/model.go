// README: Trip-type catalog: metered, fixed-price routes, and routes with sub-destinations.
package fare

import "taximeter/internal/types"

// Currency for every fare in the catalog.
const Currency = "ETB"

type Kind string

const (
	// KindMetered is the normal distance-tiered meter.
	KindMetered Kind = "metered"
	// KindFixedRoute is a fixed price with an included distance.
	KindFixedRoute Kind = "fixed_route"
	// KindSubTrips is a route whose price depends on the chosen sub-destination.
	KindSubTrips Kind = "sub_trips"
)

// SubTrip is one selectable destination inside a KindSubTrips route.
type SubTrip struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Price types.Money `json:"price"`
}

// TripType is a closed variant: exactly the fields for its Kind are set.
// The catalog is static and read-only at runtime.
type TripType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind Kind   `json:"kind"`

	// KindFixedRoute only.
	IncludedKm float64     `json:"included_km,omitempty"`
	Price      types.Money `json:"price,omitempty"`

	// KindSubTrips only.
	SubTrips []SubTrip `json:"sub_trips,omitempty"`
}

// SubTrip returns the sub-destination with the given id, if any.
func (t TripType) SubTrip(id string) (SubTrip, bool) {
	for _, s := range t.SubTrips {
		if s.ID == id {
			return s, true
		}
	}
	return SubTrip{}, false
}

type Catalog []TripType

// ByID returns the trip type with the given id, if any.
func (c Catalog) ByID(id string) (TripType, bool) {
	for _, t := range c {
		if t.ID == id {
			return t, true
		}
	}
	return TripType{}, false
}

// Default returns the trip type new sessions start with (the plain meter).
func (c Catalog) Default() TripType {
	return c[0]
}

func money(amount int64) types.Money {
	return types.Money{Amount: amount, Currency: Currency}
}

// DefaultCatalog is the built-in tariff table. The first entry is the
// default selection.
func DefaultCatalog() Catalog {
	return Catalog{
		{
			ID:   "normal",
			Name: "City Meter",
			Kind: KindMetered,
		},
		{
			ID:         "airport",
			Name:       "Airport Express",
			Kind:       KindFixedRoute,
			IncludedKm: 5.2,
			Price:      money(60),
		},
		{
			ID:         "university",
			Name:       "University Line",
			Kind:       KindFixedRoute,
			IncludedKm: 3.4,
			Price:      money(45),
		},
		{
			ID:   "oldtown",
			Name: "Old Town Circuit",
			Kind: KindSubTrips,
			SubTrips: []SubTrip{
				{ID: "market", Name: "Grand Market", Price: money(40)},
				{ID: "museum", Name: "National Museum", Price: money(55)},
				{ID: "lakeside", Name: "Lakeside Promenade", Price: money(70)},
			},
		},
	}
}
