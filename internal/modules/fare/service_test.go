// README: Fare engine tests (tier table, route overage, waiting surcharge).
package fare

import (
	"testing"
)

func TestCost_MeteredTiers(t *testing.T) {
	s := NewService(nil)
	normal, _ := s.Catalog().ByID("normal")

	tests := []struct {
		name       string
		distanceKm float64
		want       int64
	}{
		{"zero distance is the base fare", 0, 50},
		{"inside first tier", 3.0, 50},
		{"just under the first boundary", 4.999, 50},
		{"exactly 5km starts the second tier", 5.0, 60},
		{"5.9km stays in the second tier", 5.9, 60},
		{"exactly 6km", 6.0, 65},
		{"exactly 7km", 7.0, 70},
		{"exactly 8km hits the cap fare", 8.0, 80},
		{"10km adds 2 x 16 beyond the cap", 10.0, 112},
		{"fractional overage is pro-rata", 8.5, 88},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Cost(normal, nil, tt.distanceKm, 0)
			if got.Amount != tt.want {
				t.Errorf("Cost(%.3f km) = %d, want %d", tt.distanceKm, got.Amount, tt.want)
			}
		})
	}
}

func TestCost_SubDestinationRoute(t *testing.T) {
	s := NewService(nil)
	oldtown, _ := s.Catalog().ByID("oldtown")
	market, _ := oldtown.SubTrip("market") // base 40, included 1.5 km

	tests := []struct {
		name       string
		distanceKm float64
		want       int64
	}{
		{"at the included distance", 1.5, 40},
		{"overage up to 2km is free", 3.5, 40},
		{"overage 2.1km adds the mid step", 3.6, 50},
		{"overage 3.5km adds the high step", 5.0, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Cost(oldtown, &market, tt.distanceKm, 0)
			if got.Amount != tt.want {
				t.Errorf("Cost(%.1f km) = %d, want %d", tt.distanceKm, got.Amount, tt.want)
			}
		})
	}
}

func TestCost_FixedRouteLinearOverage(t *testing.T) {
	s := NewService(nil)
	airport, _ := s.Catalog().ByID("airport") // price 60, included 5.2 km

	if got := s.Cost(airport, nil, 5.2, 0); got.Amount != 60 {
		t.Errorf("at included distance: got %d, want 60", got.Amount)
	}
	if got := s.Cost(airport, nil, 6.2, 0); got.Amount != 70 {
		t.Errorf("1km overage: got %d, want 70 (60 + 10)", got.Amount)
	}
	if got := s.Cost(airport, nil, 0, 0); got.Amount != 60 {
		t.Errorf("zero distance never drops below the fixed price: got %d", got.Amount)
	}
}

// Waiting surcharge is additive and linear on every branch:
// cost(d, w) - cost(d, 0) == 3*w.
func TestCost_WaitingSurchargeLinear(t *testing.T) {
	s := NewService(nil)
	normal, _ := s.Catalog().ByID("normal")
	airport, _ := s.Catalog().ByID("airport")
	oldtown, _ := s.Catalog().ByID("oldtown")
	museum, _ := oldtown.SubTrip("museum")

	cases := []struct {
		name string
		typ  TripType
		sub  *SubTrip
	}{
		{"metered", normal, nil},
		{"fixed route", airport, nil},
		{"sub-destination", oldtown, &museum},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			for _, d := range []float64{0, 2.5, 6.0, 9.3} {
				for _, w := range []int{0, 1, 60, 301} {
					base := s.Cost(c.typ, c.sub, d, 0).Amount
					got := s.Cost(c.typ, c.sub, d, w).Amount
					if got-base != int64(3*w) {
						t.Fatalf("d=%.1f w=%d: surcharge %d, want %d", d, w, got-base, 3*w)
					}
				}
			}
		})
	}
}

func TestCost_PureFunction(t *testing.T) {
	s := NewService(nil)
	normal, _ := s.Catalog().ByID("normal")

	first := s.Cost(normal, nil, 6.6, 42)
	second := s.Cost(normal, nil, 6.6, 42)
	if first != second {
		t.Errorf("identical inputs produced %v then %v", first, second)
	}
}

func TestCost_NegativeInputsClamped(t *testing.T) {
	s := NewService(nil)
	normal, _ := s.Catalog().ByID("normal")

	if got := s.Cost(normal, nil, -1, -5); got.Amount != 50 {
		t.Errorf("negative inputs: got %d, want base fare 50", got.Amount)
	}
}

func TestBasePrice(t *testing.T) {
	s := NewService(nil)
	oldtown, _ := s.Catalog().ByID("oldtown")
	lakeside, _ := oldtown.SubTrip("lakeside")

	if got := s.BasePrice(oldtown, &lakeside); got.Amount != 70 {
		t.Errorf("sub-trip base price: got %d, want 70", got.Amount)
	}
	// A sub-destination route with no destination chosen meters normally.
	if got := s.BasePrice(oldtown, nil); got.Amount != 50 {
		t.Errorf("sub-trips route without selection: got %d, want 50", got.Amount)
	}
}
