// README: Trip lifecycle phases, meter state, and the end-of-trip summary.
package trip

import (
	"time"

	"taximeter/internal/modules/fare"
	"taximeter/internal/modules/position"
	"taximeter/internal/types"
)

type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseRunning Phase = "running"
	PhasePaused  Phase = "paused"
)

// AllowedTransitions represents the trip lifecycle (diagram) as code. The
// machine is reusable: stopping returns it to idle for the next trip.
var AllowedTransitions = map[Phase][]Phase{
	PhaseIdle:    {PhaseRunning},
	PhaseRunning: {PhasePaused, PhaseIdle},
	PhasePaused:  {PhaseRunning, PhaseIdle},
}

func CanTransition(from, to Phase) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, p := range next {
		if p == to {
			return true
		}
	}
	return false
}

// State is the meter as rendered to the passenger. Cost is always
// recomputed by the fare engine from distance and waiting time, never
// incremented in place. Paused implies Running.
type State struct {
	DistanceKm     float64     `json:"distance_km"`
	WaitingSeconds int         `json:"waiting_seconds"`
	Cost           types.Money `json:"cost"`
	Running        bool        `json:"running"`
	Paused         bool        `json:"paused"`
}

// Summary is the immutable snapshot taken when a trip stops. It is held
// until the passenger dismisses it.
type Summary struct {
	ID             string      `json:"id"`
	DistanceKm     float64     `json:"distance_km"`
	WaitingSeconds int         `json:"waiting_seconds"`
	Cost           types.Money `json:"cost"`
	TripTypeName   string      `json:"trip_type_name"`
	CompletedAt    time.Time   `json:"completed_at"`
}

// Snapshot is everything the presentation layer renders.
type Snapshot struct {
	Phase     Phase           `json:"phase"`
	State     State           `json:"state"`
	Status    position.Status `json:"status"`
	Simulated bool            `json:"simulated"`
	TripType  fare.TripType   `json:"trip_type"`
	SubTrip   *fare.SubTrip   `json:"sub_trip,omitempty"`
	Position  *position.Fix   `json:"position,omitempty"`
	Address   string          `json:"address,omitempty"`
	Summary   *Summary        `json:"summary,omitempty"`
}
