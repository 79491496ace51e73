// README: Trip controller: owns the lifecycle, origin anchor, waiting clock, and samplers.
package trip

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"taximeter/internal/geo"
	"taximeter/internal/modules/fare"
	"taximeter/internal/modules/position"
	"taximeter/internal/types"
)

var (
	ErrInvalidState        = errors.New("invalid trip state transition")
	ErrTripInProgress      = errors.New("trip in progress")
	ErrLocationUnavailable = errors.New("location unavailable")
	ErrLocationDenied      = errors.New("location access denied")
	ErrUnknownTripType     = errors.New("unknown trip type")
	ErrUnknownSubTrip      = errors.New("unknown sub-destination")
)

// Geocoder resolves a point to a display address. Optional; implemented by
// maps.Enhancer.
type Geocoder interface {
	Ready() bool
	ReverseGeocode(ctx context.Context, p types.Point) (string, error)
}

type Config struct {
	// AccuracyLimitM is the worst accuracy a sample may report and still
	// move the fare. Worse samples only update the displayed position.
	AccuracyLimitM float64
	// WaitingTick is the granularity of the waiting clock while paused.
	WaitingTick time.Duration
	// GeocodeTimeout bounds each reverse-geocode lookup.
	GeocodeTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.AccuracyLimitM <= 0 {
		c.AccuracyLimitM = 20
	}
	if c.WaitingTick <= 0 {
		c.WaitingTick = time.Second
	}
	if c.GeocodeTimeout <= 0 {
		c.GeocodeTimeout = 5 * time.Second
	}
	return c
}

type Deps struct {
	Fares     *fare.Service
	Estimator *geo.Estimator
	Geocoder  Geocoder
	Live      position.Source
	Sim       position.Source
	Logger    *slog.Logger
}

// Controller is the single event consumer of the session: position
// callbacks, the waiting clock, the simulation loop, and presentation
// commands all funnel through its mutex. One instance per active session.
type Controller struct {
	cfg       Config
	logger    *slog.Logger
	fares     *fare.Service
	estimator *geo.Estimator
	geocoder  Geocoder
	live      position.Source
	sim       position.Source

	mu        sync.Mutex
	gen       uint64 // bumped on Stop/Close; stale callbacks check it and bail
	starting  bool
	phase     Phase
	status    position.Status
	simulated bool
	tripType  fare.TripType
	subTrip   *fare.SubTrip
	state     State
	origin    *types.Point
	current   *position.Fix
	address   string
	summary   *Summary
	watchSub  position.Subscription
	waitStop  chan struct{}
}

func NewController(deps Deps, cfg Config) *Controller {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{
		cfg:       cfg.withDefaults(),
		logger:    logger,
		fares:     deps.Fares,
		estimator: deps.Estimator,
		geocoder:  deps.Geocoder,
		live:      deps.Live,
		sim:       deps.Sim,
		phase:     PhaseIdle,
		tripType:  deps.Fares.Catalog().Default(),
	}
	c.state = c.idleState()
	c.status = c.availability()
	return c
}

func (c *Controller) idleState() State {
	return State{Cost: c.fares.BasePrice(c.fares.Catalog().Default(), nil)}
}

func (c *Controller) availability() position.Status {
	if c.activeSource() == nil {
		return position.StatusUnavailable
	}
	return position.StatusAvailable
}

func (c *Controller) activeSource() position.Source {
	if c.simulated {
		return c.sim
	}
	return c.live
}

// Start anchors the origin to a fresh fix and begins continuous sampling.
// Only legal from idle: a paused trip is resumed, never restarted. On a
// failed initial fix the transition aborts: the status becomes denied and
// the phase stays idle.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.starting || c.phase != PhaseIdle {
		c.mu.Unlock()
		return ErrTripInProgress
	}
	src := c.activeSource()
	if src == nil {
		c.status = position.StatusUnavailable
		c.mu.Unlock()
		return ErrLocationUnavailable
	}
	c.starting = true
	c.status = position.StatusRequesting
	gen := c.gen
	c.mu.Unlock()

	fix, err := src.Current(ctx, position.InitialFixOptions())

	c.mu.Lock()
	c.starting = false
	if gen != c.gen {
		// Session was reset while we waited for the fix.
		c.mu.Unlock()
		return ErrInvalidState
	}
	if err != nil {
		c.status = position.StatusDenied
		c.mu.Unlock()
		c.logger.Warn("initial position fix failed", "error", err)
		return ErrLocationDenied
	}

	origin := fix.Point
	c.status = position.StatusAvailable
	c.origin = &origin
	c.current = &fix
	c.state = State{
		Cost:    c.fares.BasePrice(c.tripType, c.subTrip),
		Running: true,
	}
	c.phase = PhaseRunning
	tripTypeID := c.tripType.ID
	simulated := c.simulated
	c.mu.Unlock()

	c.logger.Info("trip started", "trip_type", tripTypeID, "simulated", simulated,
		"origin_lat", origin.Lat, "origin_lng", origin.Lng)
	c.resolveAddress(gen, fix.Point)
	c.startWatch(src, gen)
	return nil
}

// startWatch subscribes onFix to the source. A watch failure does not end
// the trip; it flips the availability status to denied and halts sampling.
func (c *Controller) startWatch(src position.Source, gen uint64) {
	sub, err := src.Watch(position.WatchOptions(), func(f position.Fix) {
		c.onFix(gen, f)
	})
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		if gen == c.gen {
			c.status = position.StatusDenied
		}
		c.logger.Warn("position watch failed", "error", err)
		return
	}
	if gen != c.gen {
		sub.Cancel()
		return
	}
	c.watchSub = sub
}

// onFix handles one position sample. The displayed position and address
// always follow the newest sample; distance and cost move only while
// running and only when the sample is within the accuracy limit. Distance
// is always measured fresh from the anchored origin, never accumulated
// from deltas, so GPS noise cannot drift the meter.
func (c *Controller) onFix(gen uint64, f position.Fix) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.current = &f
	advance := c.phase == PhaseRunning && c.origin != nil && f.AccuracyM <= c.cfg.AccuracyLimitM
	if c.phase == PhaseRunning && f.AccuracyM > c.cfg.AccuracyLimitM {
		c.logger.Debug("sample too inaccurate for fare", "accuracy_m", f.AccuracyM)
	}
	var origin types.Point
	if advance {
		origin = *c.origin
	}
	c.mu.Unlock()

	c.resolveAddress(gen, f.Point)
	if !advance {
		return
	}

	d := c.estimator.DistanceKm(context.Background(), origin, f.Point)

	c.mu.Lock()
	if gen == c.gen && c.phase == PhaseRunning {
		c.state.DistanceKm = d
		c.state.Cost = c.fares.Cost(c.tripType, c.subTrip, d, c.state.WaitingSeconds)
	}
	c.mu.Unlock()
}

// Pause starts the waiting clock. While paused, samples keep updating the
// displayed position but the distance is frozen; when simulating, the
// sample loop itself is suspended.
func (c *Controller) Pause() error {
	c.mu.Lock()
	if !CanTransition(c.phase, PhasePaused) {
		c.mu.Unlock()
		return ErrInvalidState
	}
	c.phase = PhasePaused
	c.state.Paused = true
	if c.simulated && c.watchSub != nil {
		c.watchSub.Cancel()
		c.watchSub = nil
	}
	stop := make(chan struct{})
	c.waitStop = stop
	gen := c.gen
	c.mu.Unlock()

	go func() {
		ticker := time.NewTicker(c.cfg.WaitingTick)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				c.onWaitTick(gen)
			}
		}
	}()
	c.logger.Info("trip paused")
	return nil
}

func (c *Controller) onWaitTick(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen || c.phase != PhasePaused {
		return
	}
	c.state.WaitingSeconds++
	c.state.Cost = c.fares.Cost(c.tripType, c.subTrip, c.state.DistanceKm, c.state.WaitingSeconds)
}

// Resume stops the waiting clock and, when simulating, restarts the
// sample loop.
func (c *Controller) Resume() error {
	c.mu.Lock()
	if c.phase != PhasePaused {
		c.mu.Unlock()
		return ErrInvalidState
	}
	c.phase = PhaseRunning
	c.state.Paused = false
	c.stopWaitingLocked()
	restartSim := c.simulated && c.watchSub == nil
	gen := c.gen
	src := c.activeSource()
	c.mu.Unlock()

	if restartSim {
		c.startWatch(src, gen)
	}
	c.logger.Info("trip resumed")
	return nil
}

// Stop materializes the summary, cancels every sampler and timer, and
// resets the session to a clean idle state with the default trip type.
func (c *Controller) Stop() (Summary, error) {
	c.mu.Lock()
	if !CanTransition(c.phase, PhaseIdle) {
		c.mu.Unlock()
		return Summary{}, ErrInvalidState
	}
	name := c.tripType.Name
	if c.subTrip != nil {
		name += " / " + c.subTrip.Name
	}
	summary := Summary{
		ID:             uuid.NewString(),
		DistanceKm:     c.state.DistanceKm,
		WaitingSeconds: c.state.WaitingSeconds,
		Cost:           c.state.Cost,
		TripTypeName:   name,
		CompletedAt:    time.Now(),
	}
	c.summary = &summary
	c.resetLocked()
	c.mu.Unlock()

	c.logger.Info("trip stopped", "summary_id", summary.ID,
		"distance_km", summary.DistanceKm, "waiting_s", summary.WaitingSeconds,
		"cost", summary.Cost.Amount)
	return summary, nil
}

// Close tears the session down without producing a summary. Safe to call
// in any phase, any number of times.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
	c.summary = nil
}

// resetLocked cancels all samplers and timers (each independently a no-op
// when inactive), invalidates outstanding callbacks, and restores the
// idle defaults.
func (c *Controller) resetLocked() {
	c.gen++
	if c.watchSub != nil {
		c.watchSub.Cancel()
		c.watchSub = nil
	}
	c.stopWaitingLocked()
	c.origin = nil
	c.address = ""
	c.tripType = c.fares.Catalog().Default()
	c.subTrip = nil
	c.state = c.idleState()
	c.phase = PhaseIdle
}

func (c *Controller) stopWaitingLocked() {
	if c.waitStop != nil {
		close(c.waitStop)
		c.waitStop = nil
	}
}

// SelectTripType switches the active tariff. Only allowed while idle: the
// price basis of a trip in progress never changes retroactively.
func (c *Controller) SelectTripType(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseIdle {
		return ErrTripInProgress
	}
	t, ok := c.fares.Catalog().ByID(id)
	if !ok {
		return ErrUnknownTripType
	}
	c.tripType = t
	c.subTrip = nil
	c.state.Cost = c.fares.BasePrice(t, nil)
	return nil
}

// SelectSubTrip picks a sub-destination of the active route.
func (c *Controller) SelectSubTrip(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseIdle {
		return ErrTripInProgress
	}
	if c.tripType.Kind != fare.KindSubTrips {
		return ErrUnknownSubTrip
	}
	s, ok := c.tripType.SubTrip(id)
	if !ok {
		return ErrUnknownSubTrip
	}
	c.subTrip = &s
	c.state.Cost = c.fares.BasePrice(c.tripType, &s)
	return nil
}

// ToggleSimulation flips between the live device and the simulator. Only
// allowed while idle. Toggling clears a sticky denied status so the next
// Start retries.
func (c *Controller) ToggleSimulation() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseIdle {
		return c.simulated, ErrTripInProgress
	}
	c.simulated = !c.simulated
	c.status = c.availability()
	return c.simulated, nil
}

// Catalog exposes the read-only trip-type catalog for rendering.
func (c *Controller) Catalog() fare.Catalog {
	return c.fares.Catalog()
}

func (c *Controller) DismissSummary() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.summary = nil
}

// Snapshot returns a copy of everything the presentation layer renders.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := Snapshot{
		Phase:     c.phase,
		State:     c.state,
		Status:    c.status,
		Simulated: c.simulated,
		TripType:  c.tripType,
		Address:   c.address,
	}
	if c.subTrip != nil {
		s := *c.subTrip
		snap.SubTrip = &s
	}
	if c.current != nil {
		f := *c.current
		snap.Position = &f
	}
	if c.summary != nil {
		s := *c.summary
		snap.Summary = &s
	}
	return snap
}

// resolveAddress updates the displayed address for the newest position.
// Best effort: a geocoding failure only means the address stays stale.
func (c *Controller) resolveAddress(gen uint64, p types.Point) {
	if c.geocoder == nil || !c.geocoder.Ready() {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.cfg.GeocodeTimeout)
		defer cancel()
		addr, err := c.geocoder.ReverseGeocode(ctx, p)
		if err != nil {
			c.logger.Debug("reverse geocode failed", "error", err)
			return
		}
		c.mu.Lock()
		if gen == c.gen {
			c.address = addr
		}
		c.mu.Unlock()
	}()
}
