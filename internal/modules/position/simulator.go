// README: Simulated position source: fixed-cadence random walk for testing without GPS.
package position

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"taximeter/internal/types"
)

const kmPerDegreeLat = 111.32

// SimulatorConfig bounds the random walk. Zero values fall back to the
// defaults below.
type SimulatorConfig struct {
	Tick      time.Duration
	MinStepKm float64
	MaxStepKm float64
	AccuracyM float64
}

func (c SimulatorConfig) withDefaults() SimulatorConfig {
	if c.Tick <= 0 {
		c.Tick = time.Second
	}
	if c.MinStepKm <= 0 {
		c.MinStepKm = 0.02
	}
	if c.MaxStepKm <= c.MinStepKm {
		c.MaxStepKm = 0.07
	}
	if c.AccuracyM <= 0 {
		c.AccuracyM = 5
	}
	return c
}

// Simulator advances a virtual position by a random step each tick. It
// implements Source, so the trip controller cannot tell it apart from the
// live device.
type Simulator struct {
	cfg SimulatorConfig

	mu  sync.Mutex
	cur types.Point
}

func NewSimulator(start types.Point, cfg SimulatorConfig) *Simulator {
	return &Simulator{cfg: cfg.withDefaults(), cur: start}
}

// Current returns the virtual position immediately; the simulator never
// times out and is always within the accuracy threshold.
func (s *Simulator) Current(_ context.Context, _ Options) (Fix, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Fix{Point: s.cur, AccuracyM: s.cfg.AccuracyM, Time: time.Now()}, nil
}

// Watch starts the tick loop. Cancelling stops the loop; the virtual
// position is retained, so a later Watch resumes from where it stopped.
func (s *Simulator) Watch(_ Options, fn func(Fix)) (Subscription, error) {
	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(s.cfg.Tick)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				fn(s.step())
			}
		}
	}()
	return &simSub{stop: stop}, nil
}

// step moves the virtual position one random increment: a distance in
// [MinStepKm, MaxStepKm) along a random bearing, approximated as
// independent lat/lng offsets.
func (s *Simulator) step() Fix {
	stepKm := s.cfg.MinStepKm + rand.Float64()*(s.cfg.MaxStepKm-s.cfg.MinStepKm)
	bearing := rand.Float64() * 2 * math.Pi

	s.mu.Lock()
	s.cur.Lat += stepKm * math.Cos(bearing) / kmPerDegreeLat
	s.cur.Lng += stepKm * math.Sin(bearing) / (kmPerDegreeLat * math.Cos(s.cur.Lat*math.Pi/180))
	f := Fix{Point: s.cur, AccuracyM: s.cfg.AccuracyM, Time: time.Now()}
	s.mu.Unlock()
	return f
}

type simSub struct {
	stop chan struct{}
	once sync.Once
}

func (s *simSub) Cancel() {
	s.once.Do(func() { close(s.stop) })
}
