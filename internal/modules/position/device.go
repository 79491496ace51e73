// README: Live device source fed by position pushes from the client.
package position

import (
	"context"
	"sync"
	"time"
)

// DeviceSource is the live position producer. The device (the page running
// the meter) pushes its geolocation fixes in; Current and Watch serve them
// out with the usual freshness rules.
type DeviceSource struct {
	mu      sync.Mutex
	last    *Fix
	waiters []chan Fix
	subs    map[int]func(Fix)
	nextID  int
}

func NewDeviceSource() *DeviceSource {
	return &DeviceSource{subs: make(map[int]func(Fix))}
}

// Push records a new fix and delivers it to every pending Current call and
// every active watch.
func (d *DeviceSource) Push(f Fix) {
	d.mu.Lock()
	d.last = &f
	waiters := d.waiters
	d.waiters = nil
	fns := make([]func(Fix), 0, len(d.subs))
	for _, fn := range d.subs {
		fns = append(fns, fn)
	}
	d.mu.Unlock()

	for _, w := range waiters {
		w <- f
	}
	for _, fn := range fns {
		fn(f)
	}
}

// Current returns the cached fix when it is no older than opts.MaxAge,
// otherwise waits for the next push up to opts.Timeout.
func (d *DeviceSource) Current(ctx context.Context, opts Options) (Fix, error) {
	d.mu.Lock()
	if d.last != nil && time.Since(d.last.Time) <= opts.MaxAge {
		f := *d.last
		d.mu.Unlock()
		return f, nil
	}
	ch := make(chan Fix, 1)
	d.waiters = append(d.waiters, ch)
	d.mu.Unlock()

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case f := <-ch:
		return f, nil
	case <-timer.C:
		d.dropWaiter(ch)
		return Fix{}, ErrNoFix
	case <-ctx.Done():
		d.dropWaiter(ch)
		return Fix{}, ctx.Err()
	}
}

func (d *DeviceSource) dropWaiter(ch chan Fix) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, w := range d.waiters {
		if w == ch {
			d.waiters = append(d.waiters[:i], d.waiters[i+1:]...)
			return
		}
	}
}

// Watch subscribes fn to every future push. A cached fix within
// opts.MaxAge is delivered immediately.
func (d *DeviceSource) Watch(opts Options, fn func(Fix)) (Subscription, error) {
	d.mu.Lock()
	id := d.nextID
	d.nextID++
	d.subs[id] = fn
	var cached *Fix
	if d.last != nil && time.Since(d.last.Time) <= opts.MaxAge {
		f := *d.last
		cached = &f
	}
	d.mu.Unlock()

	if cached != nil {
		fn(*cached)
	}
	return &deviceSub{source: d, id: id}, nil
}

type deviceSub struct {
	source *DeviceSource
	id     int
	once   sync.Once
}

func (s *deviceSub) Cancel() {
	s.once.Do(func() {
		s.source.mu.Lock()
		delete(s.source.subs, s.id)
		s.source.mu.Unlock()
	})
}
