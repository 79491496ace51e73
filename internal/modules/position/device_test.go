// README: Device source tests: freshness rules, waiting, watch fan-out.
package position

import (
	"context"
	"errors"
	"testing"
	"time"

	"taximeter/internal/types"
)

func TestDeviceCurrent_ReturnsCachedWithinMaxAge(t *testing.T) {
	d := NewDeviceSource()
	d.Push(Fix{Point: types.Point{Lat: 1}, AccuracyM: 8, Time: time.Now()})

	got, err := d.Current(context.Background(), Options{Timeout: time.Second, MaxAge: 5 * time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Point.Lat != 1 {
		t.Errorf("got %+v, want cached fix", got)
	}
}

func TestDeviceCurrent_ZeroMaxAgeWaitsForFreshFix(t *testing.T) {
	d := NewDeviceSource()
	d.Push(Fix{Point: types.Point{Lat: 1}, Time: time.Now()})

	go func() {
		time.Sleep(20 * time.Millisecond)
		d.Push(Fix{Point: types.Point{Lat: 2}, Time: time.Now()})
	}()

	got, err := d.Current(context.Background(), Options{Timeout: time.Second, MaxAge: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Point.Lat != 2 {
		t.Errorf("got lat %f, want the fresh push, not the cache", got.Point.Lat)
	}
}

func TestDeviceCurrent_TimesOut(t *testing.T) {
	d := NewDeviceSource()
	_, err := d.Current(context.Background(), Options{Timeout: 30 * time.Millisecond})
	if !errors.Is(err, ErrNoFix) {
		t.Fatalf("err = %v, want ErrNoFix", err)
	}
}

func TestDeviceCurrent_ContextCancelled(t *testing.T) {
	d := NewDeviceSource()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := d.Current(ctx, Options{Timeout: time.Second}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestDeviceWatch_DeliversPushes(t *testing.T) {
	d := NewDeviceSource()
	var got []Fix
	sub, err := d.Watch(Options{}, func(f Fix) { got = append(got, f) })
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	d.Push(Fix{Point: types.Point{Lat: 1}, Time: time.Now()})
	d.Push(Fix{Point: types.Point{Lat: 2}, Time: time.Now()})
	if len(got) != 2 {
		t.Fatalf("delivered %d fixes, want 2", len(got))
	}

	sub.Cancel()
	sub.Cancel() // cancelling twice is a no-op, not an error
	d.Push(Fix{Point: types.Point{Lat: 3}, Time: time.Now()})
	if len(got) != 2 {
		t.Errorf("delivered after cancel: %d fixes", len(got))
	}
}

func TestDeviceWatch_DeliversFreshCacheImmediately(t *testing.T) {
	d := NewDeviceSource()
	d.Push(Fix{Point: types.Point{Lat: 7}, Time: time.Now()})

	var got []Fix
	sub, err := d.Watch(Options{MaxAge: 5 * time.Second}, func(f Fix) { got = append(got, f) })
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer sub.Cancel()

	if len(got) != 1 || got[0].Point.Lat != 7 {
		t.Errorf("cached fix not delivered on subscribe: %+v", got)
	}
}
