// README: Position sample types and source readiness states.
package position

import (
	"time"

	"taximeter/internal/types"
)

// Fix is one position sample. Fixes are immutable: a new sample supersedes
// the previous one, it never mutates it.
type Fix struct {
	Point     types.Point `json:"point"`
	AccuracyM float64     `json:"accuracy_m"`
	Time      time.Time   `json:"time"`
}

// Options mirror the geolocation request knobs: accuracy preference, how
// long to wait for a fix, and how stale a cached fix may be.
type Options struct {
	HighAccuracy bool
	Timeout      time.Duration
	MaxAge       time.Duration
}

// InitialFixOptions demand a fresh fix: trip origins are never anchored to
// a cached sample.
func InitialFixOptions() Options {
	return Options{HighAccuracy: true, Timeout: 10 * time.Second, MaxAge: 0}
}

// WatchOptions accept cached fixes up to five seconds old.
func WatchOptions() Options {
	return Options{HighAccuracy: true, Timeout: 10 * time.Second, MaxAge: 5 * time.Second}
}

// Status is the readiness of the active position source as rendered to the
// presentation layer.
type Status string

const (
	StatusUnavailable Status = "unavailable"
	StatusRequesting  Status = "requesting"
	StatusAvailable   Status = "available"
	StatusDenied      Status = "denied"
)
