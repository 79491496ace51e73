// README: Source abstraction over live device positioning and the simulator.
package position

import (
	"context"
	"errors"
)

var ErrNoFix = errors.New("no position fix available")

// Subscription is a handle to a continuous watch. Cancel is idempotent and
// never an error to call on an already-cancelled subscription.
type Subscription interface {
	Cancel()
}

// Source produces position samples. The trip controller treats the live
// device source and the simulator identically through this interface.
type Source interface {
	// Current returns a single fix, waiting up to opts.Timeout for one no
	// older than opts.MaxAge.
	Current(ctx context.Context, opts Options) (Fix, error)
	// Watch invokes fn for every new fix until the subscription is
	// cancelled. fn must not block.
	Watch(opts Options, fn func(Fix)) (Subscription, error)
}
