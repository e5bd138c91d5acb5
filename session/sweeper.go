package session

import (
	"context"
	"time"

	"github.com/hupe1980/shipmesh/core"
	"github.com/hupe1980/shipmesh/logging"
)

// SweeperOptions configure the background eviction loop.
type SweeperOptions struct {
	// TTL after which untouched entries are evicted. Defaults to DefaultTTL.
	TTL time.Duration
	// Interval between sweep runs. Defaults to five minutes.
	Interval time.Duration
	// Logger receives per-sweep eviction counts. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Sweeper periodically invokes Cleanup on a shared session store. It needs
// no coordination with request handlers beyond the store's own lock.
type Sweeper struct {
	store core.SessionStore
	opts  SweeperOptions
	done  chan struct{}
}

// NewSweeper creates a sweeper for the given store.
func NewSweeper(store core.SessionStore, optFns ...func(o *SweeperOptions)) *Sweeper {
	opts := SweeperOptions{TTL: DefaultTTL, Interval: 5 * time.Minute, Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.Logger = logging.OrNoOp(opts.Logger)
	return &Sweeper{store: store, opts: opts, done: make(chan struct{})}
}

// Start runs the sweep loop until ctx is cancelled or Stop is called.
// It returns immediately; the loop runs on its own goroutine.
func (sw *Sweeper) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(sw.opts.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-sw.done:
				return
			case <-ticker.C:
				sw.sweep()
			}
		}
	}()
}

// Stop terminates the sweep loop. Safe to call once.
func (sw *Sweeper) Stop() { close(sw.done) }

func (sw *Sweeper) sweep() {
	start := time.Now()
	evicted, err := sw.store.Cleanup(sw.opts.TTL)
	if err != nil {
		sw.opts.Logger.Error("session.sweep.failed", "error", err.Error())
		return
	}
	if evicted > 0 {
		sw.opts.Logger.Info("session.sweep.evicted", "count", evicted, "duration_ms", time.Since(start).Milliseconds())
	} else {
		sw.opts.Logger.Debug("session.sweep.clean", "duration_ms", time.Since(start).Milliseconds())
	}
}
