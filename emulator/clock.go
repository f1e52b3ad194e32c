package emulator

import (
	"context"
	"log"
	"sync"
	"time"
)

// TickFunc performs one machine cycle; done stops the clock.
type TickFunc func() (done bool, err error)

// Clock drives a TickFunc from its own goroutine. It is owned by whoever
// drives the machine; the machine itself only exposes a synchronous tick.
type Clock struct {
	Verbose bool          // Set to log start and stop.
	Period  time.Duration // Time between ticks, zero to run flat out.
	Tick    TickFunc      // Cycle to run.

	mutex   sync.Mutex
	cancel  context.CancelFunc
	stopped chan struct{}
	err     error
}

// NewClock creates a stopped clock.
func NewClock(period time.Duration, tick TickFunc) (clk *Clock) {
	clk = &Clock{
		Period: period,
		Tick:   tick,
	}

	return
}

// running must be called with the mutex held.
func (clk *Clock) running() bool {
	if clk.stopped == nil {
		return false
	}

	select {
	case <-clk.stopped:
		return false
	default:
		return true
	}
}

// Running returns true while the clock is ticking.
func (clk *Clock) Running() bool {
	clk.mutex.Lock()
	defer clk.mutex.Unlock()

	return clk.running()
}

// Start starts the clock. Starting a running clock does nothing, and
// returns false.
func (clk *Clock) Start(ctx context.Context) (started bool) {
	clk.mutex.Lock()
	defer clk.mutex.Unlock()

	if clk.running() {
		return
	}

	if clk.cancel != nil {
		clk.cancel()
	}

	ctx, clk.cancel = context.WithCancel(ctx)
	clk.stopped = make(chan struct{})
	clk.err = nil

	if clk.Verbose {
		log.Printf("clock: start, period %v", clk.Period)
	}

	go clk.run(ctx, clk.stopped)

	started = true
	return
}

// Stop stops the clock, and waits for the last tick to complete.
// Stopping a stopped clock does nothing.
func (clk *Clock) Stop() {
	clk.mutex.Lock()
	cancel := clk.cancel
	stopped := clk.stopped
	clk.cancel = nil
	clk.mutex.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	<-stopped

	if clk.Verbose {
		log.Printf("clock: stop")
	}
}

// Wait blocks until the clock stops, and returns why it stopped:
// nil when the tick reported done, ErrClockStopped when stopped early, or
// the tick error.
func (clk *Clock) Wait() (err error) {
	clk.mutex.Lock()
	stopped := clk.stopped
	clk.mutex.Unlock()

	if stopped == nil {
		return
	}

	<-stopped

	clk.mutex.Lock()
	err = clk.err
	clk.mutex.Unlock()

	return
}

// run is the clock goroutine.
func (clk *Clock) run(ctx context.Context, stopped chan struct{}) {
	var err error

	defer func() {
		clk.mutex.Lock()
		clk.err = err
		clk.mutex.Unlock()
		close(stopped)
	}()

	var pulse <-chan time.Time
	if clk.Period > 0 {
		ticker := time.NewTicker(clk.Period)
		defer ticker.Stop()
		pulse = ticker.C
	}

	for {
		if pulse != nil {
			select {
			case <-ctx.Done():
				err = ErrClockStopped
				return
			case <-pulse:
			}
		} else {
			select {
			case <-ctx.Done():
				err = ErrClockStopped
				return
			default:
			}
		}

		var done bool
		done, err = clk.Tick()
		if err != nil || done {
			return
		}
	}
}
