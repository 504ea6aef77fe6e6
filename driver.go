package timingwheel

import (
	"errors"
	"sync"
	"time"

	"github.com/intuitivelabs/timestamp"
)

// ErrTickDurationTooSmall and ErrTickDurationTooHigh bound NewDriver's
// tickDuration to a sane range: below a microsecond the driving
// goroutine would spin the CPU waking up for almost no elapsed time,
// and above 24 hours the caller has almost certainly passed a lifetime
// meant for Schedule (which is in ticks, not wall-clock time) where a
// driver period was expected.
var (
	ErrTickDurationTooSmall = errors.New("timingwheel: tick duration too small")
	ErrTickDurationTooHigh  = errors.New("timingwheel: tick duration too high")
)

// Driver is ambient glue, not part of the core: it owns a goroutine that
// samples a monotonic clock and calls Tick on a Wheel often enough to
// keep up with wall-clock time.
//
// A Driver takes sole ownership of the Wheel it drives once Start is
// called: the Wheel's single-owner contract is satisfied by the Driver
// being the only caller of Tick for as long as it is running. Callers
// may still call Schedule/Cancel on timers from other goroutines only if
// they provide their own synchronization with the Driver's goroutine;
// the package itself adds none.
type Driver struct {
	wheel        *Wheel
	tickDuration time.Duration
	now          func() timestamp.TS

	refTS     timestamp.TS
	lastTickT timestamp.TS

	done chan struct{}
	wg   sync.WaitGroup
}

// NewDriver builds a Driver for wheel, ticking it roughly every
// tickDuration of wall-clock time. tickDuration must be between 1
// microsecond and 24 hours; see the ErrTickDurationTooSmall/
// ErrTickDurationTooHigh doc comments above for why.
func NewDriver(wheel *Wheel, tickDuration time.Duration) (*Driver, error) {
	if tickDuration < time.Microsecond {
		return nil, ErrTickDurationTooSmall
	}
	if tickDuration > 24*time.Hour {
		return nil, ErrTickDurationTooHigh
	}
	d := &Driver{
		wheel:        wheel,
		tickDuration: tickDuration,
		now:          timestamp.Now,
	}
	d.lastTickT = d.now()
	return d, nil
}

// SetClock overrides the wall-clock source Driver samples from, and
// resyncs lastTickT to it. It exists so tests can drive Advance
// deterministically from a fake clock instead of sleeping on real time;
// call it before the first Advance (or before Start, if driving the
// background goroutine).
func (d *Driver) SetClock(now func() timestamp.TS) {
	d.now = now
	d.lastTickT = now()
}

// Ticks converts a Duration to a tick count, rounded down, and returns
// the remainder that did not fit in a whole tick.
func (d *Driver) Ticks(dur time.Duration) (uint64, time.Duration) {
	n := dur / d.tickDuration
	return uint64(n), dur % d.tickDuration
}

// Duration converts a tick count to wall-clock time at this Driver's
// tick rate.
func (d *Driver) Duration(ticks uint64) time.Duration {
	return time.Duration(ticks) * d.tickDuration
}

// Advance samples how much wall-clock time elapsed since the last call
// (or since Start, for the first call) and runs that many ticks on the
// driven Wheel, returning the number of timers fired. It is exported
// primarily so tests can drive a Driver deterministically without a real
// background goroutine; Start calls it on every tick of its own
// internal time.Ticker.
func (d *Driver) Advance() int {
	now := d.now()
	if now.Before(d.lastTickT) {
		// monotonic clock went backwards (can happen across certain
		// suspend/resume cycles); resync without firing anything.
		if WARNon() {
			WARN("driver: clock went backwards by %s\n",
				d.lastTickT.Sub(now))
		}
		d.lastTickT = now
		return 0
	}
	elapsed := now.Sub(d.lastTickT)
	ticks, rest := d.Ticks(elapsed)
	if ticks == 0 {
		return 0
	}
	d.lastTickT = now.Add(-rest)
	return d.wheel.TickMany(int(ticks))
}

// Start begins driving the Wheel in a background goroutine, waking up
// roughly every tickDuration. It must be called at most once per Driver.
func (d *Driver) Start() {
	d.refTS = d.now()
	d.lastTickT = d.refTS
	d.done = make(chan struct{})
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ticker := time.NewTicker(d.tickDuration)
		defer ticker.Stop()
		for {
			select {
			case <-d.done:
				return
			case <-ticker.C:
				d.Advance()
			}
		}
	}()
}

// Stop signals the driving goroutine to exit and waits for it to do so.
// After Stop returns, the Wheel may safely be accessed from the calling
// goroutine again.
func (d *Driver) Stop() {
	if d.done != nil {
		close(d.done)
	}
	d.wg.Wait()
}
