package timingwheel

// TimerFunc is the callback invoked when a Timer expires. It receives the
// expiring Timer itself and the opaque argument it was Init-ed with.
//
// Inside the callback the only Wheel operations guaranteed safe are
// Cancel (on any Timer, including t itself or others currently expiring
// in the same bucket) and Schedule (to rearm t or arm new timers). The
// bucket t was drained from is already empty by the time f runs, so
// scheduling t back onto the same bucket cannot create a loop within the
// current Tick.
type TimerFunc func(t *Timer, arg interface{})

// Timer is the intrusive record a caller embeds (or allocates directly,
// via NewTimer) to register a timeout with a Wheel. The Wheel never
// allocates or owns a Timer: Schedule only ever links t's embedded node
// into a bucket, and Cancel only ever unlinks it.
//
// A Timer must be Init-ed before its first Schedule, and must not be
// Scheduled on more than one Wheel at a time.
type Timer struct {
	lnk node

	f   TimerFunc
	arg interface{}

	lifetime uint64 // last lifetime passed to Schedule, for diagnostics
	wheel    *Wheel // wheel it is currently linked into, or nil
}

// NewTimer allocates and initialises a Timer. Using it involves one heap
// allocation; high-throughput callers should instead embed a Timer field
// in their own struct and call Init directly, matching the intrusive
// design this package is built around.
func NewTimer(f TimerFunc, arg interface{}) *Timer {
	t := &Timer{}
	t.Init(f, arg)
	return t
}

// Init (re)initialises t for use, detaching it from any wheel it might
// currently be linked into and installing the callback and argument that
// will be used on every subsequent expiry until the next Init.
//
// Init must never be called on a Timer that is currently being executed
// from within its own callback; doing so is a programmer error (the
// Timer's bucket membership would be rewritten out from under the wheel
// that is iterating it).
func (t *Timer) Init(f TimerFunc, arg interface{}) {
	if f == nil {
		PANIC("Timer.Init called with a nil callback\n")
		return
	}
	unlink(&t.lnk)
	initNode(&t.lnk) // normalize zero-value {nil,nil} to a proper self-loop
	t.f = f
	t.arg = arg
	t.lifetime = 0
	t.wheel = nil
}

// Scheduled reports whether t is currently linked into a Wheel bucket.
func (t *Timer) Scheduled() bool {
	return !detached(&t.lnk)
}

// Lifetime returns the lifetime (in ticks) passed to the most recent
// Schedule call for this Timer.
func (t *Timer) Lifetime() uint64 {
	return t.lifetime
}
