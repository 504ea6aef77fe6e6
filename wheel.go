package timingwheel

import (
	"math"
	"unsafe"
)

// Wheel is a hierarchical timing wheel: levels rings of buckets, each
// ring coarser than the one below it by a factor of G = 1 <<
// GranularityPerLevelLog2. It is not safe for concurrent use — exactly
// one goroutine may call Schedule, Cancel, or any Tick* method on a given
// Wheel at a time (see Driver for a real-clock-driven single-owner
// loop).
type Wheel struct {
	geometry

	// buckets is one contiguous slice of levels*B list heads, bucket
	// (lvl, slot) living at buckets[lvl*B+slot], allocated once in New.
	buckets []node

	// ticks is the current tick counter, incremented by one on every
	// Tick. It is a plain, unmasked uint64: at one tick per nanosecond
	// this affords roughly 584 years of uptime before it could wrap,
	// so wraparound handling is intentionally not implemented (see the
	// open question in the package's design notes).
	ticks uint64
}

// New allocates and initialises a Wheel for the given Config, including
// the whole bucket array. Schedule and Cancel never allocate; each Tick
// allocates one list head per bucket it drains (expireBucket's private
// list escapes to the heap because list nodes store pointers to it).
func New(cfg Config) (*Wheel, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	g := newGeometry(cfg)
	w := &Wheel{
		geometry: g,
		buckets:  make([]node, uint64(g.levels)*g.buckets),
	}
	for i := range w.buckets {
		initNode(&w.buckets[i])
	}
	return w, nil
}

// Now returns the current tick count.
func (w *Wheel) Now() uint64 {
	return w.ticks
}

// MaxLifetime returns the delta (lifetime - 1) at which a timer that fits
// on no level is placed in the cutoff bucket. Lifetimes up to the top
// level's reach are not clamped, so the largest unclamped lifetime is
// somewhat above MaxLifetime.
func (w *Wheel) MaxLifetime() uint64 {
	return w.maxLifetime
}

// timerOf recovers the Timer enclosing a node obtained from one of our
// own buckets. It relies on node being Timer's first field; every node
// ever spliced into a bucket by this package came from Schedule, which
// only ever passes &t.lnk.
func timerOf(n *node) *Timer {
	return (*Timer)(unsafe.Pointer(n))
}

// bucketIndex returns the flat index of bucket (lvl, slot).
func (w *Wheel) bucketIndex(lvl int, slot uint64) uint64 {
	return uint64(lvl)*w.geometry.buckets + slot
}

// locate picks the lowest level that can hold a timer due in delta
// ticks, and the slot on that level. A delta that does not fit on any
// level is clamped to MaxLifetime and placed in the top level's cutoff
// bucket.
func (w *Wheel) locate(delta uint64) (lvl int, slot uint64) {
	for l := 0; l < w.levels; l++ {
		if delta < w.levelReach(l) {
			return l, w.slotFor(l, delta)
		}
	}
	if delta > w.maxLifetime {
		delta = w.maxLifetime
	}
	return w.levels - 1, w.slotFor(w.levels-1, delta)
}

// slotFor computes the slot on level lvl for a timer due at w.ticks+delta.
// The +1 keeps a delta == 0 timer out of the bucket currently being
// drained on this very tick (see the package design notes).
func (w *Wheel) slotFor(lvl int, delta uint64) uint64 {
	shift := uint(lvl) * w.granularityLog2
	absIndex := ((w.ticks + delta) >> shift) + 1
	return absIndex & w.bucketMask
}

// Schedule arms t to fire after lifetime ticks. A level-0 timer with
// lifetime n >= 1 fires on the (n+1)-th Tick from now; lifetime 0 is
// treated like 1, so it fires on the second Tick. It is idempotent: calling it
// again on an already-scheduled t first unlinks the old placement, so
// rescheduling and periodic rearming from inside t's own callback both
// just work.
//
// Lifetimes beyond the top level's reach are silently clamped to the
// cutoff bucket; t will not fire before that bucket is reached, and callers
// needing a longer wait must reschedule again once it does.
func (w *Wheel) Schedule(lifetime uint64, t *Timer) {
	if t.f == nil {
		BUG("Wheel.Schedule called on an un-Init-ed Timer %p\n", t)
		return
	}
	unlink(&t.lnk)

	delta := uint64(0)
	if lifetime > 0 {
		delta = lifetime - 1
	}
	lvl, slot := w.locate(delta)

	w.buckets[w.bucketIndex(lvl, slot)].append(&t.lnk)
	t.lifetime = lifetime
	t.wheel = w
}

// Cancel unschedules t if it is currently scheduled on w, reporting
// whether it was. It is always O(1) and is safe to call from inside any
// timer's callback, including t's own.
func (w *Wheel) Cancel(t *Timer) bool {
	if t.wheel != w || !t.Scheduled() {
		return false
	}
	unlink(&t.lnk)
	t.wheel = nil
	return true
}

// expireBucket drains bucket into a private list and fires up to
// remaining of its timers, returning how many fired and whether any were
// left over (to be carried into the next tick's level-0 bucket).
func (w *Wheel) expireBucket(bucket *node, remaining int) (fired int, carried *node) {
	var toExpire node
	initNode(&toExpire)
	toExpire.spliceAfter(bucket)

	for !isEmpty(&toExpire) && fired < remaining {
		n := toExpire.next
		unlink(n)
		t := timerOf(n)
		t.wheel = nil
		t.f(t, t.arg)
		fired++
	}
	if !isEmpty(&toExpire) {
		carried = &toExpire
	}
	return fired, carried
}

// TickWithLimit advances the wheel by one tick, firing at most limit
// timers, and returns how many actually fired. Timers left over once the
// limit is hit are carried onto the level-0 bucket that will next expire
// (i.e. they fire on the very next Tick, ahead of whatever else lands
// there).
func (w *Wheel) TickWithLimit(limit int) int {
	if limit < 0 {
		limit = 0
	}
	localCur := w.ticks
	w.ticks++

	g := uint64(1) << w.granularityLog2
	fired := 0

	for lvl := 0; ; lvl++ {
		slot := localCur & w.bucketMask
		bucket := &w.buckets[w.bucketIndex(lvl, slot)]

		n, carried := w.expireBucket(bucket, limit-fired)
		fired += n
		if carried != nil {
			carrySlot := w.ticks & w.bucketMask
			w.buckets[w.bucketIndex(0, carrySlot)].spliceAfter(carried)
		}

		if localCur&(g-1) != 0 || lvl+1 >= w.levels {
			break
		}
		localCur >>= w.granularityLog2
	}
	return fired
}

// Tick advances the wheel by one tick, firing every timer due, and
// returns how many fired.
func (w *Wheel) Tick() int {
	return w.TickWithLimit(math.MaxInt)
}

// TickMany calls Tick n times and returns the total number of timers
// fired.
func (w *Wheel) TickMany(n int) int {
	fired := 0
	for i := 0; i < n; i++ {
		fired += w.Tick()
	}
	return fired
}

// TickManyWithLimit advances the wheel by n ticks, with limit shared
// across all of them: once the cumulative cap is reached, the remaining
// ticks still advance the clock and still carry over their level-0
// bucket, but fire nothing further.
func (w *Wheel) TickManyWithLimit(n, limit int) int {
	fired := 0
	for i := 0; i < n; i++ {
		remaining := limit - fired
		if remaining < 0 {
			remaining = 0
		}
		fired += w.TickWithLimit(remaining)
	}
	return fired
}
