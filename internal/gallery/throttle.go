package gallery

import "time"

// throttle limits fn to one call per interval. A call inside the interval
// arms a single trailing call that receives the latest argument.
type throttle struct {
	clock    Clock
	sched    Scheduler
	interval time.Duration
	fn       func(Vec2)

	last    time.Time
	fired   bool
	latest  Vec2
	pending Handle
}

func newThrottle(clock Clock, sched Scheduler, interval time.Duration, fn func(Vec2)) *throttle {
	return &throttle{clock: clock, sched: sched, interval: interval, fn: fn}
}

func (t *throttle) call(p Vec2) {
	t.latest = p
	now := t.clock.Now()
	elapsed := now.Sub(t.last)
	if !t.fired || elapsed >= t.interval {
		t.cancel()
		t.run(now, p)
		return
	}
	if t.pending != 0 {
		return
	}
	t.pending = t.sched.AfterFunc(t.interval-elapsed, func() {
		t.pending = 0
		t.run(t.clock.Now(), t.latest)
	})
}

func (t *throttle) run(now time.Time, p Vec2) {
	t.last = now
	t.fired = true
	t.fn(p)
}

// armed reports whether a trailing call is pending.
func (t *throttle) armed() bool {
	return t.pending != 0
}

func (t *throttle) cancel() {
	if t.pending != 0 {
		t.sched.Cancel(t.pending)
		t.pending = 0
	}
}
