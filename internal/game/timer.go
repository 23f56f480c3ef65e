package game

import (
	"sync"
	"time"
)

// Clock schedules one-shot callbacks. Tests substitute a manual clock.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Stopper
}

type Stopper interface {
	Stop() bool
}

// SystemClock schedules on the runtime timer.
type SystemClock struct{}

func (SystemClock) AfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}

// Timer is a self-rescheduling periodic tick. Each tick runs under the
// supplied lock, checks active, calls onTick and schedules the next tick.
// When active reports false the tick does not reschedule and the timer
// stays stopped until Start is called again.
//
// Start and Cancel must be called with the lock held. A tick that was
// already firing when Cancel ran is discarded by its generation check.
type Timer struct {
	clock  Clock
	period time.Duration
	lock   sync.Locker
	active func() bool
	onTick func()

	gen     uint64
	pending Stopper
}

func NewTimer(clock Clock, period time.Duration, lock sync.Locker, active func() bool, onTick func()) *Timer {
	return &Timer{
		clock:  clock,
		period: period,
		lock:   lock,
		active: active,
		onTick: onTick,
	}
}

// Start begins ticking, replacing any earlier schedule.
func (t *Timer) Start() {
	t.Cancel()
	t.schedule()
}

// Cancel suppresses the pending tick. Safe to call repeatedly.
func (t *Timer) Cancel() {
	t.gen++
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
}

// Running reports whether a tick is scheduled.
func (t *Timer) Running() bool { return t.pending != nil }

func (t *Timer) schedule() {
	gen := t.gen
	t.pending = t.clock.AfterFunc(t.period, func() { t.fire(gen) })
}

func (t *Timer) fire(gen uint64) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if gen != t.gen {
		return
	}
	t.pending = nil
	if !t.active() {
		return
	}
	t.onTick()
	t.schedule()
}
