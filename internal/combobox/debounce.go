package combobox

import "time"

// DefaultDelay is the quiescence interval before a typed query is fetched.
const DefaultDelay = 400 * time.Millisecond

// Debouncer holds at most one pending trigger. A timer that already expired
// but whose posted callback has not run yet is neutralised by the generation
// check, so Cancel and Schedule always win over a late expiry.
type Debouncer struct {
	loop  Loop
	clock Clock
	delay time.Duration

	gen     uint64
	timer   Timer
	pending bool
}

// NewDebouncer returns a Debouncer. A non-positive delay selects DefaultDelay.
func NewDebouncer(loop Loop, clock Clock, delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Debouncer{loop: loop, clock: clock, delay: delay}
}

// Delay returns the quiescence interval.
func (d *Debouncer) Delay() time.Duration { return d.delay }

// Schedule replaces any pending trigger with one that calls fire(query) on
// the loop once the interval elapses without another Schedule or Cancel.
func (d *Debouncer) Schedule(query string, fire func(query string)) {
	d.Cancel()
	d.gen++
	gen := d.gen
	d.pending = true
	d.timer = d.clock.AfterFunc(d.delay, func() {
		d.loop.Post(func() {
			if gen != d.gen || !d.pending {
				return
			}
			d.pending = false
			d.timer = nil
			fire(query)
		})
	})
}

// Cancel drops the pending trigger, if any.
func (d *Debouncer) Cancel() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.pending {
		d.gen++
		d.pending = false
	}
}

// Pending reports whether a trigger is waiting to fire.
func (d *Debouncer) Pending() bool { return d.pending }
