package combobox

import "time"

// Loop serializes callbacks onto the goroutine that owns a Combobox.
// Timers and transport completions never touch widget state directly; they
// Post a callback and the owner runs it.
type Loop interface {
	Post(fn func())
}

// LoopFunc adapts a plain function to Loop.
type LoopFunc func(fn func())

// Post implements Loop.
func (f LoopFunc) Post(fn func()) { f(fn) }

// Timer is a stoppable one-shot timer.
type Timer interface {
	Stop() bool
}

// Clock schedules one-shot timers. fn runs on an arbitrary goroutine.
type Clock interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// SystemClock is the wall clock backed by time.AfterFunc.
type SystemClock struct{}

// AfterFunc implements Clock.
func (SystemClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
