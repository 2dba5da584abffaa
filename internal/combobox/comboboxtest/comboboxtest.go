// Package comboboxtest provides deterministic stand-ins for the clock, the
// event loop and the transport used by a combobox.
package comboboxtest

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oakwood-commons/combox/internal/combobox"
)

// ManualClock is a Clock whose time only moves when Advance is called.
type ManualClock struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	clock   *ManualClock
	due     time.Duration
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

func NewManualClock() *ManualClock { return &ManualClock{} }

// AfterFunc implements combobox.Clock.
func (c *ManualClock) AfterFunc(d time.Duration, fn func()) combobox.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &manualTimer{clock: c, due: c.now + d, seq: c.seq, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward by d and runs every timer that falls due, in
// due order, on the calling goroutine.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*manualTimer
	kept := c.timers[:0]
	for _, t := range c.timers {
		switch {
		case t.stopped:
		case t.due <= c.now:
			t.fired = true
			due = append(due, t)
		default:
			kept = append(kept, t)
		}
	}
	c.timers = kept
	c.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].due != due[j].due {
			return due[i].due < due[j].due
		}
		return due[i].seq < due[j].seq
	})
	for _, t := range due {
		t.fn()
	}
}

// Pending returns the number of timers that have neither fired nor stopped.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Queue is a Loop that collects posted callbacks until the test runs them.
type Queue struct {
	ch chan func()
}

func NewQueue() *Queue {
	return &Queue{ch: make(chan func(), 1024)}
}

// Post implements combobox.Loop.
func (q *Queue) Post(fn func()) { q.ch <- fn }

// RunPending runs queued callbacks, including ones they enqueue, until the
// queue is empty, and returns how many ran.
func (q *Queue) RunPending() int {
	n := 0
	for {
		select {
		case fn := <-q.ch:
			fn()
			n++
		default:
			return n
		}
	}
}

// RunNext waits up to timeout for one callback and runs it.
func (q *Queue) RunNext(timeout time.Duration) error {
	select {
	case fn := <-q.ch:
		fn()
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("no callback posted within %s", timeout)
	}
}

// Len returns the number of queued callbacks.
func (q *Queue) Len() int { return len(q.ch) }

// Server is a scripted Transport that records every query it receives.
type Server struct {
	mu      sync.Mutex
	queries []string

	// Handler answers each request. A nil Handler answers every query with
	// a one-option fragment.
	Handler func(ctx context.Context, query string) (combobox.Response, error)
}

// Fetch implements combobox.Transport.
func (s *Server) Fetch(ctx context.Context, query string) (combobox.Response, error) {
	s.mu.Lock()
	s.queries = append(s.queries, query)
	h := s.Handler
	s.mu.Unlock()
	if h == nil {
		return Fragment(1, query), nil
	}
	return h(ctx, query)
}

// Queries returns the queries received so far.
func (s *Server) Queries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.queries...)
}

// Fragment returns a 200 response holding a listbox fragment with one
// option per text and a data-total of total.
func Fragment(total int, texts ...string) combobox.Response {
	var b strings.Builder
	b.WriteString(`<ul role="listbox">`)
	for i, t := range texts {
		fmt.Fprintf(&b, `<li role="option" id="%s"><a href="/r/%d">%s</a></li>`, combobox.OptionID(i), i, html.EscapeString(t))
	}
	b.WriteString(`</ul>`)
	fmt.Fprintf(&b, `<span id="search-result-count" data-total="%d"></span>`, total)
	return combobox.Response{Status: 200, Body: []byte(b.String()), ContentType: "text/html; charset=utf-8"}
}
