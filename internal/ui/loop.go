package ui

import (
	"sync"

	tea "charm.land/bubbletea/v2"
)

// dispatchMsg carries a callback posted by a timer or a transport goroutine
// into the Bubble Tea update loop.
type dispatchMsg struct {
	fn func()
}

// teaLoop implements combobox.Loop on top of the Bubble Tea event loop.
// Callbacks are queued on a channel and drained one at a time by the
// command returned from listen.
type teaLoop struct {
	ch       chan func()
	done     chan struct{}
	stopOnce sync.Once
}

func newTeaLoop() *teaLoop {
	return &teaLoop{
		ch:   make(chan func(), 256),
		done: make(chan struct{}),
	}
}

// Post implements combobox.Loop. It drops the callback once the loop is
// stopped.
func (l *teaLoop) Post(fn func()) {
	select {
	case l.ch <- fn:
	case <-l.done:
	}
}

// listen waits for the next posted callback.
func (l *teaLoop) listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case fn := <-l.ch:
			return dispatchMsg{fn: fn}
		case <-l.done:
			return nil
		}
	}
}

func (l *teaLoop) stop() {
	l.stopOnce.Do(func() { close(l.done) })
}
