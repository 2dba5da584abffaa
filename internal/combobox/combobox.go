// Package combobox implements a headless ARIA combobox: a text input with a
// popup listbox of suggestions fetched as the user types.
//
// A Combobox is owned by one goroutine. Every handler and observer must be
// called from it, and every asynchronous completion is handed back to it
// through Loop.Post.
package combobox

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/oakwood-commons/combox/internal/limiter"
	"github.com/oakwood-commons/combox/pkg/logger"
)

var (
	ErrNoTransport = errors.New("combobox: transport is required")
	ErrNoParser    = errors.New("combobox: parser is required")
	ErrNoLoop      = errors.New("combobox: loop is required")
)

// State is the listbox lifecycle state.
type State int

const (
	Closed State = iota
	Open
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Key is a key the combobox reacts to.
type Key int

const (
	KeyNone Key = iota
	KeyEscape
	KeyUp
	KeyDown
	KeyEnter
	KeyTab
	KeyBackspace
	KeySpace
	KeyHome
	KeyEnd
)

// Options configures New.
type Options struct {
	Policy    Policy
	Transport Transport
	Parser    Parser
	Loop      Loop
	Clock     Clock

	// Delay is the debounce interval (DefaultDelay when zero).
	Delay time.Duration
	// Timeout bounds each request (DefaultTimeout when zero).
	Timeout time.Duration
	// MaxVisible caps the rows shown at once (0 shows every option).
	MaxVisible int

	// ID names the instance. A random UUID is used when empty.
	ID string
	// Context parents every request and carries the logger.
	Context context.Context
	// Navigate receives followed suggestions.
	Navigate func(Suggestion)
}

// Combobox is the listbox lifecycle state machine.
type Combobox struct {
	policy   Policy
	loop     Loop
	clock    Clock
	id       string
	log      logr.Logger
	navigate func(Suggestion)
	limit    int

	debounce *Debouncer
	fetch    *FetchChannel
	focus    RovingFocus

	state       State
	value       string
	focused     bool
	hovered     bool
	set         SuggestionSet
	lastFetched string
	lastErr     error
	window      limiter.Window
	overlay     Overlay

	deferredSeq uint64
	deferred    map[uint64]Timer

	attached bool
}

// New builds and attaches a combobox.
func New(opts Options) (*Combobox, error) {
	if opts.Transport == nil {
		return nil, ErrNoTransport
	}
	if opts.Parser == nil {
		return nil, ErrNoParser
	}
	if opts.Loop == nil {
		return nil, ErrNoLoop
	}
	if opts.MaxVisible < 0 {
		return nil, fmt.Errorf("combobox: max visible must be non-negative, got %d", opts.MaxVisible)
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}
	policy := withDefaultHooks(opts.Policy)

	c := &Combobox{
		policy:   policy,
		loop:     opts.Loop,
		clock:    clock,
		id:       id,
		log:      logger.FromContext(ctx).WithValues(logger.WidgetKey, id, logger.VariantKey, policy.Name),
		navigate: opts.Navigate,
		limit:    opts.MaxVisible,
		debounce: NewDebouncer(opts.Loop, clock, opts.Delay),
		fetch:    NewFetchChannel(ctx, opts.Loop, opts.Transport, opts.Parser, opts.Timeout),
		focus:    NewRovingFocus(),
		deferred: map[uint64]Timer{},
		attached: true,
	}
	c.window = limiter.Window{Limit: c.limit}
	c.overlay = policy.Overlay(false, 0)
	return c, nil
}

func withDefaultHooks(p Policy) Policy {
	def := Default()
	if p.Name == "" {
		p.Name = def.Name
	}
	if p.MinChars <= 0 {
		p.MinChars = def.MinChars
	}
	if p.Select == nil {
		p.Select = def.Select
	}
	if p.Click == nil {
		p.Click = p.Select
	}
	if p.Blur == nil {
		p.Blur = def.Blur
	}
	if p.Activated == nil {
		p.Activated = def.Activated
	}
	if p.Overlay == nil {
		p.Overlay = def.Overlay
	}
	return p
}

// Input handles a change of the input value.
func (c *Combobox) Input(value string) {
	if !c.attached {
		return
	}
	c.value = value
	c.cancelDeferred()
	if utf8.RuneCountInString(value) < c.policy.MinChars {
		c.CloseListbox()
		return
	}
	c.schedule()
}

func (c *Combobox) schedule() {
	if c.value == c.lastFetched {
		c.debounce.Cancel()
		c.fetch.Cancel()
		return
	}
	c.debounce.Schedule(c.value, c.search)
}

func (c *Combobox) search(query string) {
	if !c.attached {
		return
	}
	c.log.V(1).Info("requesting suggestions", logger.QueryKey, query)
	c.fetch.Request(query, c.receive)
}

func (c *Combobox) receive(res Result) {
	if !c.attached {
		return
	}
	log := c.log.WithValues(logger.QueryKey, res.Query)
	c.lastErr = res.Err
	switch res.Outcome {
	case OutcomeFailure:
		log.V(1).Info("suggestion request failed", "error", res.Err, "elapsed", res.Elapsed)
		c.close()
		return
	case OutcomeEmpty:
		log.V(1).Info("structured payload, no suggestions", "elapsed", res.Elapsed)
		c.close()
		return
	}
	if !c.focused || res.Query != c.value {
		log.V(1).Info("discarding stale suggestions", "value", c.value, "focused", c.focused)
		c.close()
		return
	}
	if res.Set.Len() == 0 {
		log.V(1).Info("no suggestions", "elapsed", res.Elapsed)
		c.close()
		return
	}
	c.set = res.Set
	c.focus.Replace(res.Set.Len())
	c.lastFetched = res.Query
	c.window = limiter.Window{Limit: c.limit}
	c.state = Open
	c.overlay = c.policy.Overlay(true, c.visibleRows())
	log.V(1).Info("listbox open", "count", res.Set.Count(), "elapsed", res.Elapsed)
}

func (c *Combobox) visibleRows() int {
	start, end := c.window.Bounds(c.set.Len())
	return end - start
}

// close resets the listbox without touching the pending trigger or the
// in-flight request.
func (c *Combobox) close() {
	c.state = Closed
	c.set = SuggestionSet{}
	c.focus.Replace(0)
	c.lastFetched = ""
	c.window = limiter.Window{Limit: c.limit}
	c.overlay = c.policy.Overlay(false, 0)
}

// CloseListbox dismisses the listbox and drops any pending or in-flight
// lookup.
func (c *Combobox) CloseListbox() {
	if !c.attached {
		return
	}
	c.debounce.Cancel()
	c.fetch.Cancel()
	c.close()
}

// Focus handles the input gaining focus. A value that is long enough and
// differs from the one whose results are shown is looked up again.
func (c *Combobox) Focus() {
	if !c.attached {
		return
	}
	c.focused = true
	c.cancelDeferred()
	if utf8.RuneCountInString(c.value) >= c.policy.MinChars {
		c.schedule()
	}
}

// Blur handles the input losing focus. While the pointer is over the panel
// the blur is ignored so an option click can land.
func (c *Combobox) Blur() {
	if !c.attached {
		return
	}
	c.focused = false
	if c.hovered {
		return
	}
	c.policy.Blur(c)
}

func (c *Combobox) PointerEnter() {
	if c.attached {
		c.hovered = true
	}
}

func (c *Combobox) PointerLeave() {
	if c.attached {
		c.hovered = false
	}
}

// OuterClick handles a click outside the widget.
func (c *Combobox) OuterClick() {
	if !c.attached || c.state != Open {
		return
	}
	c.CloseListbox()
}

// OptionClick handles pointer activation of option i.
func (c *Combobox) OptionClick(i int) {
	if !c.attached || c.state != Open || i < 0 || i >= c.set.Len() {
		return
	}
	c.log.V(1).Info("option clicked", "index", i)
	c.policy.Click(c, i)
}

// Key handles a key press and reports whether the default action of the key
// was consumed.
func (c *Combobox) Key(k Key) bool {
	if !c.attached {
		return false
	}
	switch k {
	case KeyEscape:
		c.CloseListbox()
		c.SetValue("")
		return true
	case KeyDown:
		if c.state != Open {
			return false
		}
		c.focus.Advance()
		c.activate()
		return true
	case KeyUp:
		if c.state != Open {
			return false
		}
		c.focus.Retreat()
		c.activate()
		return true
	case KeyEnter:
		if c.state != Open || c.focus.Active() < 0 {
			return false
		}
		c.SelectItem(c.focus.Active())
		return true
	case KeyTab:
		if c.state == Open {
			c.CloseListbox()
		}
		return false
	default:
		return false
	}
}

func (c *Combobox) activate() {
	i := c.focus.Active()
	c.focus.Commit()
	if i >= 0 {
		c.policy.Activated(c, i)
	}
}

// SelectItem commits option i through the variant's select hook.
func (c *Combobox) SelectItem(i int) {
	if !c.attached || i < 0 || i >= c.set.Len() {
		return
	}
	c.log.V(1).Info("option selected", "index", i)
	c.policy.Select(c, i)
}

// Detach tears the widget down. Pending timers are stopped, the in-flight
// request is cancelled and every later callback becomes a no-op.
func (c *Combobox) Detach() {
	if !c.attached {
		return
	}
	c.debounce.Cancel()
	c.fetch.Cancel()
	c.cancelDeferred()
	c.close()
	c.focused = false
	c.hovered = false
	c.attached = false
}

// SetValue replaces the input value without triggering a lookup.
func (c *Combobox) SetValue(v string) {
	if c.attached {
		c.value = v
	}
}

// Follow hands option i to the Navigate callback.
func (c *Combobox) Follow(i int) {
	s, ok := c.Suggestion(i)
	if !ok || c.navigate == nil {
		return
	}
	c.log.V(1).Info("following suggestion", "href", s.Href)
	c.navigate(s)
}

// After runs fn on the loop once d has elapsed, unless the widget is
// detached, refocused or given a new value first.
func (c *Combobox) After(d time.Duration, fn func()) {
	if !c.attached {
		return
	}
	c.deferredSeq++
	id := c.deferredSeq
	c.deferred[id] = c.clock.AfterFunc(d, func() {
		c.loop.Post(func() {
			if _, ok := c.deferred[id]; !ok || !c.attached {
				return
			}
			delete(c.deferred, id)
			fn()
		})
	})
}

// cancelDeferred stops every action scheduled with After.
func (c *Combobox) cancelDeferred() {
	for id, t := range c.deferred {
		t.Stop()
		delete(c.deferred, id)
	}
}

// ScrollTo moves the viewport so option i is visible.
func (c *Combobox) ScrollTo(i int) {
	c.window = c.window.Reveal(i, c.set.Len())
}

// Suggestion returns option i of the current set.
func (c *Combobox) Suggestion(i int) (Suggestion, bool) {
	if i < 0 || i >= c.set.Len() {
		return Suggestion{}, false
	}
	return c.set.Items[i], true
}

func (c *Combobox) ID() string { return c.id }

// ListboxID is the id of the popup listbox.
func (c *Combobox) ListboxID() string { return c.id + "-listbox" }

func (c *Combobox) Policy() Policy { return c.policy }
func (c *Combobox) State() State   { return c.state }
func (c *Combobox) IsOpen() bool   { return c.state == Open }
func (c *Combobox) Value() string  { return c.value }
func (c *Combobox) Focused() bool  { return c.focused }
func (c *Combobox) Hovered() bool  { return c.hovered }
func (c *Combobox) Attached() bool { return c.attached }

// Active returns the active option index, -1 when none.
func (c *Combobox) Active() int { return c.focus.Active() }

// Previous returns the option that was active before the last move.
func (c *Combobox) Previous() int { return c.focus.Previous() }

// Suggestions returns the current options. The slice must not be modified.
func (c *Combobox) Suggestions() []Suggestion { return c.set.Items }

// ResultsCount is the live-region count of the current set.
func (c *Combobox) ResultsCount() int { return c.set.Count() }

// Markup returns the fragment the current set was parsed from.
func (c *Combobox) Markup() string { return c.set.Markup }

// LastFetched is the query whose results are shown.
func (c *Combobox) LastFetched() string { return c.lastFetched }

func (c *Combobox) Overlay() Overlay { return c.overlay }

// Window is the viewport over the current options.
func (c *Combobox) Window() limiter.Window { return c.window }

// Err is the error of the latest completed request, nil when it succeeded.
func (c *Combobox) Err() error { return c.lastErr }

// Busy reports whether a request is in flight.
func (c *Combobox) Busy() bool { return c.fetch.InFlight() }

// Pending reports whether a debounced lookup is waiting to fire.
func (c *Combobox) Pending() bool { return c.debounce.Pending() }
