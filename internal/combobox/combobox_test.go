package combobox_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/combox/internal/combobox"
	"github.com/oakwood-commons/combox/internal/combobox/comboboxtest"
	"github.com/oakwood-commons/combox/internal/fragment"
)

type harness struct {
	t        *testing.T
	clock    *comboboxtest.ManualClock
	loop     *comboboxtest.Queue
	server   *comboboxtest.Server
	cb       *combobox.Combobox
	followed []combobox.Suggestion
}

func newHarness(t *testing.T, policy combobox.Policy, handler func(context.Context, string) (combobox.Response, error)) *harness {
	t.Helper()
	h := &harness{
		t:      t,
		clock:  comboboxtest.NewManualClock(),
		loop:   comboboxtest.NewQueue(),
		server: &comboboxtest.Server{Handler: handler},
	}
	cb, err := combobox.New(combobox.Options{
		Policy:    policy,
		Transport: h.server,
		Parser:    fragment.Parser(),
		Loop:      h.loop,
		Clock:     h.clock,
		Timeout:   time.Minute,
		ID:        "addr",
		Navigate:  func(s combobox.Suggestion) { h.followed = append(h.followed, s) },
	})
	require.NoError(t, err)
	h.cb = cb
	t.Cleanup(cb.Detach)
	return h
}

func respond(texts ...string) func(context.Context, string) (combobox.Response, error) {
	return func(context.Context, string) (combobox.Response, error) {
		return comboboxtest.Fragment(len(texts), texts...), nil
	}
}

// lookup types value and lets the debounce interval elapse, which starts
// the request.
func (h *harness) lookup(value string) {
	h.cb.Input(value)
	h.clock.Advance(combobox.DefaultDelay)
	h.loop.RunPending()
}

// deliver waits for the next completion and runs it.
func (h *harness) deliver() {
	h.t.Helper()
	require.NoError(h.t, h.loop.RunNext(time.Second))
}

func (h *harness) open(value string) {
	h.t.Helper()
	h.cb.Focus()
	h.lookup(value)
	h.deliver()
	require.True(h.t, h.cb.IsOpen())
}

func assertClosed(t *testing.T, cb *combobox.Combobox) {
	t.Helper()
	assert.Equal(t, combobox.Closed, cb.State())
	assert.Equal(t, -1, cb.Active())
	assert.Empty(t, cb.Suggestions())
	assert.False(t, cb.Attributes().Expanded)
	assert.Empty(t, cb.Attributes().ActiveDescendant)
	assert.False(t, cb.Overlay().Visible)
	assert.Empty(t, cb.Status())
}

func TestNewRequiresCollaborators(t *testing.T) {
	loop := comboboxtest.NewQueue()
	server := &comboboxtest.Server{}
	tests := []struct {
		name string
		opts combobox.Options
		want error
	}{
		{name: "transport", opts: combobox.Options{Parser: fragment.Parser(), Loop: loop}, want: combobox.ErrNoTransport},
		{name: "parser", opts: combobox.Options{Transport: server, Loop: loop}, want: combobox.ErrNoParser},
		{name: "loop", opts: combobox.Options{Transport: server, Parser: fragment.Parser()}, want: combobox.ErrNoLoop},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := combobox.New(tt.opts)
			require.ErrorIs(t, err, tt.want)
		})
	}

	_, err := combobox.New(combobox.Options{Transport: server, Parser: fragment.Parser(), Loop: loop, MaxVisible: -1})
	require.ErrorContains(t, err, "max visible")
}

func TestNewDefaults(t *testing.T) {
	cb, err := combobox.New(combobox.Options{
		Transport: &comboboxtest.Server{},
		Parser:    fragment.Parser(),
		Loop:      comboboxtest.NewQueue(),
	})
	require.NoError(t, err)
	defer cb.Detach()

	assert.Len(t, cb.ID(), 36, "uuid instance id")
	assert.Equal(t, cb.ID()+"-listbox", cb.Attributes().Controls)
	assert.Equal(t, combobox.VariantDefault, cb.Policy().Name)
	assert.Equal(t, 3, cb.Policy().MinChars)
	assertClosed(t, cb)
}

func TestTypeOneCharacterOpensAddressListbox(t *testing.T) {
	h := newHarness(t, combobox.Address(), func(context.Context, string) (combobox.Response, error) {
		return comboboxtest.Fragment(1, "1 Acacia Avenue"), nil
	})
	h.cb.Focus()
	h.cb.Input("a")

	h.clock.Advance(combobox.DefaultDelay - time.Millisecond)
	h.loop.RunPending()
	assert.Empty(t, h.server.Queries())
	assert.True(t, h.cb.Pending())

	h.clock.Advance(time.Millisecond)
	h.loop.RunPending()
	assert.True(t, h.cb.Busy())
	assert.True(t, h.cb.Attributes().Busy)

	h.deliver()
	assert.Equal(t, []string{"a"}, h.server.Queries())
	assert.Equal(t, combobox.Open, h.cb.State())
	assert.Equal(t, -1, h.cb.Active())
	assert.Equal(t, 1, h.cb.ResultsCount())
	assert.False(t, h.cb.Busy())
	assert.Equal(t, "a", h.cb.LastFetched())
	assert.Contains(t, h.cb.Markup(), "1 Acacia Avenue")
	assert.Equal(t, combobox.Attributes{Controls: "addr-listbox", Expanded: true}, h.cb.Attributes())
	assert.Equal(t, "1 suggestion found", h.cb.Status())
	assert.Equal(t, combobox.Overlay{Visible: true, Height: 4}, h.cb.Overlay())
}

func TestTypingWithinIntervalIssuesOneFetch(t *testing.T) {
	h := newHarness(t, combobox.Address(), nil)
	h.cb.Focus()
	h.cb.Input("a")
	h.clock.Advance(combobox.DefaultDelay / 2)
	h.lookup("ab")
	h.deliver()

	assert.Equal(t, []string{"ab"}, h.server.Queries())
	assert.True(t, h.cb.IsOpen())
	assert.Zero(t, h.loop.Len())
}

func TestArrowDownFromNoneLandsOnLast(t *testing.T) {
	h := newHarness(t, combobox.Address(), respond("1 Main St", "2 Main St", "3 Main St"))
	h.open("main")

	require.True(t, h.cb.Key(combobox.KeyDown))
	assert.Equal(t, 2, h.cb.Active())
	assert.Equal(t, "result-item-2", h.cb.Attributes().ActiveDescendant)
	assert.True(t, h.cb.Selected(2))
	assert.False(t, h.cb.Selected(0))
	assert.Equal(t, "3 Main St", h.cb.Value(), "address activation copies the text")
	assert.Equal(t, "3 suggestions found", h.cb.Status())

	require.True(t, h.cb.Key(combobox.KeyDown))
	assert.Equal(t, 1, h.cb.Active())
	assert.False(t, h.cb.Selected(2), "previous option is cleared")
	assert.True(t, h.cb.Selected(1))

	require.True(t, h.cb.Key(combobox.KeyUp))
	require.True(t, h.cb.Key(combobox.KeyUp))
	assert.Equal(t, 0, h.cb.Active(), "retreat from the last option wraps to the first")
}

func TestArrowsIgnoredWhileClosed(t *testing.T) {
	h := newHarness(t, combobox.Address(), nil)
	assert.False(t, h.cb.Key(combobox.KeyDown))
	assert.False(t, h.cb.Key(combobox.KeyUp))
	assert.Equal(t, -1, h.cb.Active())
}

func TestOuterClickClosesOpenListbox(t *testing.T) {
	h := newHarness(t, combobox.Address(), respond("x", "y"))
	h.open("x")
	h.cb.Key(combobox.KeyDown)

	h.cb.OuterClick()
	assertClosed(t, h.cb)
	assert.Empty(t, h.cb.LastFetched())
	assert.Empty(t, h.cb.Markup())
}

func TestShortInputAlwaysCloses(t *testing.T) {
	tests := []struct {
		name  string
		setup func(h *harness)
	}{
		{name: "from closed", setup: func(*harness) {}},
		{name: "from open", setup: func(h *harness) { h.open("abc") }},
		{name: "from open with active option", setup: func(h *harness) {
			h.open("abc")
			h.cb.Key(combobox.KeyUp)
		}},
		{name: "with pending debounce", setup: func(h *harness) {
			h.cb.Focus()
			h.cb.Input("abc")
		}},
		{name: "with request in flight", setup: func(h *harness) {
			h.cb.Focus()
			h.lookup("abc")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, combobox.Default(), respond("abc one", "abc two"))
			tt.setup(h)

			h.cb.Input("ab")
			assertClosed(t, h.cb)
			assert.False(t, h.cb.Pending())
			assert.False(t, h.cb.Busy())

			h.clock.Advance(time.Second)
			h.loop.RunPending()
			time.Sleep(10 * time.Millisecond)
			h.loop.RunPending()
			assertClosed(t, h.cb)
		})
	}
}

func TestMinCharsCountsRunes(t *testing.T) {
	h := newHarness(t, combobox.Default(), nil)
	h.cb.Focus()
	h.cb.Input("日本")
	assert.False(t, h.cb.Pending())
	h.cb.Input("日本語")
	assert.True(t, h.cb.Pending())
}

func TestSupersededResponseIsIgnored(t *testing.T) {
	release := make(chan struct{})
	h := newHarness(t, combobox.Default(), func(_ context.Context, q string) (combobox.Response, error) {
		if q == "abc" {
			<-release
			return comboboxtest.Fragment(1, "stale abc"), nil
		}
		return comboboxtest.Fragment(2, q+" one", q+" two"), nil
	})
	h.cb.Focus()
	h.lookup("abc")
	require.True(t, h.cb.Busy())

	h.lookup("abcd")
	h.deliver()
	require.True(t, h.cb.IsOpen())
	assert.Equal(t, "abcd one", h.cb.Suggestions()[0].Text)

	close(release)
	h.deliver()
	assert.True(t, h.cb.IsOpen())
	assert.Equal(t, 2, h.cb.ResultsCount())
	assert.Equal(t, "abcd one", h.cb.Suggestions()[0].Text)
	assert.ElementsMatch(t, []string{"abc", "abcd"}, h.server.Queries(), "each request records its query on its own goroutine")
}

func TestSupersededRequestIsCancelled(t *testing.T) {
	cancelled := make(chan struct{})
	h := newHarness(t, combobox.Default(), func(ctx context.Context, q string) (combobox.Response, error) {
		if q == "abc" {
			<-ctx.Done()
			close(cancelled)
			return combobox.Response{}, ctx.Err()
		}
		return comboboxtest.Fragment(1, q), nil
	})
	h.cb.Focus()
	h.lookup("abc")
	h.lookup("abcd")

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("first request was not cancelled")
	}
	h.deliver()
	h.deliver()
	assert.True(t, h.cb.IsOpen())
	assert.Equal(t, "abcd", h.cb.LastFetched())
}

func TestStaleResponseDoesNotOpen(t *testing.T) {
	tests := []struct {
		name   string
		change func(h *harness)
	}{
		{name: "value changed", change: func(h *harness) { h.cb.Input("abx") }},
		{name: "focus lost while hovering", change: func(h *harness) {
			h.cb.PointerEnter()
			h.cb.Blur()
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			release := make(chan struct{})
			h := newHarness(t, combobox.Default(), func(context.Context, string) (combobox.Response, error) {
				<-release
				return comboboxtest.Fragment(1, "abc street"), nil
			})
			h.cb.Focus()
			h.lookup("abc")
			tt.change(h)

			close(release)
			h.deliver()
			assertClosed(t, h.cb)
		})
	}
}

func TestDegradedResponsesClose(t *testing.T) {
	tests := []struct {
		name    string
		handler func(context.Context, string) (combobox.Response, error)
		wantErr bool
	}{
		{name: "transport error", wantErr: true, handler: func(context.Context, string) (combobox.Response, error) {
			return combobox.Response{}, context.DeadlineExceeded
		}},
		{name: "server error", wantErr: true, handler: func(context.Context, string) (combobox.Response, error) {
			return combobox.Response{Status: 500}, nil
		}},
		{name: "structured payload", handler: func(context.Context, string) (combobox.Response, error) {
			return combobox.Response{Status: 200, Body: []byte(`{"suggestions":[]}`), ContentType: "application/json"}, nil
		}},
		{name: "no options", handler: func(context.Context, string) (combobox.Response, error) {
			return comboboxtest.Fragment(0), nil
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, combobox.Default(), respond("abc one"))
			h.open("abc")

			h.server.Handler = tt.handler
			h.lookup("abcd")
			h.deliver()
			assertClosed(t, h.cb)
			assert.False(t, h.cb.Busy())
			assert.Equal(t, "abcd", h.cb.Value())
			if tt.wantErr {
				assert.Error(t, h.cb.Err())
			} else {
				assert.NoError(t, h.cb.Err())
			}
		})
	}
}

func TestRepeatedQueryIsNoop(t *testing.T) {
	h := newHarness(t, combobox.Default(), respond("abc one"))
	h.open("abc")

	h.cb.Input("abcd")
	h.cb.Input("abc")
	assert.False(t, h.cb.Pending())

	h.cb.Focus()
	h.clock.Advance(time.Second)
	h.loop.RunPending()
	assert.Equal(t, []string{"abc"}, h.server.Queries())
	assert.True(t, h.cb.IsOpen())
}

func TestFocusReentryLooksUpChangedValue(t *testing.T) {
	h := newHarness(t, combobox.Default(), respond("abc one"))
	h.cb.Input("abc")
	require.True(t, h.cb.Pending())
	h.cb.Focus()
	h.clock.Advance(combobox.DefaultDelay)
	h.loop.RunPending()
	h.deliver()
	assert.True(t, h.cb.IsOpen())
}

func TestEscapeClosesAndClears(t *testing.T) {
	h := newHarness(t, combobox.Default(), respond("abc one"))
	h.open("abc")

	assert.True(t, h.cb.Key(combobox.KeyEscape))
	assertClosed(t, h.cb)
	assert.Empty(t, h.cb.Value())
}

func TestEnterCommitsActiveOption(t *testing.T) {
	h := newHarness(t, combobox.Default(), respond("abc one", "abc two"))
	h.open("abc")

	assert.False(t, h.cb.Key(combobox.KeyEnter), "nothing active, form may submit")
	assert.True(t, h.cb.IsOpen())

	h.cb.Key(combobox.KeyUp)
	h.cb.SetValue("abc")
	assert.True(t, h.cb.Key(combobox.KeyEnter))
	assertClosed(t, h.cb)
	assert.Equal(t, "abc one", h.cb.Value())
}

func TestTabClosesWithoutSelection(t *testing.T) {
	h := newHarness(t, combobox.Default(), respond("abc one", "abc two"))
	h.open("abc")

	assert.False(t, h.cb.Key(combobox.KeyTab))
	assertClosed(t, h.cb)
	assert.Equal(t, "abc", h.cb.Value())
}

func TestReservedKeysAreUnhandled(t *testing.T) {
	h := newHarness(t, combobox.Default(), respond("abc one"))
	h.open("abc")
	for _, k := range []combobox.Key{combobox.KeyBackspace, combobox.KeySpace, combobox.KeyHome, combobox.KeyEnd, combobox.KeyNone} {
		assert.False(t, h.cb.Key(k))
	}
	assert.True(t, h.cb.IsOpen())
}

func TestOptionClickSelects(t *testing.T) {
	h := newHarness(t, combobox.Address(), respond("1 Main St", "2 Main St"))
	h.open("main")

	h.cb.OptionClick(7)
	assert.True(t, h.cb.IsOpen(), "out of range click is ignored")

	h.cb.OptionClick(1)
	assertClosed(t, h.cb)
	assert.Equal(t, "2 Main St", h.cb.Value())
}

func TestBlur(t *testing.T) {
	tests := []struct {
		name      string
		policy    combobox.Policy
		prepare   func(h *harness)
		wantOpen  bool
		wantValue string
	}{
		{
			name:      "no active option closes",
			policy:    combobox.Default(),
			wantValue: "abc",
		},
		{
			name:   "active option is selected",
			policy: combobox.Default(),
			prepare: func(h *harness) {
				h.cb.Key(combobox.KeyUp)
				h.cb.SetValue("abc")
			},
			wantValue: "abc one",
		},
		{
			name:      "hover keeps the listbox",
			policy:    combobox.Default(),
			prepare:   func(h *harness) { h.cb.PointerEnter() },
			wantOpen:  true,
			wantValue: "abc",
		},
		{
			name:   "hover ended",
			policy: combobox.Address(),
			prepare: func(h *harness) {
				h.cb.PointerEnter()
				h.cb.PointerLeave()
			},
			wantValue: "abc",
		},
		{
			name:   "search keeps the first option active",
			policy: combobox.Search(combobox.SearchOptions{}),
			prepare: func(h *harness) {
				h.cb.Key(combobox.KeyUp)
				require.Equal(t, 0, h.cb.Active())
			},
			wantOpen:  true,
			wantValue: "abc",
		},
		{
			name:      "search keeps the last option active",
			policy:    combobox.Search(combobox.SearchOptions{}),
			prepare:   func(h *harness) { h.cb.Key(combobox.KeyDown) },
			wantOpen:  true,
			wantValue: "abc",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.policy, respond("abc one", "abc two"))
			h.open("abc")
			if tt.prepare != nil {
				tt.prepare(h)
			}
			h.cb.Blur()
			assert.False(t, h.cb.Focused())
			assert.Equal(t, tt.wantOpen, h.cb.IsOpen())
			assert.Equal(t, tt.wantValue, h.cb.Value())
			if !tt.wantOpen {
				assertClosed(t, h.cb)
			}
		})
	}
}

func TestSearchBlurClearsAfterGraceDelay(t *testing.T) {
	h := newHarness(t, combobox.Search(combobox.SearchOptions{}), respond("docs one"))
	h.open("docs")

	h.cb.Blur()
	assertClosed(t, h.cb)
	assert.Equal(t, "docs", h.cb.Value(), "value survives for a submit button")

	h.clock.Advance(combobox.DefaultGraceDelay - time.Millisecond)
	h.loop.RunPending()
	assert.Equal(t, "docs", h.cb.Value())

	h.clock.Advance(time.Millisecond)
	h.loop.RunPending()
	assert.Empty(t, h.cb.Value())
}

func TestSearchSelectFollowsLink(t *testing.T) {
	tests := []struct {
		name   string
		commit func(cb *combobox.Combobox)
	}{
		{name: "enter", commit: func(cb *combobox.Combobox) {
			cb.Key(combobox.KeyUp)
			cb.Key(combobox.KeyUp)
			cb.Key(combobox.KeyEnter)
		}},
		{name: "click", commit: func(cb *combobox.Combobox) { cb.OptionClick(1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, combobox.Search(combobox.SearchOptions{CloseDelay: 300 * time.Millisecond}), respond("docs one", "docs two"))
			h.open("docs")

			tt.commit(h.cb)
			require.Len(t, h.followed, 1)
			assert.Equal(t, "docs two", h.followed[0].Text)
			assert.Equal(t, "/r/1", h.followed[0].Href)
			assert.Equal(t, "docs", h.cb.Value(), "search never copies option text")
			assert.True(t, h.cb.IsOpen())

			h.clock.Advance(300 * time.Millisecond)
			h.loop.RunPending()
			assertClosed(t, h.cb)
		})
	}
}

func TestSearchTypingCancelsGraceClose(t *testing.T) {
	h := newHarness(t, combobox.Search(combobox.SearchOptions{}), func(_ context.Context, q string) (combobox.Response, error) {
		return comboboxtest.Fragment(2, q+" one", q+" two"), nil
	})
	h.open("abc")
	h.cb.Key(combobox.KeyDown)
	require.True(t, h.cb.Key(combobox.KeyEnter))
	require.Len(t, h.followed, 1)

	h.lookup("abcd")
	require.True(t, h.cb.Busy(), "the new lookup survives the grace delay")
	h.deliver()
	assert.True(t, h.cb.IsOpen())
	assert.Equal(t, "abcd", h.cb.LastFetched())
	assert.Equal(t, "abcd one", h.cb.Suggestions()[0].Text)

	h.clock.Advance(time.Second)
	h.loop.RunPending()
	assert.True(t, h.cb.IsOpen())
	assert.Zero(t, h.clock.Pending())
}

func TestSearchBlurClearRacesRefocus(t *testing.T) {
	tests := []struct {
		name      string
		refocus   func(h *harness)
		wantValue string
	}{
		{name: "refocus", refocus: func(h *harness) { h.cb.Focus() }, wantValue: "docs"},
		{name: "refocus and type", refocus: func(h *harness) {
			h.cb.Focus()
			h.cb.Input("docsx")
		}, wantValue: "docsx"},
		{name: "type without focus", refocus: func(h *harness) { h.cb.Input("docsx") }, wantValue: "docsx"},
		{name: "no refocus", refocus: func(*harness) {}, wantValue: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, combobox.Search(combobox.SearchOptions{}), respond("docs one"))
			h.open("docs")
			h.cb.Blur()
			require.False(t, h.cb.IsOpen())

			h.clock.Advance(combobox.DefaultGraceDelay / 2)
			h.loop.RunPending()
			tt.refocus(h)
			h.clock.Advance(combobox.DefaultGraceDelay)
			h.loop.RunPending()
			assert.Equal(t, tt.wantValue, h.cb.Value())
		})
	}
}

func TestSearchActivationScrolls(t *testing.T) {
	h := harnessWithLimit(t, combobox.Search(combobox.SearchOptions{}), 2, respond("a1", "a2", "a3", "a4", "a5"))
	h.open("abc")

	assert.Equal(t, combobox.Overlay{Visible: true, Height: 5, Animate: true}, h.cb.Overlay())
	h.cb.Key(combobox.KeyDown)
	assert.Equal(t, 4, h.cb.Active())
	assert.Equal(t, 3, h.cb.Window().Offset)
	assert.True(t, h.cb.Window().Contains(4, 5))
	assert.Equal(t, "abc", h.cb.Value())

	h.cb.OuterClick()
	assert.Equal(t, combobox.Overlay{Height: 1, Animate: true}, h.cb.Overlay())
	assert.Zero(t, h.cb.Window().Offset)
}

func harnessWithLimit(t *testing.T, policy combobox.Policy, limit int, handler func(context.Context, string) (combobox.Response, error)) *harness {
	t.Helper()
	h := &harness{
		t:      t,
		clock:  comboboxtest.NewManualClock(),
		loop:   comboboxtest.NewQueue(),
		server: &comboboxtest.Server{Handler: handler},
	}
	cb, err := combobox.New(combobox.Options{
		Policy:     policy,
		Transport:  h.server,
		Parser:     fragment.Parser(),
		Loop:       h.loop,
		Clock:      h.clock,
		MaxVisible: limit,
	})
	require.NoError(t, err)
	h.cb = cb
	t.Cleanup(cb.Detach)
	return h
}

func TestDetachMakesLateCallbacksNoops(t *testing.T) {
	release := make(chan struct{})
	h := newHarness(t, combobox.Search(combobox.SearchOptions{}), func(context.Context, string) (combobox.Response, error) {
		<-release
		return comboboxtest.Fragment(1, "late"), nil
	})
	h.cb.Focus()
	h.lookup("abc")
	h.cb.Input("abcd")
	h.cb.After(time.Millisecond, func() { t.Error("deferred action ran after detach") })
	require.True(t, h.cb.Busy())
	require.True(t, h.cb.Pending())

	h.cb.Detach()
	assert.False(t, h.cb.Attached())
	assert.False(t, h.cb.Busy())
	assert.False(t, h.cb.Pending())
	assert.Zero(t, h.clock.Pending())

	close(release)
	h.deliver()
	h.clock.Advance(time.Second)
	h.loop.RunPending()
	assertClosed(t, h.cb)

	h.cb.Input("abcdef")
	h.cb.Focus()
	assert.Equal(t, "abcd", h.cb.Value(), "input after detach is ignored")
	assert.False(t, h.cb.Key(combobox.KeyEscape))
	assert.Equal(t, []string{"abc"}, h.server.Queries())
}

func TestPolicyFor(t *testing.T) {
	for _, name := range combobox.Variants() {
		p, ok := combobox.PolicyFor(name, combobox.SearchOptions{})
		require.True(t, ok, name)
		assert.Equal(t, name, p.Name)
	}
	p, ok := combobox.PolicyFor("", combobox.SearchOptions{})
	require.True(t, ok)
	assert.Equal(t, combobox.VariantDefault, p.Name)

	p, ok = combobox.PolicyFor(combobox.VariantSearch, combobox.SearchOptions{MinChars: 2})
	require.True(t, ok)
	assert.Equal(t, 2, p.MinChars)

	_, ok = combobox.PolicyFor("postal", combobox.SearchOptions{})
	assert.False(t, ok)
}

func TestCustomPolicyFallsBackToDefaultHooks(t *testing.T) {
	selected := -1
	h := newHarness(t, combobox.Policy{
		Name:     "custom",
		MinChars: 2,
		Select:   func(c *combobox.Combobox, i int) { selected = i; c.CloseListbox() },
	}, respond("ab one", "ab two"))
	h.open("ab")

	h.cb.OptionClick(0)
	assert.Equal(t, 0, selected, "click falls back to the select hook")
	assert.Equal(t, "ab", h.cb.Value())
	assert.Equal(t, combobox.Overlay{}, h.cb.Overlay())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", combobox.Closed.String())
	assert.Equal(t, "open", combobox.Open.String())
	assert.Equal(t, "State(5)", combobox.State(5).String())
}
