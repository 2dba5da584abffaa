package combobox_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/combox/internal/combobox"
	"github.com/oakwood-commons/combox/internal/combobox/comboboxtest"
	"github.com/oakwood-commons/combox/internal/fragment"
)

func TestClassify(t *testing.T) {
	boom := errors.New("connection refused")
	badParser := combobox.ParserFunc(func([]byte) (combobox.SuggestionSet, error) {
		return combobox.SuggestionSet{}, errors.New("bad markup")
	})

	tests := []struct {
		name    string
		resp    combobox.Response
		err     error
		parser  combobox.Parser
		want    combobox.Outcome
		wantLen int
		check   func(t *testing.T, err error)
	}{
		{
			name: "transport error",
			err:  boom,
			want: combobox.OutcomeFailure,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, boom)
			},
		},
		{
			name: "cancelled",
			err:  context.Canceled,
			want: combobox.OutcomeFailure,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, context.Canceled)
			},
		},
		{
			name: "server error",
			resp: combobox.Response{Status: 503, Body: []byte("<p>down</p>")},
			want: combobox.OutcomeFailure,
			check: func(t *testing.T, err error) {
				var se *combobox.StatusError
				require.ErrorAs(t, err, &se)
				assert.Equal(t, 503, se.Code)
			},
		},
		{
			name: "json body",
			resp: combobox.Response{Status: 200, Body: []byte(` {"error":"index rebuilding"} `), ContentType: "text/html"},
			want: combobox.OutcomeEmpty,
		},
		{
			name: "json content type",
			resp: combobox.Response{Status: 200, Body: []byte(`not really json`), ContentType: "application/problem+json"},
			want: combobox.OutcomeEmpty,
		},
		{
			name:    "fragment",
			resp:    comboboxtest.Fragment(3, "a", "b", "c"),
			want:    combobox.OutcomeSuggestions,
			wantLen: 3,
		},
		{
			name: "empty body is an empty fragment",
			resp: combobox.Response{Status: 204},
			want: combobox.OutcomeSuggestions,
		},
		{
			name:   "unparsable fragment",
			resp:   combobox.Response{Status: 200, Body: []byte("<li>")},
			parser: badParser,
			want:   combobox.OutcomeFailure,
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "bad markup")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := tt.parser
			if parser == nil {
				parser = fragment.Parser()
			}
			res := combobox.Classify("q", tt.resp, tt.err, parser)
			assert.Equal(t, "q", res.Query)
			assert.Equal(t, tt.want, res.Outcome, res.Outcome.String())
			assert.Equal(t, tt.wantLen, res.Set.Len())
			if tt.check != nil {
				tt.check(t, res.Err)
			} else {
				assert.NoError(t, res.Err)
			}
		})
	}
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "failure", combobox.OutcomeFailure.String())
	assert.Equal(t, "empty", combobox.OutcomeEmpty.String())
	assert.Equal(t, "suggestions", combobox.OutcomeSuggestions.String())
	assert.Equal(t, "Outcome(9)", combobox.Outcome(9).String())
}

func TestFetchChannelDeliversResult(t *testing.T) {
	loop := comboboxtest.NewQueue()
	server := &comboboxtest.Server{}
	f := combobox.NewFetchChannel(context.Background(), loop, server, fragment.Parser(), 0)

	var got []combobox.Result
	f.Request("main", func(r combobox.Result) { got = append(got, r) })
	assert.True(t, f.InFlight())
	assert.Equal(t, "main", f.Query())

	require.NoError(t, loop.RunNext(time.Second))
	require.Len(t, got, 1)
	assert.Equal(t, combobox.OutcomeSuggestions, got[0].Outcome)
	assert.False(t, f.InFlight())
	assert.Empty(t, f.Query())
}

func TestFetchChannelSupersedes(t *testing.T) {
	loop := comboboxtest.NewQueue()
	cancelled := make(chan struct{})
	server := &comboboxtest.Server{Handler: func(ctx context.Context, q string) (combobox.Response, error) {
		if q == "slow" {
			<-ctx.Done()
			close(cancelled)
			return combobox.Response{}, ctx.Err()
		}
		return comboboxtest.Fragment(1, q), nil
	}}
	f := combobox.NewFetchChannel(context.Background(), loop, server, fragment.Parser(), time.Minute)

	var got []string
	done := func(r combobox.Result) { got = append(got, r.Query+":"+r.Outcome.String()) }
	f.Request("slow", done)
	f.Request("fast", done)
	assert.True(t, f.InFlight(), "busy stays on for the replacement")

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("superseded request was not cancelled")
	}
	require.NoError(t, loop.RunNext(time.Second))
	require.NoError(t, loop.RunNext(time.Second))
	assert.Equal(t, []string{"fast:suggestions"}, got)
}

func TestFetchChannelCancelDropsResult(t *testing.T) {
	loop := comboboxtest.NewQueue()
	release := make(chan struct{})
	server := &comboboxtest.Server{Handler: func(context.Context, string) (combobox.Response, error) {
		<-release
		return comboboxtest.Fragment(1, "x"), nil
	}}
	f := combobox.NewFetchChannel(context.Background(), loop, server, fragment.Parser(), time.Minute)

	delivered := false
	f.Request("abc", func(combobox.Result) { delivered = true })
	f.Cancel()
	assert.False(t, f.InFlight())

	close(release)
	require.NoError(t, loop.RunNext(time.Second))
	assert.False(t, delivered)
}

func TestFetchChannelTimeout(t *testing.T) {
	loop := comboboxtest.NewQueue()
	server := &comboboxtest.Server{Handler: func(ctx context.Context, _ string) (combobox.Response, error) {
		<-ctx.Done()
		return combobox.Response{}, ctx.Err()
	}}
	f := combobox.NewFetchChannel(context.Background(), loop, server, fragment.Parser(), 10*time.Millisecond)

	var res combobox.Result
	f.Request("abc", func(r combobox.Result) { res = r })
	require.NoError(t, loop.RunNext(time.Second))
	assert.Equal(t, combobox.OutcomeFailure, res.Outcome)
	assert.ErrorIs(t, res.Err, context.DeadlineExceeded)
}
