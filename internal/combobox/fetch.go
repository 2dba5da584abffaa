package combobox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"strings"
	"time"
)

// DefaultTimeout bounds every suggestion request.
const DefaultTimeout = 5 * time.Second

// Response is what a Transport hands back for a completed round trip.
type Response struct {
	Status      int
	Body        []byte
	ContentType string
}

// Transport performs one suggestion request. Implementations must observe
// ctx cancellation.
type Transport interface {
	Fetch(ctx context.Context, query string) (Response, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, query string) (Response, error)

// Fetch implements Transport.
func (f TransportFunc) Fetch(ctx context.Context, query string) (Response, error) {
	return f(ctx, query)
}

// Parser turns a markup fragment into a SuggestionSet.
type Parser interface {
	Parse(body []byte) (SuggestionSet, error)
}

// ParserFunc adapts a function to Parser.
type ParserFunc func(body []byte) (SuggestionSet, error)

// Parse implements Parser.
func (f ParserFunc) Parse(body []byte) (SuggestionSet, error) { return f(body) }

// Outcome classifies a completed request.
type Outcome int

const (
	// OutcomeFailure covers transport errors, cancellation, timeouts,
	// non-2xx statuses and fragments that could not be parsed.
	OutcomeFailure Outcome = iota
	// OutcomeEmpty is a successful response carrying a structured payload
	// instead of a fragment. It means zero suggestions, not an error.
	OutcomeEmpty
	// OutcomeSuggestions is a successful response carrying a fragment.
	OutcomeSuggestions
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFailure:
		return "failure"
	case OutcomeEmpty:
		return "empty"
	case OutcomeSuggestions:
		return "suggestions"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Result is delivered on the loop when a request that was not superseded
// completes.
type Result struct {
	Query   string
	Outcome Outcome
	Set     SuggestionSet
	Err     error
	Elapsed time.Duration
}

// StatusError reports a non-2xx response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}

// Classify maps a transport completion onto an Outcome.
func Classify(query string, resp Response, err error, parser Parser) Result {
	res := Result{Query: query}
	switch {
	case err != nil:
		res.Err = err
	case resp.Status < 200 || resp.Status > 299:
		res.Err = &StatusError{Code: resp.Status}
	case isStructured(resp):
		res.Outcome = OutcomeEmpty
	default:
		set, perr := parser.Parse(resp.Body)
		if perr != nil {
			res.Err = fmt.Errorf("parsing suggestions: %w", perr)
			return res
		}
		res.Outcome = OutcomeSuggestions
		res.Set = set
	}
	return res
}

func isStructured(resp Response) bool {
	if mt, _, err := mime.ParseMediaType(resp.ContentType); err == nil {
		if mt == "application/json" || strings.HasSuffix(mt, "+json") {
			return true
		}
	}
	body := bytes.TrimSpace(resp.Body)
	return len(body) > 0 && json.Valid(body)
}

// FetchChannel owns at most one in-flight request. Starting a request
// cancels the previous one and bumps the sequence number, so a completion
// that races the cancellation is dropped when it reaches the loop.
type FetchChannel struct {
	ctx       context.Context
	loop      Loop
	transport Transport
	parser    Parser
	timeout   time.Duration

	seq      uint64
	cancel   context.CancelFunc
	inFlight bool
	query    string
}

// NewFetchChannel returns a FetchChannel. Requests derive from ctx and are
// bounded by timeout (DefaultTimeout when non-positive).
func NewFetchChannel(ctx context.Context, loop Loop, transport Transport, parser Parser, timeout time.Duration) *FetchChannel {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &FetchChannel{
		ctx:       ctx,
		loop:      loop,
		transport: transport,
		parser:    parser,
		timeout:   timeout,
	}
}

// Request supersedes any in-flight request and issues one for query.
// done runs on the loop unless the request is superseded or cancelled first.
func (f *FetchChannel) Request(query string, done func(Result)) {
	f.abort()
	f.seq++
	seq := f.seq
	ctx, cancel := context.WithTimeout(f.ctx, f.timeout)
	f.cancel = cancel
	f.inFlight = true
	f.query = query

	transport, parser := f.transport, f.parser
	go func() {
		defer cancel()
		start := time.Now()
		resp, err := transport.Fetch(ctx, query)
		res := Classify(query, resp, err, parser)
		res.Elapsed = time.Since(start)
		f.loop.Post(func() {
			if seq != f.seq || !f.inFlight {
				return
			}
			f.inFlight = false
			f.cancel = nil
			done(res)
		})
	}()
}

// Cancel aborts the in-flight request without delivering a result.
func (f *FetchChannel) Cancel() {
	f.abort()
}

func (f *FetchChannel) abort() {
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	if f.inFlight {
		f.seq++
		f.inFlight = false
	}
}

// InFlight reports whether a request is outstanding. It doubles as the busy
// indicator: on before send, off once the result is delivered or cancelled.
func (f *FetchChannel) InFlight() bool { return f.inFlight }

// Query returns the query of the outstanding request, if any.
func (f *FetchChannel) Query() string {
	if !f.inFlight {
		return ""
	}
	return f.query
}
