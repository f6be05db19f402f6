package numbers

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"numbers-cruncher/metrics"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// maxBodyBytes caps how much of a fact body is kept. Longer facts are cut off.
const maxBodyBytes = 64 << 10

// Requester fetches random number facts and keeps a log of every call it made.
// It is not safe for concurrent use.
type Requester struct {
	client *http.Client
	url    string
	now    func() time.Time
	next   int
	log    []LogEntry
}

type Option func(*Requester)

// WithHTTPClient sets the client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Requester) { r.client = c }
}

// WithClock overrides the source of call timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Requester) { r.now = now }
}

// WithURL redirects requests to another server. Logged entries still carry Endpoint.
func WithURL(url string) Option {
	return func(r *Requester) { r.url = url }
}

func NewRequester(opts ...Option) *Requester {
	r := &Requester{
		client: http.DefaultClient,
		url:    Endpoint,
		now:    time.Now,
		next:   1,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Call performs one GET against the Numbers API and logs the outcome.
// Failures of any kind are reported through the returned Result, never as an error.
func (r *Requester) Call(ctx context.Context) *Result {
	callTime := r.now()
	start := time.Now()

	res := r.fetch(ctx)

	metrics.RequestDuration.Observe(time.Since(start).Seconds())
	metrics.RequestsTotal.WithLabelValues(string(res.Result)).Inc()

	entry := LogEntry{
		RequestNumber: r.next,
		CallTime:      CallTime(callTime),
		EndPoint:      Endpoint,
		Result:        res.Result,
	}
	if res.Result == StatusSuccess {
		n := *res.Number
		entry.Number = &n
	}
	r.log = append(r.log, entry)
	r.next++

	ev := log.Debug().Int("requestNumber", entry.RequestNumber).Str("result", string(res.Result))
	if res.Number != nil {
		ev = ev.Int64("number", *res.Number)
	}
	if res.ErrorCode != nil {
		ev = ev.Int("errorCode", *res.ErrorCode)
	}
	ev.Msg("requester: call complete")
	return res
}

func (r *Requester) fetch(ctx context.Context) *Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		log.Error().Err(err).Str("url", r.url).Msg("requester: failed to build request")
		return Failure(0)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("url", r.url).Msg("requester: request failed")
		return Failure(0)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Str("url", r.url).Msg("requester: non-200 response")
		return Failure(resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		log.Warn().Err(errors.Wrap(err, "read body")).Str("url", r.url).Msg("requester: failed to read response")
		return Failure(resp.StatusCode)
	}
	if len(body) > maxBodyBytes {
		log.Warn().Int("limit", maxBodyBytes).Str("url", r.url).Msg("requester: fact exceeds size limit; truncating")
		body = body[:maxBodyBytes]
	}
	fact := strings.TrimSpace(string(body))
	number, err := parseNumber(fact)
	if err != nil {
		log.Warn().Err(err).Str("fact", fact).Msg("requester: response does not start with a number")
		return Failure(resp.StatusCode)
	}
	return Success(number, fact)
}

// Log returns a copy of the request log, oldest first.
func (r *Requester) Log() []LogEntry {
	out := make([]LogEntry, len(r.log))
	for i, e := range r.log {
		out[i] = e.clone()
	}
	return out
}

// LastEntry returns the most recent log entry, if any.
func (r *Requester) LastEntry() (LogEntry, bool) {
	if len(r.log) == 0 {
		return LogEntry{}, false
	}
	return r.log[len(r.log)-1].clone(), true
}

// parseNumber reads the integer a fact is about from its first word,
// e.g. "13 is lucky for some." -> 13.
func parseNumber(fact string) (int64, error) {
	fields := strings.Fields(fact)
	if len(fields) == 0 {
		return 0, errors.New("empty fact")
	}
	n, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parse number from %q", fields[0])
	}
	return n, nil
}
