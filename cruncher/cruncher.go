package cruncher

import (
	"context"
	"fmt"

	"numbers-cruncher/metrics"
	"numbers-cruncher/numbers"

	"github.com/rs/zerolog/log"
)

// Caller is anything that can fetch a number fact.
type Caller interface {
	Call(ctx context.Context) *numbers.Result
}

type Outcome string

const (
	OutcomeYum   Outcome = "Yum"
	OutcomeBurp  Outcome = "Burp"
	OutcomeYuk   Outcome = "Yuk"
	OutcomeError Outcome = "Error"
)

// Cruncher keeps the most recent even-numbered facts fetched by its requester.
// It is not safe for concurrent use.
type Cruncher struct {
	requester Caller
	maxlen    int
	tummy     *tummy
}

func New(maxlen int, requester Caller) (*Cruncher, error) {
	if maxlen < 0 {
		return nil, ErrInvalidArgument
	}
	return &Cruncher{requester: requester, maxlen: maxlen, tummy: newTummy(maxlen)}, nil
}

// Crunch fetches one fact and keeps it if its number is even.
// It returns "Yum! N" for a kept fact, "Burp! N" when keeping it evicted the
// oldest one and "Yuk! N" for a rejected odd number.
func (c *Cruncher) Crunch(ctx context.Context) (string, error) {
	rep, err := c.CrunchReport(ctx)
	return rep.Status, err
}

// Report describes what a single crunch did.
type Report struct {
	Outcome Outcome
	Status  string
	Result  *numbers.Result
}

// CrunchReport is Crunch that also returns the outcome and the result it acted on.
// On error the report still carries the offending result and OutcomeError.
func (c *Cruncher) CrunchReport(ctx context.Context) (Report, error) {
	res := c.requester.Call(ctx)
	outcome, err := c.digest(res)
	metrics.CrunchesTotal.WithLabelValues(string(outcome)).Inc()
	rep := Report{Outcome: outcome, Result: res}
	if err != nil {
		log.Warn().Interface("result", res).Msg("cruncher: unusable result")
		return rep, err
	}
	metrics.TummySize.Set(float64(c.tummy.len()))

	rep.Status = fmt.Sprintf("%s! %d", outcome, *res.Number)
	log.Debug().Str("outcome", string(outcome)).Int64("number", *res.Number).Int("tummy", c.tummy.len()).Msg("cruncher: " + rep.Status)
	return rep, nil
}

func (c *Cruncher) digest(res *numbers.Result) (Outcome, error) {
	if res == nil || res.Number == nil {
		return OutcomeError, ErrUnexpectedResponse
	}
	n := *res.Number
	if n%2 != 0 {
		return OutcomeYuk, nil
	}
	if res.Fact == nil {
		return OutcomeError, ErrUnexpectedResponse
	}
	if c.tummy.push(TummyEntry{Number: n, Fact: *res.Fact}) {
		return OutcomeBurp, nil
	}
	return OutcomeYum, nil
}

// Tummy returns the retained facts, oldest first. The slice is a copy.
func (c *Cruncher) Tummy() []TummyEntry {
	return c.tummy.snapshot()
}

func (c *Cruncher) MaxLen() int {
	return c.maxlen
}
