package runner

import (
	"context"
	"sync/atomic"
	"time"

	"numbers-cruncher/cruncher"
	"numbers-cruncher/events"
	"numbers-cruncher/numbers"

	"github.com/rs/zerolog/log"
)

type Cruncher interface {
	CrunchReport(ctx context.Context) (cruncher.Report, error)
}

// Recorder exposes the requester's most recent log entry.
type Recorder interface {
	LastEntry() (numbers.LogEntry, bool)
}

// Runner drives a cruncher one crunch at a time and announces each outcome.
type Runner struct {
	cruncher  Cruncher
	recorder  Recorder
	publisher events.Publisher
	ready     atomic.Bool
}

func New(c Cruncher, rec Recorder, p events.Publisher) *Runner {
	if p == nil {
		p = events.NopPublisher{}
	}
	return &Runner{cruncher: c, recorder: rec, publisher: p}
}

// Ready reports whether at least one crunch has completed.
func (r *Runner) Ready() bool {
	return r.ready.Load()
}

// Run crunches count times, or until ctx is done when count is 0, pausing
// interval between crunches. Crunch and publish failures are logged and do
// not stop the loop.
func (r *Runner) Run(ctx context.Context, count int, interval time.Duration) error {
	log.Info().Int("count", count).Dur("interval", interval).Msg("runner: starting")
	for i := 0; count == 0 || i < count; i++ {
		if ctx.Err() != nil {
			break
		}
		r.Step(ctx)
		if count != 0 && i == count-1 {
			break
		}
		select {
		case <-ctx.Done():
		case <-time.After(interval):
		}
	}
	log.Info().Msg("runner: stopped")
	return nil
}

// Step performs a single crunch and publishes its event.
func (r *Runner) Step(ctx context.Context) *events.CrunchEvent {
	rep, err := r.cruncher.CrunchReport(ctx)
	r.ready.Store(true)

	ev := r.buildEvent(rep, err)
	if err != nil {
		log.Error().Err(err).Int("requestNumber", ev.RequestNumber).Msg("runner: crunch failed")
	} else {
		log.Info().Int("requestNumber", ev.RequestNumber).Str("outcome", string(ev.Outcome)).Msg(rep.Status)
	}

	if perr := r.publisher.PublishEvent(ctx, ev); perr != nil {
		log.Error().Err(perr).Int("requestNumber", ev.RequestNumber).Msg("runner: failed to publish crunch event")
	}
	return ev
}

func (r *Runner) buildEvent(rep cruncher.Report, err error) *events.CrunchEvent {
	ev := &events.CrunchEvent{
		EnvelopeVersion: events.EnvelopeVersion,
		Type:            events.TypeCrunch,
		Outcome:         rep.Outcome,
		Status:          rep.Status,
	}
	if r.recorder != nil {
		if entry, ok := r.recorder.LastEntry(); ok {
			ev.RequestNumber = entry.RequestNumber
			ev.CallTime = entry.CallTime.String()
		}
	}
	if res := rep.Result; res != nil {
		ev.Number = res.Number
		ev.Fact = res.Fact
		ev.ErrorCode = res.ErrorCode
	}
	if err != nil {
		ev.Outcome = events.OutcomeError
		msg := err.Error()
		ev.ErrorMessage = &msg
	}
	return ev
}
