package events

import (
	"context"

	"numbers-cruncher/cruncher"
)

const (
	EnvelopeVersion = "1.0"
	TypeCrunch      = "crunch-result"
)

type Outcome = cruncher.Outcome

const (
	OutcomeYum   = cruncher.OutcomeYum
	OutcomeBurp  = cruncher.OutcomeBurp
	OutcomeYuk   = cruncher.OutcomeYuk
	OutcomeError = cruncher.OutcomeError
)

// CrunchEvent announces the outcome of one crunch.
type CrunchEvent struct {
	EnvelopeVersion string  `json:"envelopeVersion"`
	Type            string  `json:"type"`
	RequestNumber   int     `json:"requestNumber,omitempty"`
	CallTime        string  `json:"callTime,omitempty"`
	Outcome         Outcome `json:"outcome"`
	Status          string  `json:"status,omitempty"`
	Number          *int64  `json:"number,omitempty"`
	Fact            *string `json:"fact,omitempty"`
	ErrorCode       *int    `json:"errorCode,omitempty"`
	ErrorMessage    *string `json:"errorMessage,omitempty"`
}

type Publisher interface {
	PublishEvent(ctx context.Context, ev *CrunchEvent) error
}

// NopPublisher drops every event. Used when no topic is configured.
type NopPublisher struct{}

func (NopPublisher) PublishEvent(context.Context, *CrunchEvent) error { return nil }
