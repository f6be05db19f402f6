package numbers

import (
	"encoding/json"
	"time"
)

// Endpoint is the Numbers API route every request is made against.
const Endpoint = "http://numbersapi.com/random/math"

type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusFailure Status = "FAILURE"
)

// Result is the normalized outcome of a single call to the Numbers API.
// Number and Fact are only set on success, ErrorCode only on failure.
type Result struct {
	Result    Status  `json:"result"`
	Number    *int64  `json:"number,omitempty"`
	Fact      *string `json:"fact,omitempty"`
	ErrorCode *int    `json:"error_code,omitempty"`
}

func Success(number int64, fact string) *Result {
	return &Result{Result: StatusSuccess, Number: &number, Fact: &fact}
}

func Failure(code int) *Result {
	return &Result{Result: StatusFailure, ErrorCode: &code}
}

// LogEntry records one outbound request. Entries are never modified once appended.
type LogEntry struct {
	RequestNumber int      `json:"request_number"`
	CallTime      CallTime `json:"call_time"`
	EndPoint      string   `json:"end_point"`
	Result        Status   `json:"result"`
	Number        *int64   `json:"number,omitempty"`
}

// clone returns a copy that shares no memory with e.
func (e LogEntry) clone() LogEntry {
	if e.Number != nil {
		n := *e.Number
		e.Number = &n
	}
	return e
}

// CallTime is a wall clock timestamp rendered as a zone-less ISO-8601 string,
// with microseconds only when they are non-zero.
type CallTime time.Time

const (
	callTimeLayout      = "2006-01-02T15:04:05"
	callTimeMicroLayout = "2006-01-02T15:04:05.000000"
)

func (c CallTime) String() string {
	t := time.Time(c)
	if t.Nanosecond()/int(time.Microsecond) == 0 {
		return t.Format(callTimeLayout)
	}
	return t.Format(callTimeMicroLayout)
}

func (c CallTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *CallTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := time.Parse(callTimeLayout, s)
	if err != nil {
		return err
	}
	*c = CallTime(t)
	return nil
}
