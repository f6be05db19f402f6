package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrunchEvent_JSON(t *testing.T) {
	n := int64(42)
	fact := "42 is the meaning of life."
	code := 404
	msg := "Unexpected error"
	tests := []struct {
		name string
		in   CrunchEvent
		want string
	}{
		{
			name: "yum",
			in:   CrunchEvent{EnvelopeVersion: EnvelopeVersion, Type: TypeCrunch, RequestNumber: 1, CallTime: "2024-05-02T16:45:01", Outcome: OutcomeYum, Status: "Yum! 42", Number: &n, Fact: &fact},
			want: `{"envelopeVersion":"1.0","type":"crunch-result","requestNumber":1,"callTime":"2024-05-02T16:45:01","outcome":"Yum","status":"Yum! 42","number":42,"fact":"42 is the meaning of life."}`,
		},
		{
			name: "error",
			in:   CrunchEvent{EnvelopeVersion: EnvelopeVersion, Type: TypeCrunch, RequestNumber: 2, Outcome: OutcomeError, ErrorCode: &code, ErrorMessage: &msg},
			want: `{"envelopeVersion":"1.0","type":"crunch-result","requestNumber":2,"outcome":"Error","errorCode":404,"errorMessage":"Unexpected error"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.in)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(b))
		})
	}
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.PublishEvent(context.Background(), &CrunchEvent{}))
}
