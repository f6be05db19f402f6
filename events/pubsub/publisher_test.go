package pubsub

import (
	"context"
	"encoding/json"
	"testing"

	"numbers-cruncher/events"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/pubsub/pstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func TestPublisher_PublishEvent(t *testing.T) {
	if testing.Short() {
		t.Skip("short")
	}

	// Start in-memory Pub/Sub server
	srv := pstest.NewServer()
	defer srv.Close()

	ctx := context.Background()
	conn, err := grpc.Dial(srv.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	client, err := pubsub.NewClient(ctx, "test-project", option.WithGRPCConn(conn))
	require.NoError(t, err)
	defer client.Close()

	n := int64(42)
	tests := []struct {
		name    string
		setup   func() *Publisher
		ev      *events.CrunchEvent
		wantErr bool
	}{
		{
			name: "success",
			setup: func() *Publisher {
				topic, err := client.CreateTopic(ctx, "crunches")
				require.NoError(t, err)
				return &Publisher{projectID: "test-project", topicName: "crunches", client: client, topic: topic}
			},
			ev:      &events.CrunchEvent{EnvelopeVersion: events.EnvelopeVersion, Type: events.TypeCrunch, RequestNumber: 1, Outcome: events.OutcomeYum, Number: &n},
			wantErr: false,
		},
		{
			name: "missing topic error",
			setup: func() *Publisher {
				return &Publisher{projectID: "test-project", topicName: "missing-topic", client: client, topic: client.Topic("missing-topic")}
			},
			ev:      &events.CrunchEvent{EnvelopeVersion: events.EnvelopeVersion, Type: events.TypeCrunch, RequestNumber: 2, Outcome: events.OutcomeError},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.setup()
			err := p.PublishEvent(ctx, tt.ev)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}

	msgs := srv.Messages()
	require.Len(t, msgs, 1)
	var got events.CrunchEvent
	require.NoError(t, json.Unmarshal(msgs[0].Data, &got))
	assert.Equal(t, 1, got.RequestNumber)
	assert.Equal(t, events.OutcomeYum, got.Outcome)
	require.NotNil(t, got.Number)
	assert.Equal(t, int64(42), *got.Number)
}

func TestPublisher_CloseWithoutClient(t *testing.T) {
	p := NewPublisher("p", "t", "")
	assert.NoError(t, p.Close())
}
