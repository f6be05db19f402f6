package pubsub

import (
	"context"
	"encoding/json"

	"numbers-cruncher/events"

	gpubsub "cloud.google.com/go/pubsub"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// Publisher sends crunch events to a Pub/Sub topic. The client is created on
// first use.
type Publisher struct {
	projectID string
	topicName string
	credsFile string
	client    *gpubsub.Client
	topic     *gpubsub.Topic
}

func NewPublisher(projectID, topicName, credsFile string) *Publisher {
	return &Publisher{projectID: projectID, topicName: topicName, credsFile: credsFile}
}

func (p *Publisher) connect(ctx context.Context) error {
	var opts []option.ClientOption
	if p.credsFile != "" {
		log.Debug().Str("projectID", p.projectID).Str("topic", p.topicName).Str("credsFile", p.credsFile).Msg("initializing pubsub publisher with explicit credentials")
		opts = append(opts, option.WithCredentialsFile(p.credsFile))
	} else {
		log.Debug().Str("projectID", p.projectID).Str("topic", p.topicName).Msg("initializing pubsub publisher with default credentials")
	}
	client, err := gpubsub.NewClient(ctx, p.projectID, opts...)
	if err != nil {
		return errors.Wrapf(err, "create pubsub client for project %s", p.projectID)
	}
	p.client = client
	p.topic = client.Topic(p.topicName)
	log.Info().Str("topic", p.topicName).Msg("pubsub publisher initialized")
	return nil
}

func (p *Publisher) PublishEvent(ctx context.Context, ev *events.CrunchEvent) error {
	if p.client == nil {
		if err := p.connect(ctx); err != nil {
			log.Error().Err(err).Str("topic", p.topicName).Msg("failed to create pubsub client for publisher")
			return err
		}
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, "marshal crunch event")
	}
	// Publish and wait for server ack
	id, err := p.topic.Publish(ctx, &gpubsub.Message{Data: b}).Get(ctx)
	if err != nil {
		log.Error().Err(err).Int("requestNumber", ev.RequestNumber).Msg("failed to publish crunch event")
		return errors.Wrapf(err, "publish to %s", p.topicName)
	}
	log.Debug().Str("messageID", id).Int("requestNumber", ev.RequestNumber).Str("outcome", string(ev.Outcome)).Msg("published crunch event")
	return nil
}

// Close stops the topic's background publishing and releases the client.
func (p *Publisher) Close() error {
	if p.client == nil {
		return nil
	}
	p.topic.Stop()
	return p.client.Close()
}
