package events

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// PubSubPublisher sends events to a single Google Pub/Sub topic. The event
// name is also set as the "event" attribute so subscriptions can filter on it.
type PubSubPublisher struct {
	client *pubsub.Client
	topic  *pubsub.Topic
}

func NewPubSubPublisher(ctx context.Context, projectID, topicID, emulatorHost string) (*PubSubPublisher, error) {
	if projectID == "" || topicID == "" {
		return nil, fmt.Errorf("GCP project ID and topic are required")
	}

	var opts []option.ClientOption
	if emulatorHost != "" {
		opts = append(opts, option.WithEndpoint(emulatorHost), option.WithoutAuthentication())
	}

	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Pub/Sub client: %w", err)
	}

	return &PubSubPublisher{client: client, topic: client.Topic(topicID)}, nil
}

func (p *PubSubPublisher) Publish(ctx context.Context, event Event, payload any) error {
	data, err := encode(event, payload, time.Now())
	if err != nil {
		return err
	}

	result := p.topic.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: map[string]string{"event": string(event)},
	})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("failed to publish %s to topic %s: %w", event, p.topic.ID(), err)
	}
	return nil
}

func (p *PubSubPublisher) Close() error {
	p.topic.Stop()
	return p.client.Close()
}
