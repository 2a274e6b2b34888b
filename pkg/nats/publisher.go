package nats

import (
	"context"
	"fmt"

	"github.com/abgdnv/catalog/pkg/messaging"
	"github.com/nats-io/nats.go/jetstream"
)

// NatsPublisher publishes product events to the catalog stream and waits for its acknowledgement.
// A publish that lands in any other stream is rejected by the server.
type NatsPublisher struct {
	js     jetstream.JetStream
	stream string
}

func NewNatsPublisher(js jetstream.JetStream, stream string) *NatsPublisher {
	return &NatsPublisher{js: js, stream: stream}
}

func (p *NatsPublisher) Publish(ctx context.Context, event messaging.Event) error {
	data, err := event.Payload()
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", event.Subject(), err)
	}
	ack, err := p.js.Publish(ctx, event.Subject(), data, jetstream.WithExpectStream(p.stream))
	if err != nil {
		return fmt.Errorf("failed to publish %s to stream %s: %w", event.Subject(), p.stream, err)
	}
	if ack.Duplicate {
		return fmt.Errorf("stream %s reported %s as a duplicate", p.stream, event.Subject())
	}
	return nil
}
