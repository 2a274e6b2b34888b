package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/abgdnv/catalog/pkg/config"
	"github.com/abgdnv/catalog/pkg/messaging"
	"github.com/abgdnv/catalog/pkg/messaging/events"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"golang.org/x/sync/errgroup"
)

// EventHandler processes one decoded product event. Returning an error redelivers the message.
type EventHandler func(ctx context.Context, event messaging.Event) error

// ackableMsg is the part of jetstream.Msg the subscriber uses.
type ackableMsg interface {
	Subject() string
	Data() []byte
	Ack() error
	Nak() error
	Term() error
}

// Subscribe creates the consumer and runs cfg.Workers fetch loops until ctx is cancelled.
func Subscribe(ctx context.Context, js jetstream.JetStream, cfg config.SubscriberConfig, handler EventHandler, logger *slog.Logger) error {
	consumer, err := js.CreateOrUpdateConsumer(ctx, cfg.Stream, jetstream.ConsumerConfig{
		Durable:       cfg.Consumer,
		FilterSubject: cfg.Subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer on stream %s: %w", cfg.Stream, err)
	}
	g, gCtx := errgroup.WithContext(ctx)
	for range cfg.Workers {
		g.Go(func() error {
			return runWorker(gCtx, consumer, cfg.Timeout, cfg.Interval, handler, logger)
		})
	}
	return g.Wait()
}

// runWorker fetches messages one at a time and hands them to handler.
func runWorker(ctx context.Context, consumer jetstream.Consumer, timeout, interval time.Duration, handler EventHandler, logger *slog.Logger) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			batch, err := consumer.Fetch(1, jetstream.FetchMaxWait(timeout))
			if err != nil {
				if errors.Is(err, nats.ErrTimeout) {
					continue
				}
				logger.ErrorContext(ctx, "failed to fetch messages", "error", err)
				time.Sleep(interval)
				continue
			}
			for msg := range batch.Messages() {
				handleMessage(ctx, msg, handler, logger)
			}
		}
	}
}

func handleMessage(ctx context.Context, msg ackableMsg, handler EventHandler, logger *slog.Logger) {
	if msg == nil {
		logger.Error("received nil message")
		return
	}
	event, carrier, err := DecodeEvent(msg.Subject(), msg.Data())
	if err != nil {
		// redelivery cannot fix a payload we do not understand
		logger.Error("failed to decode event", "error", err, "subject", msg.Subject())
		if err := msg.Term(); err != nil {
			logger.Error("failed to terminate message", "error", err)
		}
		return
	}

	ctx = otel.GetTextMapPropagator().Extract(ctx, carrier)
	if err := handler(ctx, event); err != nil {
		logger.ErrorContext(ctx, "event handler failed", "error", err, "subject", msg.Subject())
		if err := msg.Nak(); err != nil {
			logger.ErrorContext(ctx, "failed to nack message", "error", err)
		}
		return
	}
	if err := msg.Ack(); err != nil {
		logger.ErrorContext(ctx, "failed to ack message", "error", err)
	}
}

// DecodeEvent builds the product event published on subject and returns its trace carrier.
func DecodeEvent(subject string, data []byte) (messaging.Event, propagation.MapCarrier, error) {
	switch subject {
	case messaging.ProductsCreatedSubject:
		var e events.ProductCreatedEvent
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, nil, err
		}
		return e, e.Carrier, nil
	case messaging.ProductsUpdatedSubject:
		var e events.ProductUpdatedEvent
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, nil, err
		}
		return e, e.Carrier, nil
	case messaging.ProductsDeletedSubject:
		var e events.ProductDeletedEvent
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, nil, err
		}
		return e, e.Carrier, nil
	default:
		return nil, nil, fmt.Errorf("unknown event subject %q", subject)
	}
}
