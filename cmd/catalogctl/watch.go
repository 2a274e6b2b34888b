package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/abgdnv/catalog/pkg/config"
	"github.com/abgdnv/catalog/pkg/messaging"
	"github.com/abgdnv/catalog/pkg/messaging/events"
	natsclient "github.com/abgdnv/catalog/pkg/nats"
	"github.com/spf13/cobra"
)

func newWatchCmd(c *cli) *cobra.Command {
	var natsURL string
	cfg := config.SubscriberConfig{
		Subject:  messaging.ProductsWildcardSubject,
		Workers:  1,
		Timeout:  5 * time.Second,
		Interval: time.Second,
	}
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print product events as the service publishes them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			nc, err := natsclient.NewClient(natsURL, c.timeout)
			if err != nil {
				return err
			}
			defer nc.Close()
			js, err := natsclient.NewJetStreamContext(nc)
			if err != nil {
				return err
			}

			err = natsclient.Subscribe(ctx, js, cfg, func(_ context.Context, event messaging.Event) error {
				_, err := fmt.Fprintln(c.out, describeEvent(event))
				return err
			}, c.logger)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&natsURL, "nats-url", "nats://localhost:4222", "NATS server URL")
	cmd.Flags().StringVar(&cfg.Stream, "stream", "CATALOG", "JetStream stream holding product events")
	cmd.Flags().StringVar(&cfg.Consumer, "consumer", "", "durable consumer name; empty for an ephemeral consumer")
	return cmd
}

func describeEvent(event messaging.Event) string {
	switch e := event.(type) {
	case events.ProductCreatedEvent:
		return fmt.Sprintf("%s  created  %s  %s  %.2f", e.CreatedAt.Format(time.RFC3339), e.ProductID, e.Name, e.Price)
	case events.ProductUpdatedEvent:
		return fmt.Sprintf("%s  updated  %s  %s  %.2f", e.UpdatedAt.Format(time.RFC3339), e.ProductID, e.Name, e.Price)
	case events.ProductDeletedEvent:
		return fmt.Sprintf("%s  deleted  %s", e.DeletedAt.Format(time.RFC3339), e.ProductID)
	default:
		return event.Subject()
	}
}
