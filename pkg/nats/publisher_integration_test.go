package nats

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/abgdnv/catalog/pkg/config"
	"github.com/abgdnv/catalog/pkg/messaging"
	"github.com/abgdnv/catalog/pkg/messaging/events"
	"github.com/google/uuid"
	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/nats"
)

// skipIntegrationTests is the environment variable that controls whether to skip integration tests.
const skipIntegrationTests = "CATALOG_SKIP_INTEGRATION_TESTS"
const natsImg = "nats:2.11.6-alpine"

type PublisherSuite struct {
	suite.Suite
	ctx           context.Context
	natsContainer *nats.NATSContainer
	nc            *natsgo.Conn
	js            jetstream.JetStream
}

func (s *PublisherSuite) SetupSuite() {
	s.ctx = context.Background()

	var err error
	s.natsContainer, err = nats.Run(s.ctx, natsImg)
	require.NoError(s.T(), err, "Failed to run NATS container")

	natsURL, err := s.natsContainer.ConnectionString(s.ctx)
	require.NoError(s.T(), err)

	s.nc, err = NewClient(natsURL, 5*time.Second)
	require.NoError(s.T(), err)

	s.js, err = NewJetStreamContext(s.nc)
	require.NoError(s.T(), err)
}

func (s *PublisherSuite) TearDownSuite() {
	if s.nc != nil {
		s.nc.Close()
	}
	if err := testcontainers.TerminateContainer(s.natsContainer); err != nil {
		s.T().Logf("Failed to terminate NATS container: %v", err)
	}
}

func TestPublisherIntegration(t *testing.T) {
	if os.Getenv(skipIntegrationTests) == "1" {
		t.Skip("Skipping integration tests based on " + skipIntegrationTests + " env var")
	}
	suite.Run(t, new(PublisherSuite))
}

func (s *PublisherSuite) TestEnsureStream_Idempotent() {
	name := "CATALOG_IDEMPOTENT"

	_, err := EnsureStream(s.ctx, s.js, name)
	s.Require().NoError(err)
	stream, err := EnsureStream(s.ctx, s.js, name)
	s.Require().NoError(err)

	info, err := stream.Info(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{messaging.ProductsWildcardSubject}, info.Config.Subjects)
	s.Require().NoError(s.js.DeleteStream(s.ctx, name))
}

func (s *PublisherSuite) TestPublish_ProductEvents() {
	// given
	stream, err := EnsureStream(s.ctx, s.js, "CATALOG")
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = s.js.DeleteStream(s.ctx, "CATALOG") })
	publisher := NewNatsPublisher(s.js, "CATALOG")
	id := uuid.New()
	now := time.Now().UTC()

	// when
	s.Require().NoError(publisher.Publish(s.ctx, events.ProductCreatedEvent{ProductID: id, Name: "Lamp", Price: 10, CreatedAt: now}))
	s.Require().NoError(publisher.Publish(s.ctx, events.ProductUpdatedEvent{ProductID: id, Name: "Lamp", Price: 12, UpdatedAt: now}))
	s.Require().NoError(publisher.Publish(s.ctx, events.ProductDeletedEvent{ProductID: id, DeletedAt: now}))

	// then
	info, err := stream.Info(s.ctx)
	s.Require().NoError(err)
	s.Equal(uint64(3), info.State.Msgs)

	msg, err := stream.GetLastMsgForSubject(s.ctx, messaging.ProductsUpdatedSubject)
	s.Require().NoError(err)
	var updated events.ProductUpdatedEvent
	s.Require().NoError(json.Unmarshal(msg.Data, &updated))
	s.Equal(id, updated.ProductID)
	s.Equal(12.0, updated.Price)
}

func (s *PublisherSuite) TestPublish_RejectedByUnexpectedStream() {
	// given
	stream, err := EnsureStream(s.ctx, s.js, "CATALOG_OTHER")
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = s.js.DeleteStream(s.ctx, "CATALOG_OTHER") })
	publisher := NewNatsPublisher(s.js, "CATALOG")

	// when
	err = publisher.Publish(s.ctx, events.ProductDeletedEvent{ProductID: uuid.New(), DeletedAt: time.Now()})

	// then
	s.Error(err)
	info, err := stream.Info(s.ctx)
	s.Require().NoError(err)
	s.Zero(info.State.Msgs)
}

func (s *PublisherSuite) TestPublish_NoStreamForSubject() {
	publisher := NewNatsPublisher(s.js, "CATALOG")

	ctx, cancel := context.WithTimeout(s.ctx, 2*time.Second)
	defer cancel()
	err := publisher.Publish(ctx, events.ProductDeletedEvent{ProductID: uuid.New(), DeletedAt: time.Now()})

	s.Error(err)
}

func (s *PublisherSuite) TestSubscribe_ReceivesPublishedEvents() {
	// given
	_, err := EnsureStream(s.ctx, s.js, "CATALOG_SUB")
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = s.js.DeleteStream(s.ctx, "CATALOG_SUB") })
	publisher := NewNatsPublisher(s.js, "CATALOG_SUB")
	id := uuid.New()
	s.Require().NoError(publisher.Publish(s.ctx, events.ProductCreatedEvent{ProductID: id, Name: "Lamp", Price: 10, CreatedAt: time.Now()}))
	s.Require().NoError(publisher.Publish(s.ctx, events.ProductDeletedEvent{ProductID: id, DeletedAt: time.Now()}))

	received := make(chan messaging.Event, 2)
	ctx, cancel := context.WithTimeout(s.ctx, 30*time.Second)
	defer cancel()
	cfg := config.SubscriberConfig{
		Stream:   "CATALOG_SUB",
		Subject:  messaging.ProductsWildcardSubject,
		Consumer: "catalog-test",
		Workers:  1,
		Timeout:  time.Second,
		Interval: 100 * time.Millisecond,
	}

	// when
	done := make(chan error, 1)
	go func() {
		done <- Subscribe(ctx, s.js, cfg, func(_ context.Context, event messaging.Event) error {
			received <- event
			return nil
		}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	}()

	// then
	first, second := <-received, <-received
	s.Equal(messaging.ProductsCreatedSubject, first.Subject())
	s.Equal(id, first.(events.ProductCreatedEvent).ProductID)
	s.Equal(messaging.ProductsDeletedSubject, second.Subject())
	cancel()
	s.ErrorIs(<-done, context.Canceled)
}
