package nats

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/abgdnv/catalog/pkg/messaging"
	"github.com/abgdnv/catalog/pkg/messaging/events"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAckableMsg struct {
	mock.Mock
}

func (m *mockAckableMsg) Subject() string {
	args := m.Called()
	return args.String(0)
}

func (m *mockAckableMsg) Data() []byte {
	args := m.Called()
	return args.Get(0).([]byte)
}

func (m *mockAckableMsg) Ack() error {
	args := m.Called()
	return args.Error(0)
}

func (m *mockAckableMsg) Nak() error {
	args := m.Called()
	return args.Error(0)
}

func (m *mockAckableMsg) Term() error {
	args := m.Called()
	return args.Error(0)
}

func Test_handleMessage(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	validPayload, _ := json.Marshal(&events.ProductCreatedEvent{
		ProductID: uuid.New(),
		Name:      "Lamp",
		Price:     10,
		CreatedAt: time.Now(),
	})
	testCases := []struct {
		name       string
		handlerErr error
		newMockMsg func() *mockAckableMsg
	}{
		{
			name: "valid message",
			newMockMsg: func() *mockAckableMsg {
				msg := new(mockAckableMsg)
				msg.On("Subject").Return(messaging.ProductsCreatedSubject)
				msg.On("Data").Return(validPayload).Times(1)
				msg.On("Ack").Return(nil).Times(1)
				return msg
			},
		},
		{
			name:       "handler failure is redelivered",
			handlerErr: errors.New("downstream unavailable"),
			newMockMsg: func() *mockAckableMsg {
				msg := new(mockAckableMsg)
				msg.On("Subject").Return(messaging.ProductsCreatedSubject)
				msg.On("Data").Return(validPayload).Times(1)
				msg.On("Nak").Return(nil).Times(1)
				return msg
			},
		},
		{
			name: "invalid payload is terminated",
			newMockMsg: func() *mockAckableMsg {
				msg := new(mockAckableMsg)
				msg.On("Subject").Return(messaging.ProductsCreatedSubject)
				msg.On("Data").Return([]byte("invalid data")).Times(1)
				msg.On("Term").Return(nil).Times(1)
				return msg
			},
		},
		{
			name: "unknown subject is terminated",
			newMockMsg: func() *mockAckableMsg {
				msg := new(mockAckableMsg)
				msg.On("Subject").Return("catalog.products.archived")
				msg.On("Data").Return(validPayload).Times(1)
				msg.On("Term").Return(nil).Times(1)
				return msg
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			mockMsg := tc.newMockMsg()
			handler := func(context.Context, messaging.Event) error { return tc.handlerErr }

			// when
			handleMessage(context.Background(), mockMsg, handler, logger)

			// then
			mockMsg.AssertExpectations(t)
		})
	}
}

func TestDecodeEvent(t *testing.T) {
	id := uuid.New()
	payload, err := events.ProductDeletedEvent{ProductID: id, DeletedAt: time.Now()}.Payload()
	require.NoError(t, err)

	event, _, err := DecodeEvent(messaging.ProductsDeletedSubject, payload)

	require.NoError(t, err)
	deleted, ok := event.(events.ProductDeletedEvent)
	require.True(t, ok)
	assert.Equal(t, id, deleted.ProductID)
}
