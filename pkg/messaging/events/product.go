package events

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/catalog/pkg/messaging"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/propagation"
)

// Product events carry the publisher's trace context in Carrier so consumers can continue the trace.

type ProductCreatedEvent struct {
	Carrier   propagation.MapCarrier `json:"carrier,omitempty"`
	ProductID uuid.UUID              `json:"product_id"`
	Name      string                 `json:"name"`
	Price     float64                `json:"price"`
	CreatedAt time.Time              `json:"created_at"`
}

func (e ProductCreatedEvent) Subject() string {
	return messaging.ProductsCreatedSubject
}

func (e ProductCreatedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

type ProductUpdatedEvent struct {
	Carrier   propagation.MapCarrier `json:"carrier,omitempty"`
	ProductID uuid.UUID              `json:"product_id"`
	Name      string                 `json:"name"`
	Price     float64                `json:"price"`
	UpdatedAt time.Time              `json:"updated_at"`
}

func (e ProductUpdatedEvent) Subject() string {
	return messaging.ProductsUpdatedSubject
}

func (e ProductUpdatedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

type ProductDeletedEvent struct {
	Carrier   propagation.MapCarrier `json:"carrier,omitempty"`
	ProductID uuid.UUID              `json:"product_id"`
	DeletedAt time.Time              `json:"deleted_at"`
}

func (e ProductDeletedEvent) Subject() string {
	return messaging.ProductsDeletedSubject
}

func (e ProductDeletedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
