// Package messaging defines the events the catalog emits and the publisher abstraction they go through.
package messaging

import (
	"context"
)

// Subjects of product lifecycle events.
const (
	ProductsSubjectPrefix  = "catalog.products"
	ProductsCreatedSubject = ProductsSubjectPrefix + ".created"
	ProductsUpdatedSubject = ProductsSubjectPrefix + ".updated"
	ProductsDeletedSubject = ProductsSubjectPrefix + ".deleted"
	// ProductsWildcardSubject matches every product event.
	ProductsWildcardSubject = ProductsSubjectPrefix + ".>"
)

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
