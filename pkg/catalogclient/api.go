// Package catalogclient keeps a local mirror of the product catalog and talks to the catalog service over REST or gRPC.
package catalogclient

import (
	"context"
	"errors"
	"fmt"

	catalogv1 "github.com/abgdnv/catalog/pkg/api/catalog/v1"
)

type (
	Product   = catalogv1.Product
	Details   = catalogv1.ProductDetails
	Candidate = catalogv1.ProductInput
	Patch     = catalogv1.ProductPatch
)

// Fallback messages shown when the server did not supply one.
const (
	MsgFillAllFields = "Please fill in all fields."
	MsgAPIError      = "API error occurred."
	MsgNetworkError  = "Network or server error"
)

// ErrClosed is returned by operations started after Close.
var ErrClosed = errors.New("catalog cache is closed")

// ProductAPI is the remote side of the cache.
type ProductAPI interface {
	List(ctx context.Context) ([]Product, error)
	Create(ctx context.Context, candidate Candidate) (*Product, error)
	Update(ctx context.Context, id string, patch Patch) (*Product, error)
	Delete(ctx context.Context, id string) error
}

// APIError is a failure reported by the catalog service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("catalog api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("catalog api: status %d: %s", e.StatusCode, e.Message)
}

// ValidationError is returned when a candidate fails the local pre-check. No request is sent.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return MsgFillAllFields
}

// UserMessage picks the text to show for a failed operation.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return MsgFillAllFields
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return MsgAPIError
	}
	return MsgNetworkError
}
