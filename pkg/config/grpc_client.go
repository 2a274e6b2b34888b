package config

import (
	"fmt"
	"strings"
	"time"
)

// Defaults used by catalog clients that dial the gRPC API.
const (
	DefaultCatalogGrpcAddr    = "localhost:50051"
	DefaultCatalogGrpcTimeout = 10 * time.Second
)

// GrpcClientConfig is how a client reaches the catalog gRPC service.
// Timeout bounds each unary call; Addr is any target grpc.NewClient accepts.
type GrpcClientConfig struct {
	Addr    string        `koanf:"addr"`
	Timeout time.Duration `koanf:"timeout"`
}

// String returns a string representation of the gRPC client configuration.
func (c *GrpcClientConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Catalog gRPC Client ---\n")
	b.WriteString(fmt.Sprintf("  addr: %s\n", c.Addr))
	b.WriteString(fmt.Sprintf("  timeout: %s\n", c.Timeout))
	return b.String()
}

func (c *GrpcClientConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("catalog gRPC address is not configured")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("catalog gRPC timeout is not configured")
	}
	return nil
}
