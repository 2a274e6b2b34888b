package config

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// DefaultShutdownTimeout is how long the catalog waits for in-flight requests when it stops.
const DefaultShutdownTimeout = 10 * time.Second

// ShutdownConfig bounds graceful shutdown. The same budget is given to each server
// (HTTP, gRPC, pprof) and to flushing telemetry.
type ShutdownConfig struct {
	Timeout time.Duration `koanf:"timeout"`
}

// Context returns a fresh context that expires after Timeout.
// It is detached from the process context, which is already cancelled when shutdown starts.
func (c *ShutdownConfig) Context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), c.Timeout)
}

// String returns a string representation of the ShutdownConfig.
func (c *ShutdownConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Shutdown ---\n")
	b.WriteString(fmt.Sprintf("  timeout: %s\n", c.Timeout))
	return b.String()
}

func (c *ShutdownConfig) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("shutdown timeout is not configured")
	}
	if c.Timeout > time.Minute {
		return fmt.Errorf("shutdown timeout %s exceeds 1m", c.Timeout)
	}
	return nil
}
