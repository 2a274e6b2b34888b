package config

import (
	"fmt"
	"strings"
	"time"
)

// SubscriberConfig configures a JetStream pull consumer of product events.
type SubscriberConfig struct {
	Stream   string        `koanf:"stream"`
	Subject  string        `koanf:"subject"`
	Consumer string        `koanf:"consumer"`
	Workers  int           `koanf:"workers"`
	Timeout  time.Duration `koanf:"timeout"`
	Interval time.Duration `koanf:"interval"`
}

// String returns a string representation of the subscriber configuration.
func (c *SubscriberConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Subscriber ---\n")
	b.WriteString(fmt.Sprintf("  stream: %s\n", c.Stream))
	b.WriteString(fmt.Sprintf("  subject: %s\n", c.Subject))
	b.WriteString(fmt.Sprintf("  consumer: %s\n", c.Consumer))
	b.WriteString(fmt.Sprintf("  workers: %d\n", c.Workers))
	b.WriteString(fmt.Sprintf("  timeout: %s\n", c.Timeout))
	b.WriteString(fmt.Sprintf("  interval: %s\n", c.Interval))
	return b.String()
}

// Validate allows an empty Consumer, which means an ephemeral consumer.
func (c *SubscriberConfig) Validate() error {
	if c.Stream == "" {
		return fmt.Errorf("subscriber stream is not configured")
	}
	if c.Subject == "" {
		return fmt.Errorf("subscriber subject is not configured")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("subscriber workers must be greater than 0")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("subscriber fetch timeout is not configured")
	}
	if c.Interval <= 0 {
		return fmt.Errorf("subscriber retry interval is not configured")
	}
	return nil
}
