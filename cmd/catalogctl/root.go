package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/abgdnv/catalog/pkg/bootstrap"
	"github.com/abgdnv/catalog/pkg/catalogclient"
	"github.com/abgdnv/catalog/pkg/config"
	"github.com/spf13/cobra"
)

const (
	transportHTTP = "http"
	transportGRPC = "grpc"
)

// cli holds the global flags and the cache built from them.
type cli struct {
	out       io.Writer
	server    string
	transport string
	grpcAddr  string
	timeout   time.Duration
	logLevel  string

	logger  *slog.Logger
	cache   *catalogclient.Cache
	closeFn func()
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{out: out}

	root := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Manage products in the catalog service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.connect()
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			c.close()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.server, "server", "http://localhost:5000", "catalog REST base URL")
	flags.StringVar(&c.transport, "transport", transportHTTP, "transport to use: http or grpc")
	flags.StringVar(&c.grpcAddr, "grpc-addr", config.DefaultCatalogGrpcAddr, "catalog gRPC address")
	flags.DurationVar(&c.timeout, "timeout", config.DefaultCatalogGrpcTimeout, "per-request timeout")
	flags.StringVar(&c.logLevel, "log-level", "error", "log level for diagnostics written to stderr")

	root.AddCommand(
		newListCmd(c),
		newCreateCmd(c),
		newUpdateCmd(c),
		newDeleteCmd(c),
		newImportCmd(c),
		newWatchCmd(c),
	)
	return root
}

func (c *cli) connect() error {
	c.logger = bootstrap.NewLoggerTo(os.Stderr, c.logLevel)

	var api catalogclient.ProductAPI
	switch c.transport {
	case transportHTTP:
		api = catalogclient.NewHTTPClient(c.server, c.timeout)
		c.closeFn = func() {}
	case transportGRPC:
		grpcClient, err := catalogclient.NewGRPCClient(
			config.GrpcClientConfig{Addr: c.grpcAddr, Timeout: c.timeout},
			config.CircuitBreakerConfig{ConsecutiveFailures: 5, ErrorRatePercent: 50, OpenTimeout: 30 * time.Second},
		)
		if err != nil {
			return err
		}
		api = grpcClient
		c.closeFn = func() { _ = grpcClient.Close() }
	default:
		return fmt.Errorf("unknown transport %q, want %s or %s", c.transport, transportHTTP, transportGRPC)
	}

	c.cache = catalogclient.NewCache(api, c.logger)
	return nil
}

func (c *cli) close() {
	if c.cache != nil {
		c.cache.Close()
	}
	if c.closeFn != nil {
		c.closeFn()
	}
}

// fail turns a cache error into the message a user should see.
func (c *cli) fail(err error) error {
	c.logger.Debug("Command failed", slog.Any("error", err))
	return errors.New(catalogclient.UserMessage(err))
}
