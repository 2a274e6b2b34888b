// Package app contains the application setup for the catalog service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abgdnv/catalog/internal/config"
	"github.com/abgdnv/catalog/internal/service"
	"github.com/abgdnv/catalog/internal/store"
	"github.com/abgdnv/catalog/internal/store/migrations"
	grpcImpl "github.com/abgdnv/catalog/internal/transport/grpc"
	"github.com/abgdnv/catalog/internal/transport/rest"
	catalogv1 "github.com/abgdnv/catalog/pkg/api/catalog/v1"
	"github.com/abgdnv/catalog/pkg/bootstrap"
	pkgconfig "github.com/abgdnv/catalog/pkg/config"
	"github.com/abgdnv/catalog/pkg/messaging"
	natsclient "github.com/abgdnv/catalog/pkg/nats"
	"github.com/abgdnv/catalog/pkg/server"
	"github.com/go-chi/chi/v5"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	"gorm.io/gorm"
)

const ServiceName = "catalog"

type Dependencies struct {
	ProductService service.ProductService
	Logger         *slog.Logger
	MetricsEnabled bool
}

func SetupDependencies(repo store.ProductStore, publisher messaging.Publisher, logger *slog.Logger) *Dependencies {
	return &Dependencies{
		ProductService: service.NewService(repo, publisher, logger),
		Logger:         logger,
	}
}

// NewStore opens the product store selected by cfg.Store.Driver. The returned func releases it.
func NewStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.ProductStore, func(), error) {
	switch cfg.Store.Driver {
	case pkgconfig.StoreDriverPostgres:
		if cfg.Database.Migrate {
			if err := migrations.Up(cfg.Database.URL); err != nil {
				return nil, nil, err
			}
			logger.Info("Database migrations applied")
		}
		dbPool, err := bootstrap.NewDbPool(ctx, cfg.Database.URL, cfg.Database.Timeout)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Successfully connected to the database!")
		return store.NewPgStore(dbPool), dbPool.Close, nil

	case pkgconfig.StoreDriverGormPostgres:
		db, err := bootstrap.NewGormPostgresDB(ctx, cfg.Database.URL, cfg.Database.Timeout)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using gorm store on postgres")
		return newGormStore(db)

	case pkgconfig.StoreDriverSQLite:
		db, err := bootstrap.NewSQLiteDB(cfg.Store.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using sqlite store", slog.String("path", cfg.Store.SQLite.Path))
		return newGormStore(db)

	case pkgconfig.StoreDriverMemory:
		logger.Warn("Using in-memory store, data is lost on restart")
		return store.NewInMemoryStore(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unsupported store driver: %q", cfg.Store.Driver)
	}
}

// newGormStore migrates the gorm schema; the returned cleanup closes the handle.
func newGormStore(db *gorm.DB) (store.ProductStore, func(), error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	gormStore, err := store.NewGormStore(db)
	if err != nil {
		_ = sqlDB.Close()
		return nil, nil, err
	}
	return gormStore, func() { _ = sqlDB.Close() }, nil
}

// NewPublisher connects to NATS JetStream when enabled; otherwise events are dropped.
func NewPublisher(ctx context.Context, cfg pkgconfig.NATSConfig, logger *slog.Logger) (messaging.Publisher, func(), error) {
	if !cfg.Enabled {
		return messaging.NopPublisher{}, func() {}, nil
	}
	nc, err := natsclient.NewClient(cfg.Url, cfg.Timeout)
	if err != nil {
		return nil, nil, err
	}
	return newStreamPublisher(ctx, nc, cfg.Stream, logger)
}

// newStreamPublisher takes ownership of nc: it is closed on error and drained by the returned cleanup.
func newStreamPublisher(ctx context.Context, nc *nats.Conn, stream string, logger *slog.Logger) (messaging.Publisher, func(), error) {
	js, err := natsclient.NewJetStreamContext(nc)
	if err != nil {
		nc.Close()
		return nil, nil, err
	}
	if _, err := natsclient.EnsureStream(ctx, js, stream); err != nil {
		nc.Close()
		return nil, nil, err
	}
	logger.Info("Publishing product events", slog.String("stream", stream))
	return natsclient.NewNatsPublisher(js, stream), func() {
		if err := nc.Drain(); err != nil {
			logger.Error("Failed to drain NATS connection", slog.Any("error", err))
		}
	}, nil
}

// SetupHttpHandler initializes the HTTP routes for the catalog service.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes for the catalog service.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	if deps.MetricsEnabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	productHandler := rest.NewHandler(deps.ProductService, deps.Logger)
	productHandler.RegisterRoutes(mux)
}

// SetupHttpServer creates and configures an HTTP server for the catalog service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	return server.NewHTTPServer(ServiceName, cfg.HTTPServer, SetupHttpHandler(deps))
}

// SetupGrpcServer initializes the gRPC server for the catalog service.
func SetupGrpcServer(deps *Dependencies, reflectionEnabled bool) *grpc.Server {
	catalogRegisterFunc := func(s *grpc.Server) {
		catalogv1.RegisterCatalogServiceServer(s, grpcImpl.NewServer(deps.ProductService, deps.Logger))
	}
	return server.NewGRPCServer(deps.Logger, reflectionEnabled, catalogRegisterFunc)
}
