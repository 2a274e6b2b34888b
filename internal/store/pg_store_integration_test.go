package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/abgdnv/catalog/internal/store/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const skipIntegrationTests = "CATALOG_SKIP_INTEGRATION_TESTS"

// PgStoreSuite runs the shared store behaviour against PostgreSQL in a container.
type PgStoreSuite struct {
	productStoreSuite
	pgContainer *postgres.PostgresContainer
	dbPool      *pgxpool.Pool
}

func (s *PgStoreSuite) SetupSuite() {
	ctx := context.Background()
	var err error

	s.pgContainer, err = postgres.Run(ctx,
		"postgres:17.5-alpine",
		postgres.WithDatabase("catalog"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
	)
	require.NoError(s.T(), err, "Failed to run PostgreSQL container")

	connStr, err := s.pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(s.T(), err)

	require.NoError(s.T(), migrations.Up(connStr), "Failed to apply migrations")
	require.NoError(s.T(), migrations.Up(connStr), "Re-applying migrations must be a no-op")

	s.dbPool, err = pgxpool.New(ctx, connStr)
	require.NoError(s.T(), err)
	require.NoError(s.T(), s.dbPool.Ping(ctx))

	s.newStore = func() ProductStore {
		_, err := s.dbPool.Exec(context.Background(), "TRUNCATE TABLE products")
		require.NoError(s.T(), err, "Failed to truncate products table")
		return NewPgStore(s.dbPool)
	}
}

func (s *PgStoreSuite) TearDownSuite() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := testcontainers.TerminateContainer(s.pgContainer); err != nil {
			s.T().Logf("failed to terminate PostgreSQL container: %v", err)
		}
	}
}

func TestPgStoreIntegration(t *testing.T) {
	if os.Getenv(skipIntegrationTests) == "1" {
		t.Skip("Skipping integration tests based on " + skipIntegrationTests + " env var")
	}
	suite.Run(t, new(PgStoreSuite))
}

func (s *PgStoreSuite) TestCreate_RejectsNegativePriceAtSchemaLevel() {
	_, err := s.store.Create(s.ctx, NewProduct{Name: "Bad", Price: -1, Image: "https://x.io/b.png"})
	s.Error(err)
}

// GormPgStoreSuite runs the shared store behaviour against the gorm store on PostgreSQL.
// The schema is owned by gorm's AutoMigrate, so no SQL migrations are applied.
type GormPgStoreSuite struct {
	productStoreSuite
	pgContainer *postgres.PostgresContainer
	db          *gorm.DB
}

func (s *GormPgStoreSuite) SetupSuite() {
	ctx := context.Background()
	var err error

	s.pgContainer, err = postgres.Run(ctx,
		"postgres:17.5-alpine",
		postgres.WithDatabase("catalog"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
	)
	require.NoError(s.T(), err, "Failed to run PostgreSQL container")

	connStr, err := s.pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(s.T(), err)

	s.db, err = gorm.Open(gormpostgres.Open(connStr), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(s.T(), err)

	s.newStore = func() ProductStore {
		gormStore, err := NewGormStore(s.db)
		require.NoError(s.T(), err)
		require.NoError(s.T(), s.db.Exec("TRUNCATE TABLE products").Error, "Failed to truncate products table")
		return gormStore
	}
}

func (s *GormPgStoreSuite) TearDownSuite() {
	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if s.pgContainer != nil {
		if err := testcontainers.TerminateContainer(s.pgContainer); err != nil {
			s.T().Logf("failed to terminate PostgreSQL container: %v", err)
		}
	}
}

func TestGormPgStoreIntegration(t *testing.T) {
	if os.Getenv(skipIntegrationTests) == "1" {
		t.Skip("Skipping integration tests based on " + skipIntegrationTests + " env var")
	}
	suite.Run(t, new(GormPgStoreSuite))
}
