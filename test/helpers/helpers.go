// test/helpers/helpers.go
package helpers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/avelez/stockroom-be/internal/adapters/db"
	"github.com/avelez/stockroom-be/internal/core/domain"
	"github.com/avelez/stockroom-be/internal/pkg/config"
)

// TestDB represents a test database instance
type TestDB struct {
	PgxPool  *pgxpool.Pool
	Database *db.Database
	Resource *dockertest.Resource
	Pool     *dockertest.Pool
	Config   *db.Config
}

// TestRedis represents a test Redis instance
type TestRedis struct {
	Client *redis.Client
	Server *miniredis.Miniredis
}

// TestLogger returns a test logger
func TestLogger() *slog.Logger {
	if testing.Verbose() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// SetupTestDB creates a PostgreSQL container for integration tests
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err, "Could not connect to Docker")

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=test",
			"POSTGRES_PASSWORD=test",
			"POSTGRES_DB=test_stockroom",
			"listen_addresses = '*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err, "Could not start PostgreSQL container")

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("Could not purge resource: %s", err)
		}
	})

	dbConfig := &db.Config{
		Host:               "localhost",
		Port:               resource.GetPort("5432/tcp"),
		User:               "test",
		Password:           "test",
		Database:           "test_stockroom",
		SSLMode:            "disable",
		MaxConnections:     5,
		MinConnections:     1,
		MaxConnLifetime:    time.Hour,
		MaxConnIdleTime:    time.Minute * 30,
		HealthCheckPeriod:  time.Minute,
		ConnectTimeout:     time.Second * 10,
		StatementTimeout:   time.Second * 10,
		EnableQueryLogging: testing.Verbose(),
	}

	// Wait for the container to accept connections
	var database *db.Database
	err = pool.Retry(func() error {
		ctx := context.Background()
		var err error
		database, err = db.NewDatabase(ctx, dbConfig, TestLogger())
		if err != nil {
			return err
		}
		return database.Ping(ctx)
	})
	require.NoError(t, err, "Could not connect to PostgreSQL")

	ctx := context.Background()
	migrationConfig := &db.MigrationConfig{
		DatabaseURL: fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
			dbConfig.User, dbConfig.Password, dbConfig.Host, dbConfig.Port,
			dbConfig.Database, dbConfig.SSLMode),
		SourcePath: "../../migrations",
	}

	err = db.RunMigrationsWithRetry(ctx, migrationConfig, TestLogger(), 3)
	require.NoError(t, err, "Could not run migrations")

	return &TestDB{
		PgxPool:  database.Pool(),
		Database: database,
		Resource: resource,
		Pool:     pool,
		Config:   dbConfig,
	}
}

// SetupTestRedis creates a mock Redis instance for testing
func SetupTestRedis(t *testing.T) *TestRedis {
	t.Helper()

	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return &TestRedis{
		Client: client,
		Server: mr,
	}
}

// LoadTestConfig returns a test configuration
func LoadTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "test-api",
			Environment: "test",
			Version:     "test",
			LogLevel:    "debug",
			LogFormat:   "text",
			Debug:       true,
		},
		Database: config.DatabaseConfig{
			Host:               "localhost",
			Port:               "5432",
			User:               "test",
			Password:           "test",
			Name:               "test_stockroom",
			SSLMode:            "disable",
			MaxConnections:     10,
			MinConnections:     2,
			StatementTimeout:   10 * time.Second,
			EnableQueryLogging: true,
		},
		Redis: config.RedisConfig{
			Host:     "localhost",
			Port:     "6379",
			DB:       0,
			TTL:      time.Hour,
			PoolSize: 10,
		},
		Asynq: config.AsynqConfig{
			RedisAddr:   "localhost:6379",
			Concurrency: 2,
			Queues:      map[string]int{"critical": 6, "default": 3},
		},
		Security: config.SecurityConfig{
			RateLimitRequests: 100,
			RateLimitDuration: time.Minute,
			AllowedOrigins:    []string{"*"},
			SecureHeaders:     false,
		},
		Server: config.ServerConfig{
			Host:         "localhost",
			Port:         "8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
	}
}

// CreateTestProduct creates a test product projection
func CreateTestProduct(overrides ...func(*domain.Product)) domain.Product {
	cost := decimal.NewFromFloat(12.50)
	product := domain.Product{
		ID:        uuid.New(),
		Name:      "Test Widget",
		SKU:       "WID-001",
		BasePrice: decimal.NewFromFloat(24.99),
		CostPrice: &cost,
	}

	for _, override := range overrides {
		override(&product)
	}

	return product
}

// CreateTestInventoryRecord creates a test inventory record with a product
// projection attached
func CreateTestInventoryRecord(overrides ...func(*domain.InventoryRecord)) *domain.InventoryRecord {
	product := CreateTestProduct()
	now := time.Now().UTC()

	record := &domain.InventoryRecord{
		ID:            uuid.New(),
		ProductID:     product.ID,
		CurrentStock:  25,
		MinStockLevel: 5,
		MaxStockLevel: 100,
		StockStatus:   domain.StatusInStock,
		CreatedAt:     now.AddDate(0, -1, 0),
		UpdatedAt:     now,
		Product:       product,
	}

	for _, override := range overrides {
		override(record)
	}

	return record
}

// CreateTestMovement creates a test stock movement entry
func CreateTestMovement(productID uuid.UUID, overrides ...func(*domain.StockMovement)) domain.StockMovement {
	movement := domain.StockMovement{
		ID:        uuid.New(),
		ProductID: productID,
		Type:      domain.MovementIn,
		Quantity:  10,
		Reason:    "restock",
		CreatedAt: time.Now().UTC(),
	}

	for _, override := range overrides {
		override(&movement)
	}

	return movement
}

// SeedProduct inserts a product row for integration tests
func SeedProduct(t *testing.T, pool *pgxpool.Pool, product domain.Product) {
	t.Helper()

	ctx := context.Background()
	_, err := pool.Exec(ctx, `
		INSERT INTO products (id, name, sku, base_price, cost_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())`,
		product.ID, product.Name, product.SKU, product.BasePrice, product.CostPrice,
	)
	require.NoError(t, err, "Failed to seed product")
}

// SeedInventoryRecord inserts an inventory record row for integration tests.
// The product row must already exist.
func SeedInventoryRecord(t *testing.T, pool *pgxpool.Pool, record *domain.InventoryRecord) {
	t.Helper()

	ctx := context.Background()
	_, err := pool.Exec(ctx, `
		INSERT INTO inventory_records (
			id, product_id, current_stock, min_stock_level, max_stock_level,
			stock_status, last_restocked_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		record.ID, record.ProductID, record.CurrentStock, record.MinStockLevel,
		record.MaxStockLevel, record.StockStatus, record.LastRestockedAt,
		record.CreatedAt, record.UpdatedAt,
	)
	require.NoError(t, err, "Failed to seed inventory record")
}

// TruncateAllTables truncates all tables in the test database
func TruncateAllTables(t *testing.T, db *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()
	tables := []string{
		"stock_movements",
		"inventory_records",
		"products",
	}

	for _, table := range tables {
		_, err := db.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err, "Failed to truncate table: %s", table)
	}
}

// AssertEventuallyWithTimeout asserts that a condition is met within a timeout
func AssertEventuallyWithTimeout(t *testing.T, condition func() bool, timeout time.Duration, msg string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}

	t.Errorf("Condition not met within %v: %s", timeout, msg)
}
