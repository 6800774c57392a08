// test/helpers/helpers.go
package helpers

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/insyd/inventory-api/internal/core/domain"
	"github.com/insyd/inventory-api/internal/pkg/config"
)

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

// SetupTestRedis creates a mock Redis instance for testing
func SetupTestRedis(t *testing.T) *TestRedis {
	t.Helper()

	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
	})

	return &TestRedis{
		Client: client,
		Server: mr,
	}
}

// TempStorePath returns a data-file path inside a per-test temp dir
func TempStorePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "inventory.json")
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
		Store: config.StoreConfig{
			FilePath: "data/inventory-test.json",
		},
		Redis: config.RedisConfig{
			Host:     "localhost",
			Port:     "6379",
			DB:       0,
			TTL:      time.Hour,
			PoolSize: 10,
		},
		Analytics: config.AnalyticsConfig{
			ValueMetric: "revenue",
			CacheTTL:    5 * time.Minute,
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

// CreateTestItem creates a test inventory item
func CreateTestItem(overrides ...func(*domain.Item)) *domain.Item {
	now := time.Now()
	item := &domain.Item{
		ID:           uuid.New(),
		Name:         "OPC Cement 50kg",
		SKU:          "CEM-OPC-50",
		Category:     "Cement",
		Quantity:     100,
		UnitPrice:    decimal.NewFromFloat(350.00),
		ReorderPoint: 10,
		Supplier:     "Ultra Traders",
		Location:     "Rack A1",
		QuantitySold: 0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	for _, override := range overrides {
		override(item)
	}

	return item
}

// CreateTestItems creates multiple test inventory items
func CreateTestItems(count int) []domain.Item {
	items := make([]domain.Item, count)

	categories := []string{"Cement", "Steel", "Tiles", "Paint", "Plumbing"}

	for i := 0; i < count; i++ {
		items[i] = *CreateTestItem(func(item *domain.Item) {
			item.SKU = fmt.Sprintf("TEST-%03d", i+1)
			item.Name = fmt.Sprintf("Test Item %d", i+1)
			item.Category = categories[i%len(categories)]
			item.UnitPrice = decimal.NewFromInt(int64(100 + i*50))
		})
	}

	return items
}

// CreateTestDataset wraps items in a dataset with default settings
func CreateTestDataset(items ...domain.Item) *domain.Dataset {
	data := domain.NewDataset()
	data.Items = append(data.Items, items...)
	return data
}

// CompareItems compares the caller-controlled fields of two items
func CompareItems(t *testing.T, expected, actual *domain.Item) {
	t.Helper()

	require.Equal(t, expected.Name, actual.Name)
	require.Equal(t, expected.SKU, actual.SKU)
	require.Equal(t, expected.Category, actual.Category)
	require.Equal(t, expected.Quantity, actual.Quantity)
	require.Equal(t, expected.ReorderPoint, actual.ReorderPoint)
	require.Equal(t, expected.Supplier, actual.Supplier)
	require.Equal(t, expected.Location, actual.Location)
	require.True(t, expected.UnitPrice.Equal(actual.UnitPrice),
		"unit price mismatch: expected %s, got %s", expected.UnitPrice, actual.UnitPrice)
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
