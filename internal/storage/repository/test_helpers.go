package repository

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/storefront/internal/migrations"
	"github.com/magabrotheeeer/storefront/internal/models"
)

// SetupTestStorage поднимает PostgreSQL в контейнере (или берёт
// TEST_DATABASE_URL), применяет миграции и очищает таблицы.
func SetupTestStorage(t *testing.T) *Storage {
	t.Helper()
	if os.Getenv("SKIP_DB_TESTS") != "" {
		t.Skip("SKIP_DB_TESTS is set")
	}
	ctx := context.Background()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		pgContainer, err := postgres.Run(ctx,
			"postgres:15-alpine",
			postgres.WithDatabase("testdb"),
			postgres.WithUsername("testuser"),
			postgres.WithPassword("testpass"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(time.Minute),
			),
		)
		require.NoError(t, err, "failed to start container")
		t.Cleanup(func() {
			if err := pgContainer.Terminate(ctx); err != nil {
				t.Logf("failed to terminate container: %s", err)
			}
		})

		dsn, err = pgContainer.ConnectionString(ctx, "sslmode=disable")
		require.NoError(t, err)
	}

	storage, err := New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })

	require.NoError(t, migrations.Run(storage.DB, migrationsDir(t)))
	require.NoError(t, CheckDatabaseReady(ctx, storage))

	_, err = storage.DB.ExecContext(ctx, `TRUNCATE users, admins, products, orders, order_items,
		subscription_plans, subscriptions RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return storage
}

// migrationsDir находит каталог migrations в корне модуля относительно этого файла.
func migrationsDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "migrations")
}

// TestDataFactory создаёт тестовые записи.
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создаёт фабрику тестовых данных.
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создаёт покупателя и возвращает его ID.
func (f *TestDataFactory) CreateUser(t *testing.T, email string) int64 {
	id, err := f.storage.CreateUser(context.Background(), models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	return id
}

// CreateProduct создаёт активный товар.
func (f *TestDataFactory) CreateProduct(t *testing.T, title string, price string, stock int) int64 {
	id, err := f.storage.CreateProduct(context.Background(), models.Product{
		Title:       title,
		Description: title + " description",
		Price:       decimal.RequireFromString(price),
		Stock:       stock,
		IsActive:    true,
	})
	require.NoError(t, err)
	return id
}

// CreatePlan создаёт тарифный план.
func (f *TestDataFactory) CreatePlan(t *testing.T, name string, months int) int64 {
	id, err := f.storage.CreatePlan(context.Background(), models.SubscriptionPlan{
		Name:           name,
		Description:    name,
		Price:          decimal.RequireFromString("9.99"),
		DurationMonths: months,
	})
	require.NoError(t, err)
	return id
}
