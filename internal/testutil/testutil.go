package testutil

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dom/dietlog/internal/api"
	"github.com/dom/dietlog/internal/config"
	"github.com/dom/dietlog/internal/metrics"
	"github.com/dom/dietlog/internal/repository"
	repoPostgres "github.com/dom/dietlog/internal/repository/postgres"
	"github.com/dom/dietlog/internal/service"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB wraps a migrated database used by a single test. Container is nil
// for sqlite-backed databases.
type TestDB struct {
	Container testcontainers.Container
	DB        *gorm.DB
	DSN       string
}

// NewTestDB creates a new PostgreSQL testcontainer and returns a connection
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}

	ctx := context.Background()

	container, err := tcPostgres.Run(ctx,
		"postgres:15-alpine",
		tcPostgres.WithDatabase("test_dietlog"),
		tcPostgres.WithUsername("test"),
		tcPostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	testDB := &TestDB{Container: container}
	t.Cleanup(func() {
		testDB.Cleanup()
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}
	testDB.DSN = dsn

	db, err := gorm.Open(gormPostgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}
	testDB.DB = db

	if err := repoPostgres.Migrate(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return testDB
}

// NewSQLiteDB returns an isolated in-memory database with the same schema.
// Foreign keys are enforced so it behaves like the postgres store.
func NewSQLiteDB(t *testing.T) *TestDB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sqlite pool: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := repoPostgres.Migrate(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	testDB := &TestDB{DB: db, DSN: dsn}
	t.Cleanup(func() {
		testDB.Cleanup()
	})
	return testDB
}

// Cleanup closes the pool and terminates the container, if any
func (tdb *TestDB) Cleanup() {
	if tdb.DB != nil {
		repoPostgres.Close(tdb.DB)
	}
	if tdb.Container != nil {
		tdb.Container.Terminate(context.Background())
	}
}

// Truncate clears all tables for test isolation
func (tdb *TestDB) Truncate(t *testing.T) {
	t.Helper()

	for _, table := range []string{"meals", "users"} {
		if err := tdb.DB.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			t.Logf("warning: failed to truncate %s: %v", table, err)
		}
	}
}

// TestConfig returns a configuration suitable for testing
func TestConfig() *config.Config {
	return &config.Config{
		Port:              "0",
		Environment:       "test",
		MaxBodyBytes:      4096,
		SessionCookieName: "sessionId",
		SessionMaxAge:     7 * 24 * time.Hour,
		LogLevel:          "error",
		LogFormat:         "text",
		DBLogLevel:        "silent",
	}
}

// TestServer holds all components for integration testing
type TestServer struct {
	Server   *httptest.Server
	DB       *TestDB
	Repos    *repository.Repositories
	Services *service.Services
	Config   *config.Config
	Clock    *clockwork.FakeClock
}

// NewTestServer serves the full router over an in-memory sqlite database.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()
	return newTestServer(t, NewSQLiteDB(t))
}

// NewPostgresTestServer serves the full router over a postgres container.
func NewPostgresTestServer(t *testing.T) *TestServer {
	t.Helper()
	return newTestServer(t, NewTestDB(t))
}

func newTestServer(t *testing.T, testDB *TestDB) *TestServer {
	cfg := TestConfig()
	clock := clockwork.NewFakeClockAt(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	repos := repoPostgres.NewRepositories(testDB.DB)
	services := service.NewServices(repos)
	router := api.NewRouter(api.Deps{
		Services: services,
		DB:       testDB.DB,
		Config:   cfg,
		Clock:    clock,
		Registry: metrics.NewRegistry(),
	})

	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:   server,
		DB:       testDB,
		Repos:    repos,
		Services: services,
		Config:   cfg,
		Clock:    clock,
	}

	t.Cleanup(func() {
		server.Close()
	})

	return ts
}

// URL returns the full URL for a given path
func (ts *TestServer) URL(path string) string {
	return ts.Server.URL + path
}
