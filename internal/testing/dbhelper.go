package testing

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/sparkload/internal/db"
	"github.com/vvka-141/sparkload/internal/db/manager"
	"github.com/vvka-141/sparkload/internal/store"
	"github.com/vvka-141/sparkload/internal/testinfra"
)

// TestConnEnvVar names the variable that points tests at an existing server.
const TestConnEnvVar = "SPARKLOAD_TEST_CONN"

var (
	testContainerOnce sync.Once
	testContainerConn string
	testContainerErr  error
)

func getOrStartTestContainer() (string, error) {
	testContainerOnce.Do(func() {
		container, err := testinfra.StartSimplePostgres(context.Background())
		if err != nil {
			testContainerErr = err
			return
		}
		testContainerConn = container.ConnString
	})
	return testContainerConn, testContainerErr
}

// GetTestConnectionString returns a maintenance connection string.
// Priority: SPARKLOAD_TEST_CONN > auto-started testcontainer > skip test.
func GetTestConnectionString(t *testing.T) string {
	t.Helper()

	if connString := os.Getenv(TestConnEnvVar); connString != "" {
		return connString
	}

	connString, err := getOrStartTestContainer()
	if err != nil {
		t.Skipf("%s not set and Docker unavailable: %v", TestConnEnvVar, err)
	}
	return connString
}

func SkipIfShort(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
}

// RequireDatabase combines SkipIfShort and GetTestConnectionString.
func RequireDatabase(t *testing.T) string {
	t.Helper()

	SkipIfShort(t)
	return GetTestConnectionString(t)
}

// UniqueDBName returns a database name that will not collide across parallel tests.
func UniqueDBName(prefix string) string {
	return prefix + "_" + uuid.NewString()[:8]
}

// CreateTestDB creates dbName through the maintenance connection and drops it
// when the test completes.
func CreateTestDB(t *testing.T, connString, dbName string) {
	t.Helper()

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		t.Fatalf("connect for test DB creation: %v", err)
	}
	defer pool.Close()

	if err := manager.New().Create(ctx, db.NewPoolAdapter(pool), dbName); err != nil {
		t.Fatalf("create test database %s: %v", dbName, err)
	}

	t.Cleanup(func() { CleanupTestDB(t, connString, dbName) })
}

// CleanupTestDB drops dbName. Safe to call multiple times.
func CleanupTestDB(t *testing.T, connString, dbName string) {
	t.Helper()

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		t.Logf("Warning: connect for cleanup: %v", err)
		return
	}
	defer pool.Close()

	mgr := manager.New()
	conn := db.NewPoolAdapter(pool)
	if err := mgr.TerminateConnections(ctx, conn, dbName); err != nil {
		t.Logf("Warning: terminate connections to %s: %v", dbName, err)
	}
	if err := mgr.Drop(ctx, conn, dbName); err != nil {
		t.Logf("Warning: drop database %s: %v", dbName, err)
	}
}

// TargetConnectionString rewrites connString to point at dbName.
func TargetConnectionString(t *testing.T, connString, dbName string) string {
	t.Helper()

	config, err := db.ParseConnectionString(connString)
	if err != nil {
		t.Fatalf("parse connection string: %v", err)
	}
	config.Database = dbName
	return db.BuildConnectionString(config)
}

// GetTestPool opens a pool on dbName, closed when the test completes.
func GetTestPool(t *testing.T, connString, dbName string) *pgxpool.Pool {
	t.Helper()

	pool, err := pgxpool.New(context.Background(), TargetConnectionString(t, connString, dbName))
	if err != nil {
		t.Fatalf("create connection pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// NewSchemaDB creates a fresh database with the sparkload tables and returns
// a pool on it.
func NewSchemaDB(t *testing.T, prefix string) (*pgxpool.Pool, string) {
	t.Helper()

	connString := RequireDatabase(t)
	dbName := UniqueDBName(prefix)
	CreateTestDB(t, connString, dbName)

	pool := GetTestPool(t, connString, dbName)
	if err := store.NewSchema().Create(context.Background(), pool); err != nil {
		t.Fatalf("create tables in %s: %v", dbName, err)
	}
	return pool, TargetConnectionString(t, connString, dbName)
}
