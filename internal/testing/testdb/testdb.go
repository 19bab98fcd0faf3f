package testdb

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/database"
	"github.com/obidyhasan/Job-Portal-Server-with-JWT/migrations"
)

const (
	surrealImage = "surrealdb/surrealdb:v2.2.1"
	surrealPort  = "8000/tcp"
	rootUser     = "root"
	rootPass     = "root"
)

// TestDB is an isolated database environment. Each instance gets its own
// namespace with migrations applied.
type TestDB struct {
	DB        database.Database
	Namespace string
	Database  string
	t         *testing.T
}

var (
	// serverOnce starts a single SurrealDB container per test binary
	serverOnce sync.Once
	serverCfg  database.Config
	serverErr  error

	counter atomic.Int64
)

// server returns the connection settings of the test server. TEST_DB_HOST
// points at an already running instance; otherwise a container is started.
func server() (database.Config, error) {
	serverOnce.Do(func() {
		if host := os.Getenv("TEST_DB_HOST"); host != "" {
			serverCfg = database.Config{
				Host:     host,
				Port:     envOr("TEST_DB_PORT", "8000"),
				User:     envOr("TEST_DB_USER", rootUser),
				Password: envOr("TEST_DB_PASSWORD", rootPass),
			}
			return
		}
		serverCfg, serverErr = startContainer()
	})
	return serverCfg, serverErr
}

func startContainer() (database.Config, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        surrealImage,
			ExposedPorts: []string{surrealPort},
			Cmd:          []string{"start", "--user", rootUser, "--pass", rootPass, "memory"},
			WaitingFor: wait.ForHTTP("/health").
				WithPort(surrealPort).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return database.Config{}, fmt.Errorf("start surrealdb container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return database.Config{}, fmt.Errorf("container host: %w", err)
	}
	port, err := container.MappedPort(ctx, surrealPort)
	if err != nil {
		return database.Config{}, fmt.Errorf("container port: %w", err)
	}

	return database.Config{
		Host:     host,
		Port:     port.Port(),
		User:     rootUser,
		Password: rootPass,
	}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// uniqueNamespace generates a unique namespace for test isolation
func uniqueNamespace() string {
	return fmt.Sprintf("test_%d_%d", time.Now().UnixNano(), counter.Add(1))
}

// New creates an isolated test database with migrations applied. It skips
// the test under -short. The namespace is removed when the test ends.
func New(t *testing.T) *TestDB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	cfg, err := server()
	if err != nil {
		t.Fatalf("testdb: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg.Namespace = uniqueNamespace()
	cfg.Database = "test"

	db := database.NewSurrealDB(cfg)
	if err := db.Connect(ctx); err != nil {
		t.Fatalf("testdb: failed to connect: %v", err)
	}

	if err := database.Migrate(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		t.Fatalf("testdb: migrations failed: %v", err)
	}

	tdb := &TestDB{
		DB:        db,
		Namespace: cfg.Namespace,
		Database:  cfg.Database,
		t:         t,
	}
	t.Cleanup(tdb.Close)
	return tdb
}

// Close removes the test namespace and closes the connection
func (tdb *TestDB) Close() {
	if tdb.DB == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = tdb.DB.Execute(ctx, fmt.Sprintf("REMOVE NAMESPACE IF EXISTS %s", tdb.Namespace), nil)
	_ = tdb.DB.Close()
	tdb.DB = nil
}

// Ctx returns a context bounded by the test's lifetime
func (tdb *TestDB) Ctx() context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	tdb.t.Cleanup(cancel)
	return ctx
}

// MustExec executes a query and fails the test on error
func (tdb *TestDB) MustExec(query string, vars map[string]interface{}) {
	tdb.t.Helper()
	if err := tdb.DB.Execute(tdb.Ctx(), query, vars); err != nil {
		tdb.t.Fatalf("testdb: exec failed: %v\nQuery: %s", err, query)
	}
}

// MustQuery executes a query and returns results, failing the test on error
func (tdb *TestDB) MustQuery(query string, vars map[string]interface{}) []interface{} {
	tdb.t.Helper()
	results, err := tdb.DB.Query(tdb.Ctx(), query, vars)
	if err != nil {
		tdb.t.Fatalf("testdb: query failed: %v\nQuery: %s", err, query)
	}
	return results
}
