//go:build database

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestFinscoreWithMySQL runs every store on a MySQL backend.
func TestFinscoreWithMySQL(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "finscore",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/finscore?parseTime=true&multiStatements=true", host, port.Port())
	runStoreScenario(t, "mysql", connStr)
}

// TestFinscoreWithPostgres runs every store on a PostgreSQL backend.
func TestFinscoreWithPostgres(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
	runStoreScenario(t, "postgresql", connStr)
}

// runStoreScenario imports, scores, compares and inspects the stores on one backend.
func runStoreScenario(t *testing.T, backend, connStr string) {
	t.Helper()
	home := t.TempDir()
	env := []string{
		"FINSCORE_SOURCE_BACKEND=" + backend,
		"FINSCORE_SOURCE_DB_CONNECT=" + connStr,
		"FINSCORE_CACHE_BACKEND=" + backend,
		"FINSCORE_CACHE_DB_CONNECT=" + connStr,
		"FINSCORE_REPORT_BACKEND=" + backend,
		"FINSCORE_REPORT_DB_CONNECT=" + connStr,
	}

	_, err := runFinscore(t, home, env, "store", "migrate", "--set", "statements")
	require.NoError(t, err)
	_, err = runFinscore(t, home, env, "store", "migrate")
	require.NoError(t, err)

	out, err := runFinscore(t, home, env, "store", "import", "statements.csv")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 3 statement rows")

	_, err = runFinscore(t, home, env, "report", "97179430", "--year", "2024")
	require.NoError(t, err)

	// Second run is served from the metric cache.
	_, err = runFinscore(t, home, env, "compare", "97179430", "24566673", "--year", "2024")
	require.NoError(t, err)

	_, err = runFinscore(t, home, env, "store", "status")
	require.NoError(t, err)

	_, err = runFinscore(t, home, env, "store", "clear")
	require.NoError(t, err)

	_, err = runFinscore(t, home, env, "store", "clear", "reports")
	require.NoError(t, err)
}
