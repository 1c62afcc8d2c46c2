//go:build database

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestPropmatchWithMySQL tests the propmatch CLI with a MySQL backend.
func TestPropmatchWithMySQL(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "propmatch",
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

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/propmatch?parseTime=true", host, port.Port())
	exerciseBackend(t, "mysql", connStr)
}

// TestPropmatchWithPostgres tests the propmatch CLI with a PostgreSQL backend.
func TestPropmatchWithPostgres(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
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

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())
	exerciseBackend(t, "postgresql", connStr)
}

// exerciseBackend runs migrations, an import, a database search and a weights
// round trip against one SQL backend.
func exerciseBackend(t *testing.T, backend, connStr string) {
	t.Helper()
	home := t.TempDir()
	listings := writeListings(t, home)
	env := []string{
		"PROPMATCH_DB_BACKEND=" + backend,
		"PROPMATCH_DB_CONNECT=" + connStr,
		"PROPMATCH_STORE_BACKEND=" + backend,
		"PROPMATCH_STORE_DB_CONNECT=" + connStr,
	}

	_, err := runPropmatch(t, home, env, "db", "migrate")
	require.NoError(t, err)

	_, err = runPropmatch(t, home, env, "db", "import", listings)
	require.NoError(t, err)

	_, err = runPropmatch(t, home, env, "db", "status")
	require.NoError(t, err)

	out, err := runPropmatch(t, home, env, "search", "--sources", "database", "--query", "villa", "--output", "json")
	require.NoError(t, err)
	var page resultPage
	require.NoError(t, json.Unmarshal(out, &page))
	assert.Equal(t, "database", page.Source)
	require.NotEmpty(t, page.Items)
	assert.Equal(t, "p2", page.Items[0].ID)

	_, err = runPropmatch(t, home, env, "weights", "set", "text=0.9")
	require.NoError(t, err)

	out, err = runPropmatch(t, home, env, "weights", "get", "--output", "json")
	require.NoError(t, err)
	var weights map[string]float64
	require.NoError(t, json.Unmarshal(out, &weights))
	assert.InDelta(t, 0.9, weights["text"], 1e-9)

	_, err = runPropmatch(t, home, env, "store", "status")
	require.NoError(t, err)

	_, err = runPropmatch(t, home, env, "store", "clear")
	require.NoError(t, err)

	_, err = runPropmatch(t, home, env, "db", "migrate", "--target-version", "0")
	require.NoError(t, err)
}
