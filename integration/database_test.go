//go:build database

package integration

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestGradestatWithMySQL tests the gradestat CLI with a MySQL backend.
func TestGradestatWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306:3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "gradestat",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(30 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/gradestat?parseTime=true", host, port.Port())

	t.Setenv("GRADESTAT_RUNS_BACKEND", "mysql")
	t.Setenv("GRADESTAT_RUNS_DB_CONNECT", connStr)

	exerciseRunHistory(t)
}

// TestGradestatWithPostgres tests the gradestat CLI with a PostgreSQL backend.
func TestGradestatWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432:5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()
	time.Sleep(5 * time.Second)

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())

	t.Setenv("GRADESTAT_RUNS_BACKEND", "postgresql")
	t.Setenv("GRADESTAT_RUNS_DB_CONNECT", connStr)

	exerciseRunHistory(t)
}

// exerciseRunHistory clears, builds twice and checks the recorded history.
func exerciseRunHistory(t *testing.T) {
	t.Helper()

	_, err := runGradestat(t, "runs", "clear")
	require.NoError(t, err)

	_, err = runGradestat(t, "runs", "migrate")
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "courses.json")
	for range 2 {
		_, err = runGradestat(t, "build", fixturePath(t, "grades.csv"), "--output-file", out)
		require.NoError(t, err)
	}

	stdout, err := runGradestat(t, "runs", "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Connected: true")
	assert.Contains(t, stdout, "Total Runs: 2")
	assert.Contains(t, stdout, "Total Courses Published: 6")

	prefix := filepath.Join(t.TempDir(), "history")
	_, err = runGradestat(t, "runs", "export", "--output-file", prefix)
	require.NoError(t, err)
	assert.FileExists(t, prefix+".runs.parquet")
	assert.FileExists(t, prefix+".course_results.parquet")
}
