package testinfra

import (
	"context"
	"os"
	"sync"
	"testing"
)

// EnvTestPostgres supplies an existing database and bypasses the container.
const EnvTestPostgres = "ROOTMODEL_TEST_POSTGRES"

var (
	containerOnce sync.Once
	containerConn string
	containerErr  error
)

func getOrStartContainer() (string, error) {
	containerOnce.Do(func() {
		ctr, err := StartPostgres(context.Background())
		if err != nil {
			containerErr = err
			return
		}
		containerConn = ctr.ConnString
	})
	return containerConn, containerErr
}

// RequireDatabase returns a PostgreSQL connection string or skips the test.
// Priority: ROOTMODEL_TEST_POSTGRES > auto-started container > skip.
// Always skips in -short mode.
func RequireDatabase(t *testing.T) string {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if dsn := os.Getenv(EnvTestPostgres); dsn != "" {
		return dsn
	}
	dsn, err := getOrStartContainer()
	if err != nil {
		t.Skipf("%s not set and Docker unavailable: %v", EnvTestPostgres, err)
	}
	return dsn
}
