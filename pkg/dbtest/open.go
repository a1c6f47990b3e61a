package dbtest

import (
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib" // driver
	"github.com/jmoiron/sqlx"
)

const EnvDSN = "PG_TEST_DSN"

// Open connects to the test database from PG_TEST_DSN, applies the migration
// files and skips the test when the variable is unset.
func Open(t *testing.T, migrations ...string) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv(EnvDSN)
	if dsn == "" {
		t.Skipf("%s is not set", EnvDSN)
	}

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		t.Fatalf("sqlx.Connect: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })

	if err := MigrateFromFile(db, migrations...); err != nil {
		t.Fatalf("MigrateFromFile: %v", err)
	}

	return db
}
