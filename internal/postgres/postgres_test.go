package postgres

import (
	"context"
	"io/fs"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	for _, schema := range []Schema{SchemaStorage, SchemaAnalysis} {
		t.Run(string(schema), func(t *testing.T) {
			entries, err := fs.ReadDir(migrationFiles, "migrations/"+string(schema))
			require.NoError(t, err)

			var up, down int
			for _, e := range entries {
				switch {
				case len(e.Name()) > 7 && e.Name()[len(e.Name())-7:] == ".up.sql":
					up++
				case len(e.Name()) > 9 && e.Name()[len(e.Name())-9:] == ".down.sql":
					down++
				}
			}
			assert.Positive(t, up)
			assert.Equal(t, up, down)
		})
	}
}

// TestMigrate_Postgres needs a scratch database in TEST_POSTGRES_DSN.
func TestMigrate_Postgres(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN is not set")
	}
	ctx := context.Background()

	pool, err := Connect(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	for _, schema := range []Schema{SchemaStorage, SchemaAnalysis} {
		require.NoError(t, Migrate(pool, schema))
		// a second run finds nothing to do
		require.NoError(t, Migrate(pool, schema))
	}

	assert.Zero(t, pool.Stat().AcquiredConns(), "migrator must release its connection")

	var tables int
	require.NoError(t, pool.QueryRow(ctx, `
		SELECT count(*) FROM information_schema.tables
		WHERE table_name IN ('submissions', 'reports')`).Scan(&tables))
	assert.Equal(t, 2, tables)
}
