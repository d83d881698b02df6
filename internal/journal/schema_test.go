package journal

import (
	"database/sql"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/vernier/internal/errors"
	"codeberg.org/mutker/vernier/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) (*sql.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "journal.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, path
}

func TestSchemaVersionLifecycle(t *testing.T) {
	db, path := openTestDB(t)

	version, err := GetSchemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, 0, version)

	require.NoError(t, ValidateAndUpdateSchema(db, path, logger.Nop()))
	version, err = GetSchemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, version)

	for _, table := range journalTables {
		exists, err := TableExists(db, table)
		require.NoError(t, err)
		assert.True(t, exists, table)
	}

	// a current schema is left alone
	_, err = db.Exec(insertChangeSQL, 1, 2.5, "scroll")
	require.NoError(t, err)
	require.NoError(t, ValidateAndUpdateSchema(db, path, logger.Nop()))
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM changes").Scan(&n))
	assert.Equal(t, 1, n)
}

func TestInTxRollsBack(t *testing.T) {
	db, path := openTestDB(t)
	require.NoError(t, ValidateAndUpdateSchema(db, path, logger.Nop()))

	err := inTx(db, ErrTransactionFailed, func(tx *sql.Tx) error {
		if _, err := tx.Exec(insertChangeSQL, 1, 1.0, "scroll"); err != nil {
			return err
		}
		// rejected by the origin check
		if _, err := tx.Exec(insertChangeSQL, 2, 2.0, "replay"); err != nil {
			return phaseError(ErrTransactionFailed, "insert", err)
		}
		return nil
	})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrTransactionFailed))

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM changes").Scan(&n))
	assert.Equal(t, 0, n)
}
