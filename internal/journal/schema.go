package journal

import (
	"database/sql"

	"codeberg.org/mutker/vernier/internal/errors"
	"codeberg.org/mutker/vernier/internal/logger"
)

const (
	SchemaVersion = 1

	createTablesSQL = `
	   CREATE TABLE IF NOT EXISTS schema_versions (
	       version     INTEGER PRIMARY KEY,
	       applied_at  TEXT NOT NULL
	   );
	   CREATE TABLE IF NOT EXISTS changes (
	       id           INTEGER PRIMARY KEY AUTOINCREMENT,
	       timestamp_ns INTEGER NOT NULL CHECK (typeof(timestamp_ns) = 'integer'),
	       value        REAL NOT NULL,
	       origin       TEXT NOT NULL CHECK (origin IN ('programmatic', 'scroll'))
	   );
	   CREATE INDEX IF NOT EXISTS changes_timestamp ON changes (timestamp_ns);`

	recordVersionSQL = `
    INSERT INTO schema_versions (version, applied_at) VALUES (?, datetime('now'))`

	insertChangeSQL = `
    INSERT INTO changes (timestamp_ns, value, origin) VALUES (?, ?, ?)`

	selectChangesSQL = `
    SELECT timestamp_ns, value, origin
    FROM changes
    ORDER BY id DESC
    LIMIT ?`

	selectVersionSQL = `
    SELECT COALESCE(MAX(version), 0) FROM schema_versions`

	tableExistsSQL = `
    SELECT EXISTS (SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = ?)`
)

// journalTables lists every table the schema owns, dropped in this order.
var journalTables = []string{"changes", "schema_versions"}

// phaseError tags a database failure with the step it happened in.
func phaseError(code errors.ErrorCode, phase string, err error) error {
	return errors.New().WithData(code, struct {
		Phase string
		Error string
	}{
		Phase: phase,
		Error: err.Error(),
	})
}

// inTx runs fn in a transaction, rolling back unless fn and the commit succeed.
func inTx(db *sql.DB, code errors.ErrorCode, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return phaseError(code, "begin", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return phaseError(code, "commit", err)
	}
	return nil
}

// InitSchema creates the tables and records the current version.
func InitSchema(db *sql.DB, log logger.Logger) error {
	err := inTx(db, ErrSchemaInitFailed, func(tx *sql.Tx) error {
		if _, err := tx.Exec(createTablesSQL); err != nil {
			return phaseError(ErrSchemaInitFailed, "create_tables", err)
		}
		if _, err := tx.Exec(recordVersionSQL, SchemaVersion); err != nil {
			return phaseError(ErrSchemaInitFailed, "record_version", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().Int("version", SchemaVersion).Msg("Journal schema initialized")
	return nil
}

// GetSchemaVersion returns the recorded schema version, 0 for a fresh file.
func GetSchemaVersion(db *sql.DB) (int, error) {
	exists, err := TableExists(db, "schema_versions")
	if err != nil || !exists {
		return 0, err
	}

	var version int
	if err := db.QueryRow(selectVersionSQL).Scan(&version); err != nil {
		return 0, phaseError(ErrSchemaValidationFailed, "get_version", err)
	}
	return version, nil
}

// TableExists checks sqlite_master for tableName.
func TableExists(db *sql.DB, tableName string) (bool, error) {
	var exists bool
	if err := db.QueryRow(tableExistsSQL, tableName).Scan(&exists); err != nil {
		return false, phaseError(ErrSchemaValidationFailed, "check_table_"+tableName, err)
	}
	return exists, nil
}
