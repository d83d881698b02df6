package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"codeberg.org/mutker/vernier/internal/errors"
	"codeberg.org/mutker/vernier/internal/logger"
)

// ValidateAndUpdateSchema leaves a current schema alone. Any other recorded
// version is copied to backups/ next to the database, then the tables are
// recreated; the journal is a history, not a source of truth, so old rows
// are not carried over.
func ValidateAndUpdateSchema(db *sql.DB, dbPath string, log logger.Logger) error {
	version, err := GetSchemaVersion(db)
	if err != nil {
		return errors.New().Wrap(ErrSchemaValidationFailed, err)
	}

	if version == SchemaVersion {
		log.Debug().Int("version", version).Msg("Journal schema is current")
		return nil
	}

	if version != 0 {
		if _, err := backupDatabase(db, dbPath, version, log); err != nil {
			return errors.New().Wrap(ErrSchemaMigrationFailed, err)
		}
	}

	err = inTx(db, ErrSchemaMigrationFailed, func(tx *sql.Tx) error {
		for _, table := range journalTables {
			if _, err := tx.Exec("DROP TABLE IF EXISTS " + table); err != nil {
				return phaseError(ErrSchemaMigrationFailed, "drop_"+table, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	return InitSchema(db, log)
}

// backupDatabase writes a compacted copy with VACUUM INTO, which must run
// outside a transaction.
func backupDatabase(db *sql.DB, dbPath string, version int, log logger.Logger) (string, error) {
	backupDir := filepath.Join(filepath.Dir(dbPath), "backups")
	if err := os.MkdirAll(backupDir, defaultDirPerm); err != nil {
		return "", phaseError(ErrSchemaMigrationFailed, "create_backup_dir", err)
	}

	name := fmt.Sprintf("journal_v%d_%s.db", version, time.Now().UTC().Format("20060102T150405Z"))
	backupPath := filepath.Join(backupDir, name)

	if _, err := db.Exec("VACUUM INTO '" + strings.ReplaceAll(backupPath, "'", "''") + "'"); err != nil {
		return "", phaseError(ErrSchemaMigrationFailed, "create_backup", err)
	}

	log.Info().Str("path", backupPath).Int("version", version).Msg("Journal backup created")
	return backupPath, nil
}
