package journal

import "database/sql"

// SetSchemaVersionForTest overwrites the recorded schema version.
func SetSchemaVersionForTest(dbPath string, version int) error {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = db.Exec(`UPDATE schema_versions SET version = ?`, version)
	return err
}
