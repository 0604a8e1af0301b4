package report

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const createSessionsTable = `
CREATE TABLE IF NOT EXISTS sessions (
	start_date       TEXT NOT NULL,
	end_date         TEXT NOT NULL,
	client           TEXT NOT NULL,
	project          TEXT NOT NULL,
	repository       TEXT NOT NULL,
	description      TEXT NOT NULL,
	start_timestamp  INTEGER NOT NULL,
	end_timestamp    INTEGER NOT NULL,
	duration_hours   REAL NOT NULL,
	duration_minutes INTEGER NOT NULL,
	message_count    INTEGER NOT NULL,
	topics           TEXT NOT NULL,
	project_path     TEXT NOT NULL
)`

// writeSQLite appends rows to the sessions table in the database at path,
// creating the database and table when absent. Unlike the text formats,
// repeated exports accumulate rather than replace.
func writeSQLite(rows []Row, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(createSessionsTable); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO sessions VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err := stmt.Exec(
			r.StartDate, r.EndDate, r.Client, r.Project, r.Repository,
			r.Description, r.StartTimestamp, r.EndTimestamp, r.DurationHours,
			r.DurationMinutes, r.MessageCount, r.Topics, r.ProjectPath,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("insert row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
