package shared

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// NewDatabase opens the sqlite file backing batch history, creating it
// on first use. Tests pass ":memory:" for a throwaway database. Foreign
// keys are switched on so batch_results rows always belong to a batch,
// and WAL lets `bulk history` read while a batch is being recorded.
// Both are set through the DSN so every pooled connection gets them.
func NewDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return db, nil
}

// ConfigureDatabase applies the pool limits from the [database] section
// of config.toml.
func ConfigureDatabase(db *sql.DB, maxOpenConns, maxIdleConns int) {
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
}
