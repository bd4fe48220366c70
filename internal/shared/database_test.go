package shared

import "testing"

func TestNewDatabase(t *testing.T) {
	t.Run("enforces foreign keys", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		var enabled int
		if err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled); err != nil {
			t.Fatalf("failed to read pragma: %v", err)
		}
		if enabled != 1 {
			t.Error("expected foreign key enforcement to be on")
		}

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}

		_, err = db.Exec(`INSERT INTO batch_results
			(id, batch_id, position, account_id, account_name, user_id, user_name, success)
			VALUES ('r1', 'no-such-batch', 0, 'a1', 'Alpha', 'u1', 'Ada', 1)`)
		if err == nil {
			t.Error("expected orphaned result row to be rejected")
		}
	})

	t.Run("unreachable path", func(t *testing.T) {
		if _, err := NewDatabase("/no/such/directory/wpec.db"); err == nil {
			t.Error("expected error for an unwritable path")
		}
	})

	t.Run("pool limits", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		ConfigureDatabase(db, 4, 2)
		if got := db.Stats().MaxOpenConnections; got != 4 {
			t.Errorf("MaxOpenConnections = %d, want 4", got)
		}
	})
}
