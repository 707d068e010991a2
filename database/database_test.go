package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func TestNewAppliesMigrationsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sq.db")

	db, err := New(path, Migrations())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for _, table := range []string{"users", "quotes", "quote_events", "followups"} {
		var name string
		err := db.Conn.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
	db.Close()

	// İkinci açılışta migration tekrar çalışmamalı.
	db, err = New(path, Migrations())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()

	var count int
	if err := db.Conn.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count != 1 {
		t.Errorf("schema_migrations rows = %d, want 1", count)
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "fk.db"), Migrations())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer db.Close()

	_, err = db.Conn.Exec(`INSERT INTO quote_events (quote_id, event_type) VALUES ('missing', 'sent')`)
	if err == nil {
		t.Fatal("insert with dangling quote_id should fail")
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "tx.db"), Migrations())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	boom := errors.New("boom")

	err = WithTx(ctx, db.Conn, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO users (id, email, password_hash) VALUES ('u1', 'a@b.co', 'x')`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}

	var count int
	if err := db.Conn.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("users = %d after rollback, want 0", count)
	}
}

func TestSplitStatementsKeepsQuotedSemicolons(t *testing.T) {
	stmts := splitStatements(`INSERT INTO t VALUES ('a;b'); SELECT 1;`)
	if len(stmts) != 2 {
		t.Fatalf("got %d statements: %q", len(stmts), stmts)
	}
	if stmts[0] != `INSERT INTO t VALUES ('a;b')` {
		t.Errorf("first = %q", stmts[0])
	}
}

func TestFailedMigrationLeavesNoTrace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.db")

	broken := fstest.MapFS{
		"001_notes.sql": {Data: []byte(`CREATE TABLE notes (id INTEGER PRIMARY KEY);
			ALTER TABLE notes ADD COLUMN body TEXT;
			INSERT INTO no_such_table VALUES (1);`)},
	}
	if _, err := New(path, broken); err == nil {
		t.Fatal("expected migration error")
	}

	// Düzeltilmiş dosya aynı ALTER'ı tekrar içerir; ilk deneme geri
	// alındığı için "duplicate column" hatası olmamalı.
	fixed := fstest.MapFS{
		"001_notes.sql": {Data: []byte(`CREATE TABLE notes (id INTEGER PRIMARY KEY);
			ALTER TABLE notes ADD COLUMN body TEXT;`)},
	}
	db, err := New(path, fixed)
	if err != nil {
		t.Fatalf("New after fix: %v", err)
	}
	defer db.Close()

	if _, err := db.Conn.Exec(`INSERT INTO notes (body) VALUES ('hi')`); err != nil {
		t.Fatalf("notes table unusable: %v", err)
	}
	var count int
	if err := db.Conn.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count != 1 {
		t.Errorf("schema_migrations rows = %d, want 1", count)
	}
}
