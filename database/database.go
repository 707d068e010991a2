// Package database, SQLite bağlantısını ve migration sistemini yönetir.
//
// Tek bir dosya tabanlı store kullanılır: WAL modunda çok sayıda okuyucu
// ve aynı anda tek yazıcı. Driver (modernc.org/sqlite) blank import ile
// kayıt olur.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver — CGO gerekmez, her platformda çalışır
)

// DB, veritabanı bağlantısını saran struct.
// *sql.DB thread-safe bir connection pool'dur, tüm repository'ler paylaşır.
type DB struct {
	Conn *sql.DB
	log  *zap.Logger
}

// New, yeni bir SQLite bağlantısı oluşturur ve migration'ları çalıştırır.
//
// dbPath: SQLite dosya yolu (ör: "./data/sentquote.db")
// migrationsFS: Migration SQL dosyalarını içeren fs.FS (embed.FS veya os.DirFS olabilir)
func New(dbPath string, migrationsFS fs.FS) (*DB, error) {
	// Veritabanı dosyasının bulunduğu dizini oluştur (yoksa)
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Pragma'lar her yeni bağlantıda uygulanır:
	// foreign_keys(1) → ON DELETE CASCADE çalışsın (SQLite'ta varsayılan kapalı!)
	// journal_mode(WAL) → çok okuyucu + tek yazıcı
	// busy_timeout(5000) → yazıcı kilidi için 5sn bekle, hemen SQLITE_BUSY dönme
	// _time_format=sqlite → time.Time "2006-01-02 15:04:05.999999999-07:00" olarak yazılır,
	// UTC değerler metin olarak doğru sıralanır.
	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_time_format=sqlite"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Bağlantıyı test et
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{Conn: conn, log: zap.L().Named("database")}

	// Migration'ları çalıştır
	if err := db.runMigrations(migrationsFS); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	db.log.Info("connected and migrations applied", zap.String("path", dbPath))
	return db, nil
}

// Close, veritabanı bağlantısını kapatır.
func (db *DB) Close() error {
	return db.Conn.Close()
}

// runMigrations, migrations/ dizinindeki SQL dosyalarını sırayla çalıştırır.
// Dosya isimleri sıralıdır: 001_init.sql, 002_..., ...
//
// schema_migrations tablosu uygulanmış dosyaları tutar; sonraki
// başlatmalarda sadece yeni dosyalar çalışır. Her dosya kaydıyla birlikte
// tek transaction'da uygulanır, yarım kalmış migration olmaz.
func (db *DB) runMigrations(migrationsFS fs.FS) error {
	if _, err := db.Conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename TEXT PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	// fs.ReadDir hem embed.FS hem os.DirFS ile çalışır.
	entries, err := fs.ReadDir(migrationsFS, ".")
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var sqlFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			sqlFiles = append(sqlFiles, entry.Name())
		}
	}
	sort.Strings(sqlFiles)

	applied, err := db.appliedMigrations()
	if err != nil {
		return err
	}

	for _, file := range sqlFiles {
		if applied[file] {
			continue
		}

		content, err := fs.ReadFile(migrationsFS, file)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file, err)
		}

		if err := db.applyMigration(file, string(content)); err != nil {
			return err
		}
		db.log.Info("migration applied", zap.String("file", file))
	}

	return nil
}

// applyMigration, dosyadaki statement'ları ve schema_migrations kaydını
// tek transaction'da çalıştırır. Herhangi bir statement hata verirse
// dosyanın hiçbir etkisi kalmaz.
func (db *DB) applyMigration(filename, content string) error {
	return WithTx(context.Background(), db.Conn, func(tx *sql.Tx) error {
		for i, stmt := range splitStatements(content) {
			if _, err := tx.Exec(stmt); err != nil {
				return fmt.Errorf("failed to execute migration %s (statement %d): %w", filename, i+1, err)
			}
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (filename) VALUES (?)", filename); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", filename, err)
		}
		return nil
	})
}

// appliedMigrations, schema_migrations tablosundaki dosya adlarını döner.
func (db *DB) appliedMigrations() (map[string]bool, error) {
	rows, err := db.Conn.Query("SELECT filename FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to query schema_migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan migration row: %w", err)
		}
		applied[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate migration rows: %w", err)
	}
	return applied, nil
}

// splitStatements, SQL metnini statement'lara böler.
// Noktalı virgül (;) ile ayırır ama string literal'lerin içindeki
// noktalı virgülleri (tek tırnak ile çevrili) yoksayar.
func splitStatements(sql string) []string {
	var statements []string
	var current strings.Builder
	inString := false

	for i := 0; i < len(sql); i++ {
		ch := sql[i]

		if ch == '\'' {
			// String literal toggle — '' (escape) handle et
			if inString && i+1 < len(sql) && sql[i+1] == '\'' {
				current.WriteByte(ch)
				current.WriteByte(sql[i+1])
				i++ // '' → iki tırnak yaz, skip
				continue
			}
			inString = !inString
		}

		if ch == ';' && !inString {
			s := strings.TrimSpace(current.String())
			if s != "" {
				statements = append(statements, s)
			}
			current.Reset()
			continue
		}

		current.WriteByte(ch)
	}

	// Son statement (noktalı virgülsüz bitmiş olabilir)
	s := strings.TrimSpace(current.String())
	if s != "" {
		statements = append(statements, s)
	}

	return statements
}
