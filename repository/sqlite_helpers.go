package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/akinalp/sentquote/pkg"
)

// scanner, hem *sql.Row hem *sql.Rows tarafından karşılanır.
// Tek satır ve liste sorguları aynı scan fonksiyonunu paylaşır.
type scanner interface {
	Scan(dest ...any) error
}

// isUniqueViolation, SQLite UNIQUE constraint hatasını kontrol eder.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// expectAffected, UPDATE/DELETE sonrası en az bir satır etkilenmediyse
// ErrNotFound döner.
func expectAffected(result sql.Result, entity string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s not found", pkg.ErrNotFound, entity)
	}
	return nil
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}

// nullableTime, nil pointer'ı SQL NULL'a çevirir.
func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
