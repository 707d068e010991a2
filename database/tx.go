// Package database — Transaction yönetimi.
//
// WithTx, birden fazla DB operasyonunun atomik çalışmasını sağlar:
// quote gönderme (status + event + iki followup), kabul etme ve
// ödeme webhook'u tek bir birim olarak commit edilir.
//
//	err := database.WithTx(ctx, db.Conn, func(tx *sql.Tx) error {
//	    quotes := repository.NewSQLiteQuoteRepo(tx)
//	    ...
//	    return nil // → COMMIT
//	})
package database

import (
	"context"
	"database/sql"
	"fmt"
)

// TxQuerier, hem *sql.DB hem *sql.Tx tarafından karşılanan interface.
// Repository'ler bunu alır; normal operasyonlarda *sql.DB, transaction
// içinde *sql.Tx geçilir.
type TxQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx, fn'i bir transaction içinde çalıştırır.
// fn nil dönerse COMMIT, error dönerse ROLLBACK. Panic durumunda
// rollback yapılır ve panic tekrar fırlatılır.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}

		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
			}
			return
		}

		if commitErr := tx.Commit(); commitErr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", commitErr)
		}
	}()

	err = fn(tx)
	return
}
