package repository

import (
	"context"
	"database/sql"

	"github.com/akinalp/sentquote/database"
)

// Stores, aynı bağlantıya (veya aynı transaction'a) bağlı repository seti.
// Service'ler transaction dışı okumalarda bunu, çok adımlı yazmalarda
// Transactor'ın verdiği tx-bound kopyasını kullanır.
type Stores struct {
	Users     UserRepository
	Quotes    QuoteRepository
	Events    EventRepository
	Followups FollowupRepository
}

// Transactor, fn'i tek bir transaction içinde çalıştırır.
// fn'e verilen Stores'un tüm repository'leri aynı *sql.Tx'i kullanır.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(tx *Stores) error) error
}

// NewSQLiteStores, tüm SQLite repository'lerini tek bir querier üzerinde kurar.
func NewSQLiteStores(db database.TxQuerier) *Stores {
	return &Stores{
		Users:     NewSQLiteUserRepo(db),
		Quotes:    NewSQLiteQuoteRepo(db),
		Events:    NewSQLiteEventRepo(db),
		Followups: NewSQLiteFollowupRepo(db),
	}
}

type sqliteTransactor struct {
	conn *sql.DB
}

// NewSQLiteTransactor, database.WithTx üzerine kurulu Transactor döner.
func NewSQLiteTransactor(conn *sql.DB) Transactor {
	return &sqliteTransactor{conn: conn}
}

func (t *sqliteTransactor) WithinTx(ctx context.Context, fn func(tx *Stores) error) error {
	return database.WithTx(ctx, t.conn, func(tx *sql.Tx) error {
		return fn(NewSQLiteStores(tx))
	})
}
