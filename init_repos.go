// Package main, repository katmanı başlatma.
package main

import (
	"github.com/akinalp/sentquote/database"
	"github.com/akinalp/sentquote/repository"
)

// Repositories, transaction dışı okumalar için Stores ve çok adımlı
// yazmalar için Transactor.
type Repositories struct {
	*repository.Stores
	Tx repository.Transactor
}

// initRepositories, tüm SQLite repository'lerini aynı bağlantı havuzu üzerinde kurar.
func initRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Stores: repository.NewSQLiteStores(db.Conn),
		Tx:     repository.NewSQLiteTransactor(db.Conn),
	}
}
