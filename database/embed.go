package database

import (
	"embed"
	"io/fs"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Migrations, binary'ye gömülü migration dosyalarını döner.
// Dönen FS'in kökü migrations/ dizinidir (001_init.sql, ...).
func Migrations() fs.FS {
	sub, err := fs.Sub(embeddedMigrations, "migrations")
	if err != nil {
		// Sadece pattern derleme zamanında bozuksa olur.
		panic(err)
	}
	return sub
}
