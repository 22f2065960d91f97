package migrations

import (
	"context"
	"database/sql"
	"log"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

// Migrations holds the postgres schema for question banks, dashboard state and history.
var Migrations = migrate.NewMigrations()

// Apply runs every pending migration against dsn.
func Apply(ctx context.Context, dsn string) error {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, Migrations)
	if err := migrator.Init(ctx); err != nil {
		return err
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return err
	}
	if group.IsZero() {
		log.Printf("INFO: [Migrate] schema up to date")
		return nil
	}
	log.Printf("INFO: [Migrate] applied %s", group)
	return nil
}
