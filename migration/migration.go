package migration

import (
	"context"
	"embed"
	"errors"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/questx-lab/lottery/pkg/xcontext"
)

//go:embed mysql/*.sql
var mysqlFS embed.FS

// Migrate applies every pending versioned migration of the mysql directory.
func Migrate(ctx context.Context) error {
	m, err := newMigrate(ctx)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	return nil
}

// Rollback reverts the latest applied migration.
func Rollback(ctx context.Context) error {
	m, err := newMigrate(ctx)
	if err != nil {
		return err
	}

	if err := m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	return nil
}

func newMigrate(ctx context.Context) (*migrate.Migrate, error) {
	source, err := iofs.New(mysqlFS, "mysql")
	if err != nil {
		return nil, err
	}

	// The migration connection is opened separately with multiStatements
	// enabled, each file holds several statements.
	dbCfg := xcontext.Configs(ctx).Database
	return migrate.NewWithSourceInstance("iofs", source, dbCfg.MigrationURL())
}
