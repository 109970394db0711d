package main

import (
	"github.com/questx-lab/lottery/migration"
	"github.com/questx-lab/lottery/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startMigrate(cctx *cli.Context) error {
	if err := s.loadConfig(cctx); err != nil {
		return err
	}
	s.loadLogger()

	if cctx.Bool("down") {
		if err := migration.Rollback(s.ctx); err != nil {
			return err
		}

		xcontext.Logger(s.ctx).Infof("Reverted the latest migration")
		return nil
	}

	if err := migration.Migrate(s.ctx); err != nil {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Applied all migrations")
	return nil
}
