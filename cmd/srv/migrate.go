package main

import (
	"github.com/urfave/cli/v2"

	"github.com/zoquest/backend/migration"
	"github.com/zoquest/backend/pkg/xcontext"
)

func (s *srv) startMigrate(*cli.Context) error {
	if err := s.loadConfig(); err != nil {
		return err
	}
	s.loadLogger()

	if err := s.loadDatabase(); err != nil {
		return err
	}

	if err := migration.Migrate(s.ctx); err != nil {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Migration completed")
	return nil
}
