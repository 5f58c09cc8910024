package main

import (
	"github.com/urfave/cli/v2"

	"github.com/zoquest/backend/internal/domain/cron"
)

func (s *srv) startCron(*cli.Context) error {
	if err := s.loadConfig(); err != nil {
		return err
	}
	s.loadLogger()

	if err := s.loadDatabase(); err != nil {
		return err
	}

	s.loadRepos()

	cronJobManager := cron.NewCronJobManager()
	cronJobManager.Register(cron.NewSecurityEventCleanupCronJob(s.securityEventRepo))
	cronJobManager.Start(s.ctx)

	return nil
}
