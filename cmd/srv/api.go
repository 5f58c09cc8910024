package main

import (
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"

	"github.com/zoquest/backend/internal/middleware"
	"github.com/zoquest/backend/pkg/router"
	"github.com/zoquest/backend/pkg/xcontext"
)

func (s *srv) startApi(*cli.Context) error {
	if err := s.loadConfig(); err != nil {
		return err
	}
	s.loadLogger()

	if err := s.loadDatabase(); err != nil {
		return err
	}

	if err := s.loadRedisClient(); err != nil {
		return err
	}

	if err := s.loadPublisher(); err != nil {
		return err
	}

	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	cfg := xcontext.Configs(s.ctx)
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ApiServer.Port),
		Handler: s.router.Handler(),
	}

	xcontext.Logger(s.ctx).Infof("Starting server on port %s", cfg.ApiServer.Port)
	if err := s.server.ListenAndServe(); err != nil {
		return err
	}

	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(xcontext.DB(s.ctx), xcontext.Configs(s.ctx), xcontext.Logger(s.ctx))
	s.router.AddCloser(middleware.Logger())

	authVerifier := middleware.NewAuthVerifier()
	s.router.Before(authVerifier.Middleware())

	router.POST(s.router, "/completeQuest", s.completionDomain.Complete)
	router.GET(s.router, "/getQuest", s.completionDomain.GetQuest)
	router.GET(s.router, "/getBalance", s.completionDomain.GetBalance)
}
