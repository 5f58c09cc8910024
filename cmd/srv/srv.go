package main

import (
	"context"
	"net/http"

	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/zoquest/backend/config"
	"github.com/zoquest/backend/internal/domain"
	"github.com/zoquest/backend/internal/domain/questreward"
	"github.com/zoquest/backend/internal/repository"
	"github.com/zoquest/backend/pkg/kafka"
	"github.com/zoquest/backend/pkg/logger"
	"github.com/zoquest/backend/pkg/pubsub"
	"github.com/zoquest/backend/pkg/router"
	"github.com/zoquest/backend/pkg/xcontext"
	"github.com/zoquest/backend/pkg/xredis"
)

type srv struct {
	ctx context.Context
	app *cli.App

	questRepo         repository.QuestRepository
	userRepo          repository.UserRepository
	completionRepo    repository.QuestCompletionRepository
	balanceRepo       repository.BalanceRepository
	securityEventRepo repository.SecurityEventRepository

	completionDomain domain.CompletionDomain

	publisher   pubsub.Publisher
	redisClient xredis.Client

	router *router.Router
	server *http.Server
}

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "ZoQuest"
	app.Usage = "Quest completion service"
	app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start the api service",
			Category:    "Api",
			Description: `Serves the quest completion and balance endpoints.`,
		},
		{
			Action:      s.startCron,
			Name:        "cron",
			Usage:       "Start cron jobs",
			Category:    "Cron",
			Description: `Runs periodic jobs such as security event cleanup.`,
		},
		{
			Action:   s.startMigrate,
			Name:     "migrate",
			Usage:    "Migrate database to the latest version",
			Category: "Database",
		},
	}

	s.app = app
}

func (s *srv) loadConfig() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	s.ctx = xcontext.WithConfigs(context.Background(), cfg)
	return nil
}

func (s *srv) loadLogger() {
	level := logger.INFO
	if xcontext.Configs(s.ctx).Env == "local" {
		level = logger.DEBUG
	}

	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(level))
}

func (s *srv) loadDatabase() error {
	db, err := gorm.Open(mysql.Open(xcontext.Configs(s.ctx).Database.ConnectionString()), &gorm.Config{})
	if err != nil {
		return err
	}

	s.ctx = xcontext.WithDB(s.ctx, db)
	return nil
}

func (s *srv) loadRedisClient() error {
	client, err := xredis.NewClient(s.ctx, xcontext.Configs(s.ctx).Redis)
	if err != nil {
		return err
	}

	s.redisClient = client
	return nil
}

func (s *srv) loadPublisher() error {
	publisher, err := kafka.NewPublisher("zoquest-backend", []string{xcontext.Configs(s.ctx).Kafka.Addr})
	if err != nil {
		return err
	}

	s.publisher = publisher
	return nil
}

func (s *srv) loadRepos() {
	s.questRepo = repository.NewQuestRepository()
	s.userRepo = repository.NewUserRepository()
	s.completionRepo = repository.NewQuestCompletionRepository()
	s.balanceRepo = repository.NewBalanceRepository()
	s.securityEventRepo = repository.NewSecurityEventRepository()
}

func (s *srv) loadDomains() {
	auditor := questreward.NewAuditor(s.securityEventRepo, s.publisher)
	s.completionDomain = domain.NewCompletionDomain(
		s.questRepo,
		s.userRepo,
		s.completionRepo,
		s.balanceRepo,
		auditor,
		s.redisClient,
	)
}
