package main

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/questx-lab/lottery/config"
	"github.com/questx-lab/lottery/internal/domain"
	"github.com/questx-lab/lottery/internal/domain/archiver"
	"github.com/questx-lab/lottery/internal/domain/ledger"
	"github.com/questx-lab/lottery/internal/domain/orchestrator"
	"github.com/questx-lab/lottery/internal/repository"
	"github.com/questx-lab/lottery/pkg/kafka"
	"github.com/questx-lab/lottery/pkg/logger"
	"github.com/questx-lab/lottery/pkg/pubsub"
	"github.com/questx-lab/lottery/pkg/router"
	"github.com/questx-lab/lottery/pkg/storage"
	"github.com/questx-lab/lottery/pkg/xcontext"
	"github.com/questx-lab/lottery/pkg/xredis"
	"github.com/urfave/cli/v2"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type srv struct {
	app *cli.App
	ctx context.Context

	cycleRepo               repository.CycleRepository
	cycleEntryRepo          repository.CycleEntryRepository
	userBalanceRepo         repository.UserBalanceRepository
	currencyTransactionRepo repository.CurrencyTransactionRepository

	ledger       ledger.Ledger
	archiver     archiver.Archiver
	orchestrator *orchestrator.Orchestrator

	cycleDomain    domain.CycleDomain
	currencyDomain domain.CurrencyDomain

	redisClient xredis.Client
	publisher   pubsub.Publisher
	storage     storage.Storage

	router *router.Router
	server *http.Server
}

func (s *srv) loadConfig(cctx *cli.Context) error {
	cfg, err := config.Load(cctx.String(configFlag.Name))
	if err != nil {
		return err
	}

	s.ctx = xcontext.WithConfigs(cctx.Context, cfg)
	return nil
}

func (s *srv) loadLogger() {
	level := logger.ParseLevel(xcontext.Configs(s.ctx).LogLevel)
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(level))
}

func (s *srv) newDatabase() (*gorm.DB, error) {
	cfg := xcontext.Configs(s.ctx).Database
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       cfg.ConnectionString(),
		DefaultStringSize:         256,
		DisableDatetimePrecision:  true,
		DontSupportRenameIndex:    true,
		DontSupportRenameColumn:   true,
		SkipInitializeWithVersion: false,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func (s *srv) loadDatabase() error {
	db, err := s.newDatabase()
	if err != nil {
		return err
	}

	s.ctx = xcontext.WithDB(s.ctx, db)
	return nil
}

func (s *srv) loadRedisClient() error {
	var err error
	s.redisClient, err = xredis.NewClient(s.ctx)
	return err
}

// loadPublisher leaves the publisher unset if no kafka broker is configured.
func (s *srv) loadPublisher() error {
	addr := xcontext.Configs(s.ctx).Kafka.Addr
	if addr == "" {
		xcontext.Logger(s.ctx).Warnf("No kafka broker, cycle completed events are disabled")
		return nil
	}

	publisher, err := kafka.NewPublisher("lottery", []string{addr})
	if err != nil {
		return err
	}

	s.publisher = publisher
	return nil
}

// loadStorage leaves the storage unset if no snapshot bucket is configured.
func (s *srv) loadStorage() error {
	cfg := xcontext.Configs(s.ctx)
	if cfg.Cycle.SnapshotBucket == "" {
		xcontext.Logger(s.ctx).Warnf("No snapshot bucket, history snapshots are disabled")
		return nil
	}

	s3, err := storage.NewS3Storage(cfg.Storage)
	if err != nil {
		return err
	}

	s.storage = s3
	return nil
}

func (s *srv) loadRepos() {
	s.cycleRepo = repository.NewCycleRepository()
	s.cycleEntryRepo = repository.NewCycleEntryRepository()
	s.userBalanceRepo = repository.NewUserBalanceRepository()
	s.currencyTransactionRepo = repository.NewCurrencyTransactionRepository()
}

func (s *srv) loadLedger() error {
	node, err := snowflake.NewNode(xcontext.Configs(s.ctx).SnowFlake.NodeID)
	if err != nil {
		return err
	}

	s.ledger = ledger.New(s.userBalanceRepo, s.currencyTransactionRepo, node)
	return nil
}

func (s *srv) loadDomains() {
	s.cycleDomain = domain.NewCycleDomain(s.cycleRepo, s.cycleEntryRepo, s.ledger, s.redisClient)
	s.currencyDomain = domain.NewCurrencyDomain(s.ledger, s.currencyTransactionRepo)
}

func (s *srv) loadOrchestrator() {
	s.archiver = archiver.New(s.cycleRepo, s.cycleEntryRepo, s.storage)
	s.orchestrator = orchestrator.New(
		s.cycleRepo,
		s.cycleEntryRepo,
		s.ledger,
		s.archiver,
		s.redisClient,
		s.publisher,
	)
}
