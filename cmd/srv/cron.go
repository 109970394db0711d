package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/questx-lab/lottery/internal/domain/cron"
	"github.com/questx-lab/lottery/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startCron(cctx *cli.Context) error {
	if err := s.loadConfig(cctx); err != nil {
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

	if err := s.loadStorage(); err != nil {
		return err
	}

	s.loadRepos()
	if err := s.loadLedger(); err != nil {
		return err
	}
	s.loadOrchestrator()

	ctx, stop := signal.NotifyContext(s.ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := xcontext.Configs(ctx).Cycle
	cronJobManager := cron.NewCronJobManager()
	cronJobManager.Register(cron.NewCycleTransitionCronJob(s.orchestrator, cfg.TickInterval))

	xcontext.Logger(ctx).Infof("Starting cycle orchestrator, tick every %s", cfg.TickInterval)
	cronJobManager.Start(ctx)

	if closer, ok := s.publisher.(interface{ Stop(ctx context.Context) error }); ok {
		if err := closer.Stop(s.ctx); err != nil {
			xcontext.Logger(s.ctx).Warnf("Cannot stop the publisher: %v", err)
		}
	}

	xcontext.Logger(s.ctx).Infof("Cycle orchestrator stopped")
	return nil
}
