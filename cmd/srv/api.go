package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/questx-lab/lottery/internal/common"
	"github.com/questx-lab/lottery/internal/middleware"
	"github.com/questx-lab/lottery/internal/model"
	"github.com/questx-lab/lottery/pkg/authenticator"
	"github.com/questx-lab/lottery/pkg/cache"
	"github.com/questx-lab/lottery/pkg/prometheus"
	"github.com/questx-lab/lottery/pkg/router"
	"github.com/questx-lab/lottery/pkg/xcontext"

	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(cctx *cli.Context) error {
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

	s.loadRepos()
	if err := s.loadLedger(); err != nil {
		return err
	}
	s.loadDomains()

	ctx, stop := signal.NotifyContext(s.ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	s.ctx = ctx

	s.loadRouter()

	cfg := xcontext.Configs(s.ctx).ApiServer
	s.server = &http.Server{
		Addr:              cfg.Address(),
		Handler:           s.router.Handler(cfg.ServerConfigs),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-s.ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			xcontext.Logger(s.ctx).Errorf("Cannot shutdown the server: %v", err)
		}
	}()

	xcontext.Logger(s.ctx).Infof("Starting server on %s", cfg.Address())
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Server stopped")
	return nil
}

func (s *srv) loadRouter() {
	cfg := xcontext.Configs(s.ctx)

	s.router = router.New(s.ctx)
	s.router.AddCloser(middleware.Logger(), middleware.Prometheus())

	s.router.Handle("/metrics", prometheus.NewHandler(common.PromCollectors()...))

	// These following APIs need authentication with Access Token.
	verifiedTokens := cache.NewTTLCache[string](cfg.Auth.VerifiedTokenTTL)
	if cfg.Auth.VerifiedTokenTTL > 0 {
		verifiedTokens.StartReaper(s.ctx, cfg.Auth.VerifiedTokenTTL)
	}
	authVerifier := middleware.NewAuthVerifier(
		authenticator.NewTokenEngine[model.AccessToken](cfg.Auth.AccessToken),
		verifiedTokens,
	)

	authRouter := s.router.Branch()
	authRouter.Before(authVerifier.Middleware())
	{
		// Cycle API
		router.POST(authRouter, "/enterCycle", s.cycleDomain.Enter)
		router.GET(authRouter, "/getMyEntry", s.cycleDomain.GetMyEntry)

		// Currency API
		router.GET(authRouter, "/getMyBalance", s.currencyDomain.GetMyBalance)
		router.GET(authRouter, "/getMyCurrencyTransactions", s.currencyDomain.GetMyTransactions)
	}

	// Public API.
	router.GET(s.router, "/getCurrentCycle", s.cycleDomain.GetCurrent)
	router.GET(s.router, "/getCycleHistory", s.cycleDomain.GetHistory)
	router.GET(s.router, "/getServerTime", s.cycleDomain.GetServerTime)
}
