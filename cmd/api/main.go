package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"paygate/internal/config"
	"paygate/internal/core/reconcile"
	httpx "paygate/internal/http"
	"paygate/internal/metrics"
	"paygate/internal/provider"
	"paygate/internal/provider/platnosci"
	"paygate/internal/store/postgres"
	"paygate/internal/store/redisq"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connector: configuration errors are fatal before serving traffic
	conn, err := platnosci.New(connectorConfig(cfg.Platnosci), platnosci.WithObserver(metrics.Gateway{}))
	if err != nil {
		log.Fatal().Err(err).Msg("invalid platnosci configuration")
	}

	registry := provider.NewRegistry()
	registry.RegisterProvider(provider.ProviderPlatnosci, platnosci.NewProvider(conn))

	deps := httpx.RouterDependencies{
		APIToken:         cfg.App.APIToken,
		ProviderRegistry: registry,
	}

	// Snapshots (optional)
	var store reconcile.SnapshotStore
	if cfg.DB.DSN != "" {
		pool := postgres.MustOpen(ctx, cfg.DB.DSN)
		defer pool.Close()
		repo := postgres.NewRepo(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("db schema fail")
		}
		store = repo
		deps.Snapshots = repo
	}

	// Watchlist + reconcile worker (optional)
	if cfg.Redis.Addr != "" {
		rdb, err := redisq.Open(ctx, cfg.Redis.Addr)
		if err != nil {
			log.Fatal().Err(err).Msg("redis connect fail")
		}
		defer rdb.Close()
		watch := redisq.New(rdb, redisq.DefaultKey)
		deps.Watchlist = watch

		worker := reconcile.NewWorker(registry.QueryStateFor(provider.ProviderPlatnosci), watch, store, reconcile.Options{
			PollEvery:  cfg.Reconcile.PollEvery,
			Batch:      cfg.Reconcile.Batch,
			RecheckIn:  cfg.Reconcile.RecheckIn,
			MaxElapsed: cfg.Reconcile.MaxElapsed,
		})
		go worker.Run(ctx)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      httpx.NewRouter(deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().
			Str("encoding", conn.Encoding()).
			Strs("pos_ids", conn.PosIDs()).
			Msgf("PayGate API listening on :%s", cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	cancel()
	ctx2, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	log.Info().Msg("server stopped")
}

func connectorConfig(c config.PlatnosciCfg) platnosci.Config {
	out := platnosci.Config{
		Key1:           c.Key1,
		Key2:           c.Key2,
		PosIDs:         c.PosIDs,
		PosAuthKey:     c.PosAuthKey,
		Encoding:       c.Encoding,
		CheckReportSig: c.CheckReportSig,
		Host:           c.Host,
		Timeout:        c.Timeout,
	}
	if c.HTTPDebug {
		out.HTTPDebug = os.Stderr
	}
	return out
}
