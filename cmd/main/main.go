package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catSvc "fit-service/internal/catalog/service"
	"fit-service/internal/config"
	"fit-service/internal/store/sqlite"
	serverhttp "fit-service/server/http"
)

func main() {
	cfg := config.Load()
	logger := config.SetupLogger(cfg)

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal().Err(err).Str("db", cfg.DBPath).Msg("open store")
	}
	defer store.Close()

	svc, err := catSvc.NewCatalog(store, cfg.ToleranceCM, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid TOLERANCE_CM")
	}
	r := serverhttp.NewRouter(cfg, logger, svc, store)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info().Str("addr", cfg.Addr()).Str("db", cfg.DBPath).Float64("tolerance_cm", svc.Tolerance()).Msg("server starting")

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.Info().Msg("bye")
}
