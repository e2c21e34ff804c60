package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stain603/industrial-inventory-manager/internal/config"
	"github.com/stain603/industrial-inventory-manager/internal/infra"
	"github.com/stain603/industrial-inventory-manager/internal/router"
	"github.com/stain603/industrial-inventory-manager/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// @title Industrial Inventory API
// @version 1.0
// @description Raw materials, bills of materials and production capacity.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// dev: pretty, prod: JSON
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb, err := infra.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	if rdb == nil {
		log.Warn().Msg("REDIS_URL not set: suggestion cache off, jobs run inline")
	}

	svcs := router.NewServices(cfg, db, rdb)

	// Background work is wired here so workers see the same services as the API.
	mailer := infra.NewMailer(cfg)
	if !mailer.Configured() {
		log.Warn().Msg("SMTP_HOST not set: report e-mails will fail and land in the dead letter queue")
	}
	dispatcher := worker.NewDispatcher(rdb, cfg.EmailMaxAttempts)
	dispatcher.Register(worker.JobTypeEmail, worker.QueueEmail,
		worker.NewEmailWorker(mailer, infra.NewBreaker(infra.BreakerConfig{})))
	dispatcher.Start(ctx, cfg.WorkerPoolSize)

	scheduler, err := worker.StartReportCron(cfg.ReportCron,
		worker.NewReportJob(svcs.Production, dispatcher, infra.SplitRecipients(cfg.ReportEmailTo)))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to schedule production report")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router.New(cfg, db, rdb, svcs),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("env", cfg.Env).Msgf("inventory API listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown on SIGINT / SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	if scheduler != nil {
		<-scheduler.Stop().Done()
	}
	cancel()
	dispatcher.Wait()

	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server exited")
}
