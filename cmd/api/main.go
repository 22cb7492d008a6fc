// Command api runs the content platform HTTP API.
//
// @title           Content Platform API
// @version         1.0
// @description     Authenticated front end for the AI content generation backend.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/draftforge/content-platform/internal/api"
	"github.com/draftforge/content-platform/internal/infrastructure/config"
	mongodb "github.com/draftforge/content-platform/internal/infrastructure/db/mongo"
	redisdb "github.com/draftforge/content-platform/internal/infrastructure/db/redis"
	"github.com/draftforge/content-platform/internal/infrastructure/email"
	"github.com/draftforge/content-platform/internal/infrastructure/queue"
	"github.com/draftforge/content-platform/pkg/logger"
)

const shutdownGrace = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger is not up yet; config failures are fatal by design.
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		_ = rdb.Close()
	}()

	sender := email.NewClient(cfg.Email.BaseURL, cfg.Email.APIKey, cfg.Email.From, cfg.Email.Timeout)
	dispatcher := queue.NewEmailDispatcher(0, sender, logger.Component("email_dispatcher"))
	dispatcher.Start(ctx)

	e := api.NewRouter(cfg, db, rdb, sender, dispatcher, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
