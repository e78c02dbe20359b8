// Command worker drains the mirror queue into Postgres and inspects
// uploaded sign files.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/dharsanguruparan/DocFlow/internal/config"
	"github.com/dharsanguruparan/DocFlow/internal/database"
	"github.com/dharsanguruparan/DocFlow/internal/logger"
	"github.com/dharsanguruparan/DocFlow/internal/repository"
	"github.com/dharsanguruparan/DocFlow/internal/s3storage"
	"github.com/dharsanguruparan/DocFlow/internal/worker"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.Init(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	pool, err := database.Connect(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatal("connect database", zap.Error(err))
	}
	defer pool.Close()
	if err := database.EnsureSchema(ctx, pool); err != nil {
		log.Fatal("ensure schema", zap.Error(err))
	}
	repo := repository.NewRecordRepository(pool)

	store, err := s3storage.New(cfg.Storage)
	if err != nil {
		log.Fatal("init storage", zap.Error(err))
	}
	if err := store.EnsureBuckets(ctx); err != nil {
		log.Fatal("ensure buckets", zap.Error(err))
	}

	server := asynq.NewServer(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, asynq.Config{
		Concurrency: cfg.Server.Workers,
		Logger:      log.Named("asynq").Sugar(),
	})
	processor := worker.NewProcessor(repo, store, log)
	mux := processor.Handler()

	go func() {
		<-ctx.Done()
		server.Shutdown()
	}()

	log.Info("worker started", zap.Int("concurrency", cfg.Server.Workers))
	if err := server.Run(mux); err != nil {
		log.Error("worker stopped", zap.Error(err))
		os.Exit(1)
	}
}
