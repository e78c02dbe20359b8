// Command server runs the DocFlow Mini-App backend: the Telegram webhook,
// the static Mini-App, the remote-store REST API and document generation.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/dharsanguruparan/DocFlow/internal/api"
	"github.com/dharsanguruparan/DocFlow/internal/bot"
	"github.com/dharsanguruparan/DocFlow/internal/config"
	"github.com/dharsanguruparan/DocFlow/internal/database"
	"github.com/dharsanguruparan/DocFlow/internal/emit"
	"github.com/dharsanguruparan/DocFlow/internal/localstore"
	"github.com/dharsanguruparan/DocFlow/internal/logger"
	"github.com/dharsanguruparan/DocFlow/internal/processing"
	"github.com/dharsanguruparan/DocFlow/internal/quota"
	"github.com/dharsanguruparan/DocFlow/internal/remote"
	"github.com/dharsanguruparan/DocFlow/internal/repository"
	"github.com/dharsanguruparan/DocFlow/internal/s3storage"
	"github.com/dharsanguruparan/DocFlow/internal/signing"
	"github.com/dharsanguruparan/DocFlow/internal/state"
	"github.com/dharsanguruparan/DocFlow/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	pool, err := database.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	if err := database.EnsureSchema(ctx, pool); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	repo := repository.NewRecordRepository(pool)

	objects, err := s3storage.New(cfg.Storage)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	if err := objects.EnsureBuckets(ctx); err != nil {
		return fmt.Errorf("ensure buckets: %w", err)
	}

	local, err := localstore.Open(cfg.Local.Path)
	if err != nil {
		return fmt.Errorf("open local store: %w", err)
	}
	defer local.Close()

	queueClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer queueClient.Close()
	mirror := &remote.Queued{Records: repo, Queue: queueClient}

	runner := processing.New(cfg.Server.Workers, log.Named("runner"))
	runner.Start(ctx)
	defer runner.Wait()

	signer := signing.NewSigner(cfg.Signing.SecretBytes)
	links := signing.Links{Signer: signer, BaseURL: cfg.Server.PublicURL, TTL: cfg.Signing.LinkTTL}
	downloads := signing.Links{Signer: signer, BaseURL: cfg.Server.PublicURL, TTL: cfg.Signing.CacheTTL}
	cache := storage.NewMemoryStore(cfg.Signing.CacheTTL, cfg.Signing.CacheEntries)

	var tg *bot.Bot
	if cfg.Telegram.BotToken != "" {
		botAPI, err := bot.Connect(cfg.Telegram.BotToken)
		if err != nil {
			return fmt.Errorf("connect telegram: %w", err)
		}
		tg = bot.New(botAPI, cfg.Telegram.WebAppURL, log)
		go func() {
			if err := tg.RegisterWebhook(ctx, cfg.WebhookURL()); err != nil {
				log.Warn("webhook not registered", zap.Error(err))
			}
		}()
		defer func() {
			if err := tg.DeleteWebhook(); err != nil {
				log.Warn("delete webhook", zap.Error(err))
			}
		}()
	} else {
		log.Warn("telegram bot token not set, bot disabled")
	}

	gate := quota.Gate{Limit: cfg.Quota.Limit, Window: cfg.Quota.Window}
	steps := delivery{
		objects:    objects,
		presignTTL: cfg.Storage.PresignTTL,
		cache:      cache,
		links:      downloads,
		log:        log,
	}
	registry := state.NewRegistry(func(userID string) state.Options {
		opts := state.Options{
			UserID:  userID,
			Local:   local,
			Remote:  mirror,
			Runner:  runner,
			Gate:    gate,
			Links:   links,
			Uploads: objects,
			Log:     log,
		}
		opts.Bridge, opts.Delivery = steps.forUser(tg, userID)
		return opts
	})
	go sweep(ctx, cache, registry, cfg.Signing.CacheTTL, cfg.Server.SessionIdle, log)

	deps := api.Deps{
		Records:     repo,
		Files:       objects,
		Artifacts:   cache,
		Controllers: registry,
		Signer:      signer,
		Log:         log,
	}
	if tg != nil {
		deps.Webhook = tg
	}
	return api.New(cfg, deps).Run(ctx)
}

// delivery holds the steps every user's chain shares.
type delivery struct {
	objects    emit.ObjectStore
	presignTTL time.Duration
	cache      emit.Cache
	links      emit.Linker
	log        *zap.Logger
}

// forUser builds the bridge and delivery chain for one user. Users without a
// Telegram chat get the log bridge and a signed link nobody opens for them.
func (d delivery) forUser(tg *bot.Bot, userID string) (state.Bridge, *emit.Chain) {
	log := d.log.With(zap.String("user_id", userID))
	var (
		bridge state.Bridge = state.NewLogBridge(log)
		host   emit.Strategy
		opener emit.Opener
	)
	if tg != nil {
		if chat, ok := tg.ChatForUser(userID); ok {
			bridge, host, opener = chat, emit.HostLink{Host: chat}, chat
		}
	}
	return bridge, emit.NewChain(log,
		host,
		emit.ObjectLink{Store: d.objects, Prefix: "documents/", TTL: d.presignTTL},
		emit.SignedLink{Cache: d.cache, Links: d.links, Opener: opener},
		emit.ClipboardNotice{Notifier: bridge},
	)
}

// sweep expires cached artifacts and drops idle user controllers.
func sweep(ctx context.Context, cache *storage.MemoryStore, registry *state.Registry, every, idle time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(min(every, idle))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			expired := cache.Sweep()
			pruned := registry.Prune(idle)
			if expired > 0 || pruned > 0 {
				log.Debug("sweep", zap.Int("artifacts", expired), zap.Int("controllers", pruned))
			}
		}
	}
}
