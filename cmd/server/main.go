package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"cardpress/config"
	"cardpress/internal/app/ai"
	"cardpress/internal/app/facade"
	appmodel "cardpress/internal/app/model"
	apprepository "cardpress/internal/app/repository"
	appserver "cardpress/internal/app/server"
	appservice "cardpress/internal/app/service"
	httputil "cardpress/internal/http/util"
	"cardpress/internal/infra/kv"
	"cardpress/internal/infra/logger"
	infraNATS "cardpress/internal/infra/nats"
	infraPostgres "cardpress/internal/infra/postgres"
	infraPrometheus "cardpress/internal/infra/prometheus"
	infraRedis "cardpress/internal/infra/redis"
)

func main() {
	ctx := context.Background()

	isDev := os.Getenv("APP_ENV") != "production"
	log := logger.MustInit(logger.Config{
		Development: isDev,
		Level:       os.Getenv("LOG_LEVEL"),
	})
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}

	log.Info("Configuration loaded successfully",
		zap.String("addr", cfg.Server.Addr),
		zap.String("storage_backend", cfg.Storage.Backend),
		zap.Bool("latency_simulation", cfg.Latency.Enabled),
		zap.Bool("analytics", cfg.Analytics.Enabled),
		zap.Bool("ai_configured", cfg.AI.APIKey != ""),
	)

	deps := appserver.Dependencies{
		Logger:     log,
		CDNBaseURL: cfg.CDN.BaseURL,
	}

	// Card/slug persistence backend.
	var store kv.Store
	switch cfg.Storage.Backend {
	case "memory":
		store = kv.NewMemory()
	case "", "file":
		fileStore, err := kv.NewFile(cfg.Storage.Path)
		if err != nil {
			log.Fatal("Failed to open file storage", zap.Error(err))
		}
		store = fileStore
	case "redis":
		redisClient, err := infraRedis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		log.Info("Connected to Redis successfully")
		deps.Redis = redisClient
		store = kv.NewRedis(redisClient, "cardpress")
	default:
		log.Fatal("Unknown storage backend", zap.String("backend", cfg.Storage.Backend))
	}

	cardRepo := apprepository.NewCardRepository(store)
	slugRepo := apprepository.NewSlugRepository(store)

	shareService, err := appservice.NewShareService(ctx, cardRepo, slugRepo)
	if err != nil {
		log.Fatal("Failed to build share resolver", zap.Error(err))
	}
	cardService := appservice.NewCardService(cardRepo, slugRepo)

	uploadTTL, err := time.ParseDuration(cfg.Upload.TTL)
	if err != nil {
		log.Fatal("Invalid upload TTL", zap.Error(err))
	}
	secret := []byte(cfg.Upload.Secret)
	if len(secret) == 0 {
		log.Warn("UPLOAD_SECRET not set, using an ephemeral secret")
		secret = []byte(fmt.Sprintf("ephemeral-%d", time.Now().UnixNano()))
	}
	signer := httputil.NewUploadSigner(secret, uploadTTL)
	uploadService := appservice.NewUploadService(store, signer)

	suggester := ai.NewGeminiSuggester(cfg.AI.APIKey, cfg.AI.Model)

	// Optional visit analytics pipeline.
	if cfg.Analytics.Enabled {
		gormDB, err := infraPostgres.NewGorm(cfg.Postgres)
		if err != nil {
			log.Fatal("Failed to open GORM connection", zap.Error(err))
		}
		sqlDB, err := gormDB.DB()
		if err != nil {
			log.Fatal("Failed to access underlying SQL DB", zap.Error(err))
		}
		defer sqlDB.Close()

		if err := infraPostgres.AutoMigrate(ctx, gormDB, &appmodel.VisitEvent{}); err != nil {
			log.Fatal("Failed to run database migrations", zap.Error(err))
		}

		pool, err := infraPostgres.NewPool(ctx, cfg.Postgres)
		if err != nil {
			log.Fatal("Failed to connect to Postgres", zap.Error(err))
		}
		defer pool.Close()
		deps.Postgres = pool
		log.Info("Connected to Postgres successfully")

		natsConn, js, err := infraNATS.Connect(cfg.NATS)
		if err != nil {
			log.Fatal("Failed to connect to NATS", zap.Error(err))
		}
		defer natsConn.Drain()
		deps.NATS = natsConn
		deps.JetStream = js
		log.Info("Connected to NATS successfully", zap.Bool("jetstream_ready", js != nil))

		visitRepo := apprepository.NewVisitRepository(gormDB)
		consumer := appservice.NewVisitConsumer(js, log, visitRepo)
		if err := consumer.Start(); err != nil {
			log.Fatal("Failed to start visit consumer", zap.Error(err))
		}
		deps.Visits = appservice.NewVisitPublisher(js)
	} else {
		log.Info("Visit analytics disabled")
	}

	if !isDev {
		promServer := infraPrometheus.NewServer(cfg.Prometheus)
		go func() {
			log.Info("Starting Prometheus metrics server",
				zap.Int("port", cfg.Prometheus.Port))
			if err := promServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Prometheus metrics server stopped unexpectedly", zap.Error(err))
			}
		}()
		defer func() {
			if err := promServer.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Warn("Failed to close Prometheus server", zap.Error(err))
			}
		}()
	} else {
		log.Info("Skipping Prometheus metrics server in development mode")
	}

	// The facade stands in for the network boundary a real backend
	// would introduce: every operation is logged and, when enabled,
	// delayed by its simulated round-trip time.
	opts := facade.Options{Logger: log, Delay: cfg.Latency.Enabled}
	deps.Cards = facade.NewCards(cardService, opts)
	deps.Share = facade.NewShare(shareService, opts)
	deps.Uploads = facade.NewUploads(uploadService, opts)
	deps.Suggester = facade.NewSuggestions(suggester, opts)

	server := appserver.New(deps)
	if err := server.Listen(cfg.Server.Addr); err != nil {
		log.Fatal("Fiber server exited", zap.Error(err))
	}
}
