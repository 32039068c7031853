// Package main 演示文稿生成服务入口
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"slidegen-ai-api/internal/application/deck"
	"slidegen-ai-api/internal/config"
	"slidegen-ai-api/internal/infrastructure/imagegen"
	"slidegen-ai-api/internal/infrastructure/imageval"
	"slidegen-ai-api/internal/infrastructure/llm"
	"slidegen-ai-api/internal/infrastructure/messaging"
	"slidegen-ai-api/internal/infrastructure/persistence/postgres"
	"slidegen-ai-api/internal/infrastructure/persistence/redis"
	"slidegen-ai-api/internal/infrastructure/pptx"
	"slidegen-ai-api/internal/interfaces/http/handler"
	"slidegen-ai-api/internal/interfaces/http/router"
	einoobs "slidegen-ai-api/internal/observability/eino"
	"slidegen-ai-api/internal/workflow/chain"
	"slidegen-ai-api/pkg/logger"
	"slidegen-ai-api/pkg/tracer"

	"github.com/joho/godotenv"
)

// Version 版本信息，构建时注入
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// 加载 .env 文件（如果存在）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(
		cfg.Observability.Logging.Level,
		cfg.Observability.Logging.Format,
	)

	ctx := context.Background()
	log := logger.FromContext(ctx)
	log.Info("starting deck-gen-svc",
		"version", Version,
		"build_time", BuildTime,
		"env", cfg.App.Env,
	)

	shutdown, err := tracer.Init(ctx, tracer.Config{
		ServiceName:    cfg.App.Name,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Env,
		Endpoint:       cfg.Observability.Tracing.Endpoint,
		SampleRate:     cfg.Observability.Tracing.SampleRate,
		Enabled:        cfg.Observability.Tracing.Enabled,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to init tracer", err)
	}
	defer func() {
		if err := shutdown(ctx); err != nil {
			log.Error("failed to shutdown tracer", "error", err)
		}
	}()

	// Eino 全局 callbacks（指标/追踪/日志）
	einoobs.Init()

	// Postgres（可选，未启用时仅同步生成可用）
	var pgClient *postgres.Client
	if cfg.Database.Postgres.Enabled {
		pgClient, err = postgres.NewClient(&cfg.Database.Postgres)
		if err != nil {
			logger.Fatal(ctx, "failed to connect postgres", err)
		}
		defer pgClient.Close()

		if err := pgClient.AutoMigrate(); err != nil {
			logger.Fatal(ctx, "failed to migrate database", err)
		}
	}

	// Redis（可选）
	var redisClient *redis.Client
	if cfg.Cache.Redis.Enabled {
		redisClient, err = redis.NewClient(&cfg.Cache.Redis)
		if err != nil {
			logger.Fatal(ctx, "failed to connect redis", err)
		}
		defer redisClient.Close()
	}

	// 流水线
	factory := llm.NewEinoFactory(cfg)
	generator := deck.NewGenerator(chain.NewDeckChain(factory), cfg)

	imageSvc, err := imagegen.NewService(cfg.Image)
	if err != nil {
		logger.Fatal(ctx, "failed to init image service", err)
	}
	illustrator := deck.NewIllustrator(imageSvc, imageval.NewValidator(cfg.Image.MinFileSize))

	pipeline := deck.NewPipeline(cfg, generator, auditorFromConfig(cfg), illustrator, pptx.NewRenderer())

	// 持久化与队列（依赖可用性按需装配）
	handlers := router.Handlers{
		Health: handler.NewHealthHandler(pgClient, redisClient, cfg.App.Version),
	}

	if pgClient != nil {
		deckRepo := postgres.NewDeckRepository(pgClient)
		var cache *redis.DeckCache
		if redisClient != nil {
			cache = redis.NewDeckCache(redisClient, cfg.Cache.Redis.DeckCacheTTL)
		}
		handlers.Deck = handler.NewDeckHandler(cfg, pipeline, deckRepo, cache)

		if redisClient != nil {
			producer := messaging.NewProducer(redisClient.Redis(), int64(cfg.Messaging.RedisStream.MaxLen))
			handlers.Job = handler.NewJobHandler(cfg, postgres.NewJobRepository(pgClient), producer)
		}
	} else {
		// 无存储时仍提供同步生成
		handlers.Deck = handler.NewDeckHandler(cfg, pipeline, nil, nil)
	}

	r := router.New(cfg, handlers)

	addr := fmt.Sprintf("%s:%d", cfg.Server.HTTP.Host, cfg.Server.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.HTTP.ReadTimeout,
		WriteTimeout: cfg.Server.HTTP.WriteTimeout,
		IdleTimeout:  cfg.Server.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("http server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	log.Info("server exited")
}

func auditorFromConfig(cfg *config.Config) *deck.Auditor {
	a := deck.NewAuditor()
	c := cfg.Pipeline.Constraints
	if c.MinSlides > 0 {
		a.MinSlides = c.MinSlides
	}
	if c.WeakTitleWords > 0 {
		a.WeakTitleWords = c.WeakTitleWords
	}
	if c.TitleTruncWords > 0 {
		a.TitleKeepWords = c.TitleTruncWords
	}
	return a
}
