// Package main 异步生成任务执行器入口（deck-worker）
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"slidegen-ai-api/internal/application/deck"
	"slidegen-ai-api/internal/config"
	"slidegen-ai-api/internal/domain/entity"
	"slidegen-ai-api/internal/infrastructure/imagegen"
	"slidegen-ai-api/internal/infrastructure/imageval"
	"slidegen-ai-api/internal/infrastructure/llm"
	"slidegen-ai-api/internal/infrastructure/messaging"
	"slidegen-ai-api/internal/infrastructure/persistence/postgres"
	"slidegen-ai-api/internal/infrastructure/persistence/redis"
	"slidegen-ai-api/internal/infrastructure/pptx"
	einoobs "slidegen-ai-api/internal/observability/eino"
	"slidegen-ai-api/internal/workflow/chain"
	"slidegen-ai-api/pkg/logger"
	"slidegen-ai-api/pkg/metrics"
	"slidegen-ai-api/pkg/tracer"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
	ctx := context.Background()

	shutdown, err := tracer.Init(ctx, tracer.Config{
		ServiceName:    "deck-worker",
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Env,
		Endpoint:       cfg.Observability.Tracing.Endpoint,
		SampleRate:     cfg.Observability.Tracing.SampleRate,
		Enabled:        cfg.Observability.Tracing.Enabled,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to init tracer", err)
	}
	defer func() { _ = shutdown(ctx) }()

	// Eino 全局 callbacks（指标/追踪/日志）
	einoobs.Init()

	pgClient, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		logger.Fatal(ctx, "failed to init postgres", err)
	}
	defer func() { _ = pgClient.Close() }()

	if err := pgClient.AutoMigrate(); err != nil {
		logger.Fatal(ctx, "failed to migrate database", err)
	}

	redisClient, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		logger.Fatal(ctx, "failed to init redis", err)
	}
	defer func() { _ = redisClient.Close() }()

	jobRepo := postgres.NewJobRepository(pgClient)
	deckRepo := postgres.NewDeckRepository(pgClient)
	deckCache := redis.NewDeckCache(redisClient, cfg.Cache.Redis.DeckCacheTTL)

	factory := llm.NewEinoFactory(cfg)
	generator := deck.NewGenerator(chain.NewDeckChain(factory), cfg)

	imageSvc, err := imagegen.NewService(cfg.Image)
	if err != nil {
		logger.Fatal(ctx, "failed to init image service", err)
	}
	illustrator := deck.NewIllustrator(imageSvc, imageval.NewValidator(cfg.Image.MinFileSize))

	pipeline := deck.NewPipeline(cfg, generator, auditorFromConfig(cfg), illustrator, pptx.NewRenderer())

	consumer := messaging.NewConsumer(redisClient.Redis(), messaging.ConsumerConfig{
		Stream:       messaging.StreamDeckGen,
		Group:        messaging.ConsumerGroupDeckWorker,
		ConsumerName: hostnameConsumerName(),
		BlockTimeout: cfg.Messaging.RedisStream.BlockTimeout,
		RetryLimit:   cfg.Messaging.RedisStream.RetryLimit,
		Backoff: messaging.BackoffConfig{
			Initial:    cfg.Messaging.RedisStream.RetryBackoff.Initial,
			Max:        cfg.Messaging.RedisStream.RetryBackoff.Max,
			Multiplier: cfg.Messaging.RedisStream.RetryBackoff.Multiplier,
		},
	})

	consumer.RegisterHandler(messaging.MsgTypeDeckGen, func(msgCtx context.Context, msg *messaging.Message) error {
		var payload messaging.DeckJobMessage
		if err := msg.UnmarshalPayload(&payload); err != nil {
			return err
		}
		return processJob(msgCtx, pipeline, jobRepo, deckRepo, deckCache, &payload)
	})

	if err := consumer.Start(ctx); err != nil {
		logger.Fatal(ctx, "failed to start consumer", err)
	}

	log := logger.FromContext(ctx)
	log.Info("deck-worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("deck-worker shutting down")
	consumer.Stop()
}

// processJob 执行单个生成任务。
// 基础设施错误返回 error 交由消息重试；流水线失败为业务终态，标记任务失败后确认消息。
func processJob(
	ctx context.Context,
	pipeline *deck.Pipeline,
	jobRepo *postgres.JobRepository,
	deckRepo *postgres.DeckRepository,
	deckCache *redis.DeckCache,
	payload *messaging.DeckJobMessage,
) error {
	job, err := jobRepo.GetByID(ctx, payload.JobID)
	if err != nil {
		return err
	}
	if job.Status == entity.JobStatusCompleted {
		return nil
	}

	job.MarkRunning()
	if err := jobRepo.Update(ctx, job); err != nil {
		return err
	}
	_ = jobRepo.UpdateProgress(ctx, job.ID, 10)

	result, err := pipeline.RunWithOptions(ctx, payload.Prompt, payload.ContextText, payload.OutputFile, &deck.RunOptions{
		Provider: payload.Provider,
		Model:    payload.Model,
	})
	if err != nil {
		logger.Error(ctx, "deck job failed", err, "job_id", job.ID)
		metrics.JobsTotal.WithLabelValues("failed").Inc()
		job.MarkFailed(err.Error())
		return jobRepo.Update(ctx, job)
	}
	_ = jobRepo.UpdateProgress(ctx, job.ID, 90)

	deckID := uuid.New().String()
	record, err := entity.NewDeckRecord(deckID, result.Deck, result.OutputPath)
	if err != nil {
		job.MarkFailed("failed to encode deck: " + err.Error())
		return jobRepo.Update(ctx, job)
	}
	if err := deckRepo.Create(ctx, record); err != nil {
		return err
	}
	if deckCache != nil {
		_ = deckCache.Store(ctx, record)
	}

	job.MarkCompleted(deckID, result.OutputPath)
	if err := jobRepo.Update(ctx, job); err != nil {
		return err
	}

	metrics.JobsTotal.WithLabelValues("completed").Inc()
	logger.Info(ctx, "deck job completed",
		"job_id", job.ID,
		"deck_id", deckID,
		"output", result.OutputPath,
	)
	return nil
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

func hostnameConsumerName() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "worker"
	}
	return fmt.Sprintf("%s-%d", host, os.Getpid())
}
