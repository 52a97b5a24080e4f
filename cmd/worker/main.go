package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"envision/internal/adapter/repo"
	"envision/internal/events"
	"envision/internal/infra"
	"envision/internal/provider/genai"
	"envision/internal/provider/video"
	"envision/internal/service"
)

// The worker sweeps records whose video job was still pending when the API
// request returned, polls each job once, and applies the outcome.
func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv).With().Str("component", "worker").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	client := genai.NewClient(genai.Options{
		APIKey:  cfg.GenAPIKey,
		BaseURL: cfg.GenBaseURL,
		Logger:  logger,
	})
	videoCtl := video.New(client, video.Options{
		Model:        cfg.VideoModel,
		PollInterval: cfg.VideoPollInterval,
		PollBudget:   cfg.VideoPollBudget,
	}, logger)

	var publisher service.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		producer := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer producer.Close()
		publisher = producer
	}

	visRepo := repo.NewVisualizationRepository(dbpool)
	if err := repo.EnsureSchema(ctx, dbpool); err != nil {
		logger.Fatal().Err(err).Msg("failed to ensure database schema")
	}
	records := service.NewRecords(visRepo, videoCtl, publisher, logger)

	logger.Info().
		Dur("interval", cfg.WorkerResumeInterval).
		Int("concurrency", cfg.WorkerConcurrency).
		Msg("worker started")

	ticker := time.NewTicker(cfg.WorkerResumeInterval)
	defer ticker.Stop()

	for {
		sweep(ctx, cfg, logger, visRepo, records)
		select {
		case <-ctx.Done():
			logger.Info().Msg("worker stopped")
			return
		case <-ticker.C:
		}
	}
}

func sweep(ctx context.Context, cfg *infra.Config, logger zerolog.Logger, visRepo *repo.VisualizationRepositoryPG, records *service.Records) {
	pending, err := visRepo.ListPendingVideo(ctx, cfg.WorkerBatchSize)
	if err != nil {
		logger.Error().Err(err).Msg("worker: list pending videos failed")
		return
	}
	if len(pending) == 0 {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.WorkerConcurrency)
	for i := range pending {
		rec := pending[i]
		g.Go(func() error {
			updated, err := records.Resume(gctx, &rec)
			if err != nil {
				logger.Error().Err(err).Str("record_id", rec.ID).Msg("worker: resume failed")
				return nil
			}
			if updated.VideoStatus != rec.VideoStatus {
				logger.Info().
					Str("record_id", rec.ID).
					Str("video_status", string(updated.VideoStatus)).
					Msg("worker: video job settled")
			}
			return nil
		})
	}
	_ = g.Wait()
}
