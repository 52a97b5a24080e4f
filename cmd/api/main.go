package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"envision/internal/adapter/repo"
	"envision/internal/events"
	"envision/internal/http/handlers"
	"envision/internal/http/httpapi"
	"envision/internal/infra"
	"envision/internal/infra/geoip"
	"envision/internal/middleware"
	"envision/internal/orchestrator"
	"envision/internal/persist"
	"envision/internal/provider/genai"
	"envision/internal/provider/image"
	"envision/internal/provider/speech"
	"envision/internal/provider/text"
	"envision/internal/provider/video"
	"envision/internal/service"
	"envision/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	store, err := storage.NewFileStore(cfg.StoragePath, cfg.StorageBaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}

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

	orch := orchestrator.New(
		text.New(client, cfg.TextModel, logger),
		image.New(client, image.Options{MediumModel: cfg.ImageModelMed, HighModel: cfg.ImageModelHigh}, logger),
		speech.New(client, cfg.SpeechModel, logger),
		videoCtl,
		logger,
	)

	var fallback persist.FallbackSaver
	if cfg.FallbackSaveURL != "" {
		fallback = persist.NewServerSaver(cfg.FallbackSaveURL, cfg.FallbackSaveToken, nil)
	}
	persister := persist.New(store, fallback, logger)

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

	app := &handlers.App{
		Logger:         logger,
		Orchestrator:   orch,
		Persister:      persister,
		Records:        records,
		Repo:           visRepo,
		Store:          store,
		MediaSaveToken: cfg.FallbackSaveToken,
	}

	var lookup middleware.CountryLookup
	if resolver, err := geoip.NewResolver(cfg.GeoIPDBPath); err != nil {
		logger.Warn().Err(err).Msg("geoip unavailable, locale falls back to headers")
	} else if resolver != nil {
		lookup = resolver.CountryCode
	}

	router := httpapi.NewRouter(app, httpapi.Options{
		JWTSecret:       cfg.JWTSecret,
		DefaultLocale:   cfg.DefaultLocale,
		CountryLookup:   lookup,
		CORSOrigins:     cfg.CORSOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		StaticDir:       cfg.StoragePath,
		Logger:          logger,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
