package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment
// variables. Timeouts are explicit values, never left to transport defaults.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	JWTSecret   string

	StoragePath    string
	StorageBaseURL string
	// FallbackSaveURL is the server-mediated upload endpoint used when the
	// primary storage path fails; empty disables the fallback.
	FallbackSaveURL   string
	FallbackSaveToken string

	GeoIPDBPath   string
	DefaultLocale string

	GenAPIKey      string
	GenBaseURL     string
	TextModel      string
	ImageModelMed  string
	ImageModelHigh string
	SpeechModel    string
	VideoModel     string

	VideoPollInterval time.Duration
	VideoPollBudget   time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	WorkerResumeInterval time.Duration
	WorkerConcurrency    int
	WorkerBatchSize      int

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
	CORSOrigins      []string
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),

		StoragePath:       getEnv("STORAGE_PATH", "./storage"),
		StorageBaseURL:    getEnv("STORAGE_BASE_URL", "http://localhost:8080/static"),
		FallbackSaveURL:   os.Getenv("FALLBACK_SAVE_URL"),
		FallbackSaveToken: os.Getenv("FALLBACK_SAVE_TOKEN"),

		GeoIPDBPath:   os.Getenv("GEOIP_DB_PATH"),
		DefaultLocale: getEnv("DEFAULT_LOCALE", "en"),

		GenAPIKey:      os.Getenv("GEN_API_KEY"),
		GenBaseURL:     getEnv("GEN_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		TextModel:      getEnv("TEXT_MODEL", "gemini-2.0-flash"),
		ImageModelMed:  getEnv("IMAGE_MODEL_MEDIUM", "imagen-3.0-fast"),
		ImageModelHigh: getEnv("IMAGE_MODEL_HIGH", "imagen-3.0"),
		SpeechModel:    getEnv("SPEECH_MODEL", "gemini-2.0-flash-tts"),
		VideoModel:     getEnv("VIDEO_MODEL", "veo-2.0"),

		VideoPollInterval: time.Second * time.Duration(getEnvInt("VIDEO_POLL_INTERVAL_SECONDS", 5)),
		VideoPollBudget:   time.Second * time.Duration(getEnvInt("VIDEO_POLL_BUDGET_SECONDS", 45)),

		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "visualization.events"),

		WorkerResumeInterval: time.Second * time.Duration(getEnvInt("WORKER_RESUME_INTERVAL_SECONDS", 30)),
		WorkerConcurrency:    getEnvInt("WORKER_CONCURRENCY", 4),
		WorkerBatchSize:      getEnvInt("WORKER_BATCH_SIZE", 20),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 120)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		CORSOrigins:      splitList(getEnv("CORS_ORIGINS", "*")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
