package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	JobStoreMemory = "memory"
	JobStoreSQLite = "sqlite"
)

type Config struct {
	Port            int
	DataDir         string
	MaxUploadSizeMB int
	JobStore        string
	LogLevel        string

	RetentionDelay time.Duration
	MaxJobAge      time.Duration
	SweepInterval  time.Duration

	RenderTimeout     time.Duration
	RenderConcurrency int
	SofficePath       string
	TesseractPath     string
	OCRLanguage       string

	VertexProjectID string
	VertexRegion    string
	VertexModel     string
}

func Load() (*Config, error) {
	port, err := strconv.Atoi(getEnv("PORT", "7890"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	maxUploadSizeMB, err := strconv.Atoi(getEnv("MAX_UPLOAD_SIZE_MB", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_SIZE_MB: %w", err)
	}
	if maxUploadSizeMB <= 0 {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_SIZE_MB: must be positive")
	}

	renderConcurrency, err := strconv.Atoi(getEnv("RENDER_CONCURRENCY", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid RENDER_CONCURRENCY: %w", err)
	}
	if renderConcurrency < 1 {
		renderConcurrency = 1
	}

	retentionDelay, err := getDuration("RETENTION_DELAY", "60s")
	if err != nil {
		return nil, err
	}
	maxJobAge, err := getDuration("MAX_JOB_AGE", "24h")
	if err != nil {
		return nil, err
	}
	sweepInterval, err := getDuration("SWEEP_INTERVAL", "10m")
	if err != nil {
		return nil, err
	}
	renderTimeout, err := getDuration("RENDER_TIMEOUT", "2m")
	if err != nil {
		return nil, err
	}

	jobStore := getEnv("JOB_STORE", JobStoreMemory)
	if jobStore != JobStoreMemory && jobStore != JobStoreSQLite {
		return nil, fmt.Errorf("invalid JOB_STORE %q: want %s or %s", jobStore, JobStoreMemory, JobStoreSQLite)
	}

	return &Config{
		Port:              port,
		DataDir:           getEnv("DATA_DIR", "./data"),
		MaxUploadSizeMB:   maxUploadSizeMB,
		JobStore:          jobStore,
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		RetentionDelay:    retentionDelay,
		MaxJobAge:         maxJobAge,
		SweepInterval:     sweepInterval,
		RenderTimeout:     renderTimeout,
		RenderConcurrency: renderConcurrency,
		SofficePath:       getEnv("SOFFICE_PATH", "soffice"),
		TesseractPath:     getEnv("TESSERACT_PATH", "tesseract"),
		OCRLanguage:       getEnv("OCR_LANGUAGE", "eng"),
		VertexProjectID:   os.Getenv("VERTEX_PROJECT_ID"),
		VertexRegion:      getEnv("VERTEX_REGION", "us-central1"),
		VertexModel:       getEnv("VERTEX_MODEL", "gemini-1.5-pro"),
	}, nil
}

// CompletionEnabled reports whether a hosted completion service is configured.
func (c *Config) CompletionEnabled() bool {
	return c.VertexProjectID != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key, defaultValue string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}
