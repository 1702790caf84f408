package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"FishBiomass/database/postgres"
	predictionRepository "FishBiomass/internal/api/prediction/repository"
	"FishBiomass/pkg/vision"
)

const (
	ModelLoadEager = "eager"
	ModelLoadLazy  = "lazy"
)

// Config is the process configuration read from the environment.
type Config struct {
	AppPort        string
	AppEnv         string
	ModelPath      string
	ModelLoadMode  string
	LogDriver      string
	LogPath        string
	Database       postgres.Config
	MaxUploadMB    int
	MaxImagePixels int
	RateLimitRPS   float64
	RateLimitBurst int
}

func LoadConfig() (Config, error) {
	cfg := Config{
		AppPort:       getEnv("APP_PORT", "8000"),
		AppEnv:        getEnv("APP_ENV", "development"),
		ModelPath:     getEnv("MODEL_PATH", "models/linear_regression_fish.json"),
		ModelLoadMode: strings.ToLower(getEnv("MODEL_LOAD_MODE", ModelLoadEager)),
		LogDriver:     strings.ToLower(getEnv("LOG_DRIVER", predictionRepository.DriverCSV)),
		LogPath:       getEnv("LOG_PATH", "data/log_predictions.csv"),
		Database: postgres.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "fish_biomass"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
	}

	var err error
	if cfg.MaxUploadMB, err = getEnvInt("MAX_UPLOAD_MB", 10); err != nil {
		return Config{}, err
	}
	if cfg.MaxImagePixels, err = getEnvInt("MAX_IMAGE_PIXELS", vision.DefaultMaxPixels); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitBurst, err = getEnvInt("RATE_LIMIT_BURST", 100); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitRPS, err = getEnvFloat("RATE_LIMIT_RPS", 50); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.ModelLoadMode {
	case ModelLoadEager, ModelLoadLazy:
	default:
		return fmt.Errorf("MODEL_LOAD_MODE must be %q or %q, got %q", ModelLoadEager, ModelLoadLazy, c.ModelLoadMode)
	}

	switch c.LogDriver {
	case predictionRepository.DriverCSV, predictionRepository.DriverPostgres:
	default:
		return fmt.Errorf("LOG_DRIVER must be %q or %q, got %q", predictionRepository.DriverCSV, predictionRepository.DriverPostgres, c.LogDriver)
	}

	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", c.MaxUploadMB)
	}
	if c.MaxImagePixels <= 0 {
		return fmt.Errorf("MAX_IMAGE_PIXELS must be positive, got %d", c.MaxImagePixels)
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit must be positive, got %v rps burst %d", c.RateLimitRPS, c.RateLimitBurst)
	}
	return nil
}

func (c Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) * 1024 * 1024
}

// VisionParams returns the default extraction parameters bounded by MAX_IMAGE_PIXELS.
func (c Config) VisionParams() vision.Params {
	params := vision.DefaultParams()
	params.MaxPixels = c.MaxImagePixels
	return params
}

func getEnv(key, defaultVal string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	v := getEnv(key, "")
	if v == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, defaultVal float64) (float64, error) {
	v := getEnv(key, "")
	if v == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}
