package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RecognitionConfig struct {
	// MinCandidateLength is the shortest normalized detection admitted as a
	// plate candidate. Shorter tokens are typically noise (logos, stickers).
	MinCandidateLength int
	// Language is the Tesseract language code used by the OCR engine.
	Language string
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Recognition RecognitionConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")

	v.AutomaticEnv()

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Recognition: RecognitionConfig{
			MinCandidateLength: v.GetInt("RECOGNITION_MIN_CANDIDATE_LEN"),
			Language:           v.GetString("RECOGNITION_OCR_LANGUAGE"),
		},
	}

	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 8080
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.Recognition.MinCandidateLength == 0 {
		cfg.Recognition.MinCandidateLength = 3
	}
	if cfg.Recognition.Language == "" {
		cfg.Recognition.Language = "eng"
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.Recognition.MinCandidateLength < 1 {
		return fmt.Errorf("RECOGNITION_MIN_CANDIDATE_LEN must be positive")
	}
	return nil
}
