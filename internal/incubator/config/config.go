// Package config loads the service configuration from a YAML file, then
// overlays environment variables (and a local .env file when present).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// PathEnv overrides the location of the YAML file.
const PathEnv = "INCUBATOR_CONFIG"

var DefaultPath = filepath.Join("internal", "incubator", "config", "config.yaml")

type Config struct {
	HTTPPort int `yaml:"HTTP_PORT" env:"HTTP_PORT"`

	DBDriver   string `yaml:"DB_DRIVER" env:"DB_DRIVER"`
	DBHost     string `yaml:"DB_HOST" env:"DB_HOST"`
	DBPort     int    `yaml:"DB_PORT" env:"DB_PORT"`
	DBUser     string `yaml:"DB_USER" env:"DB_USER"`
	DBPassword string `yaml:"DB_PASSWORD" env:"DB_PASSWORD"`
	DBName     string `yaml:"DB_NAME" env:"DB_NAME"`
	DBSSLMode  string `yaml:"DB_SSLMODE" env:"DB_SSLMODE"`
	DBPath     string `yaml:"DB_PATH" env:"DB_PATH"`

	KafkaBrokers  []string `yaml:"KAFKA_BROKERS" env:"KAFKA_BROKERS"`
	Topic         string   `yaml:"TOPIC" env:"TOPIC"`
	ConsumerGroup string   `yaml:"CONSUMER_GROUP" env:"CONSUMER_GROUP"`

	JWTSecret   string   `yaml:"JWT_SECRET" env:"JWT_SECRET"`
	CORSOrigins []string `yaml:"CORS_ORIGINS" env:"CORS_ORIGINS"`

	S3Endpoint  string `yaml:"S3_ENDPOINT" env:"S3_ENDPOINT"`
	S3AccessKey string `yaml:"S3_ACCESS_KEY" env:"S3_ACCESS_KEY"`
	S3SecretKey string `yaml:"S3_SECRET_KEY" env:"S3_SECRET_KEY"`
	S3Bucket    string `yaml:"S3_BUCKET" env:"S3_BUCKET"`
	S3UseSSL    bool   `yaml:"S3_USE_SSL" env:"S3_USE_SSL"`

	ArchiveSchedule string `yaml:"ARCHIVE_SCHEDULE" env:"ARCHIVE_SCHEDULE"`
	Timezone        string `yaml:"TIMEZONE" env:"TIMEZONE"`
}

// Defaults returns the values used when neither the file nor the
// environment set a key.
func Defaults() Config {
	return Config{
		HTTPPort:        8080,
		DBDriver:        "postgres",
		DBPort:          5432,
		DBSSLMode:       "disable",
		Topic:           "incubator-events",
		ConsumerGroup:   "incubator-audit",
		ArchiveSchedule: "@yearly",
		Timezone:        "Europe/Paris",
	}
}

// Load reads the YAML file at path (or the INCUBATOR_CONFIG / default path
// when empty) and applies the environment on top. A missing default file is
// not an error; a missing explicit file is.
func Load(path string) (*Config, error) {
	// .env is only for local development.
	_ = godotenv.Load()

	explicit := path != ""
	if !explicit {
		if p := os.Getenv(PathEnv); p != "" {
			path, explicit = p, true
		} else {
			path = DefaultPath
		}
	}

	cfg := Defaults()
	file, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(file, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, err
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	switch c.DBDriver {
	case "postgres":
		if c.DBHost == "" || c.DBName == "" {
			errs = append(errs, errors.New("DB_HOST and DB_NAME are required for postgres"))
		}
	case "sqlite":
		if c.DBPath == "" {
			errs = append(errs, errors.New("DB_PATH is required for sqlite"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver))
	}
	if c.S3Bucket == "" {
		errs = append(errs, errors.New("S3_BUCKET is required"))
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid HTTP_PORT %d", c.HTTPPort))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("invalid TIMEZONE: %w", err))
	}
	return errors.Join(errs...)
}

// Location is the zone used for scheduling and relation status.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
