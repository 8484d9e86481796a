package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		TTL          string `yaml:"ttl"`
		DefaultCount int    `yaml:"default_count"`
		MaxCount     int    `yaml:"max_count"`
	} `yaml:"quiz"`
	Questions struct {
		// Dir overrides the question bundle compiled into the binary.
		Dir string `yaml:"dir"`
	} `yaml:"questions"`
	Client struct {
		BaseURL string `yaml:"base_url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"client"`
}

// postgresEnv is checked in order when postgres.url is empty.
var postgresEnv = []string{
	"DATABASE_URL",
	"POSTGRES_URL",
	"POSTGRES_PRISMA_URL",
	"POSTGRES_URL_NON_POOLING",
}

// Load reads YAML config from path. A missing file yields the defaults, which run the service
// fully in memory.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}
	if cfg.Postgres.URL == "" {
		cfg.Postgres.URL = PostgresURLFromEnv()
	}
	if cfg.Client.BaseURL == "" {
		cfg.Client.BaseURL = "http://localhost:8080"
	}
	return cfg, nil
}

// PostgresURLFromEnv returns the first non-empty database URL variable.
func PostgresURLFromEnv() string {
	for _, key := range postgresEnv {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
