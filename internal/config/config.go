// Package config loads runtime configuration from an optional YAML file
// with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds everything main needs to wire the application. Every
// backing service is optional: an empty DatabaseURL, KafkaBrokers or
// RedisAddr selects the in-memory fallback.
type Config struct {
	HTTPAddr string `yaml:"http_addr"`

	DatabaseURL string `yaml:"database_url"`

	KafkaBrokers       []string `yaml:"kafka_brokers"`
	KafkaConsumerGroup string   `yaml:"kafka_consumer_group"`
	OrdersTopic        string   `yaml:"orders_topic"`

	RedisAddr  string        `yaml:"redis_addr"`
	SessionTTL time.Duration `yaml:"session_ttl"`

	CatalogPath string `yaml:"catalog_path"`
}

// Load reads path (skipped when empty or absent), then applies
// environment overrides and defaults.
func Load(path string) (Config, error) {
	cfg := Config{
		HTTPAddr:           ":8080",
		KafkaConsumerGroup: "storefront-bot",
		SessionTTL:         24 * time.Hour,
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.HTTPAddr = getEnv("HTTP_ADDR", cfg.HTTPAddr)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = splitList(brokers)
	}
	cfg.KafkaConsumerGroup = getEnv("KAFKA_CONSUMER_GROUP", cfg.KafkaConsumerGroup)
	cfg.OrdersTopic = getEnv("ORDERS_TOPIC", cfg.OrdersTopic)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.CatalogPath = getEnv("CATALOG_PATH", cfg.CatalogPath)
	if ttl := os.Getenv("SESSION_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SESSION_TTL %q: %w", ttl, err)
		}
		cfg.SessionTTL = d
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
