// Package config loads the RUBIKA_* environment configuration described in
// spec.md §6, in the teacher's nested struct-of-structs shape
// (core/config/config.go), bound through viper's AutomaticEnv and
// validated with ozzo-validation.
package config

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	pkgerror "github.com/rubikabot/ingestcore/pkg/error"
)

type Config struct {
	Bot       BotConfig
	Database  DatabaseConfig
	API       APIConfig
	Webhook   WebhookConfig
	Worker    WorkerConfig
	Queue     QueueConfig
	Ingress   IngressConfig
	Dedup     DedupConfig
	Cache     CacheConfig
	Retention RetentionConfig
	LogLevel  string
}

type BotConfig struct {
	Token   string
	OwnerID string
}

type DatabaseConfig struct {
	URL string // e.g. sqlite:///data/bot.db
}

type APIConfig struct {
	BaseURL         string
	TimeoutSeconds  int
	RetryAttempts   int
	RetryBackoff    float64 // seconds
	RateLimitPerSec float64
}

type WebhookConfig struct {
	Secret          string
	BaseURL         string
	RegisterOnStart bool
	ListenAddr      string
}

type WorkerConfig struct {
	Concurrency int
}

type QueueConfig struct {
	MaxSize    int
	FullPolicy string // "reject" | "drop_oldest"
}

type IngressConfig struct {
	RateLimitPerMinute int
}

type DedupConfig struct {
	TTLSeconds int
}

type CacheConfig struct {
	TTLSeconds int
	MaxSize    int
}

type RetentionConfig struct {
	IncomingUpdatesEnabled   bool
	IncomingUpdatesStoreRaw  bool
	IncomingUpdatesRetention int // hours
	MessagesKeepPerChat      int
}

// Load reads an optional .env file, then binds every RUBIKA_* environment
// variable through viper, applying the defaults spec.md §6 lists, and
// validates the result. A missing RUBIKA_BOT_TOKEN fails the process
// before any listener starts (spec §7: "Config missing required value").
func Load() (*Config, error) {
	_ = godotenv.Load() // optional; absence is not an error

	v := viper.New()
	v.SetEnvPrefix("rubika")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("db_url", "sqlite:///data/bot.db")
	v.SetDefault("api_base_url", "https://botapi.rubika.ir/v3")
	v.SetDefault("api_timeout_seconds", 10)
	v.SetDefault("api_retry_attempts", 3)
	v.SetDefault("api_retry_backoff", 0.5)
	v.SetDefault("api_rate_limit_per_second", 20)
	v.SetDefault("log_level", "INFO")
	v.SetDefault("worker_concurrency", 4)
	v.SetDefault("queue_max_size", 1000)
	v.SetDefault("queue_full_policy", "reject")
	v.SetDefault("rate_limit_per_minute", 120)
	v.SetDefault("dedup_ttl_seconds", 120)
	v.SetDefault("settings_cache_ttl_seconds", 90)
	v.SetDefault("settings_cache_size", 1024)
	v.SetDefault("incoming_updates_enabled", true)
	v.SetDefault("incoming_updates_store_raw", false)
	v.SetDefault("incoming_updates_retention_hours", 48)
	v.SetDefault("messages_keep_per_chat", 10000)
	v.SetDefault("register_webhook", true)
	v.SetDefault("listen_addr", ":8080")

	cfg := &Config{
		Bot: BotConfig{
			Token:   v.GetString("bot_token"),
			OwnerID: v.GetString("owner_id"),
		},
		Database: DatabaseConfig{URL: v.GetString("db_url")},
		API: APIConfig{
			BaseURL:         v.GetString("api_base_url"),
			TimeoutSeconds:  v.GetInt("api_timeout_seconds"),
			RetryAttempts:   v.GetInt("api_retry_attempts"),
			RetryBackoff:    v.GetFloat64("api_retry_backoff"),
			RateLimitPerSec: v.GetFloat64("api_rate_limit_per_second"),
		},
		Webhook: WebhookConfig{
			Secret:          v.GetString("webhook_secret"),
			BaseURL:         v.GetString("webhook_base_url"),
			RegisterOnStart: v.GetBool("register_webhook"),
			ListenAddr:      v.GetString("listen_addr"),
		},
		Worker: WorkerConfig{Concurrency: v.GetInt("worker_concurrency")},
		Queue: QueueConfig{
			MaxSize:    v.GetInt("queue_max_size"),
			FullPolicy: v.GetString("queue_full_policy"),
		},
		Ingress:  IngressConfig{RateLimitPerMinute: v.GetInt("rate_limit_per_minute")},
		Dedup:    DedupConfig{TTLSeconds: v.GetInt("dedup_ttl_seconds")},
		Cache: CacheConfig{
			TTLSeconds: v.GetInt("settings_cache_ttl_seconds"),
			MaxSize:    v.GetInt("settings_cache_size"),
		},
		Retention: RetentionConfig{
			IncomingUpdatesEnabled:   v.GetBool("incoming_updates_enabled"),
			IncomingUpdatesStoreRaw:  v.GetBool("incoming_updates_store_raw"),
			IncomingUpdatesRetention: v.GetInt("incoming_updates_retention_hours"),
			MessagesKeepPerChat:      v.GetInt("messages_keep_per_chat"),
		},
		LogLevel: v.GetString("log_level"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	err := validation.Errors{
		"bot_token":         validation.Validate(c.Bot.Token, validation.Required),
		"queue_max_size":    validation.Validate(c.Queue.MaxSize, validation.Required, validation.Min(1)),
		"worker_concurrency": validation.Validate(c.Worker.Concurrency, validation.Required, validation.Min(1)),
		"queue_full_policy": validation.Validate(c.Queue.FullPolicy, validation.In("reject", "drop_oldest")),
	}.Filter()
	if err != nil {
		return pkgerror.ConfigError(fmt.Sprintf("invalid configuration: %v", err))
	}
	return nil
}

// SQLitePath strips the "sqlite:///" scheme prefix the teacher's install
// wizard writes into RUBIKA_DB_URL, returning a plain filesystem path
// (spec §4.13 "resolve DB path").
func (c *Config) SQLitePath() string {
	return strings.TrimPrefix(c.Database.URL, "sqlite:///")
}
