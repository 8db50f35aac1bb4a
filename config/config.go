package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	// HTTP server
	Server ServerConfig `mapstructure:"server"`

	// Card/slug persistence
	Storage StorageConfig `mapstructure:"storage"`

	// Redis (storage backend + rate limiting)
	Redis RedisConfig `mapstructure:"redis"`

	// PostgreSQL (visit analytics)
	Postgres PostgresConfig `mapstructure:"postgres"`

	// NATS (visit event stream)
	NATS NATSConfig `mapstructure:"nats"`

	// Prometheus
	Prometheus PrometheusConfig `mapstructure:"prometheus"`

	// Gemini suggestions
	AI AIConfig `mapstructure:"ai"`

	// Signed upload targets
	Upload UploadConfig `mapstructure:"upload"`

	// Media key resolution
	CDN CDNConfig `mapstructure:"cdn"`

	// Simulated network boundary
	Latency LatencyConfig `mapstructure:"latency"`

	// Visit analytics pipeline toggle
	Analytics AnalyticsConfig `mapstructure:"analytics"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type StorageConfig struct {
	// Backend selects where the card list and slug map live:
	// "memory", "file" or "redis".
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type PostgresConfig struct {
	Host              string `mapstructure:"host"`
	User              string `mapstructure:"user"`
	Password          string `mapstructure:"password"`
	Database          string `mapstructure:"database"`
	Port              int    `mapstructure:"port"`
	SSLMode           string `mapstructure:"sslmode"`
	MaxConns          int32  `mapstructure:"max_conns"`
	MinConns          int32  `mapstructure:"min_conns"`
	MaxConnLifetime   string `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   string `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod string `mapstructure:"health_check_period"`
}

type NATSConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

type PrometheusConfig struct {
	Port int `mapstructure:"port"`
}

type AIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type UploadConfig struct {
	Secret string `mapstructure:"secret"`
	TTL    string `mapstructure:"ttl"`
}

type CDNConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type LatencyConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type AnalyticsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

func Load() (*Config, error) {
	// Load local .env for development (ignored when missing).
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()

	// Search for config/config.yaml (plus root for overrides).
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Allow environment variables to override YAML entries.
	v.SetEnvPrefix("")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Preserve legacy env variable names.
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.path", "cardpress.db.json")
	v.SetDefault("ai.model", "gemini-2.5-flash")
	v.SetDefault("upload.ttl", "15m")
	v.SetDefault("cdn.base_url", "https://cdn.cardpress.local")
	v.SetDefault("latency.enabled", true)
	v.SetDefault("analytics.enabled", false)
}

func bindEnvVars(v *viper.Viper) {
	// Server
	v.BindEnv("server.addr", "SERVER_ADDR")

	// Storage
	v.BindEnv("storage.backend", "STORAGE_BACKEND")
	v.BindEnv("storage.path", "STORAGE_PATH")

	// Redis
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.db", "REDIS_DB")

	// PostgreSQL
	v.BindEnv("postgres.host", "PG_HOST")
	v.BindEnv("postgres.user", "PG_USER")
	v.BindEnv("postgres.password", "PG_PASSWORD")
	v.BindEnv("postgres.database", "PG_DB")
	v.BindEnv("postgres.port", "PG_PORT")
	v.BindEnv("postgres.sslmode", "PG_SSLMODE")

	// NATS
	v.BindEnv("nats.host", "NATS_HOST")
	v.BindEnv("nats.port", "NATS_PORT")
	v.BindEnv("nats.user", "NATS_USER")
	v.BindEnv("nats.password", "NATS_PASSWORD")

	// Prometheus
	v.BindEnv("prometheus.port", "PROM_PORT")

	// Gemini: API_KEY is the name the original deployment used,
	// GEMINI_API_KEY is what the SDK documents. Accept both.
	v.BindEnv("ai.api_key", "GEMINI_API_KEY", "API_KEY")
	v.BindEnv("ai.model", "AI_MODEL")

	// Uploads
	v.BindEnv("upload.secret", "UPLOAD_SECRET")
	v.BindEnv("upload.ttl", "UPLOAD_TTL")

	// CDN
	v.BindEnv("cdn.base_url", "CDN_BASE_URL")

	// Simulation toggles
	v.BindEnv("latency.enabled", "SIMULATE_LATENCY")
	v.BindEnv("analytics.enabled", "ANALYTICS_ENABLED")
}
