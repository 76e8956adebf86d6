package config

import (
	"github.com/kelseyhightower/envconfig"
)

const (
	StorageBackendPostgres = "postgres"
	StorageBackendLocal    = "local"

	LocalStoreDriverFile  = "file"
	LocalStoreDriverRedis = "redis"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENV" default:"production"`

	// Storage settings
	StorageBackend     string `envconfig:"STORAGE_BACKEND" default:"postgres"`
	DBConnectionString string `envconfig:"DB_CONNECTION_STRING"`
	LocalStoreDriver   string `envconfig:"LOCAL_STORE_DRIVER" default:"file"`
	LocalStoreDir      string `envconfig:"LOCAL_STORE_DIR" default:"./data"`
	RedisAddr          string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPrefix        string `envconfig:"REDIS_PREFIX" default:"learnhub:"`

	// Auth service settings
	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	// AI provider settings. The key is optional here: its absence is reported
	// by the AI client on first use.
	AIProvider     string `envconfig:"AI_PROVIDER" default:"anthropic"`
	AIAPIKey       string `envconfig:"AI_API_KEY"`
	AIAPIURL       string `envconfig:"AI_API_URL" default:"https://api.anthropic.com/v1/messages"`
	AIModel        string `envconfig:"AI_MODEL" default:"claude-sonnet-4-20250514"`
	AIAPIKeySecret string `envconfig:"AI_API_KEY_SECRET"`

	// GCP settings
	GCPProjectID       string `envconfig:"GCP_PROJECT_ID"`
	EventsTopic        string `envconfig:"EVENTS_TOPIC" default:"learnhub-events"`
	PubSubEmulatorHost string `envconfig:"PUBSUB_EMULATOR_HOST"`

	// Course image storage (S3-compatible)
	S3URL       string `envconfig:"S3_URL"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"course-images"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey string `envconfig:"S3_SECRET_KEY"`
	// Base URL for public object links; path-style S3_URL when empty.
	S3PublicURL string `envconfig:"S3_PUBLIC_URL"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsDevelopment reports whether the app runs against local services.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// EventsEnabled reports whether domain events should be published.
func (c *Config) EventsEnabled() bool {
	return c.GCPProjectID != "" && c.EventsTopic != ""
}

// MediaEnabled reports whether course image uploads can be presigned.
func (c *Config) MediaEnabled() bool {
	return c.S3URL != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}
