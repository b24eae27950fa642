package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/gogotex/docregistry/internal/storage"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Storage   StorageConfig
	Documents DocumentsConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	SQLite    SQLiteConfig
	Badger    BadgerConfig
	MinIO     storage.MinIOConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds the HTTP listener settings. Environment "production"
// switches gin to release mode.
type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// IsProduction reports whether the service runs in production.
func (s ServerConfig) IsProduction() bool { return s.Environment == "production" }

type LogConfig struct {
	Level  string
	Format string
}

// StorageConfig selects the repository backend and id scheme.
type StorageConfig struct {
	Backend  string
	IDScheme string
}

type DocumentsConfig struct {
	// RequireDescription makes description mandatory on create.
	RequireDescription bool
}

type MongoDBConfig struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Prefix   string
}

// Addr returns host:port.
func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

type SQLiteConfig struct {
	Path string
}

type BadgerConfig struct {
	Dir      string
	InMemory bool
}

type RateLimitConfig struct {
	Enabled       bool
	UseRedis      bool
	RPS           float64
	Burst         int
	WindowSeconds int
}

// Backends lists the supported STORAGE_BACKEND values.
var Backends = []string{"memory", "sqlite", "mongo", "redis", "badger", "minio"}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "5010")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")
	viper.SetDefault("STORAGE_BACKEND", "memory")
	viper.SetDefault("STORAGE_ID_SCHEME", "ulid")
	viper.SetDefault("DOCUMENTS_REQUIRE_DESCRIPTION", false)
	viper.SetDefault("MONGODB_DATABASE", "docregistry")
	viper.SetDefault("MONGODB_COLLECTION", "documents")
	viper.SetDefault("MONGODB_TIMEOUT", 10)
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_PREFIX", "docs:")
	viper.SetDefault("SQLITE_PATH", "data/documents.db")
	viper.SetDefault("BADGER_DIR", "data/badger")
	viper.SetDefault("MINIO_BUCKET", "docregistry")
	viper.SetDefault("MINIO_PREFIX", "documents/")
	viper.SetDefault("RATE_LIMIT_RPS", 10)
	viper.SetDefault("RATE_LIMIT_BURST", 20)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			Environment:  strings.ToLower(strings.TrimSpace(viper.GetString("SERVER_ENVIRONMENT"))),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
		},
		Storage: StorageConfig{
			Backend:  strings.ToLower(strings.TrimSpace(viper.GetString("STORAGE_BACKEND"))),
			IDScheme: strings.ToLower(strings.TrimSpace(viper.GetString("STORAGE_ID_SCHEME"))),
		},
		Documents: DocumentsConfig{
			RequireDescription: viper.GetBool("DOCUMENTS_REQUIRE_DESCRIPTION"),
		},
		MongoDB: MongoDBConfig{
			URI:        viper.GetString("MONGODB_URI"),
			Database:   viper.GetString("MONGODB_DATABASE"),
			Collection: viper.GetString("MONGODB_COLLECTION"),
			Timeout:    time.Duration(viper.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
			Prefix:   viper.GetString("REDIS_PREFIX"),
		},
		SQLite: SQLiteConfig{
			Path: viper.GetString("SQLITE_PATH"),
		},
		Badger: BadgerConfig{
			Dir:      viper.GetString("BADGER_DIR"),
			InMemory: viper.GetBool("BADGER_IN_MEMORY"),
		},
		MinIO: storage.MinIOConfig{
			Endpoint:  viper.GetString("MINIO_ENDPOINT"),
			AccessKey: viper.GetString("MINIO_ACCESS_KEY"),
			SecretKey: viper.GetString("MINIO_SECRET_KEY"),
			UseSSL:    viper.GetBool("MINIO_USE_SSL"),
			Bucket:    viper.GetString("MINIO_BUCKET"),
			Prefix:    viper.GetString("MINIO_PREFIX"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       viper.GetBool("RATE_LIMIT_ENABLED"),
			UseRedis:      viper.GetBool("RATE_LIMIT_USE_REDIS"),
			RPS:           viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         viper.GetInt("RATE_LIMIT_BURST"),
			WindowSeconds: viper.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected backend has what it needs.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "memory":
	case "sqlite":
		if c.SQLite.Path == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite backend")
		}
	case "mongo":
		if c.MongoDB.URI == "" {
			return fmt.Errorf("MONGODB_URI is required for the mongo backend")
		}
	case "redis":
		if c.Redis.Host == "" {
			return fmt.Errorf("REDIS_HOST is required for the redis backend")
		}
	case "badger":
		if c.Badger.Dir == "" && !c.Badger.InMemory {
			return fmt.Errorf("BADGER_DIR is required for the badger backend")
		}
	case "minio":
		if err := c.MinIO.Validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown storage backend: %q (supported: %s)", c.Storage.Backend, strings.Join(Backends, ", "))
	}
	if c.Storage.IDScheme != "ulid" && c.Storage.IDScheme != "uuid" {
		return fmt.Errorf("unknown id scheme: %q (supported: ulid, uuid)", c.Storage.IDScheme)
	}
	if c.RateLimit.Enabled && c.RateLimit.UseRedis && c.Redis.Host == "" {
		return fmt.Errorf("REDIS_HOST is required when RATE_LIMIT_USE_REDIS is set")
	}
	return nil
}
