package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Audit    AuditConfig
	Archive  ArchiveConfig
	Worker   WorkerConfig
}

type ServerConfig struct {
	Host      string
	Port      int
	PublicURL string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	Secret string
}

type RedisConfig struct {
	Addr     string
	Password string
	Username string
	DB       int
}

// AuditConfig controls the audit recorder queue and retention.
type AuditConfig struct {
	Buffer           int
	ArchiveAfterDays int
}

// ArchiveConfig points at the S3-compatible bucket used for cold audit storage.
type ArchiveConfig struct {
	BucketName string `env:"ARCHIVE_BUCKET_NAME"`
	Endpoint   string `env:"ARCHIVE_ENDPOINT"`
	Region     string `env:"ARCHIVE_REGION"`
	AccessKey  string `env:"ARCHIVE_ACCESS_KEY"`
	SecretKey  string `env:"ARCHIVE_SECRET_KEY"`
}

type WorkerConfig struct {
	Concurrency int
	QueueSize   int
}

var (
	config *Config
	once   sync.Once
)

// GetConfig returns the singleton config instance
func GetConfig() *Config {
	once.Do(func() {
		config, _ = Load()
	})
	return config
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:      getEnv("SERVER_HOST", "localhost"),
			Port:      getEnvAsInt("SERVER_PORT", 8080),
			PublicURL: getEnv("PUBLIC_URL", "http://localhost:8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvAsInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Name:     getEnv("POSTGRES_DB", "passport"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
		},
		Redis: RedisConfig{
			Addr:     fmt.Sprintf("%s:%d", getEnv("REDIS_HOST", "localhost"), getEnvAsInt("REDIS_PORT", 6379)),
			Password: getEnv("REDIS_PASSWORD", ""),
			Username: getEnv("REDIS_USERNAME", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Audit: AuditConfig{
			Buffer:           getEnvAsInt("AUDIT_BUFFER", 256),
			ArchiveAfterDays: getEnvAsInt("AUDIT_ARCHIVE_AFTER_DAYS", 90),
		},
		Archive: ArchiveConfig{
			BucketName: getEnv("ARCHIVE_BUCKET_NAME", ""),
			Endpoint:   getEnv("ARCHIVE_ENDPOINT", ""),
			Region:     getEnv("ARCHIVE_REGION", ""),
			AccessKey:  getEnv("ARCHIVE_ACCESS_KEY", ""),
			SecretKey:  getEnv("ARCHIVE_SECRET_KEY", ""),
		},
		Worker: WorkerConfig{
			Concurrency: getEnvAsInt("WORKER_CONCURRENCY", 5),
			QueueSize:   getEnvAsInt("WORKER_QUEUE_SIZE", 100),
		},
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
