package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	Storage       StorageConfig
	Assembly      AssemblyAIConfig
	Transcription TranscriptionConfig
	Scoring       ScoringConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	Host            string        `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string        `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string      `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout int           `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
	MaxUploadMB     int           `envconfig:"MAX_UPLOAD_MB" default:"25"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"60s"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string `envconfig:"DB_HOST" default:"localhost"`
	Port        string `envconfig:"DB_PORT" default:"5432"`
	User        string `envconfig:"DB_USER" default:"postgres"`
	Password    string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name        string `envconfig:"DB_NAME" default:"speech_coach"`
	SSLMode     string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns    int    `envconfig:"DB_MAX_CONNS" default:"10"`
	MinConns    int    `envconfig:"DB_MIN_CONNS" default:"2"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"false"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool   `envconfig:"REDIS_ENABLED" default:"false"`
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// StorageConfig holds object storage configuration
type StorageConfig struct {
	Enabled         bool   `envconfig:"STORAGE_ENABLED" default:"false"`
	Endpoint        string `envconfig:"STORAGE_ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string `envconfig:"STORAGE_ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string `envconfig:"STORAGE_SECRET_KEY" default:"minioadmin"`
	BucketName      string `envconfig:"STORAGE_BUCKET" default:"speech-recordings"`
	UseSSL          bool   `envconfig:"STORAGE_USE_SSL" default:"false"`
}

// AssemblyAIConfig holds AssemblyAI configuration
type AssemblyAIConfig struct {
	APIKey       string `envconfig:"ASSEMBLYAI_API_KEY"`
	BaseURL      string `envconfig:"ASSEMBLYAI_BASE_URL"`
	LanguageCode string `envconfig:"ASSEMBLYAI_LANGUAGE" default:"en"`
}

// TranscriptionConfig holds the self-hosted speech service configuration
type TranscriptionConfig struct {
	BaseURL string        `envconfig:"TRANSCRIPTION_URL" default:"http://localhost:9090"`
	Token   string        `envconfig:"TRANSCRIPTION_TOKEN"`
	Retries int           `envconfig:"TRANSCRIPTION_RETRIES" default:"2"`
	Backoff time.Duration `envconfig:"TRANSCRIPTION_BACKOFF" default:"500ms"`
}

// ScoringConfig holds scoring engine configuration
type ScoringConfig struct {
	ConfigTTL            time.Duration `envconfig:"SCORING_CONFIG_TTL" default:"60s"`
	ConfigSource         string        `envconfig:"SCORING_CONFIG_SOURCE" default:"postgres"` // postgres | defaults
	SharedCacheTTL       time.Duration `envconfig:"SCORING_SHARED_CACHE_TTL" default:"5m"`
	Transcriber          string        `envconfig:"SCORING_TRANSCRIBER" default:"none"` // assemblyai | http | none
	TranscriptionTimeout time.Duration `envconfig:"SCORING_TRANSCRIPTION_TIMEOUT" default:"30s"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{}
	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch strings.ToLower(c.Scoring.Transcriber) {
	case "none", "":
	case "assemblyai":
		if c.Assembly.APIKey == "" {
			return fmt.Errorf("ASSEMBLYAI_API_KEY is required when SCORING_TRANSCRIBER=assemblyai")
		}
	case "http":
		if c.Transcription.BaseURL == "" {
			return fmt.Errorf("TRANSCRIPTION_URL is required when SCORING_TRANSCRIBER=http")
		}
	default:
		return fmt.Errorf("unsupported SCORING_TRANSCRIBER %q", c.Scoring.Transcriber)
	}

	switch strings.ToLower(c.Scoring.ConfigSource) {
	case "postgres", "defaults":
	default:
		return fmt.Errorf("unsupported SCORING_CONFIG_SOURCE %q", c.Scoring.ConfigSource)
	}

	if c.Scoring.ConfigTTL <= 0 {
		return fmt.Errorf("SCORING_CONFIG_TTL must be positive")
	}
	if c.Scoring.TranscriptionTimeout <= 0 {
		return fmt.Errorf("SCORING_TRANSCRIPTION_TIMEOUT must be positive")
	}
	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}
