package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Postgres PostgresConfig
	Ollama   OllamaConfig
	Chat     ChatConfig
	Holiday  HolidayConfig
	Models   ModelsConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
}

// PostgresConfig holds analytical store configuration
type PostgresConfig struct {
	DSN                string // full connection string (takes precedence)
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
	QueryTimeout       time.Duration
}

// OllamaConfig holds LLM backend configuration
type OllamaConfig struct {
	BaseURL        string
	Model          string
	ExtractTimeout time.Duration
	AnswerTimeout  time.Duration
}

// ChatConfig holds pipeline tuning knobs
type ChatConfig struct {
	// ResultRowCap bounds how many result rows are shown to the
	// answer model. The executor itself returns the full result.
	ResultRowCap int
}

// HolidayConfig locates the calendar feature table
type HolidayConfig struct {
	CSVPath string
}

// ModelsConfig locates the traffic model coefficient files
type ModelsConfig struct {
	ResidentPath string
	VisitorPath  string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8081),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Postgres: PostgresConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("PG_DSN", "")),
			Host:               getEnv("PG_HOST", "localhost"),
			Port:               getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "banff_city"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 25),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 5),
			QueryTimeout:       getEnvAsDuration("PG_QUERY_TIMEOUT", 15*time.Second),
		},
		Ollama: OllamaConfig{
			BaseURL:        getEnv("OLLAMA_HOST", "http://localhost:11434"),
			Model:          getEnv("OLLAMA_MODEL", "qwen2.5:3b"),
			ExtractTimeout: getEnvAsDuration("OLLAMA_EXTRACT_TIMEOUT", 40*time.Second),
			AnswerTimeout:  getEnvAsDuration("OLLAMA_ANSWER_TIMEOUT", 60*time.Second),
		},
		Chat: ChatConfig{
			ResultRowCap: getEnvAsInt("CHAT_RESULT_ROW_CAP", 20),
		},
		Holiday: HolidayConfig{
			CSVPath: getEnv("HOLIDAY_CSV_PATH", "data/banff_tourism_ml_features.csv"),
		},
		Models: ModelsConfig{
			ResidentPath: getEnv("RESIDENT_MODEL_PATH", "models/resident_model.json"),
			VisitorPath:  getEnv("VISITOR_MODEL_PATH", "models/visitor_model.json"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

// GetPostgresDSN returns the analytical store connection string
func (c *Config) GetPostgresDSN() string {
	if c.Postgres.DSN != "" {
		return c.Postgres.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Postgres.Host,
		c.Postgres.Port,
		c.Postgres.User,
		c.Postgres.Password,
		c.Postgres.Database,
		c.Postgres.SSLMode,
	)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration value for %s, using default %s", key, defaultValue)
		return defaultValue
	}
	return value
}
