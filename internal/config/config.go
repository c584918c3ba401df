// File: internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort   string
	Environment  string
	LogLevel     string
	JWTSecretKey string

	// Database
	DBDriver string // "sqlite" or "postgres"
	DBDSN    string

	// Completion provider
	CompletionProvider string // "redpill" or "openai"
	CompletionAPIKey   string
	CompletionBaseURL  string
	CompletionTimeout  time.Duration
	DefaultModel       string

	// Object storage (any S3-compatible endpoint)
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3Region    string
	S3UseSSL    bool
	S3PublicURL string

	// Optional Redis cache for the model list
	RedisAddr      string
	RedisPassword  string
	ModelsCacheTTL time.Duration

	MaxUploadBytes int64
	OTLPEndpoint   string
}

// Load reads configuration from environment variables or .env file.
func Load() *Config {
	env := os.Getenv("ENV")
	if strings.ToLower(env) != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	cfg := &Config{
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		Environment:  env,
		LogLevel:     getEnv("LOG_LEVEL", "INFO"),
		JWTSecretKey: getEnv("JWT_SECRET_KEY", ""),

		DBDriver: strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBDSN:    getEnv("DB_DSN", "chatnest.db"),

		CompletionProvider: strings.ToLower(getEnv("COMPLETION_PROVIDER", "redpill")),
		CompletionAPIKey:   getEnv("COMPLETION_API_KEY", getEnv("REDPILL_API_KEY", "")),
		CompletionBaseURL:  getEnv("COMPLETION_BASE_URL", "https://api.red-pill.ai/v1"),
		CompletionTimeout:  getEnvAsDuration("COMPLETION_TIMEOUT", 120*time.Second),
		DefaultModel:       getEnv("DEFAULT_MODEL", "gpt-3.5-turbo"),

		S3Endpoint:  getEnv("S3_ENDPOINT", "localhost:9000"),
		S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("S3_SECRET_KEY", ""),
		S3Bucket:    getEnv("S3_BUCKET", "chatnest-attachments"),
		S3Region:    getEnv("S3_REGION", ""),
		S3UseSSL:    getEnvAsBool("S3_USE_SSL", false),
		S3PublicURL: getEnv("S3_PUBLIC_URL", ""),

		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		ModelsCacheTTL: getEnvAsDuration("MODELS_CACHE_TTL", 10*time.Minute),

		MaxUploadBytes: int64(getEnvAsInt("MAX_UPLOAD_BYTES", 20<<20)),
		OTLPEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	// Validation for production environments
	if cfg.IsProduction() {
		if missing := cfg.missingProductionVars(); len(missing) > 0 {
			log.Fatalf("Missing required production environment variables: %v", missing)
		}
	}

	return cfg
}

// IsProduction reports whether ENV is set to production.
func (c *Config) IsProduction() bool {
	return strings.ToLower(c.Environment) == "production"
}

func (c *Config) missingProductionVars() []string {
	missing := []string{}
	if c.JWTSecretKey == "" {
		missing = append(missing, "JWT_SECRET_KEY")
	}
	if c.CompletionAPIKey == "" {
		missing = append(missing, "COMPLETION_API_KEY")
	}
	if c.S3AccessKey == "" {
		missing = append(missing, "S3_ACCESS_KEY")
	}
	if c.S3SecretKey == "" {
		missing = append(missing, "S3_SECRET_KEY")
	}
	return missing
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an env var as an integer, with a fallback.
func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as integer. Using default value.", key)
		return defaultValue
	}
	return intValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as bool. Using default value.", key)
		return defaultValue
	}
	return boolValue
}

// getEnvAsDuration accepts Go duration strings ("90s") or plain seconds ("90").
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(strValue); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.Printf("Warning: could not parse env var %s as duration. Using default value.", key)
	return defaultValue
}
