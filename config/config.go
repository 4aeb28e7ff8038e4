package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the YAML config file location
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched in order when CONFIG_PATH is not set
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/foodwise/config.yaml",
}

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	OpenAI    OpenAIConfig    `koanf:"openai"`
	Database  DatabaseConfig  `koanf:"database"`
	Vector    VectorConfig    `koanf:"vector"`
	UserData  UserDataConfig  `koanf:"userdata"`
	Redis     RedisConfig     `koanf:"redis"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            string        `koanf:"port" validate:"required,numeric"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	UpstreamTimeout time.Duration `koanf:"upstream_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// OpenAIConfig holds the Azure OpenAI deployment settings for chat and embeddings
type OpenAIConfig struct {
	Endpoint            string `koanf:"endpoint" validate:"required,url"`
	APIKey              string `koanf:"api_key" validate:"required"`
	ChatDeployment      string `koanf:"chat_deployment" validate:"required"`
	ChatAPIVersion      string `koanf:"chat_api_version" validate:"required"`
	EmbeddingDeployment string `koanf:"embedding_deployment" validate:"required"`
	EmbeddingAPIVersion string `koanf:"embedding_api_version" validate:"required"`
	MaxTokens           int    `koanf:"max_tokens" validate:"gt=0"`
	// EmbeddingCacheTTL of zero disables the Redis embedding cache
	EmbeddingCacheTTL time.Duration `koanf:"embedding_cache_ttl" validate:"gte=0"`
}

// DatabaseConfig configures the Postgres instance holding the recipe vectors
type DatabaseConfig struct {
	Host     string `koanf:"host" validate:"required"`
	Port     string `koanf:"port" validate:"required,numeric"`
	User     string `koanf:"user" validate:"required"`
	Password string `koanf:"password"`
	Name     string `koanf:"name" validate:"required"`
	SSLMode  string `koanf:"ssl_mode" validate:"oneof=disable allow prefer require verify-ca verify-full"`
}

// VectorConfig describes the recipe collection
type VectorConfig struct {
	Collection string `koanf:"collection" validate:"required,collection"`
	Dimension  int    `koanf:"dimension" validate:"gt=0"`
	Probes     int    `koanf:"probes" validate:"gt=0"`
	Lists      int    `koanf:"lists" validate:"gt=0"`
}

// UserDataConfig points at the static user profile dataset
type UserDataConfig struct {
	// Path is a local file path or an s3://bucket/key URI
	Path     string `koanf:"path" validate:"required"`
	S3Region string `koanf:"s3_region"`
}

// RedisConfig is optional; an empty URL disables every Redis-backed feature
type RedisConfig struct {
	URL string `koanf:"url"`
}

// RateLimitConfig configures the per-client request limiter
type RateLimitConfig struct {
	Enabled bool          `koanf:"enabled"`
	Limit   int           `koanf:"limit" validate:"gt=0"`
	Window  time.Duration `koanf:"window" validate:"gt=0"`
}

// LoggingConfig configures logrus
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json text"`
}

// DSN returns the Postgres connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            "8000",
			CORSOrigins:     []string{"http://localhost:5173"},
			UpstreamTimeout: 60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		OpenAI: OpenAIConfig{
			ChatAPIVersion:      "2024-02-15-preview",
			EmbeddingAPIVersion: "2023-05-15",
			MaxTokens:           2000,
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    "5432",
			User:    "postgres",
			Name:    "foodwise",
			SSLMode: "disable",
		},
		Vector: VectorConfig{
			Collection: "food_recipe_collection",
			Dimension:  1536,
			Probes:     10,
			Lists:      240,
		},
		UserData: UserDataConfig{
			Path: "data/people_data.json",
		},
		RateLimit: RateLimitConfig{
			Enabled: false,
			Limit:   60,
			Window:  time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// envMappings maps the deployment's environment variable names to koanf paths
var envMappings = map[string]string{
	"server_host":      "server.host",
	"server_port":      "server.port",
	"cors_origins":     "server.cors_origins",
	"upstream_timeout": "server.upstream_timeout",
	"shutdown_timeout": "server.shutdown_timeout",

	"azure_openai_endpoint":                    "openai.endpoint",
	"azure_openai_key":                         "openai.api_key",
	"azure_openai_chat_deployment":             "openai.chat_deployment",
	"azure_openai_api_version":                 "openai.chat_api_version",
	"azure_openai_embedding_model_deployment":  "openai.embedding_deployment",
	"azure_openai_embedding_model_api_version": "openai.embedding_api_version",
	"azure_openai_max_tokens":                  "openai.max_tokens",
	"embedding_cache_ttl":                      "openai.embedding_cache_ttl",

	"db_host":     "database.host",
	"db_port":     "database.port",
	"db_user":     "database.user",
	"db_password": "database.password",
	"db_name":     "database.name",
	"db_ssl_mode": "database.ssl_mode",

	"vector_collection": "vector.collection",
	"vector_dimension":  "vector.dimension",
	"vector_probes":     "vector.probes",
	"vector_lists":      "vector.lists",

	"user_data_path": "userdata.path",
	"aws_region":     "userdata.s3_region",

	"redis_url": "redis.url",

	"rate_limit_enabled": "ratelimit.enabled",
	"rate_limit_limit":   "ratelimit.limit",
	"rate_limit_window":  "ratelimit.window",

	"log_level":  "logging.level",
	"log_format": "logging.format",
}

// envTransformFunc maps an environment variable to its koanf path; unknown
// variables map to "" and are ignored by the provider.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// LoadConfig layers defaults, an optional YAML file and the environment, then
// fills secrets and validates the result.
func LoadConfig() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadDatabaseConfig loads the same layers as LoadConfig but validates only
// the database and vector sections, for tools that never call the model
// endpoints.
func LoadDatabaseConfig() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if err := ValidateDatabase(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := splitSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	loadSecrets(cfg)
	return cfg, nil
}

// sliceConfigPaths are read from the environment as comma-separated strings
var sliceConfigPaths = []string{
	"server.cors_origins",
}

func splitSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		raw, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := strings.Split(raw, ",")
		values := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				values = append(values, p)
			}
		}
		if err := k.Set(path, values); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// loadSecrets fills sensitive values that were not provided through the
// environment from *_FILE variables or Docker secrets.
func loadSecrets(cfg *Config) {
	if cfg.OpenAI.APIKey == "" {
		cfg.OpenAI.APIKey = secretFromFile("AZURE_OPENAI_KEY_FILE", "azure_openai_key")
	}
	if cfg.Database.Password == "" {
		cfg.Database.Password = secretFromFile("DB_PASSWORD_FILE", "db_password")
	}
}

func secretFromFile(fileVar, secretName string) string {
	if path := os.Getenv(fileVar); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			return strings.TrimSpace(string(data))
		}
	}
	return readSecret(secretName)
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	data, err := os.ReadFile(filepath.Join(secretsDir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
